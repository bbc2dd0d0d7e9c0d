package calc

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"faktura/internal/domain"
)

// moneyPlaces is the number of decimal places amounts are reported with.
const moneyPlaces = 2

// Calculator computes invoice totals. It holds no mutable state and is safe for
// concurrent use.
type Calculator struct {
	policy TaxRatePolicy
}

// NewCalculator creates a Calculator that accepts the rates of policy.
func NewCalculator(policy TaxRatePolicy) *Calculator {
	return &Calculator{policy: policy}
}

// Policy returns the tax rate policy of the calculator.
func (c *Calculator) Policy() TaxRatePolicy { return c.policy }

type rateGroup struct {
	rate    decimal.Decimal
	taxable decimal.Decimal
}

// ComputeTotals derives subtotal, discounts, the per-rate tax breakdown and the grand
// total from items. When forceZeroTax is set every line is taxed at 0% regardless
// of its configured rate (small-business rule); the items are not modified.
//
// Intermediate values are kept unrounded. Reported amounts are rounded half-up to two
// places; tax is rounded per rate and the invoice tax is the sum of the rounded rates.
func (c *Calculator) ComputeTotals(items []domain.LineItem, global domain.Discount, forceZeroTax bool) (*domain.InvoiceTotals, error) {
	if err := c.Validate(items, global); err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	itemDiscountTotal := decimal.Zero
	beforeGlobal := decimal.Zero
	groups := make(map[string]*rateGroup)
	allZero := true

	for i := range items {
		item := &items[i]
		lineTotal := item.Quantity.Mul(item.UnitPrice)
		discount := discountAmount(lineTotal, item.Discount)
		net := lineTotal.Sub(discount)

		rate := item.TaxRatePercent
		if forceZeroTax {
			rate = decimal.Zero
		}
		if !rate.IsZero() {
			allZero = false
		}

		subtotal = subtotal.Add(lineTotal)
		itemDiscountTotal = itemDiscountTotal.Add(discount)
		beforeGlobal = beforeGlobal.Add(net)

		key := rate.String()
		g, ok := groups[key]
		if !ok {
			g = &rateGroup{rate: rate, taxable: decimal.Zero}
			groups[key] = g
		}
		g.taxable = g.taxable.Add(net)
	}

	globalAmount := decimal.Zero
	if !beforeGlobal.IsZero() {
		globalAmount = discountAmount(beforeGlobal, global)
	}
	discounted := beforeGlobal.Sub(globalAmount)

	ordered := lo.Values(groups)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].rate.GreaterThan(ordered[j].rate) })

	breakdown := make([]domain.TaxBreakdownEntry, 0, len(ordered))
	taxAmount := decimal.Zero
	for _, g := range ordered {
		taxable := g.taxable
		if !globalAmount.IsZero() {
			// Same as taxable * (1 - global/beforeGlobal) without rounding the ratio.
			taxable = taxable.Mul(discounted).Div(beforeGlobal)
		}
		tax := round(taxable.Mul(g.rate).Div(hundred))
		taxAmount = taxAmount.Add(tax)
		breakdown = append(breakdown, domain.TaxBreakdownEntry{
			RatePercent:   g.rate,
			TaxableAmount: round(taxable),
			TaxAmount:     tax,
		})
	}

	reportedSubtotal := round(subtotal)
	reportedItemDiscount := round(itemDiscountTotal)
	// Rounding the item discounts can leave a cent less than the rounded global amount
	// when the global discount consumes the whole remainder.
	reportedGlobal := decimal.Min(round(globalAmount), reportedSubtotal.Sub(reportedItemDiscount))
	reportedDiscounted := reportedSubtotal.Sub(reportedItemDiscount).Sub(reportedGlobal)

	return &domain.InvoiceTotals{
		Subtotal:             reportedSubtotal,
		ItemDiscountTotal:    reportedItemDiscount,
		GlobalDiscountAmount: reportedGlobal,
		DiscountedSubtotal:   reportedDiscounted,
		TaxBreakdown:         breakdown,
		TaxAmount:            taxAmount,
		Total:                reportedDiscounted.Add(taxAmount),
		AppliesZeroTaxClause: len(items) > 0 && allZero,
		ForceZeroTax:         forceZeroTax,
	}, nil
}

// Validate rejects negative amounts, percentages above 100 and tax rates the policy
// does not allow. Values are never clamped.
func (c *Calculator) Validate(items []domain.LineItem, global domain.Discount) error {
	for i := range items {
		item := &items[i]
		prefix := fmt.Sprintf("items[%d]", i)
		if item.Quantity.IsNegative() {
			return domain.NewValidationError(prefix+".quantity", "must not be negative")
		}
		if item.UnitPrice.IsNegative() {
			return domain.NewValidationError(prefix+".unit_price", "must not be negative")
		}
		if !c.policy.Allows(item.TaxRatePercent) {
			return domain.NewValidationError(prefix+".tax_rate_percent", "rate %s is not allowed", item.TaxRatePercent)
		}
		if err := validateDiscount(prefix+".discount", item.Discount); err != nil {
			return err
		}
	}
	return validateDiscount("global_discount", global)
}

// ZeroTaxClause tells which legal clause the invoice must carry when no tax applies.
func ZeroTaxClause(t *domain.InvoiceTotals) domain.ZeroTaxClause {
	switch {
	case t == nil || !t.AppliesZeroTaxClause:
		return domain.ZeroTaxClauseNone
	case t.ForceZeroTax:
		return domain.ZeroTaxClauseSmallBusiness
	default:
		return domain.ZeroTaxClauseReverseCharge
	}
}

// SnapshotMatches reports whether the stored subtotal, tax and total of inv equal
// the freshly computed totals.
func SnapshotMatches(inv *domain.Invoice, t *domain.InvoiceTotals) bool {
	return inv.Subtotal.Equal(t.Subtotal) &&
		inv.TaxAmount.Equal(t.TaxAmount) &&
		inv.Total.Equal(t.Total)
}

func validateDiscount(field string, d domain.Discount) error {
	switch d.Kind {
	case domain.DiscountNone:
		return nil
	case domain.DiscountPercentage:
		if d.Value.IsNegative() {
			return domain.NewValidationError(field+".value", "must not be negative")
		}
		if d.Value.GreaterThan(hundred) {
			return domain.NewValidationError(field+".value", "percentage must not exceed 100")
		}
	case domain.DiscountFixed:
		if d.Value.IsNegative() {
			return domain.NewValidationError(field+".value", "must not be negative")
		}
	default:
		return domain.NewValidationError(field+".kind", "unknown discount kind %q", d.Kind)
	}
	return nil
}

// discountAmount returns the effective discount on base, never more than base.
func discountAmount(base decimal.Decimal, d domain.Discount) decimal.Decimal {
	var amount decimal.Decimal
	switch d.Kind {
	case domain.DiscountPercentage:
		amount = base.Mul(d.Value).Div(hundred)
	case domain.DiscountFixed:
		amount = d.Value
	default:
		return decimal.Zero
	}
	return decimal.Min(base, amount)
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}
