package calc

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"faktura/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// TaxRatePolicy lists the VAT rates an invoice line may carry and the rate used
// for new lines when none is given.
type TaxRatePolicy struct {
	DefaultRate  decimal.Decimal
	AllowedRates []decimal.Decimal
}

// DefaultTaxRatePolicy returns the German VAT rates: 19% standard, 7% reduced, 0%.
func DefaultTaxRatePolicy() TaxRatePolicy {
	return TaxRatePolicy{
		DefaultRate: decimal.NewFromInt(19),
		AllowedRates: []decimal.Decimal{
			decimal.Zero,
			decimal.NewFromInt(7),
			decimal.NewFromInt(19),
		},
	}
}

// ParseTaxRatePolicy builds a policy from textual rates, e.g. "19" and ["0", "7", "19"].
func ParseTaxRatePolicy(defaultRate string, allowed []string) (TaxRatePolicy, error) {
	def, err := decimal.NewFromString(strings.TrimSpace(defaultRate))
	if err != nil {
		return TaxRatePolicy{}, domain.NewConfigurationError("tax.default_rate", "invalid rate %q", defaultRate)
	}
	rates := make([]decimal.Decimal, 0, len(allowed))
	for _, raw := range allowed {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		r, err := decimal.NewFromString(raw)
		if err != nil {
			return TaxRatePolicy{}, domain.NewConfigurationError("tax.allowed_rates", "invalid rate %q", raw)
		}
		rates = append(rates, r)
	}
	p := TaxRatePolicy{DefaultRate: def, AllowedRates: rates}
	if err := p.Validate(); err != nil {
		return TaxRatePolicy{}, err
	}
	return p, nil
}

// Validate checks that all rates lie in [0, 100] and the default rate is allowed.
func (p TaxRatePolicy) Validate() error {
	for _, r := range append([]decimal.Decimal{p.DefaultRate}, p.AllowedRates...) {
		if r.IsNegative() || r.GreaterThan(hundred) {
			return domain.NewConfigurationError("tax", "rate %s must be between 0 and 100", r)
		}
	}
	if !p.Allows(p.DefaultRate) {
		return domain.NewConfigurationError("tax.default_rate", "rate %s is not in the allowed rates", p.DefaultRate)
	}
	return nil
}

// Allows reports whether rate may be used on a line. An empty allow list accepts
// any rate between 0 and 100.
func (p TaxRatePolicy) Allows(rate decimal.Decimal) bool {
	if len(p.AllowedRates) == 0 {
		return !rate.IsNegative() && rate.LessThanOrEqual(hundred)
	}
	return lo.ContainsBy(p.AllowedRates, func(r decimal.Decimal) bool { return r.Equal(rate) })
}

func (p TaxRatePolicy) String() string {
	return fmt.Sprintf("default=%s allowed=%v", p.DefaultRate, p.AllowedRates)
}
