package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Company holds the company-scoped settings the invoicing engine depends on.
type Company struct {
	ID               uuid.UUID      `json:"id"`
	Name             string         `json:"name"`
	Email            string         `json:"email"`
	DiscountsEnabled bool           `json:"discounts_enabled"`
	IsSmallBusiness  bool           `json:"is_small_business"`
	ReminderPolicy   ReminderPolicy `json:"reminder_policy"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// ReminderPolicy configures timing and fees of the dunning process.
type ReminderPolicy struct {
	Enabled           bool            `json:"enabled"`
	DaysAfterDue      int             `json:"days_after_due"`
	DaysBetweenStages int             `json:"days_between_stages"`
	FeeStage1         decimal.Decimal `json:"fee_stage_1"`
	FeeStage2         decimal.Decimal `json:"fee_stage_2"`
	FeeStage3         decimal.Decimal `json:"fee_stage_3"`
}

// Fee returns the configured fee for a reminder stage.
func (p ReminderPolicy) Fee(stage int) decimal.Decimal {
	switch stage {
	case 1:
		return p.FeeStage1
	case 2:
		return p.FeeStage2
	case 3:
		return p.FeeStage3
	default:
		return decimal.Zero
	}
}

// Discount is a tagged variant: no discount, a percentage, or a fixed amount.
// The zero value means no discount.
type Discount struct {
	Kind  DiscountKind    `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// NoDiscount returns the empty discount.
func NoDiscount() Discount { return Discount{} }

// PercentageDiscount returns a discount of value percent.
func PercentageDiscount(value decimal.Decimal) Discount {
	return Discount{Kind: DiscountPercentage, Value: value}
}

// FixedDiscount returns a discount of a fixed amount.
func FixedDiscount(value decimal.Decimal) Discount {
	return Discount{Kind: DiscountFixed, Value: value}
}

// IsNone reports whether no discount is configured.
func (d Discount) IsNone() bool { return d.Kind == DiscountNone }

// LineItem is one billable row on an invoice.
type LineItem struct {
	ID             uuid.UUID       `json:"id"`
	Description    string          `json:"description"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent"`
	Discount       Discount        `json:"discount"`
	Order          int             `json:"order"`
}

// Invoice is an invoice with its line items. Subtotal, TaxAmount and Total are the
// snapshot stored at save time; Totals is recomputed on every read.
type Invoice struct {
	ID                 uuid.UUID       `json:"id"`
	CompanyID          uuid.UUID       `json:"company_id"`
	Number             string          `json:"number"`
	CustomerName       string          `json:"customer_name"`
	CustomerEmail      string          `json:"customer_email"`
	Status             InvoiceStatus   `json:"status"`
	IssueDate          *time.Time      `json:"issue_date"`
	DueDate            time.Time       `json:"due_date"`
	Items              []LineItem      `json:"items"`
	GlobalDiscount     Discount        `json:"global_discount"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	TaxAmount          decimal.Decimal `json:"tax_amount"`
	Total              decimal.Decimal `json:"total"`
	MaxReminderStage   int             `json:"max_reminder_stage"`
	LastReminderSentAt *time.Time      `json:"last_reminder_sent_at"`
	PaidAt             *time.Time      `json:"paid_at"`
	Version            int             `json:"version"`
	Totals             *InvoiceTotals  `json:"totals,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// ReminderState extracts the dunning-relevant state of the invoice.
func (inv *Invoice) ReminderState() ReminderState {
	return ReminderState{
		InvoiceID:               inv.ID,
		Status:                  inv.Status,
		DueDate:                 inv.DueDate,
		LastReminderSentAt:      inv.LastReminderSentAt,
		MaxReminderStageReached: inv.MaxReminderStage,
	}
}

// ApplyReminderState copies a dunning state back onto the invoice.
func (inv *Invoice) ApplyReminderState(s ReminderState) {
	inv.Status = s.Status
	inv.LastReminderSentAt = s.LastReminderSentAt
	inv.MaxReminderStage = s.MaxReminderStageReached
}

// TaxBreakdownEntry holds the taxable and tax amount of one tax rate.
type TaxBreakdownEntry struct {
	RatePercent   decimal.Decimal `json:"rate_percent"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
}

// InvoiceTotals is the computed financial breakdown of an invoice.
type InvoiceTotals struct {
	Subtotal             decimal.Decimal     `json:"subtotal"`
	ItemDiscountTotal    decimal.Decimal     `json:"item_discount_total"`
	GlobalDiscountAmount decimal.Decimal     `json:"global_discount_amount"`
	DiscountedSubtotal   decimal.Decimal     `json:"discounted_subtotal"`
	TaxBreakdown         []TaxBreakdownEntry `json:"tax_breakdown"`
	TaxAmount            decimal.Decimal     `json:"tax_amount"`
	Total                decimal.Decimal     `json:"total"`
	AppliesZeroTaxClause bool                `json:"applies_zero_tax_clause"`
	ForceZeroTax         bool                `json:"force_zero_tax"`
}

// ReminderState is the per-invoice dunning state.
// MaxReminderStageReached never decreases, even after the invoice is paid.
type ReminderState struct {
	InvoiceID               uuid.UUID     `json:"invoice_id"`
	Status                  InvoiceStatus `json:"status"`
	DueDate                 time.Time     `json:"due_date"`
	LastReminderSentAt      *time.Time    `json:"last_reminder_sent_at,omitempty"`
	MaxReminderStageReached int           `json:"max_reminder_stage_reached"`
}

// EligibilityReason explains the outcome of a reminder evaluation.
type EligibilityReason string

const (
	EligibilityReasonEligible          EligibilityReason = "eligible"
	EligibilityReasonPolicyDisabled    EligibilityReason = "policy_disabled"
	EligibilityReasonStatus            EligibilityReason = "status_not_remindable"
	EligibilityReasonNotDue            EligibilityReason = "not_due"
	EligibilityReasonTooEarly          EligibilityReason = "too_early"
	EligibilityReasonFinalStageReached EligibilityReason = "final_stage_reached"
)

// ReminderEligibility is the advisory result of evaluating an invoice for dunning.
type ReminderEligibility struct {
	InvoiceID             uuid.UUID         `json:"invoice_id"`
	NextStage             int               `json:"next_stage"`
	IsEligible            bool              `json:"is_eligible"`
	DaysSinceDue          int               `json:"days_since_due"`
	DaysSinceLastReminder *int              `json:"days_since_last_reminder,omitempty"`
	NextEligibleDate      *time.Time        `json:"next_eligible_date,omitempty"`
	Fee                   decimal.Decimal   `json:"fee"`
	Reason                EligibilityReason `json:"reason"`
}

// Reminder records a payment reminder that was issued for an invoice.
type Reminder struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	InvoiceID uuid.UUID       `db:"invoice_id" json:"invoice_id"`
	CompanyID uuid.UUID       `db:"company_id" json:"company_id"`
	Stage     int             `db:"stage" json:"stage"`
	Fee       decimal.Decimal `db:"fee" json:"fee"`
	SentAt    time.Time       `db:"sent_at" json:"sent_at"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// DueReminder is an eligible reminder together with the invoice details shown in lists.
type DueReminder struct {
	ReminderEligibility
	InvoiceNumber string          `json:"invoice_number"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	DueDate       time.Time       `json:"due_date"`
	Total         decimal.Decimal `json:"total"`
}
