package domain

// InvoiceStatus represents the lifecycle of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusReminded1 InvoiceStatus = "reminded_1"
	InvoiceStatusReminded2 InvoiceStatus = "reminded_2"
	InvoiceStatusReminded3 InvoiceStatus = "reminded_3"
)

// ValidInvoiceStatuses lists every status an invoice may carry.
var ValidInvoiceStatuses = map[InvoiceStatus]bool{
	InvoiceStatusDraft:     true,
	InvoiceStatusSent:      true,
	InvoiceStatusPaid:      true,
	InvoiceStatusOverdue:   true,
	InvoiceStatusReminded1: true,
	InvoiceStatusReminded2: true,
	InvoiceStatusReminded3: true,
}

// RemindedStatus returns the status that corresponds to a sent reminder of the given stage.
func RemindedStatus(stage int) InvoiceStatus {
	switch stage {
	case 1:
		return InvoiceStatusReminded1
	case 2:
		return InvoiceStatusReminded2
	default:
		return InvoiceStatusReminded3
	}
}

// IsOpen reports whether the invoice has been issued and is still awaiting payment.
func (s InvoiceStatus) IsOpen() bool {
	return s != InvoiceStatusDraft && s != InvoiceStatusPaid
}

// DiscountKind discriminates the Discount variant.
type DiscountKind string

const (
	DiscountNone       DiscountKind = ""
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

// ZeroTaxClause identifies the legal clause an invoice without tax must carry.
type ZeroTaxClause string

const (
	ZeroTaxClauseNone ZeroTaxClause = "none"
	// ZeroTaxClauseSmallBusiness is the §19 UStG small-business exemption.
	ZeroTaxClauseSmallBusiness ZeroTaxClause = "small_business"
	// ZeroTaxClauseReverseCharge is the §13b UStG reverse-charge clause.
	ZeroTaxClauseReverseCharge ZeroTaxClause = "reverse_charge"
)

// MaxReminderStage is the last automatic dunning stage.
const MaxReminderStage = 3

// MoveDirection is used by the line item move operation.
type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)
