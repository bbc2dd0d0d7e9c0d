package handler

import (
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"faktura/internal/domain"
	"faktura/internal/service"
)

// Request bodies. They double as swag definitions for the API documentation.

// ReminderPolicyRequest represents the reminder policy of a company.
type ReminderPolicyRequest struct {
	Enabled           bool            `json:"enabled" example:"true"`
	DaysAfterDue      int             `json:"days_after_due" example:"7"`
	DaysBetweenStages int             `json:"days_between_stages" example:"14"`
	FeeStage1         decimal.Decimal `json:"fee_stage_1" swaggertype:"string" example:"0.00"`
	FeeStage2         decimal.Decimal `json:"fee_stage_2" swaggertype:"string" example:"5.00"`
	FeeStage3         decimal.Decimal `json:"fee_stage_3" swaggertype:"string" example:"10.00"`
}

func (r ReminderPolicyRequest) toDomain() domain.ReminderPolicy {
	return domain.ReminderPolicy{
		Enabled:           r.Enabled,
		DaysAfterDue:      r.DaysAfterDue,
		DaysBetweenStages: r.DaysBetweenStages,
		FeeStage1:         r.FeeStage1,
		FeeStage2:         r.FeeStage2,
		FeeStage3:         r.FeeStage3,
	}
}

// CompanyRequest represents the create and update company request body.
type CompanyRequest struct {
	Name             string                `json:"name" binding:"required" example:"Muster GmbH"`
	Email            string                `json:"email" example:"buchhaltung@muster.de"`
	DiscountsEnabled bool                  `json:"discounts_enabled" example:"true"`
	IsSmallBusiness  bool                  `json:"is_small_business" example:"false"`
	ReminderPolicy   ReminderPolicyRequest `json:"reminder_policy"`
}

// DiscountRequest represents an item or invoice discount.
type DiscountRequest struct {
	Kind  domain.DiscountKind `json:"kind" example:"percentage"`
	Value decimal.Decimal     `json:"value" swaggertype:"string" example:"10"`
}

func (r *DiscountRequest) toDomain() domain.Discount {
	if r == nil {
		return domain.NoDiscount()
	}
	return domain.Discount{Kind: r.Kind, Value: r.Value}
}

// LineItemRequest represents one line item in an invoice request.
type LineItemRequest struct {
	ID             *uuid.UUID       `json:"id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Description    string           `json:"description" example:"Beratung"`
	Quantity       decimal.Decimal  `json:"quantity" swaggertype:"string" example:"2"`
	UnitPrice      decimal.Decimal  `json:"unit_price" swaggertype:"string" example:"50.00"`
	TaxRatePercent *decimal.Decimal `json:"tax_rate_percent,omitempty" swaggertype:"string" example:"19"`
	Discount       *DiscountRequest `json:"discount,omitempty"`
}

func toLineItemInputs(items []LineItemRequest) []service.LineItemInput {
	return lo.Map(items, func(it LineItemRequest, _ int) service.LineItemInput {
		return service.LineItemInput{
			ID:             it.ID,
			Description:    it.Description,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			TaxRatePercent: it.TaxRatePercent,
			Discount:       it.Discount.toDomain(),
		}
	})
}

// CreateInvoiceRequest represents the create invoice request body.
type CreateInvoiceRequest struct {
	CompanyID      uuid.UUID         `json:"company_id" binding:"required" example:"660e8400-e29b-41d4-a716-446655440001"`
	Number         string            `json:"number" binding:"required" example:"RE-2025-001"`
	CustomerName   string            `json:"customer_name" binding:"required" example:"Erika Mustermann"`
	CustomerEmail  string            `json:"customer_email" example:"erika@example.de"`
	DueDate        string            `json:"due_date" binding:"required" example:"2025-03-31"`
	Items          []LineItemRequest `json:"items"`
	GlobalDiscount *DiscountRequest  `json:"global_discount,omitempty"`
}

// UpdateItemsRequest replaces the items and global discount of a draft invoice.
type UpdateItemsRequest struct {
	Version        int               `json:"version" example:"3"`
	Items          []LineItemRequest `json:"items"`
	GlobalDiscount *DiscountRequest  `json:"global_discount,omitempty"`
}

// ReorderItemsRequest lists every item ID of the invoice in the new order.
type ReorderItemsRequest struct {
	ItemIDs []uuid.UUID `json:"item_ids" binding:"required"`
}

// MoveItemRequest moves one item a single position.
type MoveItemRequest struct {
	Direction domain.MoveDirection `json:"direction" binding:"required" example:"up"`
}

// SendInvoiceRequest marks a draft as sent. IssueDate defaults to today.
type SendInvoiceRequest struct {
	IssueDate string `json:"issue_date" example:"2025-03-01"`
}

// PayInvoiceRequest marks an invoice as paid. PaidAt defaults to today.
type PayInvoiceRequest struct {
	PaidAt string `json:"paid_at" example:"2025-03-20"`
}
