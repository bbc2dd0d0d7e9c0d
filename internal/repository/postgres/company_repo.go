package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"faktura/internal/domain"
	"faktura/internal/port"
)

type companyRow struct {
	ID                        uuid.UUID       `db:"id"`
	Name                      string          `db:"name"`
	Email                     string          `db:"email"`
	DiscountsEnabled          bool            `db:"discounts_enabled"`
	IsSmallBusiness           bool            `db:"is_small_business"`
	ReminderEnabled           bool            `db:"reminder_enabled"`
	ReminderDaysAfterDue      int             `db:"reminder_days_after_due"`
	ReminderDaysBetweenStages int             `db:"reminder_days_between_stages"`
	ReminderFeeStage1         decimal.Decimal `db:"reminder_fee_stage_1"`
	ReminderFeeStage2         decimal.Decimal `db:"reminder_fee_stage_2"`
	ReminderFeeStage3         decimal.Decimal `db:"reminder_fee_stage_3"`
	CreatedAt                 time.Time       `db:"created_at"`
	UpdatedAt                 time.Time       `db:"updated_at"`
}

func (r companyRow) toDomain() domain.Company {
	return domain.Company{
		ID:               r.ID,
		Name:             r.Name,
		Email:            r.Email,
		DiscountsEnabled: r.DiscountsEnabled,
		IsSmallBusiness:  r.IsSmallBusiness,
		ReminderPolicy: domain.ReminderPolicy{
			Enabled:           r.ReminderEnabled,
			DaysAfterDue:      r.ReminderDaysAfterDue,
			DaysBetweenStages: r.ReminderDaysBetweenStages,
			FeeStage1:         r.ReminderFeeStage1,
			FeeStage2:         r.ReminderFeeStage2,
			FeeStage3:         r.ReminderFeeStage3,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type companyRepo struct {
	db *sqlx.DB
}

// NewCompanyRepo creates a new PostgreSQL-backed CompanyRepository.
func NewCompanyRepo(db *sqlx.DB) port.CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) Create(ctx context.Context, c *domain.Company) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	p := c.ReminderPolicy

	query := `INSERT INTO companies (
		id, name, email, discounts_enabled, is_small_business,
		reminder_enabled, reminder_days_after_due, reminder_days_between_stages,
		reminder_fee_stage_1, reminder_fee_stage_2, reminder_fee_stage_3,
		created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Email, c.DiscountsEnabled, c.IsSmallBusiness,
		p.Enabled, p.DaysAfterDue, p.DaysBetweenStages,
		p.FeeStage1, p.FeeStage2, p.FeeStage3,
		c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("companyRepo.Create: %w", err)
	}
	return nil
}

func (r *companyRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	var row companyRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM companies WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("companyRepo.GetByID: %w", err)
	}
	c := row.toDomain()
	return &c, nil
}

func (r *companyRepo) List(ctx context.Context, offset, limit int) ([]domain.Company, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM companies"); err != nil {
		return nil, 0, fmt.Errorf("companyRepo.List count: %w", err)
	}

	var rows []companyRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM companies ORDER BY name ASC, id ASC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("companyRepo.List: %w", err)
	}
	return lo.Map(rows, func(row companyRow, _ int) domain.Company { return row.toDomain() }), total, nil
}

func (r *companyRepo) Update(ctx context.Context, c *domain.Company) error {
	c.UpdatedAt = time.Now().UTC()
	p := c.ReminderPolicy

	result, err := r.db.ExecContext(ctx,
		`UPDATE companies SET
			name = $1, email = $2, discounts_enabled = $3, is_small_business = $4,
			reminder_enabled = $5, reminder_days_after_due = $6, reminder_days_between_stages = $7,
			reminder_fee_stage_1 = $8, reminder_fee_stage_2 = $9, reminder_fee_stage_3 = $10,
			updated_at = $11
		 WHERE id = $12`,
		c.Name, c.Email, c.DiscountsEnabled, c.IsSmallBusiness,
		p.Enabled, p.DaysAfterDue, p.DaysBetweenStages,
		p.FeeStage1, p.FeeStage2, p.FeeStage3,
		c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("companyRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrCompanyNotFound
	}
	return nil
}

func (r *companyRepo) ListReminderEnabled(ctx context.Context) ([]domain.Company, error) {
	var rows []companyRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM companies WHERE reminder_enabled = TRUE ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("companyRepo.ListReminderEnabled: %w", err)
	}
	return lo.Map(rows, func(row companyRow, _ int) domain.Company { return row.toDomain() }), nil
}
