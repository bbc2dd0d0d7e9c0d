package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"faktura/internal/domain"
	"faktura/internal/port"
	"faktura/internal/reminder"
)

// CreateCompanyInput is the DTO for creating a company.
type CreateCompanyInput struct {
	Name             string
	Email            string
	DiscountsEnabled bool
	IsSmallBusiness  bool
	ReminderPolicy   domain.ReminderPolicy
}

// UpdateCompanyInput is the DTO for updating a company.
type UpdateCompanyInput struct {
	CompanyID        uuid.UUID
	Name             string
	Email            string
	DiscountsEnabled bool
	IsSmallBusiness  bool
	ReminderPolicy   domain.ReminderPolicy
}

// CompanyService defines the company management contract.
type CompanyService interface {
	Create(ctx context.Context, input *CreateCompanyInput) (*domain.Company, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error)
	List(ctx context.Context, offset, limit int) ([]domain.Company, int, error)
	Update(ctx context.Context, input *UpdateCompanyInput) (*domain.Company, error)
}

type companyService struct {
	companyRepo port.CompanyRepository
	logger      *zap.Logger
}

// NewCompanyService creates a new CompanyService implementation.
func NewCompanyService(companyRepo port.CompanyRepository, logger *zap.Logger) CompanyService {
	return &companyService{companyRepo: companyRepo, logger: logger}
}

func (s *companyService) Create(ctx context.Context, input *CreateCompanyInput) (*domain.Company, error) {
	company := &domain.Company{
		ID:               uuid.New(),
		Name:             strings.TrimSpace(input.Name),
		Email:            strings.TrimSpace(input.Email),
		DiscountsEnabled: input.DiscountsEnabled,
		IsSmallBusiness:  input.IsSmallBusiness,
		ReminderPolicy:   input.ReminderPolicy,
	}
	if err := validateCompany(company); err != nil {
		return nil, err
	}

	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, fmt.Errorf("creating company: %w", err)
	}
	s.logger.Info("company created", zap.String("company_id", company.ID.String()))
	return company, nil
}

func (s *companyService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	return s.companyRepo.GetByID(ctx, id)
}

func (s *companyService) List(ctx context.Context, offset, limit int) ([]domain.Company, int, error) {
	return s.companyRepo.List(ctx, offset, limit)
}

func (s *companyService) Update(ctx context.Context, input *UpdateCompanyInput) (*domain.Company, error) {
	company, err := s.companyRepo.GetByID(ctx, input.CompanyID)
	if err != nil {
		return nil, err
	}

	company.Name = strings.TrimSpace(input.Name)
	company.Email = strings.TrimSpace(input.Email)
	company.DiscountsEnabled = input.DiscountsEnabled
	company.IsSmallBusiness = input.IsSmallBusiness
	company.ReminderPolicy = input.ReminderPolicy
	if err := validateCompany(company); err != nil {
		return nil, err
	}

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, fmt.Errorf("updating company: %w", err)
	}
	return company, nil
}

func validateCompany(c *domain.Company) error {
	if c.Name == "" {
		return domain.NewValidationError("name", "is required")
	}
	return reminder.ValidatePolicy(c.ReminderPolicy)
}
