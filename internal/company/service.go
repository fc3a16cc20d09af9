// Package company manages the companies a user keeps books for.
package company

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lobofinance/lobo/internal/tenant"
)

var (
	ErrNotFound     = errors.New("company not found")
	ErrNameRequired = errors.New("company name is required")
)

type Company struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Repository interface {
	ListCompanies(ctx context.Context, userID uuid.UUID) ([]*Company, error)
	GetCompany(ctx context.Context, userID, id uuid.UUID) (*Company, error)
	CreateCompany(ctx context.Context, userID uuid.UUID, c *Company) error
}

// Seeder fills a new company with its starter catalog.
type Seeder interface {
	SeedDefaults(ctx context.Context, scope tenant.Scope) error
}

type Service struct {
	repo   Repository
	seeder Seeder
}

func NewService(repo Repository, seeder Seeder) *Service {
	return &Service{repo: repo, seeder: seeder}
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Company, error) {
	return s.repo.ListCompanies(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Company, error) {
	return s.repo.GetCompany(ctx, userID, id)
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, name string) (*Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	c := &Company{Name: name}
	if err := s.repo.CreateCompany(ctx, userID, c); err != nil {
		return nil, err
	}

	if err := s.seeder.SeedDefaults(ctx, tenant.Scope{UserID: userID, CompanyID: c.ID}); err != nil {
		return nil, fmt.Errorf("seeding catalog for company %s: %w", c.ID, err)
	}

	return c, nil
}
