package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lobofinance/lobo/internal/company"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListCompanies(ctx context.Context, userID uuid.UUID) ([]*company.Company, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at
		FROM companies
		WHERE user_id = $1
		ORDER BY created_at, name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}
	defer rows.Close()

	var out []*company.Company

	for rows.Next() {
		var c company.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning company: %w", err)
		}

		out = append(out, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating companies: %w", err)
	}

	return out, nil
}

func (s *Store) GetCompany(ctx context.Context, userID, id uuid.UUID) (*company.Company, error) {
	var c company.Company

	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at
		FROM companies
		WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, company.ErrNotFound
		}

		return nil, fmt.Errorf("getting company: %w", err)
	}

	return &c, nil
}

func (s *Store) CreateCompany(ctx context.Context, userID uuid.UUID, c *company.Company) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO companies (user_id, name, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`, userID, c.Name).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating company: %w", err)
	}

	return nil
}
