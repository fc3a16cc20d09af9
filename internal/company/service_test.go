package company_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lobofinance/lobo/internal/company"
	"github.com/lobofinance/lobo/internal/tenant"
)

type fakeRepo struct {
	companies map[uuid.UUID]*company.Company
	owners    map[uuid.UUID]uuid.UUID
	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		companies: make(map[uuid.UUID]*company.Company),
		owners:    make(map[uuid.UUID]uuid.UUID),
	}
}

func (f *fakeRepo) ListCompanies(_ context.Context, userID uuid.UUID) ([]*company.Company, error) {
	var out []*company.Company

	for id, owner := range f.owners {
		if owner == userID {
			out = append(out, f.companies[id])
		}
	}

	return out, nil
}

func (f *fakeRepo) GetCompany(_ context.Context, userID, id uuid.UUID) (*company.Company, error) {
	if f.owners[id] != userID {
		return nil, company.ErrNotFound
	}

	return f.companies[id], nil
}

func (f *fakeRepo) CreateCompany(_ context.Context, userID uuid.UUID, c *company.Company) error {
	if f.createErr != nil {
		return f.createErr
	}

	c.ID = uuid.New()
	f.companies[c.ID] = c
	f.owners[c.ID] = userID

	return nil
}

type fakeSeeder struct {
	seeded []tenant.Scope
	err    error
}

func (f *fakeSeeder) SeedDefaults(_ context.Context, scope tenant.Scope) error {
	f.seeded = append(f.seeded, scope)
	return f.err
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	type testCase struct {
		name       string
		input      string
		createErr  error
		seedErr    error
		wantName   string
		wantErr    error
		wantSeeded int
	}

	boom := errors.New("boom")

	testCases := []testCase{
		{name: "trims the name", input: "  Padaria Central ", wantName: "Padaria Central", wantSeeded: 1},
		{name: "empty name", input: "   ", wantErr: company.ErrNameRequired},
		{name: "store failure skips seeding", input: "X", createErr: boom, wantErr: boom},
		{name: "seed failure", input: "X", seedErr: boom, wantErr: boom, wantSeeded: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			repo.createErr = tc.createErr
			seeder := &fakeSeeder{err: tc.seedErr}
			svc := company.NewService(repo, seeder)

			c, err := svc.Create(ctx, userID, tc.input)
			require.Len(t, seeder.seeded, tc.wantSeeded)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantName, c.Name)
			assert.Equal(t, tenant.Scope{UserID: userID, CompanyID: c.ID}, seeder.seeded[0])
		})
	}
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()

	svc := company.NewService(newFakeRepo(), &fakeSeeder{})

	c, err := svc.Create(ctx, owner, "Loja")
	require.NoError(t, err)

	got, err := svc.Get(ctx, owner, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Loja", got.Name)

	_, err = svc.Get(ctx, stranger, c.ID)
	assert.ErrorIs(t, err, company.ErrNotFound)

	list, err := svc.List(ctx, stranger)
	require.NoError(t, err)
	assert.Empty(t, list)
}
