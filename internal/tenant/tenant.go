package tenant

import (
	"context"

	"github.com/google/uuid"
)

// Scope identifies the user and company every stored record belongs to.
type Scope struct {
	UserID    uuid.UUID
	CompanyID uuid.UUID
}

type ctxKey struct{}

func WithScope(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the scope stored by WithScope.
func FromContext(ctx context.Context) (Scope, bool) {
	s, ok := ctx.Value(ctxKey{}).(Scope)
	return s, ok
}
