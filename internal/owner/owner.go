// Package owner carries the caller identity through a request and guards
// owner-scoped rows.
package owner

import (
	"context"

	"github.com/you-humble/stockledger/internal/model"
)

type ctxKey struct{}

type Identity struct {
	OwnerID int64
	Role    string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// ID returns the owner bound to ctx or ErrUnauthorized.
func ID(ctx context.Context) (int64, error) {
	id, ok := FromContext(ctx)
	if !ok || id.OwnerID == 0 {
		return 0, model.ErrUnauthorized
	}
	return id.OwnerID, nil
}

// Check fails with ErrForbidden unless the row belongs to caller.
func Check(caller, rowOwner int64) error {
	if caller != rowOwner {
		return model.ErrForbidden
	}
	return nil
}
