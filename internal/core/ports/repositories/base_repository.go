package repositories

import (
	"context"
)

// TransactionManager runs a unit of work. Repository calls made with the ctx passed to fn
// join the same transaction; a nested call joins the outer transaction instead of opening one.
type TransactionManager interface {
	// WithinTransaction commits when fn returns nil and rolls back otherwise.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
