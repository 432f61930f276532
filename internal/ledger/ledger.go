// Package ledger defines the ownership-ledger collaborator: the component that
// knows which wallet currently holds which token id. The registry never stores
// ownership itself; it asks the ledger.
package ledger

import (
	"context"
	"errors"

	"mintpass/internal/registry/models"
)

// ErrNoHolder is returned when a token id has never been bound to a holder.
var ErrNoHolder = errors.New("token has no holder")

// ErrAlreadyBound is returned when binding a token id that is already held.
var ErrAlreadyBound = errors.New("token already bound")

// Ledger is the outbound surface the registry depends on. One holder per
// token, enforced by the implementation.
type Ledger interface {
	// BindNewToken assigns a freshly allocated token id to a holder.
	BindNewToken(ctx context.Context, id models.TokenID, holder models.Address) error

	// CurrentHolder returns the wallet holding the token id, or ErrNoHolder.
	CurrentHolder(ctx context.Context, id models.TokenID) (models.Address, error)

	// Exists reports whether the token id has a current holder.
	Exists(ctx context.Context, id models.TokenID) (bool, error)
}
