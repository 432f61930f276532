// Package custody defines the funds-custody collaborator. The registry gates
// when money moves; how it moves belongs to the vault implementation.
package custody

import (
	"context"

	"github.com/holiman/uint256"

	"mintpass/internal/registry/models"
)

// Vault holds the native-value balance accumulated from mint payments.
// Amounts are in 1e18-base native units.
type Vault interface {
	// Deposit credits the vault with a payment received from a wallet.
	Deposit(ctx context.Context, from models.Address, amount *uint256.Int) error

	// Refund returns value to a wallet, used for mint overpayment.
	Refund(ctx context.Context, to models.Address, amount *uint256.Int) error

	// Balance returns the current custody balance.
	Balance(ctx context.Context) (*uint256.Int, error)

	// TransferAll moves the entire balance to the given wallet and returns the
	// amount moved.
	TransferAll(ctx context.Context, to models.Address) (*uint256.Int, error)
}
