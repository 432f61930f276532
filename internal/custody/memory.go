package custody

import (
	"context"
	"errors"
	"sync"

	"github.com/holiman/uint256"

	"mintpass/internal/registry/models"
)

// ErrInsufficientBalance is returned when a refund exceeds the vault balance.
var ErrInsufficientBalance = errors.New("insufficient vault balance")

// MemoryVault is an in-process Vault. Outbound movements are recorded per
// wallet so tests can assert refunds and withdrawals.
type MemoryVault struct {
	mu      sync.Mutex
	balance uint256.Int
	paidOut map[models.Address]*uint256.Int
}

// NewMemoryVault creates an empty vault.
func NewMemoryVault() *MemoryVault {
	return &MemoryVault{paidOut: make(map[models.Address]*uint256.Int)}
}

var _ Vault = (*MemoryVault)(nil)

func (v *MemoryVault) Deposit(_ context.Context, _ models.Address, amount *uint256.Int) error {
	if amount == nil {
		return errors.New("amount is required")
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.balance.Add(&v.balance, amount)
	return nil
}

func (v *MemoryVault) Refund(_ context.Context, to models.Address, amount *uint256.Int) error {
	if amount == nil {
		return errors.New("amount is required")
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.balance.Lt(amount) {
		return ErrInsufficientBalance
	}
	v.balance.Sub(&v.balance, amount)
	v.creditLocked(to, amount)
	return nil
}

func (v *MemoryVault) Balance(_ context.Context) (*uint256.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.balance.Clone(), nil
}

func (v *MemoryVault) TransferAll(_ context.Context, to models.Address) (*uint256.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	moved := v.balance.Clone()
	v.creditLocked(to, moved)
	v.balance.Clear()
	return moved, nil
}

// PaidTo returns the cumulative amount sent to a wallet via refunds and
// withdrawals. Test helper.
func (v *MemoryVault) PaidTo(wallet models.Address) *uint256.Int {
	v.mu.Lock()
	defer v.mu.Unlock()

	got, ok := v.paidOut[wallet]
	if !ok {
		return uint256.NewInt(0)
	}
	return got.Clone()
}

func (v *MemoryVault) creditLocked(to models.Address, amount *uint256.Int) {
	got, ok := v.paidOut[to]
	if !ok {
		got = uint256.NewInt(0)
		v.paidOut[to] = got
	}
	got.Add(got, amount)
}
