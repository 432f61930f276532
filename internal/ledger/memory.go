package ledger

import (
	"context"
	"sync"

	"mintpass/internal/registry/models"
)

// MemoryLedger is an in-process Ledger for development and tests. Transfers are
// supported so tests can exercise the "wallet totals are historical" behavior.
type MemoryLedger struct {
	mu      sync.RWMutex
	holders map[models.TokenID]models.Address
}

// NewMemoryLedger creates an empty ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{holders: make(map[models.TokenID]models.Address)}
}

var _ Ledger = (*MemoryLedger)(nil)

func (l *MemoryLedger) BindNewToken(_ context.Context, id models.TokenID, holder models.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, bound := l.holders[id]; bound {
		return ErrAlreadyBound
	}
	l.holders[id] = holder
	return nil
}

func (l *MemoryLedger) CurrentHolder(_ context.Context, id models.TokenID) (models.Address, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	holder, bound := l.holders[id]
	if !bound {
		return "", ErrNoHolder
	}
	return holder, nil
}

func (l *MemoryLedger) Exists(_ context.Context, id models.TokenID) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, bound := l.holders[id]
	return bound, nil
}

// Transfer reassigns a held token to a new holder. Returns ErrNoHolder if the
// token was never bound.
func (l *MemoryLedger) Transfer(_ context.Context, id models.TokenID, to models.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, bound := l.holders[id]; !bound {
		return ErrNoHolder
	}
	l.holders[id] = to
	return nil
}
