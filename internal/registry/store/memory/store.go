package memory

import (
	"context"
	"sync"

	"mintpass/internal/registry/models"
	"mintpass/internal/registry/store"
)

// Store is an in-memory implementation of store.Store. It backs unit tests and
// single-process deployments; use the postgres store for anything durable.
type Store struct {
	mu           sync.RWMutex
	state        *models.State
	passes       map[models.TokenID]*models.Pass
	mintFlags    map[models.Address]bool
	walletPoints map[models.Address]uint64
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		passes:       make(map[models.TokenID]*models.Pass),
		mintFlags:    make(map[models.Address]bool),
		walletPoints: make(map[models.Address]uint64),
	}
}

var _ store.Store = (*Store)(nil)

func (s *Store) LoadState(_ context.Context) (*models.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state == nil {
		return nil, store.ErrNotFound
	}
	cp := *s.state
	cp.UnitPrice = s.state.UnitPrice.Clone()
	return &cp, nil
}

func (s *Store) SaveState(_ context.Context, st *models.State) error {
	if st == nil || st.UnitPrice == nil {
		return store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *st
	cp.UnitPrice = st.UnitPrice.Clone()
	s.state = &cp
	return nil
}

func (s *Store) CreatePass(_ context.Context, p *models.Pass) error {
	if p == nil || p.TokenID == 0 {
		return store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.passes[p.TokenID]; exists {
		return store.ErrDuplicateKey
	}
	cp := *p
	s.passes[p.TokenID] = &cp
	return nil
}

func (s *Store) MintPass(_ context.Context, st *models.State, wallet models.Address, p *models.Pass) error {
	if st == nil || st.UnitPrice == nil || wallet == "" || p == nil || p.TokenID == 0 {
		return store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.passes[p.TokenID]; exists {
		return store.ErrDuplicateKey
	}

	stCp := *st
	stCp.UnitPrice = st.UnitPrice.Clone()
	s.state = &stCp

	s.mintFlags[wallet] = true

	passCp := *p
	s.passes[p.TokenID] = &passCp
	return nil
}

func (s *Store) GetPass(_ context.Context, id models.TokenID) (*models.Pass, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.passes[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Store) UpdatePass(_ context.Context, p *models.Pass) error {
	if p == nil {
		return store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.passes[p.TokenID]; !exists {
		return store.ErrNotFound
	}
	cp := *p
	s.passes[p.TokenID] = &cp
	return nil
}

func (s *Store) ApplyPoints(_ context.Context, award store.PointsAward) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyPointsLocked(award)
}

func (s *Store) ApplyPointsBatch(_ context.Context, awards []store.PointsAward) ([]uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate every element before the first mutation so a failing element
	// leaves the batch unapplied.
	for _, a := range awards {
		if _, exists := s.passes[a.TokenID]; !exists {
			return nil, store.ErrNotFound
		}
	}

	totals := make([]uint64, 0, len(awards))
	for _, a := range awards {
		total, err := s.applyPointsLocked(a)
		if err != nil {
			return nil, err
		}
		totals = append(totals, total)
	}
	return totals, nil
}

func (s *Store) applyPointsLocked(award store.PointsAward) (uint64, error) {
	p, exists := s.passes[award.TokenID]
	if !exists {
		return 0, store.ErrNotFound
	}
	p.Points += award.Amount
	s.walletPoints[award.Holder] += award.Amount
	return p.Points, nil
}

func (s *Store) ApplyAirdropBatch(_ context.Context, updates []store.AirdropUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range updates {
		if _, exists := s.passes[u.TokenID]; !exists {
			return store.ErrNotFound
		}
	}

	for _, u := range updates {
		p := s.passes[u.TokenID]
		p.AirdropEligible = u.Eligible
		p.AirdropMultiplier = u.Multiplier
	}
	return nil
}

func (s *Store) HasMinted(_ context.Context, wallet models.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mintFlags[wallet], nil
}

func (s *Store) SetMintFlag(_ context.Context, wallet models.Address, minted bool) error {
	if wallet == "" {
		return store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mintFlags[wallet] = minted
	return nil
}

func (s *Store) WalletPoints(_ context.Context, wallet models.Address) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.walletPoints[wallet], nil
}

func (s *Store) Ping(_ context.Context) error { return nil }
