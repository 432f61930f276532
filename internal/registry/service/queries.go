package service

import (
	"context"

	"github.com/holiman/uint256"

	"mintpass/internal/registry/models"
	"mintpass/pkg/domerrors"
)

// Info is the read-only snapshot of the registry configuration.
type Info struct {
	MintingEnabled bool
	ClaimEnabled   bool
	UnitPrice      *uint256.Int
	Issued         uint64
	MaxSupply      uint64
}

// GetPassData returns the full metadata record for a minted token.
func (s *Service) GetPassData(ctx context.Context, id models.TokenID) (*models.Pass, error) {
	if _, err := s.holderOf(ctx, id); err != nil {
		return nil, err
	}
	return s.getPass(ctx, id)
}

// GetPoints returns the point balance of a pass.
func (s *Service) GetPoints(ctx context.Context, id models.TokenID) (uint64, error) {
	p, err := s.GetPassData(ctx, id)
	if err != nil {
		return 0, err
	}
	return p.Points, nil
}

// GetWalletPoints returns the aggregate points ever awarded to a wallet.
// Absent wallets read as zero.
func (s *Service) GetWalletPoints(ctx context.Context, wallet models.Address) (uint64, error) {
	total, err := s.store.WalletPoints(ctx, wallet)
	if err != nil {
		return 0, domerrors.Wrap(err, domerrors.CodeInternal, "read wallet points")
	}
	return total, nil
}

// HasMinted reports whether the wallet's mint restriction is set.
func (s *Service) HasMinted(ctx context.Context, wallet models.Address) (bool, error) {
	minted, err := s.store.HasMinted(ctx, wallet)
	if err != nil {
		return false, domerrors.Wrap(err, domerrors.CodeInternal, "read mint restriction")
	}
	return minted, nil
}

// RegistryInfo returns the current gates, price, and supply usage.
func (s *Service) RegistryInfo(ctx context.Context) (*Info, error) {
	state, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}
	return &Info{
		MintingEnabled: state.MintingEnabled,
		ClaimEnabled:   state.ClaimEnabled,
		UnitPrice:      state.UnitPrice.Clone(),
		Issued:         state.Issued(),
		MaxSupply:      models.MaxSupply,
	}, nil
}

// Ready verifies the service's backing store is reachable.
func (s *Service) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}
