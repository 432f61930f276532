package service

import (
	"context"

	"github.com/holiman/uint256"

	"mintpass/internal/events"
	"mintpass/internal/registry/models"
	"mintpass/pkg/domerrors"
)

// SetMintingEnabled toggles the mint gate.
func (s *Service) SetMintingEnabled(ctx context.Context, caller models.Address, enabled bool) error {
	return s.toggle(ctx, caller, events.TypeMintingToggled, enabled, func(state *models.State) {
		state.MintingEnabled = enabled
	})
}

// SetTokenClaimEnabled toggles the claim gate.
func (s *Service) SetTokenClaimEnabled(ctx context.Context, caller models.Address, enabled bool) error {
	return s.toggle(ctx, caller, events.TypeClaimToggled, enabled, func(state *models.State) {
		state.ClaimEnabled = enabled
	})
}

func (s *Service) toggle(ctx context.Context, caller models.Address, eventType events.Type, enabled bool, apply func(*models.State)) error {
	if err := s.requireAdmin(caller); err != nil {
		return err
	}
	if err := s.guardMutation(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadState(ctx)
	if err != nil {
		return err
	}
	apply(state)
	state.UpdatedAt = s.now()
	if err := s.store.SaveState(ctx, state); err != nil {
		return domerrors.Wrap(err, domerrors.CodeInternal, "persist registry state")
	}

	e := events.New(eventType)
	e.Enabled = events.Bool(enabled)
	s.emit(ctx, e)
	return nil
}

// SetMintPrice overwrites the unit price. Zero is rejected.
func (s *Service) SetMintPrice(ctx context.Context, caller models.Address, price *uint256.Int) error {
	if err := s.requireAdmin(caller); err != nil {
		return err
	}
	if err := models.CanSetPrice(price); err != nil {
		return err
	}
	if err := s.guardMutation(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadState(ctx)
	if err != nil {
		return err
	}
	state.UnitPrice = price.Clone()
	state.UpdatedAt = s.now()
	if err := s.store.SaveState(ctx, state); err != nil {
		return domerrors.Wrap(err, domerrors.CodeInternal, "persist unit price")
	}

	e := events.New(events.TypePriceUpdated)
	e.Price = price.Dec()
	s.emit(ctx, e)
	return nil
}

// ResetMintRestriction clears a wallet's mint flag so it may mint once more.
// No event is emitted for this operation.
func (s *Service) ResetMintRestriction(ctx context.Context, caller models.Address, wallet models.Address) error {
	if err := s.requireAdmin(caller); err != nil {
		return err
	}
	if err := s.guardMutation(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SetMintFlag(ctx, wallet, false); err != nil {
		return domerrors.Wrap(err, domerrors.CodeInternal, "clear mint restriction")
	}
	s.logger.InfoContext(ctx, "mint restriction cleared", "wallet", string(wallet))
	return nil
}

// Withdraw moves the entire custody balance to the administrator.
func (s *Service) Withdraw(ctx context.Context, caller models.Address) (*uint256.Int, error) {
	ctx, span := s.tracer.Start(ctx, "registry.Withdraw")
	defer span.End()

	if err := s.requireAdmin(caller); err != nil {
		return nil, err
	}
	if err := s.guardMutation(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	balance, err := s.vault.Balance(ctx)
	if err != nil {
		return nil, domerrors.Wrap(err, domerrors.CodeInternal, "read custody balance")
	}
	if balance.IsZero() {
		return nil, domerrors.New(domerrors.CodeNoFunds, "custody balance is zero")
	}

	moved, err := s.vault.TransferAll(ctx, s.admin)
	if err != nil {
		return nil, domerrors.Wrap(err, domerrors.CodeInternal, "transfer custody balance")
	}

	s.metrics.IncWithdrawals()
	s.logger.InfoContext(ctx, "custody withdrawn", "amount", moved.Dec())
	return moved, nil
}
