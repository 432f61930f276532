package service

import (
	"context"
	"errors"

	"mintpass/internal/events"
	"mintpass/internal/registry/models"
	"mintpass/internal/registry/store"
	"mintpass/pkg/domerrors"
)

// SetAirdropEligibility overwrites a pass's airdrop fields. Administrator
// only. Multipliers are in hundredths: 100 is 1.0x and the lowest accepted.
func (s *Service) SetAirdropEligibility(ctx context.Context, caller models.Address, id models.TokenID, eligible bool, multiplier uint64) error {
	ctx, span := s.tracer.Start(ctx, "registry.SetAirdropEligibility")
	defer span.End()

	if err := s.requireAdmin(caller); err != nil {
		return err
	}
	if err := s.guardMutation(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.holderOf(ctx, id); err != nil {
		return err
	}
	if err := models.CanSetAirdrop(multiplier); err != nil {
		return err
	}
	p, err := s.getPass(ctx, id)
	if err != nil {
		return err
	}
	p.ApplyAirdrop(eligible, multiplier, s.now())
	if err := s.store.UpdatePass(ctx, p); err != nil {
		return domerrors.Wrap(err, domerrors.CodeInternal, "persist airdrop fields")
	}

	s.emitAirdropUpdated(ctx, id, eligible, multiplier)
	return nil
}

// SetAirdropEligibilityBatch applies airdrop overwrites from three parallel
// sequences, all-or-nothing with the same abort-on-first-failure shape as the
// points batch.
func (s *Service) SetAirdropEligibilityBatch(ctx context.Context, caller models.Address, ids []models.TokenID, eligible []bool, multipliers []uint64) error {
	ctx, span := s.tracer.Start(ctx, "registry.SetAirdropEligibilityBatch")
	defer span.End()

	if err := s.requireAdmin(caller); err != nil {
		return err
	}
	if len(ids) != len(eligible) || len(ids) != len(multipliers) {
		return domerrors.Newf(domerrors.CodeLengthMismatch,
			"%d ids vs %d flags vs %d multipliers", len(ids), len(eligible), len(multipliers))
	}
	if err := s.guardMutation(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	updates := make([]store.AirdropUpdate, len(ids))
	for i, id := range ids {
		if _, err := s.holderOf(ctx, id); err != nil {
			return err
		}
		if err := models.CanSetAirdrop(multipliers[i]); err != nil {
			return err
		}
		updates[i] = store.AirdropUpdate{TokenID: id, Eligible: eligible[i], Multiplier: multipliers[i]}
	}

	if err := s.store.ApplyAirdropBatch(ctx, updates); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domerrors.New(domerrors.CodeTokenNotFound, "batch references an unknown token")
		}
		return domerrors.Wrap(err, domerrors.CodeInternal, "apply airdrop batch")
	}

	for _, u := range updates {
		s.emitAirdropUpdated(ctx, u.TokenID, u.Eligible, u.Multiplier)
	}
	return nil
}

// IsAirdropEligible returns the airdrop flag and multiplier for a pass.
func (s *Service) IsAirdropEligible(ctx context.Context, id models.TokenID) (bool, uint64, error) {
	if _, err := s.holderOf(ctx, id); err != nil {
		return false, 0, err
	}
	p, err := s.getPass(ctx, id)
	if err != nil {
		return false, 0, err
	}
	return p.AirdropEligible, p.AirdropMultiplier, nil
}

func (s *Service) emitAirdropUpdated(ctx context.Context, id models.TokenID, eligible bool, multiplier uint64) {
	e := events.New(events.TypeAirdropUpdated)
	e.TokenID = uint64(id)
	e.Eligible = events.Bool(eligible)
	e.Multiplier = multiplier
	s.emit(ctx, e)
}
