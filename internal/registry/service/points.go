package service

import (
	"context"
	"errors"

	"mintpass/internal/events"
	"mintpass/internal/registry/models"
	"mintpass/internal/registry/store"
	"mintpass/pkg/domerrors"
)

// AwardPoints credits points to a pass and to the aggregate total of whoever
// holds the token right now. Administrator only.
func (s *Service) AwardPoints(ctx context.Context, caller models.Address, id models.TokenID, amount uint64) (uint64, error) {
	ctx, span := s.tracer.Start(ctx, "registry.AwardPoints")
	defer span.End()

	if err := s.requireAdmin(caller); err != nil {
		return 0, err
	}
	if err := s.guardMutation(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	holder, err := s.holderOf(ctx, id)
	if err != nil {
		return 0, err
	}

	total, err := s.store.ApplyPoints(ctx, store.PointsAward{TokenID: id, Holder: holder, Amount: amount})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, domerrors.Newf(domerrors.CodeTokenNotFound, "no pass for token %d", id)
		}
		return 0, domerrors.Wrap(err, domerrors.CodeInternal, "apply points")
	}

	s.metrics.AddPointsAwarded(amount)
	s.emitPointsAwarded(ctx, id, holder, amount, total)
	return total, nil
}

// AwardPointsBatch applies awards pairwise from parallel id and amount
// sequences. The batch is all-or-nothing: every element is validated against
// the ledger before the first mutation, and a failing element aborts the whole
// batch with no state change.
func (s *Service) AwardPointsBatch(ctx context.Context, caller models.Address, ids []models.TokenID, amounts []uint64) ([]uint64, error) {
	ctx, span := s.tracer.Start(ctx, "registry.AwardPointsBatch")
	defer span.End()

	if err := s.requireAdmin(caller); err != nil {
		return nil, err
	}
	if len(ids) != len(amounts) {
		return nil, domerrors.Newf(domerrors.CodeLengthMismatch,
			"%d token ids vs %d amounts", len(ids), len(amounts))
	}
	if err := s.guardMutation(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	awards := make([]store.PointsAward, len(ids))
	for i, id := range ids {
		holder, err := s.holderOf(ctx, id)
		if err != nil {
			return nil, err
		}
		awards[i] = store.PointsAward{TokenID: id, Holder: holder, Amount: amounts[i]}
	}

	totals, err := s.store.ApplyPointsBatch(ctx, awards)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domerrors.New(domerrors.CodeTokenNotFound, "batch references an unknown token")
		}
		return nil, domerrors.Wrap(err, domerrors.CodeInternal, "apply points batch")
	}

	for i, a := range awards {
		s.metrics.AddPointsAwarded(a.Amount)
		s.emitPointsAwarded(ctx, a.TokenID, a.Holder, a.Amount, totals[i])
	}
	return totals, nil
}

func (s *Service) emitPointsAwarded(ctx context.Context, id models.TokenID, holder models.Address, amount, total uint64) {
	e := events.New(events.TypePointsAwarded)
	e.TokenID = uint64(id)
	e.Wallet = string(holder)
	e.Amount = amount
	e.NewTotal = total
	s.emit(ctx, e)
}
