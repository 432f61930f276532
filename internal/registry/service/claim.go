package service

import (
	"context"
	"errors"

	"mintpass/internal/events"
	"mintpass/internal/ledger"
	"mintpass/internal/registry/models"
	"mintpass/pkg/domerrors"
)

// ClaimTokens marks the caller's one-shot token grant as claimed. The claim is
// deliberately not idempotent: a second call fails rather than no-ops, so
// callers learn the grant was already consumed.
func (s *Service) ClaimTokens(ctx context.Context, caller models.Address, id models.TokenID) error {
	ctx, span := s.tracer.Start(ctx, "registry.ClaimTokens")
	defer span.End()

	if err := s.guardMutation(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadState(ctx)
	if err != nil {
		return err
	}
	if !state.ClaimEnabled {
		return domerrors.New(domerrors.CodeClaimingDisabled, "claiming is disabled")
	}

	holder, err := s.ledger.CurrentHolder(ctx, id)
	switch {
	case errors.Is(err, ledger.ErrNoHolder):
		// An unminted id and a foreign token look the same to the caller.
		return domerrors.Newf(domerrors.CodeNotTokenOwner, "caller does not hold token %d", id)
	case err != nil:
		return domerrors.Wrap(err, domerrors.CodeInternal, "resolve token holder")
	case holder != caller:
		return domerrors.Newf(domerrors.CodeNotTokenOwner, "caller does not hold token %d", id)
	}

	p, err := s.getPass(ctx, id)
	if err != nil {
		return err
	}
	if err := p.CanClaim(); err != nil {
		return err
	}
	p.ApplyClaim(s.now())
	if err := s.store.UpdatePass(ctx, p); err != nil {
		return domerrors.Wrap(err, domerrors.CodeInternal, "persist claim")
	}

	s.metrics.IncTokensClaimed()
	s.logger.InfoContext(ctx, "tokens claimed",
		"token_id", uint64(id),
		"caller", string(caller),
		"grant", uint64(models.TokensPerPass),
	)

	e := events.New(events.TypeTokensClaimed)
	e.TokenID = uint64(id)
	e.Wallet = string(caller)
	e.Amount = models.TokensPerPass
	s.emit(ctx, e)
	return nil
}
