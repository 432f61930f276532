package service

import (
	"context"

	"mintpass/internal/events"
	"mintpass/internal/registry/models"
	"mintpass/pkg/domerrors"
)

// SetAccessLevel overwrites a pass's access tier. Administrator only. Levels
// are an open-ended enumeration; moving down is as legal as moving up.
func (s *Service) SetAccessLevel(ctx context.Context, caller models.Address, id models.TokenID, level uint64) error {
	ctx, span := s.tracer.Start(ctx, "registry.SetAccessLevel")
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
	p, err := s.getPass(ctx, id)
	if err != nil {
		return err
	}
	p.ApplyAccessLevel(level, s.now())
	if err := s.store.UpdatePass(ctx, p); err != nil {
		return domerrors.Wrap(err, domerrors.CodeInternal, "persist access level")
	}

	e := events.New(events.TypeAccessUpdated)
	e.TokenID = uint64(id)
	e.Level = level
	s.emit(ctx, e)
	return nil
}

// CheckAccess returns the access tier of a pass.
func (s *Service) CheckAccess(ctx context.Context, id models.TokenID) (uint64, error) {
	if _, err := s.holderOf(ctx, id); err != nil {
		return 0, err
	}
	p, err := s.getPass(ctx, id)
	if err != nil {
		return 0, err
	}
	return p.AccessLevel, nil
}
