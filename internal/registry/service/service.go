// Package service implements the pass registry state machine: capped issuance,
// per-wallet mint restriction, metadata mutation under a single-administrator
// model, and the claim-once token grant.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"mintpass/internal/custody"
	"mintpass/internal/events"
	"mintpass/internal/ledger"
	"mintpass/internal/platform/metrics"
	"mintpass/internal/registry/models"
	"mintpass/internal/registry/store"
	"mintpass/pkg/domerrors"
)

// Service owns all registry state transitions. Mutating operations are
// serialized behind one mutex; reads go straight to the store.
type Service struct {
	store  store.Store
	ledger ledger.Ledger
	vault  custody.Vault
	admin  models.Address

	// mu serializes mutating operations. mintGuard is the explicit re-entry
	// flag around the mint body: a mutating call that observes it set is
	// rejected instead of queued, which also defeats a vault callback
	// re-entering mint before the restriction flag is durable.
	mu        sync.Mutex
	mintGuard atomic.Bool

	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher events.Publisher
	tracer    trace.Tracer
	now       func() time.Time
}

// Option configures optional service dependencies.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New constructs the service and bootstraps the registry state singleton if
// the store has none yet.
func New(ctx context.Context, st store.Store, lg ledger.Ledger, vault custody.Vault, admin models.Address, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, errors.New("store is required")
	}
	if lg == nil {
		return nil, errors.New("ledger is required")
	}
	if vault == nil {
		return nil, errors.New("vault is required")
	}
	if admin == "" {
		return nil, errors.New("administrator address is required")
	}

	s := &Service{
		store:  st,
		ledger: lg,
		vault:  vault,
		admin:  admin,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("mintpass/registry")
	}

	if _, err := st.LoadState(ctx); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("load registry state: %w", err)
		}
		if err := st.SaveState(ctx, models.NewState(s.now())); err != nil {
			return nil, fmt.Errorf("bootstrap registry state: %w", err)
		}
	}
	return s, nil
}

// requireAdmin is the single authorization guard for privileged operations.
func (s *Service) requireAdmin(caller models.Address) error {
	if caller != s.admin {
		return domerrors.New(domerrors.CodeUnauthorized, "caller is not the administrator")
	}
	return nil
}

// guardMutation rejects mutating calls that arrive while a mint holds the
// re-entry flag. Callers must invoke this before taking the mutex.
func (s *Service) guardMutation() error {
	if s.mintGuard.Load() {
		return domerrors.New(domerrors.CodeReentrantCall, "mint in progress")
	}
	return nil
}

// holderOf resolves the current holder of a token id, mapping a missing
// holder to the domain's token-not-found error.
func (s *Service) holderOf(ctx context.Context, id models.TokenID) (models.Address, error) {
	holder, err := s.ledger.CurrentHolder(ctx, id)
	if err != nil {
		if errors.Is(err, ledger.ErrNoHolder) {
			return "", domerrors.Newf(domerrors.CodeTokenNotFound, "token %d has no holder", id)
		}
		return "", domerrors.Wrap(err, domerrors.CodeInternal, "resolve token holder")
	}
	return holder, nil
}

func (s *Service) loadState(ctx context.Context) (*models.State, error) {
	state, err := s.store.LoadState(ctx)
	if err != nil {
		return nil, domerrors.Wrap(err, domerrors.CodeInternal, "load registry state")
	}
	return state, nil
}

func (s *Service) getPass(ctx context.Context, id models.TokenID) (*models.Pass, error) {
	p, err := s.store.GetPass(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domerrors.Newf(domerrors.CodeTokenNotFound, "no pass for token %d", id)
		}
		return nil, domerrors.Wrap(err, domerrors.CodeInternal, "load pass")
	}
	return p, nil
}

// emit delivers a notification. Emission is fire-and-forget: a failing sink is
// logged and never fails the operation that produced the event.
func (s *Service) emit(ctx context.Context, e events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Emit(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "emit event",
			"type", string(e.Type),
			"error", err.Error(),
		)
	}
}
