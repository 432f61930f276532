package store

import (
	"context"
	"errors"

	"mintpass/internal/registry/models"
)

// Storage sentinel errors. Implementations translate backend-specific failures
// into these so the service layer can map them onto domain codes.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when inserting a record whose key already
	// exists. Pass records are insert-once.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)

// PointsAward pairs a token id with a point amount and the holder the award is
// attributed to. The holder is resolved by the caller against the ownership
// ledger at award time; wallet totals are a historical ledger, not a live
// derived balance.
type PointsAward struct {
	TokenID models.TokenID
	Holder  models.Address
	Amount  uint64
}

// AirdropUpdate carries one element of a batch airdrop-eligibility overwrite.
type AirdropUpdate struct {
	TokenID    models.TokenID
	Eligible   bool
	Multiplier uint64
}

// Store persists the registry state singleton, pass metadata, and per-wallet
// aggregates. Batch methods are all-or-nothing: either every element is applied
// or none are.
type Store interface {
	// LoadState returns the registry state singleton. Returns ErrNotFound if
	// the registry was never bootstrapped.
	LoadState(ctx context.Context) (*models.State, error)

	// SaveState persists the registry state singleton, creating it if absent.
	SaveState(ctx context.Context, s *models.State) error

	// CreatePass inserts pass metadata. Returns ErrDuplicateKey if the token
	// id already has a record.
	CreatePass(ctx context.Context, p *models.Pass) error

	// MintPass atomically commits one mint: the updated state singleton, the
	// wallet's mint-restriction flag, and the new pass record land together or
	// not at all. Returns ErrDuplicateKey if the token id already has a record.
	MintPass(ctx context.Context, s *models.State, wallet models.Address, p *models.Pass) error

	// GetPass returns pass metadata. Returns ErrNotFound if absent.
	GetPass(ctx context.Context, id models.TokenID) (*models.Pass, error)

	// UpdatePass overwrites an existing pass record. Returns ErrNotFound if
	// absent.
	UpdatePass(ctx context.Context, p *models.Pass) error

	// ApplyPoints adds points to a pass and to the holder's aggregate total in
	// one atomic step. Returns the new per-token total, or ErrNotFound.
	ApplyPoints(ctx context.Context, award PointsAward) (uint64, error)

	// ApplyPointsBatch applies every award or none. Returns the new per-token
	// totals in input order.
	ApplyPointsBatch(ctx context.Context, awards []PointsAward) ([]uint64, error)

	// ApplyAirdropBatch overwrites airdrop fields for every element or none.
	ApplyAirdropBatch(ctx context.Context, updates []AirdropUpdate) error

	// HasMinted reports the wallet's mint-restriction flag. Absent means false.
	HasMinted(ctx context.Context, wallet models.Address) (bool, error)

	// SetMintFlag sets or clears the wallet's mint-restriction flag.
	SetMintFlag(ctx context.Context, wallet models.Address, minted bool) error

	// WalletPoints returns the wallet's aggregate awarded points. Absent means
	// zero.
	WalletPoints(ctx context.Context, wallet models.Address) (uint64, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
}
