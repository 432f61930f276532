package models

import (
	"time"

	"github.com/holiman/uint256"

	"mintpass/pkg/domerrors"
)

// TokenID identifies a minted pass. IDs are allocated sequentially starting at 1
// and never reused.
type TokenID uint64

// Address is a wallet identity as recorded by the ownership ledger.
type Address string

const (
	// MaxSupply caps the number of passes that can ever be minted.
	MaxSupply = 1000

	// TokensPerPass is the size of the one-shot token grant attached to a pass.
	TokensPerPass = 1000

	// BaseMultiplier represents a 1.0x airdrop multiplier. Multipliers below
	// this value are rejected.
	BaseMultiplier = 100
)

// DefaultUnitPrice is the mint price in native 1e18-base units (0.005).
func DefaultUnitPrice() *uint256.Int {
	return uint256.NewInt(5_000_000_000_000_000)
}

// Pass is the mutable metadata attached to a minted token id.
//
// Invariants:
//   - Points is monotonically non-decreasing
//   - TokensClaimed transitions false -> true exactly once and never back
//   - AirdropMultiplier is at least BaseMultiplier once set
//   - A Pass exists if and only if its token id has been minted
type Pass struct {
	TokenID           TokenID   `json:"token_id"`
	Points            uint64    `json:"points"`
	TokensClaimed     bool      `json:"tokens_claimed"`
	AccessLevel       uint64    `json:"access_level"`
	AirdropEligible   bool      `json:"airdrop_eligible"`
	AirdropMultiplier uint64    `json:"airdrop_multiplier"`
	MintedAt          time.Time `json:"minted_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewPass returns a pass with all fields at their mint-time defaults.
func NewPass(id TokenID, now time.Time) *Pass {
	return &Pass{
		TokenID:           id,
		Points:            0,
		TokensClaimed:     false,
		AccessLevel:       0,
		AirdropEligible:   false,
		AirdropMultiplier: BaseMultiplier,
		MintedAt:          now,
		UpdatedAt:         now,
	}
}

// CanClaim checks whether the attached token grant is still unclaimed.
// Use with ApplyClaim so validation and mutation stay separable.
func (p *Pass) CanClaim() error {
	if p.TokensClaimed {
		return domerrors.New(domerrors.CodeAlreadyClaimed, "token grant already claimed")
	}
	return nil
}

// ApplyClaim marks the token grant as claimed. Call CanClaim first.
func (p *Pass) ApplyClaim(now time.Time) {
	p.TokensClaimed = true
	p.UpdatedAt = now
}

// ApplyPoints adds to the pass point balance. Points only ever grow.
func (p *Pass) ApplyPoints(amount uint64, now time.Time) {
	p.Points += amount
	p.UpdatedAt = now
}

// ApplyAccessLevel overwrites the access tier. No monotonicity constraint:
// the administrator may move a pass up or down freely.
func (p *Pass) ApplyAccessLevel(level uint64, now time.Time) {
	p.AccessLevel = level
	p.UpdatedAt = now
}

// CanSetAirdrop validates an airdrop multiplier against the base floor.
func CanSetAirdrop(multiplier uint64) error {
	if multiplier < BaseMultiplier {
		return domerrors.Newf(domerrors.CodeMultiplierTooLow,
			"multiplier %d below base %d", multiplier, BaseMultiplier)
	}
	return nil
}

// ApplyAirdrop overwrites both airdrop fields. Call CanSetAirdrop first.
func (p *Pass) ApplyAirdrop(eligible bool, multiplier uint64, now time.Time) {
	p.AirdropEligible = eligible
	p.AirdropMultiplier = multiplier
	p.UpdatedAt = now
}

// State is the registry-wide configuration singleton. It is created once at
// bootstrap and mutated only through administrator operations.
type State struct {
	MintingEnabled bool         `json:"minting_enabled"`
	ClaimEnabled   bool         `json:"claim_enabled"`
	UnitPrice      *uint256.Int `json:"unit_price"`
	NextTokenID    TokenID      `json:"next_token_id"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// NewState returns the deployment-time defaults: both feature gates off, the
// default unit price, and token id allocation starting at 1.
func NewState(now time.Time) *State {
	return &State{
		MintingEnabled: false,
		ClaimEnabled:   false,
		UnitPrice:      DefaultUnitPrice(),
		NextTokenID:    1,
		UpdatedAt:      now,
	}
}

// Issued is the number of passes minted so far. Token ids are sequential and
// never deleted, so the counter is derived from the allocator.
func (s *State) Issued() uint64 {
	return uint64(s.NextTokenID) - 1
}

// CanAllocate checks the supply cap before a mint allocates the next id.
func (s *State) CanAllocate() error {
	if s.Issued() >= MaxSupply {
		return domerrors.Newf(domerrors.CodeSupplyExhausted,
			"all %d passes issued", MaxSupply)
	}
	return nil
}

// Allocate hands out the next token id. Call CanAllocate first.
func (s *State) Allocate(now time.Time) TokenID {
	id := s.NextTokenID
	s.NextTokenID++
	s.UpdatedAt = now
	return id
}

// CanSetPrice validates a new unit price. Zero would make minting free, which
// is treated as an operator mistake rather than a supported mode.
func CanSetPrice(price *uint256.Int) error {
	if price == nil || price.IsZero() {
		return domerrors.New(domerrors.CodeInvalidPrice, "unit price must be non-zero")
	}
	return nil
}
