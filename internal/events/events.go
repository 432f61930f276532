// Package events carries the registry's fire-and-forget notifications. One
// event is emitted per successful mutating operation; a lost event never fails
// the operation that produced it.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type names an event kind on the wire.
type Type string

const (
	TypePassMinted     Type = "pass.minted"
	TypePointsAwarded  Type = "pass.points_awarded"
	TypeTokensClaimed  Type = "pass.tokens_claimed"
	TypeAccessUpdated  Type = "pass.access_level_updated"
	TypeAirdropUpdated Type = "pass.airdrop_updated"
	TypePriceUpdated   Type = "registry.price_updated"
	TypeMintingToggled Type = "registry.minting_toggled"
	TypeClaimToggled   Type = "registry.claiming_toggled"
)

// Event is the envelope for all registry notifications. Only the fields
// relevant to the event type are set.
type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	TokenID    uint64 `json:"token_id,omitempty"`
	Wallet     string `json:"wallet,omitempty"`
	Amount     uint64 `json:"amount,omitempty"`
	NewTotal   uint64 `json:"new_total,omitempty"`
	Level      uint64 `json:"level,omitempty"`
	Eligible   *bool  `json:"eligible,omitempty"`
	Multiplier uint64 `json:"multiplier,omitempty"`
	Enabled    *bool  `json:"enabled,omitempty"`
	Price      string `json:"price,omitempty"`
}

// New stamps an event with an id and timestamp.
func New(t Type) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: time.Now().UTC(),
	}
}

// Bool is a helper for the optional boolean fields.
func Bool(v bool) *bool { return &v }

// Publisher delivers events to a sink (Kafka in production, memory in tests).
type Publisher interface {
	Emit(ctx context.Context, e Event) error
}
