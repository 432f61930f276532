package service

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	"mintpass/internal/events"
	"mintpass/internal/registry/models"
	"mintpass/pkg/domerrors"
)

// MintResult reports a successful mint: the allocated token id, the price
// actually charged, and any overpayment returned to the payer.
type MintResult struct {
	TokenID models.TokenID
	Price   *uint256.Int
	Refund  *uint256.Int
}

// Mint issues a new pass to recipient against the given payment. Preconditions
// are checked in order: minting gate, payment, supply cap, per-wallet
// restriction. The ledger binding happens before the store commit, and the
// allocation, restriction flag, and pass record land in one atomic store
// write, so a failed collaborator leaves no partial state behind. On success
// everything is committed before any value leaves the vault, so an overpayment
// refund can never be leveraged into a second mint.
func (s *Service) Mint(ctx context.Context, recipient models.Address, payment *uint256.Int) (*MintResult, error) {
	ctx, span := s.tracer.Start(ctx, "registry.Mint")
	defer span.End()

	if recipient == "" {
		return nil, domerrors.New(domerrors.CodeBadRequest, "recipient is required")
	}
	if payment == nil {
		payment = uint256.NewInt(0)
	}

	if !s.mintGuard.CompareAndSwap(false, true) {
		return nil, domerrors.New(domerrors.CodeReentrantCall, "mint in progress")
	}
	defer s.mintGuard.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}
	if !state.MintingEnabled {
		return nil, domerrors.New(domerrors.CodeMintingDisabled, "minting is disabled")
	}
	if payment.Lt(state.UnitPrice) {
		return nil, domerrors.Newf(domerrors.CodeInsufficientPayment,
			"payment %s below unit price %s", payment.Dec(), state.UnitPrice.Dec())
	}
	if err := state.CanAllocate(); err != nil {
		return nil, err
	}
	minted, err := s.store.HasMinted(ctx, recipient)
	if err != nil {
		return nil, domerrors.Wrap(err, domerrors.CodeInternal, "check mint restriction")
	}
	if minted {
		return nil, domerrors.Newf(domerrors.CodeAlreadyMinted, "wallet %s already minted", recipient)
	}

	now := s.now()
	tokenID := state.Allocate(now)
	if err := s.ledger.BindNewToken(ctx, tokenID, recipient); err != nil {
		return nil, domerrors.Wrap(err, domerrors.CodeInternal, "bind token to holder")
	}
	if err := s.store.MintPass(ctx, state, recipient, models.NewPass(tokenID, now)); err != nil {
		return nil, domerrors.Wrap(err, domerrors.CodeInternal, "commit mint")
	}

	price := state.UnitPrice.Clone()
	if err := s.vault.Deposit(ctx, recipient, payment); err != nil {
		return nil, domerrors.Wrap(err, domerrors.CodeInternal, "deposit mint payment")
	}

	// Overpayment goes back to the payer. State is already committed, and the
	// re-entry flag stays held across this call.
	refund := new(uint256.Int).Sub(payment, price)
	if !refund.IsZero() {
		if err := s.vault.Refund(ctx, recipient, refund); err != nil {
			return nil, domerrors.Wrap(err, domerrors.CodeInternal, "refund overpayment")
		}
	}

	s.metrics.IncPassesMinted()
	s.logger.InfoContext(ctx, "pass minted",
		"token_id", uint64(tokenID),
		"recipient", string(recipient),
		"price", price.Dec(),
		"refund", refund.Dec(),
	)

	e := events.New(events.TypePassMinted)
	e.TokenID = uint64(tokenID)
	e.Wallet = string(recipient)
	e.Price = price.Dec()
	s.emit(ctx, e)

	return &MintResult{TokenID: tokenID, Price: price, Refund: refund}, nil
}

// ParseAmount converts a decimal string in native units to a uint256 value.
func ParseAmount(dec string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(dec)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", dec, err)
	}
	return v, nil
}
