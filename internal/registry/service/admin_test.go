package service

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mintpass/internal/events"
	"mintpass/internal/registry/models"
	"mintpass/pkg/domerrors"
)

func TestTogglesRequireAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.SetMintingEnabled(ctx, "0xa", true)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeUnauthorized))

	// State must be unchanged after the rejected call.
	info, err := f.svc.RegistryInfo(ctx)
	require.NoError(t, err)
	assert.False(t, info.MintingEnabled)

	err = f.svc.SetTokenClaimEnabled(ctx, "0xa", true)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeUnauthorized))
}

func TestTogglesEmitEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SetMintingEnabled(ctx, admin, true))
	require.NoError(t, f.svc.SetTokenClaimEnabled(ctx, admin, true))
	require.NoError(t, f.svc.SetMintingEnabled(ctx, admin, false))

	minting := f.sink.ByType(events.TypeMintingToggled)
	require.Len(t, minting, 2)
	assert.True(t, *minting[0].Enabled)
	assert.False(t, *minting[1].Enabled)
	require.Len(t, f.sink.ByType(events.TypeClaimToggled), 1)
}

func TestSetMintPrice(t *testing.T) {
	f := newFixture(t)
	f.openMinting(t)
	ctx := context.Background()

	err := f.svc.SetMintPrice(ctx, admin, uint256.NewInt(0))
	assert.True(t, domerrors.HasCode(err, domerrors.CodeInvalidPrice))

	err = f.svc.SetMintPrice(ctx, "0xa", uint256.NewInt(1))
	assert.True(t, domerrors.HasCode(err, domerrors.CodeUnauthorized))

	newPrice := uint256.NewInt(9_000_000_000_000_000)
	require.NoError(t, f.svc.SetMintPrice(ctx, admin, newPrice))

	// The old price no longer clears the bar.
	_, err = f.svc.Mint(ctx, "0xa", models.DefaultUnitPrice())
	assert.True(t, domerrors.HasCode(err, domerrors.CodeInsufficientPayment))

	res, err := f.svc.Mint(ctx, "0xa", newPrice)
	require.NoError(t, err)
	assert.Equal(t, newPrice, res.Price)

	priced := f.sink.ByType(events.TypePriceUpdated)
	require.Len(t, priced, 1)
	assert.Equal(t, newPrice.Dec(), priced[0].Price)
}

func TestWithdraw(t *testing.T) {
	f := newFixture(t)
	f.openMinting(t)
	ctx := context.Background()

	_, err := f.svc.Withdraw(ctx, "0xa")
	assert.True(t, domerrors.HasCode(err, domerrors.CodeUnauthorized))

	_, err = f.svc.Withdraw(ctx, admin)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeNoFunds))

	f.mint(t, "0xa")
	f.mint(t, "0xb")

	moved, err := f.svc.Withdraw(ctx, admin)
	require.NoError(t, err)
	want := new(uint256.Int).Mul(models.DefaultUnitPrice(), uint256.NewInt(2))
	assert.Equal(t, want, moved)
	assert.Equal(t, want, f.vault.PaidTo(admin))

	balance, err := f.vault.Balance(ctx)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	_, err = f.svc.Withdraw(ctx, admin)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeNoFunds))
}

func TestHasMintedQuery(t *testing.T) {
	f := newFixture(t)
	f.openMinting(t)
	ctx := context.Background()

	minted, err := f.svc.HasMinted(ctx, "0xa")
	require.NoError(t, err)
	assert.False(t, minted)

	f.mint(t, "0xa")
	minted, err = f.svc.HasMinted(ctx, "0xa")
	require.NoError(t, err)
	assert.True(t, minted)
}
