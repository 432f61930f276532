package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"mintpass/internal/custody"
	"mintpass/internal/ledger"
	"mintpass/internal/mocks"
	"mintpass/internal/platform/metrics"
	"mintpass/internal/registry/models"
	"mintpass/internal/registry/store"
	storemem "mintpass/internal/registry/store/memory"
	"mintpass/pkg/domerrors"
)

func TestMintFailsWhenLedgerBindFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	lg := mocks.NewMockLedger(ctrl)
	gomock.InOrder(
		lg.EXPECT().
			BindNewToken(gomock.Any(), models.TokenID(1), models.Address("0xa")).
			Return(errors.New("ledger unavailable")),
		lg.EXPECT().
			BindNewToken(gomock.Any(), models.TokenID(1), models.Address("0xa")).
			Return(nil),
	)

	st := storemem.New()
	svc, err := New(ctx, st, lg, custody.NewMemoryVault(), admin,
		WithMetrics(metrics.NewForTest()))
	require.NoError(t, err)
	require.NoError(t, svc.SetMintingEnabled(ctx, admin, true))

	_, err = svc.Mint(ctx, "0xa", models.DefaultUnitPrice())
	require.Error(t, err)
	assert.Equal(t, domerrors.CodeInternal, domerrors.CodeOf(err))

	// The failed mint must not leave anything behind: no restriction flag, no
	// pass record, no consumed token id.
	minted, err := st.HasMinted(ctx, "0xa")
	require.NoError(t, err)
	assert.False(t, minted)
	_, err = st.GetPass(ctx, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
	state, err := st.LoadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.TokenID(1), state.NextTokenID)

	// Once the ledger recovers, the same wallet mints the same token id.
	res, err := svc.Mint(ctx, "0xa", models.DefaultUnitPrice())
	require.NoError(t, err)
	assert.Equal(t, models.TokenID(1), res.TokenID)
}

func TestAwardPointsMapsMissingHolder(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	lg := mocks.NewMockLedger(ctrl)
	lg.EXPECT().
		CurrentHolder(gomock.Any(), models.TokenID(9)).
		Return(models.Address(""), ledger.ErrNoHolder)

	svc, err := New(ctx, storemem.New(), lg, custody.NewMemoryVault(), admin,
		WithMetrics(metrics.NewForTest()))
	require.NoError(t, err)

	_, err = svc.AwardPoints(ctx, admin, 9, 10)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeTokenNotFound))
}

func TestClaimReportsLedgerFailureAsInternal(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	lg := mocks.NewMockLedger(ctrl)
	lg.EXPECT().
		CurrentHolder(gomock.Any(), models.TokenID(3)).
		Return(models.Address(""), errors.New("ledger unavailable"))

	svc, err := New(ctx, storemem.New(), lg, custody.NewMemoryVault(), admin,
		WithMetrics(metrics.NewForTest()))
	require.NoError(t, err)
	require.NoError(t, svc.SetTokenClaimEnabled(ctx, admin, true))

	// An infrastructure failure is not an ownership verdict.
	err = svc.ClaimTokens(ctx, "0xa", 3)
	require.Error(t, err)
	assert.Equal(t, domerrors.CodeInternal, domerrors.CodeOf(err))
}

func TestWithdrawPropagatesVaultFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	vault := mocks.NewMockVault(ctrl)
	vault.EXPECT().Balance(gomock.Any()).Return(nil, errors.New("custody offline"))

	svc, err := New(ctx, storemem.New(), ledger.NewMemoryLedger(), vault, admin,
		WithMetrics(metrics.NewForTest()))
	require.NoError(t, err)

	_, err = svc.Withdraw(ctx, admin)
	require.Error(t, err)
	assert.Equal(t, domerrors.CodeInternal, domerrors.CodeOf(err))
}
