package service

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mintpass/internal/custody"
	"mintpass/internal/events"
	eventsmem "mintpass/internal/events/memory"
	"mintpass/internal/ledger"
	"mintpass/internal/platform/metrics"
	"mintpass/internal/registry/models"
	storemem "mintpass/internal/registry/store/memory"
	"mintpass/pkg/domerrors"
)

const admin = models.Address("0xadmin")

type fixture struct {
	svc    *Service
	store  *storemem.Store
	ledger *ledger.MemoryLedger
	vault  *custody.MemoryVault
	sink   *eventsmem.Sink
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:  storemem.New(),
		ledger: ledger.NewMemoryLedger(),
		vault:  custody.NewMemoryVault(),
		sink:   eventsmem.NewSink(),
	}
	svc, err := New(context.Background(), f.store, f.ledger, f.vault, admin,
		WithMetrics(metrics.NewForTest()),
		WithPublisher(f.sink),
	)
	require.NoError(t, err)
	f.svc = svc
	return f
}

// openMinting flips the mint gate as the administrator.
func (f *fixture) openMinting(t *testing.T) {
	t.Helper()
	require.NoError(t, f.svc.SetMintingEnabled(context.Background(), admin, true))
}

func (f *fixture) mint(t *testing.T, wallet models.Address) models.TokenID {
	t.Helper()
	res, err := f.svc.Mint(context.Background(), wallet, models.DefaultUnitPrice())
	require.NoError(t, err)
	return res.TokenID
}

func TestNewValidatesDependencies(t *testing.T) {
	ctx := context.Background()
	st := storemem.New()
	lg := ledger.NewMemoryLedger()
	vault := custody.NewMemoryVault()

	_, err := New(ctx, nil, lg, vault, admin)
	assert.ErrorContains(t, err, "store is required")
	_, err = New(ctx, st, nil, vault, admin)
	assert.ErrorContains(t, err, "ledger is required")
	_, err = New(ctx, st, lg, nil, admin)
	assert.ErrorContains(t, err, "vault is required")
	_, err = New(ctx, st, lg, vault, "")
	assert.ErrorContains(t, err, "administrator address is required")
}

func TestNewBootstrapsState(t *testing.T) {
	f := newFixture(t)

	info, err := f.svc.RegistryInfo(context.Background())
	require.NoError(t, err)
	assert.False(t, info.MintingEnabled)
	assert.False(t, info.ClaimEnabled)
	assert.Equal(t, models.DefaultUnitPrice(), info.UnitPrice)
	assert.Zero(t, info.Issued)
	assert.Equal(t, uint64(models.MaxSupply), info.MaxSupply)
}

func TestMintGate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Mint(ctx, "0xa", models.DefaultUnitPrice())
	assert.True(t, domerrors.HasCode(err, domerrors.CodeMintingDisabled))

	f.openMinting(t)
	id := f.mint(t, "0xa")
	assert.Equal(t, models.TokenID(1), id)
}

func TestMintInitializesDefaultsAndBindsHolder(t *testing.T) {
	f := newFixture(t)
	f.openMinting(t)
	ctx := context.Background()

	id := f.mint(t, "0xa")

	p, err := f.svc.GetPassData(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, p.Points)
	assert.False(t, p.TokensClaimed)
	assert.Zero(t, p.AccessLevel)
	assert.False(t, p.AirdropEligible)
	assert.Equal(t, uint64(models.BaseMultiplier), p.AirdropMultiplier)

	holder, err := f.ledger.CurrentHolder(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.Address("0xa"), holder)

	balance, err := f.vault.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultUnitPrice(), balance)
}

func TestMintInsufficientPayment(t *testing.T) {
	f := newFixture(t)
	f.openMinting(t)

	low := new(uint256.Int).Sub(models.DefaultUnitPrice(), uint256.NewInt(1))
	_, err := f.svc.Mint(context.Background(), "0xa", low)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeInsufficientPayment))

	_, err = f.svc.Mint(context.Background(), "0xa", nil)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeInsufficientPayment))
}

func TestMintRefundsOverpayment(t *testing.T) {
	f := newFixture(t)
	f.openMinting(t)
	ctx := context.Background()

	// Pay 0.015, price 0.005: 0.010 comes back.
	payment := uint256.NewInt(15_000_000_000_000_000)
	res, err := f.svc.Mint(ctx, "0xa", payment)
	require.NoError(t, err)

	wantRefund := uint256.NewInt(10_000_000_000_000_000)
	assert.Equal(t, wantRefund, res.Refund)
	assert.Equal(t, models.DefaultUnitPrice(), res.Price)
	assert.Equal(t, wantRefund, f.vault.PaidTo("0xa"))

	balance, err := f.vault.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultUnitPrice(), balance)

	minted := f.sink.ByType(events.TypePassMinted)
	require.Len(t, minted, 1)
	assert.Equal(t, models.DefaultUnitPrice().Dec(), minted[0].Price)
}

func TestMintOncePerWallet(t *testing.T) {
	f := newFixture(t)
	f.openMinting(t)
	ctx := context.Background()

	f.mint(t, "0xa")
	_, err := f.svc.Mint(ctx, "0xa", models.DefaultUnitPrice())
	assert.True(t, domerrors.HasCode(err, domerrors.CodeAlreadyMinted))

	// After the administrator clears the restriction, exactly one more mint
	// succeeds.
	require.NoError(t, f.svc.ResetMintRestriction(ctx, admin, "0xa"))
	id := f.mint(t, "0xa")
	assert.Equal(t, models.TokenID(2), id)
	_, err = f.svc.Mint(ctx, "0xa", models.DefaultUnitPrice())
	assert.True(t, domerrors.HasCode(err, domerrors.CodeAlreadyMinted))
}

func TestMintSequentialIDs(t *testing.T) {
	f := newFixture(t)
	f.openMinting(t)

	wallets := []models.Address{"0x1", "0x2", "0x3"}
	for i, w := range wallets {
		id := f.mint(t, w)
		assert.Equal(t, models.TokenID(i+1), id)
	}

	info, err := f.svc.RegistryInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(3), info.Issued)
}

func TestMintSupplyExhausted(t *testing.T) {
	f := newFixture(t)
	f.openMinting(t)
	ctx := context.Background()

	// Fast-forward the allocator to the cap instead of minting 1000 passes.
	state, err := f.store.LoadState(ctx)
	require.NoError(t, err)
	state.NextTokenID = models.MaxSupply + 1
	require.NoError(t, f.store.SaveState(ctx, state))

	_, err = f.svc.Mint(ctx, "0xa", models.DefaultUnitPrice())
	assert.True(t, domerrors.HasCode(err, domerrors.CodeSupplyExhausted))
}

// reentrantVault re-enters the registry from inside the refund step,
// mimicking a payee whose receive hook calls back into mint.
type reentrantVault struct {
	*custody.MemoryVault
	svc     *Service
	nestErr error
}

func (v *reentrantVault) Refund(ctx context.Context, to models.Address, amount *uint256.Int) error {
	_, v.nestErr = v.svc.Mint(ctx, "0xevil", models.DefaultUnitPrice())
	return v.MemoryVault.Refund(ctx, to, amount)
}

func TestMintReentrancyRejected(t *testing.T) {
	ctx := context.Background()
	st := storemem.New()
	lg := ledger.NewMemoryLedger()
	vault := &reentrantVault{MemoryVault: custody.NewMemoryVault()}

	svc, err := New(ctx, st, lg, vault, admin, WithMetrics(metrics.NewForTest()))
	require.NoError(t, err)
	vault.svc = svc

	require.NoError(t, svc.SetMintingEnabled(ctx, admin, true))

	// Overpay so the refund path (and the nested call) runs.
	payment := new(uint256.Int).Add(models.DefaultUnitPrice(), uint256.NewInt(7))
	res, err := svc.Mint(ctx, "0xa", payment)
	require.NoError(t, err)
	assert.Equal(t, models.TokenID(1), res.TokenID)

	require.Error(t, vault.nestErr)
	assert.True(t, domerrors.HasCode(vault.nestErr, domerrors.CodeReentrantCall))

	// The nested attempt must not have minted anything.
	info, err := svc.RegistryInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), info.Issued)
}
