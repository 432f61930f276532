package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mintpass/internal/registry/models"
	"mintpass/pkg/domerrors"
)

func TestAccessLevelRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.openMinting(t)
	ctx := context.Background()

	id := f.mint(t, "0xa")

	level, err := f.svc.CheckAccess(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, level)

	require.NoError(t, f.svc.SetAccessLevel(ctx, admin, id, 7))
	level, err = f.svc.CheckAccess(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), level)

	// Downgrades are allowed.
	require.NoError(t, f.svc.SetAccessLevel(ctx, admin, id, 1))
	level, err = f.svc.CheckAccess(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), level)
}

func TestAccessLevelErrors(t *testing.T) {
	f := newFixture(t)
	f.openMinting(t)
	ctx := context.Background()

	id := f.mint(t, "0xa")

	err := f.svc.SetAccessLevel(ctx, "0xa", id, 3)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeUnauthorized))

	err = f.svc.SetAccessLevel(ctx, admin, 404, 3)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeTokenNotFound))

	_, err = f.svc.CheckAccess(ctx, 404)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeTokenNotFound))
}

func TestAirdropEligibility(t *testing.T) {
	f := newFixture(t)
	f.openMinting(t)
	ctx := context.Background()

	id := f.mint(t, "0xa")

	err := f.svc.SetAirdropEligibility(ctx, admin, id, true, 50)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeMultiplierTooLow))

	require.NoError(t, f.svc.SetAirdropEligibility(ctx, admin, id, true, 100))
	eligible, multiplier, err := f.svc.IsAirdropEligible(ctx, id)
	require.NoError(t, err)
	assert.True(t, eligible)
	assert.Equal(t, uint64(100), multiplier)

	require.NoError(t, f.svc.SetAirdropEligibility(ctx, admin, id, false, 250))
	eligible, multiplier, err = f.svc.IsAirdropEligible(ctx, id)
	require.NoError(t, err)
	assert.False(t, eligible)
	assert.Equal(t, uint64(250), multiplier)

	err = f.svc.SetAirdropEligibility(ctx, admin, 404, true, 100)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeTokenNotFound))
}

func TestAirdropBatch(t *testing.T) {
	f := newFixture(t)
	f.openMinting(t)
	ctx := context.Background()

	id1 := f.mint(t, "0xa")
	id2 := f.mint(t, "0xb")

	t.Run("length mismatch between any pair", func(t *testing.T) {
		err := f.svc.SetAirdropEligibilityBatch(ctx, admin,
			[]models.TokenID{id1, id2}, []bool{true}, []uint64{100, 100})
		assert.True(t, domerrors.HasCode(err, domerrors.CodeLengthMismatch))

		err = f.svc.SetAirdropEligibilityBatch(ctx, admin,
			[]models.TokenID{id1, id2}, []bool{true, true}, []uint64{100})
		assert.True(t, domerrors.HasCode(err, domerrors.CodeLengthMismatch))
	})

	t.Run("low multiplier aborts whole batch", func(t *testing.T) {
		err := f.svc.SetAirdropEligibilityBatch(ctx, admin,
			[]models.TokenID{id1, id2}, []bool{true, true}, []uint64{150, 99})
		assert.True(t, domerrors.HasCode(err, domerrors.CodeMultiplierTooLow))

		eligible, _, err := f.svc.IsAirdropEligible(ctx, id1)
		require.NoError(t, err)
		assert.False(t, eligible)
	})

	t.Run("applies every element", func(t *testing.T) {
		require.NoError(t, f.svc.SetAirdropEligibilityBatch(ctx, admin,
			[]models.TokenID{id1, id2}, []bool{true, false}, []uint64{150, 300}))

		eligible, multiplier, err := f.svc.IsAirdropEligible(ctx, id1)
		require.NoError(t, err)
		assert.True(t, eligible)
		assert.Equal(t, uint64(150), multiplier)

		eligible, multiplier, err = f.svc.IsAirdropEligible(ctx, id2)
		require.NoError(t, err)
		assert.False(t, eligible)
		assert.Equal(t, uint64(300), multiplier)
	})
}
