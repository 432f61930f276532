package domerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	err := New(CodeAlreadyMinted, "wallet already minted")
	assert.True(t, HasCode(err, CodeAlreadyMinted))
	assert.False(t, HasCode(err, CodeTokenNotFound))
	assert.False(t, HasCode(errors.New("plain"), CodeAlreadyMinted))
	assert.False(t, HasCode(nil, CodeAlreadyMinted))
}

func TestHasCodeThroughWrapping(t *testing.T) {
	inner := New(CodeTokenNotFound, "no holder for token")
	outer := fmt.Errorf("award points: %w", inner)
	assert.True(t, HasCode(outer, CodeTokenNotFound))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeInternal, "load registry state")
	require.ErrorIs(t, err, cause)
	assert.Equal(t, CodeInternal, CodeOf(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCodeOfDefaultsToInternal(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
}
