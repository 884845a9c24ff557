package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryNonceStoreIsSingleUse(t *testing.T) {
	store := NewMemoryNonceStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "Wallet1", "n-1"))

	nonce, err := store.Take(ctx, "Wallet1")
	require.NoError(t, err)
	assert.Equal(t, "n-1", nonce)

	_, err = store.Take(ctx, "Wallet1")
	assert.ErrorIs(t, err, ErrNonceNotFound)
}

func TestMemoryNonceStoreExpires(t *testing.T) {
	store := NewMemoryNonceStore()
	ctx := context.Background()
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "Wallet1", "n-1"))
	now = now.Add(NonceTTL + time.Second)

	_, err := store.Take(ctx, "Wallet1")
	assert.ErrorIs(t, err, ErrNonceNotFound)
}
