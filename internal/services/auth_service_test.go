package services

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"ajo-pools/internal/apperrors"
	"ajo-pools/internal/auth"
	"ajo-pools/internal/config"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	verifier, err := auth.NewVerifier("test-secret", config.IdentityConfig{})
	require.NoError(t, err)
	svc := NewAuthService(f.users, auth.NewMemoryNonceStore(), verifier)

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	wallet := base58.Encode(pub)

	_, message, err := svc.Challenge(ctx, wallet)
	require.NoError(t, err)

	token, user, err := svc.WalletLogin(ctx, wallet, base58.Encode(ed25519.Sign(priv, []byte(message))))
	require.NoError(t, err)
	assert.Equal(t, wallet, user.Wallet())

	identity, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.PrivyID, identity.Subject)

	// the challenge is single use
	_, _, err = svc.WalletLogin(ctx, wallet, base58.Encode(ed25519.Sign(priv, []byte(message))))
	requireKind(t, err, apperrors.KindUnauthorized, "Challenge expired")
}

func TestWalletLoginRejectsWrongSigner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	verifier, err := auth.NewVerifier("test-secret", config.IdentityConfig{})
	require.NoError(t, err)
	svc := NewAuthService(f.users, auth.NewMemoryNonceStore(), verifier)

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	_, otherPriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	wallet := base58.Encode(pub)

	_, message, err := svc.Challenge(ctx, wallet)
	require.NoError(t, err)

	_, _, err = svc.WalletLogin(ctx, wallet, base58.Encode(ed25519.Sign(otherPriv, []byte(message))))
	requireKind(t, err, apperrors.KindUnauthorized, "Invalid signature")

	_, _, err = svc.Challenge(ctx, "short")
	requireKind(t, err, apperrors.KindBadRequest, "Invalid wallet address")
}
