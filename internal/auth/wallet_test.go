package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyWalletSignature(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	wallet := base58.Encode(pub)
	message := []byte(ChallengeMessage("nonce-1"))
	sig := ed25519.Sign(priv, message)

	assert.True(t, ValidWalletAddress(wallet))
	assert.NoError(t, VerifyWalletSignature(wallet, base58.Encode(sig), message))
	assert.NoError(t, VerifyWalletSignature(wallet, hex.EncodeToString(sig), message))

	other := []byte(ChallengeMessage("nonce-2"))
	assert.ErrorIs(t, VerifyWalletSignature(wallet, base58.Encode(sig), other), ErrInvalidSignature)

	assert.Error(t, VerifyWalletSignature("not-a-key", base58.Encode(sig), message))
	assert.False(t, ValidWalletAddress("short"))
}
