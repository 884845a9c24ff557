package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"ajo-pools/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func providerKey(t *testing.T) (*ecdsa.PrivateKey, string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	return key, string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func providerToken(t *testing.T, key *ecdsa.PrivateKey, claims jwt.RegisteredClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestSessionTokenRoundTrip(t *testing.T) {
	v, err := NewVerifier("secret", config.IdentityConfig{Issuer: "privy.io"})
	require.NoError(t, err)

	token, err := v.GenerateSessionToken("wallet:Abc", "Abc")
	require.NoError(t, err)

	identity, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "wallet:Abc", identity.Subject)
	assert.Equal(t, "Abc", identity.WalletAddress)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	issuer, err := NewVerifier("secret", config.IdentityConfig{})
	require.NoError(t, err)
	other, err := NewVerifier("other-secret", config.IdentityConfig{})
	require.NoError(t, err)

	token, err := issuer.GenerateSessionToken("wallet:Abc", "Abc")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestProviderToken(t *testing.T) {
	key, pemKey := providerKey(t)
	v, err := NewVerifier("secret", config.IdentityConfig{
		AppID:           "app-123",
		Issuer:          "privy.io",
		VerificationKey: pemKey,
	})
	require.NoError(t, err)

	valid := jwt.RegisteredClaims{
		Subject:   "did:privy:alice",
		Issuer:    "privy.io",
		Audience:  jwt.ClaimStrings{"app-123"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	identity, err := v.Verify(providerToken(t, key, valid))
	require.NoError(t, err)
	assert.Equal(t, "did:privy:alice", identity.Subject)

	wrongIssuer := valid
	wrongIssuer.Issuer = "someone-else"
	_, err = v.Verify(providerToken(t, key, wrongIssuer))
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongAudience := valid
	wrongAudience.Audience = jwt.ClaimStrings{"another-app"}
	_, err = v.Verify(providerToken(t, key, wrongAudience))
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	_, err = v.Verify(providerToken(t, key, expired))
	assert.Error(t, err)
}

func TestProviderTokenRejectedWithoutKey(t *testing.T) {
	key, _ := providerKey(t)
	v, err := NewVerifier("secret", config.IdentityConfig{AppID: "app-123", Issuer: "privy.io"})
	require.NoError(t, err)

	_, err = v.Verify(providerToken(t, key, jwt.RegisteredClaims{
		Subject:   "did:privy:alice",
		Issuer:    "privy.io",
		Audience:  jwt.ClaimStrings{"app-123"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}))
	assert.Error(t, err)
}

func TestNewVerifierRequiresSecret(t *testing.T) {
	_, err := NewVerifier("", config.IdentityConfig{})
	assert.Error(t, err)
}
