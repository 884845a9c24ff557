package auth

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"time"

	"ajo-pools/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// SessionIssuer is the issuer of wallet sign-in session tokens
	SessionIssuer = "ajo-pools"
	sessionTTL    = 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

// Claims represents the JWT claims accepted by the API
type Claims struct {
	WalletAddress string `json:"wallet_address,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the verified caller behind a bearer token
type Identity struct {
	Subject       string
	WalletAddress string
}

// TokenVerifier resolves a bearer token to a caller identity
type TokenVerifier interface {
	Verify(tokenString string) (*Identity, error)
}

// Verifier accepts identity-provider ES256 tokens and HS256 session tokens
// issued after wallet sign-in.
type Verifier struct {
	sessionSecret []byte
	providerKey   *ecdsa.PublicKey
	issuer        string
	audience      string
}

// NewVerifier builds a verifier from the session secret and identity provider settings.
// Identity-provider tokens are rejected when no verification key is configured.
func NewVerifier(sessionSecret string, identity config.IdentityConfig) (*Verifier, error) {
	if sessionSecret == "" {
		return nil, fmt.Errorf("JWT secret not initialized")
	}

	v := &Verifier{
		sessionSecret: []byte(sessionSecret),
		issuer:        identity.Issuer,
		audience:      identity.AppID,
	}

	if identity.VerificationKey != "" {
		key, err := jwt.ParseECPublicKeyFromPEM([]byte(identity.VerificationKey))
		if err != nil {
			return nil, fmt.Errorf("failed to parse identity verification key: %w", err)
		}
		v.providerKey = key
	}

	return v, nil
}

// GenerateSessionToken generates a session token for a wallet-authenticated user
func (v *Verifier) GenerateSessionToken(subject, walletAddress string) (string, error) {
	now := time.Now()
	claims := &Claims{
		WalletAddress: walletAddress,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    SessionIssuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(v.sessionSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Verify validates a bearer token and returns the caller identity
func (v *Verifier) Verify(tokenString string) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodHMAC:
			return v.sessionSecret, nil
		case *jwt.SigningMethodECDSA:
			if v.providerKey == nil {
				return nil, fmt.Errorf("identity provider tokens are not accepted")
			}
			return v.providerKey, nil
		default:
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
	}, jwt.WithValidMethods([]string{"HS256", "ES256"}), jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if token.Method.Alg() == "ES256" {
		if claims.Issuer != v.issuer {
			return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidToken, claims.Issuer)
		}
		if !audienceContains(claims.Audience, v.audience) {
			return nil, fmt.Errorf("%w: unexpected audience", ErrInvalidToken)
		}
	} else if claims.Issuer != SessionIssuer {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidToken, claims.Issuer)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return &Identity{Subject: claims.Subject, WalletAddress: claims.WalletAddress}, nil
}

func audienceContains(audience jwt.ClaimStrings, want string) bool {
	for _, aud := range audience {
		if aud == want {
			return true
		}
	}
	return false
}
