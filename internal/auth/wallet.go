package auth

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

var ErrInvalidSignature = errors.New("invalid signature")

// ChallengeMessage is the text a wallet signs to prove ownership
func ChallengeMessage(nonce string) string {
	return fmt.Sprintf("Sign this message to authenticate with Ajo.\n\nNonce: %s", nonce)
}

// ValidWalletAddress reports whether addr decodes to an ed25519 public key
func ValidWalletAddress(addr string) bool {
	if len(addr) < 32 || len(addr) > 44 {
		return false
	}
	pubKey, err := base58.Decode(addr)
	return err == nil && len(pubKey) == ed25519.PublicKeySize
}

// VerifyWalletSignature checks an ed25519 signature over message by the
// wallet's key. The signature may be base58 or hex encoded.
func VerifyWalletSignature(walletAddress, signature string, message []byte) error {
	pubKey, err := base58.Decode(walletAddress)
	if err != nil || len(pubKey) != ed25519.PublicKeySize {
		return fmt.Errorf("invalid public key format")
	}

	sig, err := base58.Decode(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		sig, err = hex.DecodeString(signature)
		if err != nil {
			return fmt.Errorf("invalid signature format")
		}
	}

	if len(sig) != ed25519.SignatureSize || !ed25519.Verify(ed25519.PublicKey(pubKey), message, sig) {
		return ErrInvalidSignature
	}
	return nil
}
