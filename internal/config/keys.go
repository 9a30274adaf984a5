package config

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

const generatedKeyBits = 2048

// loadSigningKeys reads a base64 encoded PEM keypair from JWT_PRIVATE_KEY and
// JWT_PUBLIC_KEY. Outside production a missing pair is replaced by an
// ephemeral one, so sessions do not survive a restart.
func loadSigningKeys(production bool) (*rsa.PrivateKey, error) {
	privB64, pubB64 := os.Getenv("JWT_PRIVATE_KEY"), os.Getenv("JWT_PUBLIC_KEY")
	if privB64 == "" || pubB64 == "" {
		if production {
			return nil, errors.New("JWT_PRIVATE_KEY and JWT_PUBLIC_KEY must be set in production")
		}
		slog.Warn("generating ephemeral RSA keypair for session tokens")
		key, _, err := GenerateRSAKeyPair()
		return key, err
	}

	privPEM, err := decodeBase64("JWT_PRIVATE_KEY", privB64)
	if err != nil {
		return nil, err
	}
	pubPEM, err := decodeBase64("JWT_PUBLIC_KEY", pubB64)
	if err != nil {
		return nil, err
	}

	// PKCS#1 and PKCS#8 private keys are both accepted
	key, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT_PRIVATE_KEY: %w", err)
	}
	public, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT_PUBLIC_KEY: %w", err)
	}
	if !key.PublicKey.Equal(public) {
		return nil, errors.New("JWT_PUBLIC_KEY does not match JWT_PRIVATE_KEY")
	}
	return key, nil
}

// GenerateRSAKeyPair returns a fresh keypair for signing session tokens
func GenerateRSAKeyPair() (*rsa.PrivateKey, *rsa.PublicKey, error) {
	key, err := rsa.GenerateKey(rand.Reader, generatedKeyBits)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate RSA key pair: %w", err)
	}
	return key, &key.PublicKey, nil
}

func decodeBase64(name, b64 string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return raw, nil
}
