package config

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeKeys(t *testing.T, key *rsa.PrivateKey, pub *rsa.PublicKey) (string, string) {
	t.Helper()
	pubDER, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)

	priv := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	public := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	return base64.StdEncoding.EncodeToString(priv), base64.StdEncoding.EncodeToString(public)
}

func TestLoadSigningKeys_FromEnvironment(t *testing.T) {
	key, pub, err := GenerateRSAKeyPair()
	require.NoError(t, err)
	privB64, pubB64 := encodeKeys(t, key, pub)
	t.Setenv("JWT_PRIVATE_KEY", privB64)
	t.Setenv("JWT_PUBLIC_KEY", pubB64)

	loaded, err := loadSigningKeys(true)
	require.NoError(t, err)
	assert.True(t, loaded.Equal(key))
}

func TestLoadSigningKeys_MismatchedPair(t *testing.T) {
	key, _, err := GenerateRSAKeyPair()
	require.NoError(t, err)
	_, other, err := GenerateRSAKeyPair()
	require.NoError(t, err)
	privB64, pubB64 := encodeKeys(t, key, other)
	t.Setenv("JWT_PRIVATE_KEY", privB64)
	t.Setenv("JWT_PUBLIC_KEY", pubB64)

	_, err = loadSigningKeys(false)
	assert.ErrorContains(t, err, "does not match")
}

func TestLoadSigningKeys_BadEncoding(t *testing.T) {
	t.Setenv("JWT_PRIVATE_KEY", "not base64!")
	t.Setenv("JWT_PUBLIC_KEY", base64.StdEncoding.EncodeToString([]byte("plain text")))

	_, err := loadSigningKeys(false)
	assert.ErrorContains(t, err, "JWT_PRIVATE_KEY")
}
