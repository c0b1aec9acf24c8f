package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	salt := []byte("fixed-salt")

	k1 := DeriveKey([]byte("secret"), salt)
	k2 := DeriveKey([]byte("secret"), salt)

	require.Len(t, k1, 32)
	assert.True(t, bytes.Equal(k1, k2), "same password and salt must give the same key")
	assert.False(t, bytes.Equal(k1, DeriveKey([]byte("secret"), []byte("other-salt"))))
}

func TestNewVerifier_CheckPassword(t *testing.T) {
	salt, verifier := NewVerifier([]byte("password"))
	require.Len(t, salt, SaltSize)
	require.Len(t, verifier, 32)

	assert.True(t, CheckPassword([]byte("password"), salt, verifier))
	assert.False(t, CheckPassword([]byte("Password"), salt, verifier))
	assert.False(t, CheckPassword([]byte(""), salt, verifier))
}

func TestCheckPassword_MissingMaterial(t *testing.T) {
	assert.False(t, CheckPassword([]byte("password"), nil, []byte{1}))
	assert.False(t, CheckPassword([]byte("password"), []byte{1}, nil))
}

func TestNewVerifier_FreshSaltEachTime(t *testing.T) {
	s1, v1 := NewVerifier([]byte("password"))
	s2, v2 := NewVerifier([]byte("password"))
	assert.NotEqual(t, s1, s2)
	assert.NotEqual(t, v1, v2)
}
