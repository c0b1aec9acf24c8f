// Package cryptox derives and checks password verifiers. A verifier is the
// SHA-256 of an Argon2id key, so the stored material never contains the
// password or the derived key itself.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/dmitrijs2005/librarydesk/internal/common"
	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of the random salt generated for new identities.
const SaltSize = 32

// DeriveKey stretches password with salt using Argon2id.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// MakeVerifier hashes a derived key into the value kept at rest.
func MakeVerifier(key []byte) []byte {
	sum := sha256.Sum256(key)
	return sum[:]
}

// NewVerifier generates a fresh salt and the matching verifier for password.
func NewVerifier(password []byte) (salt []byte, verifier []byte) {
	salt = common.GenerateRandByteArray(SaltSize)
	key := DeriveKey(password, salt)
	defer common.WipeByteArray(key)
	return salt, MakeVerifier(key)
}

// CheckPassword reports whether password matches the stored salt/verifier.
// The comparison runs in constant time.
func CheckPassword(password []byte, salt []byte, verifier []byte) bool {
	if len(salt) == 0 || len(verifier) == 0 {
		return false
	}
	key := DeriveKey(password, salt)
	defer common.WipeByteArray(key)
	return subtle.ConstantTimeCompare(MakeVerifier(key), verifier) == 1
}
