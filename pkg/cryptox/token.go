package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// FingerprintCode returns the SHA-256 of a one-time code, base64url encoded
// (43 chars). Only the fingerprint is persisted; two codes match exactly when
// their fingerprints do.
func FingerprintCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// randomSecret returns n random bytes base64url encoded. It panics if the
// system random source fails, which only happens on a broken host.
func randomSecret(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic("cryptox: random source failed: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
