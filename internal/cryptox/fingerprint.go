// Package cryptox holds the hashing helpers used to fingerprint synced data.
package cryptox

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns the hex BLAKE2b-256 digest of v's JSON encoding.
// Equal collections in equal order produce equal fingerprints, which lets a
// sync record whether the remote content actually changed.
func Fingerprint(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode value for fingerprint: %w", err)
	}
	return FingerprintBytes(b), nil
}

// FingerprintBytes hashes raw bytes.
func FingerprintBytes(b []byte) string {
	sum := blake2b.Sum256(b)
	return hex.EncodeToString(sum[:])
}
