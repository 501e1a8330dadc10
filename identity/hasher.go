// Package identity derives stable routing keys from user-supplied identifiers.
//
// # Determinism contract
//
// DeriveKey output is used as a storage/routing key that must resolve to the
// same backing store across requests, processes, and releases. It therefore
// uses no randomness and no per-process salt — the same normalized identifier
// always maps to the same key.
//
// # What this package must NOT do
//
//   - Treat the key as a secret — it is a locator, not credential material.
//   - Import goToken or any sibling package.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// DeriveKey maps an identifier (typically an email) to a 64-character
// lowercase hex key. Identifiers are case-folded to lower before hashing so
// differently-cased spellings of the same logical identity share a key.
func DeriveKey(identifier string) string {
	normalized := strings.ToLower(identifier)
	digest := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(digest[:])
}
