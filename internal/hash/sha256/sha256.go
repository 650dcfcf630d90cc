// Package sha256 fingerprints archived payloads. The digest fragment embedded
// in archive keys makes identical payloads recognizable across searches
// without reading them back.
package sha256

import (
	"crypto/sha256"
	"encoding/hex"
)

// FragmentLen is the digest prefix length embedded in archive keys.
const FragmentLen = 12

// Fingerprint returns the hex SHA-256 digest of data.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// KeyFragment returns the short digest prefix used in archive keys.
func KeyFragment(data []byte) string {
	return Fingerprint(data)[:FragmentLen]
}
