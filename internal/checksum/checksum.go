// Package checksum provides the SHA-256 fingerprinting used for content
// hashes and slug suffixes.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// SumString returns the hex-encoded SHA-256 digest of s.
func SumString(s string) string {
	return Sum([]byte(s))
}

// Short returns the first n hex characters of the digest of s.
func Short(s string, n int) string {
	d := SumString(s)
	if n > len(d) {
		n = len(d)
	}
	return d[:n]
}
