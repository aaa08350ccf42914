package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// Fingerprint is the dedup digest of a candidate. It is order-independent:
// equal structures and assignments hash equally regardless of insertion order.
type Fingerprint Hash

func (f Fingerprint) String() string { return Hash(f).String() }
func (f Fingerprint) IsEmpty() bool  { return Hash(f).IsEmpty() }

// NewFingerprint hashes a canonically ordered token stream.
func NewFingerprint(tokens []string) Fingerprint {
	sorted := make([]string, len(tokens))
	copy(sorted, tokens)
	sort.Strings(sorted)

	var data strings.Builder
	for _, tok := range sorted {
		data.WriteString(tok)
		data.WriteByte(0x1f)
	}
	return Fingerprint(NewHash([]byte(data.String())))
}

// ComputeMapHash hashes a string-keyed map in key order.
func ComputeMapHash(values map[string]interface{}) Hash {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var data strings.Builder
	for _, key := range keys {
		data.WriteString(key)
		data.WriteString(fmt.Sprintf("%v", values[key]))
	}
	return NewHash([]byte(data.String()))
}
