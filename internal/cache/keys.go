package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// KeyPrefix constants for different cache types
const (
	PrefixGraph = "graph"
)

// ContentKey derives a cache key from the given contents.
// Each part is length-prefixed so that ("ab", "c") and ("a", "bc") differ.
func ContentKey(prefix string, parts ...[]byte) string {
	h := sha256.New()
	var size [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(size[:], uint64(len(p)))
		h.Write(size[:])
		h.Write(p)
	}
	return prefix + ":" + hex.EncodeToString(h.Sum(nil))
}

// GraphKey generates a cache key for the module graph of a go.mod/go.sum pair
func GraphKey(goMod, goSum []byte) string {
	return ContentKey(PrefixGraph, goMod, goSum)
}
