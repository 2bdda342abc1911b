package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/vonderheiden/bannerforge/pkg/banner"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes the full SHA-256 hex digest of data.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// StateHash fingerprints a banner state. Two states with equal content
// hash equal, so an unchanged banner maps to the same artifact key.
func StateHash(st banner.State) string {
	data, _ := json.Marshal(st)
	return Hash(data)
}
