package cache

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"lukechampine.com/blake3"
)

// ReportKeyOpts captures the analysis options that affect a report.
// Two runs with different options must not share a cache entry. Render
// options stay out: they are applied after the report is produced.
type ReportKeyOpts struct {
	// Version is the analyzer version; bumping it invalidates old entries.
	Version string `json:"version"`
}

// ReportKey generates the cache key for an analysis report.
// The key is derived from the model source bytes and the options, so any
// edit to the model produces a different key.
func ReportKey(source []byte, opts ReportKeyOpts) string {
	return hashKey("report", Hash(source), opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := blake3.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a BLAKE3 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}
