package cache

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint builds a deterministic cache key from an endpoint name and an
// ordered list of parameter strings (spec §4.3 "deterministic fingerprint of
// the parameters"). Using xxhash keeps keys short and fixed-length even when
// parameters are large (e.g. a batch of 50 video IDs), while staying
// collision-resistant enough for a cache key rather than a security boundary.
func Fingerprint(endpoint string, parts ...string) string {
	var b strings.Builder
	b.WriteString(endpoint)
	for _, p := range parts {
		b.WriteByte('\x1f')
		b.WriteString(p)
	}
	sum := xxhash.Sum64String(b.String())
	return endpoint + ":" + strconv.FormatUint(sum, 16)
}
