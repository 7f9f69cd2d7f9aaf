package util

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a lowercase ULID, optionally prefixed ("note_01h2..."). ULIDs
// sort by creation time, so id-ordered listings come back in insertion order.
func NewID(prefix string) string {
	entropyMu.Lock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	entropyMu.Unlock()
	if prefix == "" {
		return strings.ToLower(id.String())
	}
	return prefix + "_" + strings.ToLower(id.String())
}
