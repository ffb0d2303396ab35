// Package ids generates correlation identifiers for outgoing actions.
package ids

import (
	"crypto/rand"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// Generator hands out ActionIDs for a single connection. The ULID prefix
// keeps ids unique across connections and process restarts; the counter
// keeps them unique and ordered within one connection. Each client owns
// its own Generator so independent connections never share state.
type Generator struct {
	prefix string
	n      atomic.Uint64
}

func NewGenerator() *Generator {
	return &Generator{prefix: newULID()}
}

// Next returns a fresh id. Safe for concurrent use.
func (g *Generator) Next() string {
	return g.prefix + "-" + strconv.FormatUint(g.n.Add(1), 10)
}

// newULID returns a time-sortable ULID encoded as a 26-character string.
func newULID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
