package params

import (
	"crypto/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	// DefaultPrefix names scalar parameters: p0, p1, ...
	DefaultPrefix = "p"
	// DefaultArrayPrefix names array bases: parray0, parray1, ...
	DefaultArrayPrefix = "parray"
)

// NamingFunc produces the n-th candidate name for prefix. Registries call it
// with a strictly increasing n until a free name comes up, so it must return
// distinct names for distinct n.
type NamingFunc func(prefix string, n int) string

// SequentialNames is the default naming scheme, prefix followed by n.
func SequentialNames(prefix string, n int) string {
	return prefix + strconv.Itoa(n)
}

// UniqueNames returns a naming scheme that appends a lower-case ULID to the
// prefix and ignores n. Names from separate processes do not collide, which
// matters when fragments are rendered in one place and combined in another.
func UniqueNames() NamingFunc {
	var mu sync.Mutex
	entropy := ulid.Monotonic(rand.Reader, 0)
	return func(prefix string, _ int) string {
		mu.Lock()
		id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
		mu.Unlock()
		return prefix + strings.ToLower(id.String())
	}
}
