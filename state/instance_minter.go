package state

import (
	"fmt"
	"sync/atomic"
)

// instanceCounter is the one piece of process-wide state the engine
// keeps (spec §9 "Global state"): a monotonically increasing counter
// used to mint unique instance ids for enemies and units. Everything
// else "global" lives inside GameState.
var instanceCounter uint64

// NextInstanceID mints a new globally-unique numeric suffix, formatted
// with prefix (e.g. "enemy", "unit") so callers get a readable id like
// "enemy-42".
func NextInstanceID(prefix string) string {
	n := atomic.AddUint64(&instanceCounter, 1)
	return fmt.Sprintf("%s-%d", prefix, n)
}

// ResetInstanceCounter zeroes the global counter. Tests that need
// reproducible instance ids across runs should call this in setup.
func ResetInstanceCounter() {
	atomic.StoreUint64(&instanceCounter, 0)
}
