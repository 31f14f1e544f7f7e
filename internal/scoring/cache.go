package scoring

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// pairCache memoizes oracle scores keyed by a content hash of the input pair.
// The same responsibility/competency text pairs recur across jobs, so the
// cache is shared run-wide and is read-mostly after warmup.
type pairCache struct {
	mu      sync.RWMutex
	entries map[string]float64
}

func newPairCache() *pairCache {
	return &pairCache{entries: make(map[string]float64)}
}

// pairKey hashes an input pair. Similarity is symmetric, so the pair is
// canonicalized before hashing to share entries across argument orders.
func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	h := sha256.New()
	h.Write([]byte(a))
	h.Write([]byte{0})
	h.Write([]byte(b))
	return hex.EncodeToString(h.Sum(nil))
}

// orderedKey hashes an input pair without canonicalization, for asymmetric
// judgments such as contextual relevance.
func orderedKey(a, b string) string {
	h := sha256.New()
	h.Write([]byte(a))
	h.Write([]byte{1})
	h.Write([]byte(b))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *pairCache) get(key string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *pairCache) put(key string, v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = v
}

func (c *pairCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
