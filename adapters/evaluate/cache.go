package evaluate

import (
	"strings"
	"sync"

	"godesign/domain/constraint"
	"godesign/domain/core"
	"godesign/domain/design"
)

// resultCache is a size-bounded evaluation cache with FIFO eviction. Keyed
// by candidate content plus the constraint set, so a substituted set never
// serves stale results.
type resultCache struct {
	mu      sync.Mutex
	size    int
	entries map[core.Hash]constraint.Result
	order   []core.Hash
}

func newResultCache(size int) *resultCache {
	return &resultCache{
		size:    size,
		entries: make(map[core.Hash]constraint.Result, size),
	}
}

func (c *resultCache) get(key core.Hash) (constraint.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[key]
	return r, ok
}

func (c *resultCache) put(key core.Hash, result constraint.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; exists {
		return
	}
	if len(c.order) >= c.size {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = result
	c.order = append(c.order, key)
}

func cacheKey(candidate *design.DesignObject, set *constraint.Set) core.Hash {
	var tokens []string
	if candidate.Structure != nil {
		tokens = append(tokens, candidate.Structure.FingerprintTokens()...)
	}
	if candidate.Variables != nil {
		tokens = append(tokens, candidate.Variables.FingerprintTokens()...)
	}
	tokens = append(tokens, set.IDs()...)
	return core.NewHash([]byte(strings.Join(tokens, "\x1f")))
}
