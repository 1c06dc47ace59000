package ai

import (
	"strings"
	"sync"

	"github.com/mvcastro/quemsoueu/internal/model/persona"
)

// generationCache memoizes generation results keyed by the exact
// exclusion-list value, order included. Two sessions asking with identical
// used-lists share an entry; the payload carries no session identity.
type generationCache struct {
	mu      sync.Mutex
	entries map[string]persona.Persona
}

func newGenerationCache() *generationCache {
	return &generationCache{entries: make(map[string]persona.Persona)}
}

// Names cannot contain the separator, so the join is collision-free enough
// for a best-effort memo.
func cacheKey(exclude []string) string {
	return strings.Join(exclude, "\x1f")
}

func (c *generationCache) get(exclude []string) (persona.Persona, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cached, ok := c.entries[cacheKey(exclude)]
	return cached, ok
}

func (c *generationCache) put(exclude []string, p persona.Persona) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(exclude)] = p
}
