package lang

import (
	"strings"
	"sync"

	"github.com/zeebo/xxh3"
)

// rootCache stores parsed roots keyed by expression and registry
// fingerprint. Pipelines evaluate the same handful of conditions for
// every step, so parses repeat heavily.
var rootCache sync.Map

// cacheEntry pairs a parsed root with the registry it was parsed
// against. The registry pointer disambiguates registries that share a
// name fingerprint but bind different function bodies.
type cacheEntry struct {
	root *Root
	reg  *Registry
}

// cacheKey fingerprints an expression and the registered extension names.
func cacheKey(raw string, reg *Registry) uint64 {
	h := xxh3.HashString(raw)

	if names := reg.Names(); len(names) > 0 {
		h ^= xxh3.HashString(strings.Join(names, "\x00"))
	}

	return h
}

// cacheLookup returns the cached root for raw parsed with reg, if any.
func cacheLookup(raw string, reg *Registry) (*Root, bool) {
	v, ok := rootCache.Load(cacheKey(raw, reg))
	if !ok {
		return nil, false
	}

	entry, ok := v.(cacheEntry)
	if !ok || entry.reg != reg || entry.root.raw != raw {
		return nil, false
	}

	return entry.root, true
}

// cacheStore records a parsed root.
func cacheStore(raw string, reg *Registry, root *Root) {
	rootCache.Store(cacheKey(raw, reg), cacheEntry{root: root, reg: reg})
}

// ClearCache removes all cached parse results.
// This is primarily useful for testing or when memory needs to be
// reclaimed.
func ClearCache() {
	rootCache = sync.Map{}
}
