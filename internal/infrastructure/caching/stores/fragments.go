// Package stores provides concrete cache store implementations
package stores

import (
	"sync"
	"time"

	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/caching/types"
)

// FragmentsStore implements rendered HTML caching with per-page isolation
type FragmentsStore struct {
	pageCaches map[string]*types.PageHTMLCache
	ttl        time.Duration
	maxChunks  int
	mu         sync.RWMutex
}

// NewFragmentsStore creates a new fragments cache store. A page holding maxChunks
// entries drops its oldest entry on insert; zero disables the bound.
func NewFragmentsStore(ttl time.Duration, maxChunks int) *FragmentsStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &FragmentsStore{
		pageCaches: make(map[string]*types.PageHTMLCache),
		ttl:        ttl,
		maxChunks:  maxChunks,
	}
}

func (fs *FragmentsStore) getPageCache(pageID string) (*types.PageHTMLCache, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	cache, exists := fs.pageCaches[pageID]
	return cache, exists
}

func (fs *FragmentsStore) initializePage(pageID string) *types.PageHTMLCache {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.pageCaches[pageID] == nil {
		fs.pageCaches[pageID] = &types.PageHTMLCache{
			Chunks: make(map[string]*types.HTMLChunk),
		}
	}
	return fs.pageCaches[pageID]
}

// =============================================================================
// HTML Chunk Operations
// =============================================================================

// GetHTMLChunk retrieves the fragment rendered from digest for a variant
func (fs *FragmentsStore) GetHTMLChunk(pageID, digest string, variant types.FragmentVariant) (*types.HTMLChunk, bool) {
	cache, exists := fs.getPageCache(pageID)
	if !exists {
		return nil, false
	}

	cache.Mu.RLock()
	defer cache.Mu.RUnlock()

	chunk, exists := cache.Chunks[BuildChunkKey(digest, variant)]
	if !exists {
		return nil, false
	}
	if time.Since(chunk.LastUpdated) > fs.ttl {
		return nil, false
	}
	return chunk, true
}

// SetHTMLChunk stores a fragment. Entries rendered from an older digest of the
// same page are dropped since they can no longer be requested.
func (fs *FragmentsStore) SetHTMLChunk(pageID, digest string, variant types.FragmentVariant, html string) {
	cache, exists := fs.getPageCache(pageID)
	if !exists {
		cache = fs.initializePage(pageID)
	}

	cache.Mu.Lock()
	defer cache.Mu.Unlock()

	for key, chunk := range cache.Chunks {
		if chunk.Digest != digest {
			delete(cache.Chunks, key)
		}
	}
	if fs.maxChunks > 0 && len(cache.Chunks) >= fs.maxChunks {
		fs.evictOldest(cache)
	}

	cache.Chunks[BuildChunkKey(digest, variant)] = &types.HTMLChunk{
		HTML:        html,
		PageID:      pageID,
		Digest:      digest,
		Variant:     variant,
		LastUpdated: time.Now().UTC(),
	}
}

func (fs *FragmentsStore) evictOldest(cache *types.PageHTMLCache) {
	var oldestKey string
	var oldest time.Time
	for key, chunk := range cache.Chunks {
		if oldestKey == "" || chunk.LastUpdated.Before(oldest) {
			oldestKey, oldest = key, chunk.LastUpdated
		}
	}
	delete(cache.Chunks, oldestKey)
}

// BuildChunkKey creates a unique key for HTML chunks based on digest and variant
func BuildChunkKey(digest string, variant types.FragmentVariant) string {
	key := digest + ":" + string(variant.Breakpoint) + ":" + string(variant.Mode)
	if variant.Document {
		key += ":document"
	}
	return key
}

// =============================================================================
// Cache Management Operations
// =============================================================================

// InvalidatePage clears every fragment of a page
func (fs *FragmentsStore) InvalidatePage(pageID string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.pageCaches, pageID)
}

// PurgeExpiredChunks removes expired fragments across all pages
func (fs *FragmentsStore) PurgeExpiredChunks() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	purged := 0
	for pageID, cache := range fs.pageCaches {
		cache.Mu.Lock()
		for key, chunk := range cache.Chunks {
			if time.Since(chunk.LastUpdated) > fs.ttl {
				delete(cache.Chunks, key)
				purged++
			}
		}
		empty := len(cache.Chunks) == 0
		cache.Mu.Unlock()

		if empty {
			delete(fs.pageCaches, pageID)
		}
	}
	return purged
}

// Summary returns cache status for debugging
func (fs *FragmentsStore) Summary() map[string]any {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	activeChunks := 0
	expiredChunks := 0
	for _, cache := range fs.pageCaches {
		cache.Mu.RLock()
		for _, chunk := range cache.Chunks {
			if time.Since(chunk.LastUpdated) <= fs.ttl {
				activeChunks++
			} else {
				expiredChunks++
			}
		}
		cache.Mu.RUnlock()
	}

	return map[string]any{
		"pages":         len(fs.pageCaches),
		"activeChunks":  activeChunks,
		"expiredChunks": expiredChunks,
		"ttl":           fs.ttl.String(),
		"currentTime":   time.Now().UTC(),
	}
}
