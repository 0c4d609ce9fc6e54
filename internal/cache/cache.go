// Package cache implements the Response Cache: a size-bounded, TTL-aware
// store mapping query keys to provider Responses, with an exact lookup and
// an approximate (Jaccard-similarity) lookup for near-duplicate queries.
package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"
	"unicode"

	"forge/internal/logging"
	"forge/internal/model"
)

// Config mirrors internal/config.CacheConfig's TOML-facing fields.
type Config struct {
	Enabled             bool
	TTL                 time.Duration
	MaxSizeMB           int
	SimilarityThreshold float64
}

// entry is the value stored per cache key, plus the bookkeeping the LRU
// and TTL policies need.
type entry struct {
	key       string
	response  model.Response
	words     map[string]bool
	sizeBytes int
	storedAt  time.Time
	hits      int
	elem      *list.Element
}

// Cache is the Response Cache. Entries are ordered by most-recent-use via
// an intrusive container/list, matching the shape groupcache/lru uses —
// no example repo in the corpus wires a dedicated LRU library, so this is
// the idiomatic stdlib rendition of that same shape.
type Cache struct {
	mu       sync.Mutex
	cfg      Config
	entries  map[string]*entry
	order    *list.List // front = most recently used
	sizeSum  int
	hitCount int
}

// New constructs a Cache from Config.
func New(cfg Config) *Cache {
	return &Cache{
		cfg:     cfg,
		entries: make(map[string]*entry),
		order:   list.New(),
	}
}

// Get returns the cached response for key, if present and not expired. A
// hit moves the entry to most-recently-used and increments its hit count.
func (c *Cache) Get(key string) (model.Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return model.Response{}, false
	}
	if c.expired(e) {
		c.removeLocked(e)
		return model.Response{}, false
	}
	e.hits++
	c.hitCount++
	c.order.MoveToFront(e.elem)
	return e.response, true
}

// Put inserts response under key. A no-op if caching is disabled. Evicts
// least-recently-used entries until the new entry fits within MaxSizeMB.
func (c *Cache) Put(key string, response model.Response) {
	if !c.cfg.Enabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	size := estimateSize(response)
	maxBytes := c.cfg.MaxSizeMB * 1_000_000

	if existing, ok := c.entries[key]; ok {
		c.removeLocked(existing)
	}

	for c.sizeSum+size > maxBytes && c.order.Len() > 0 {
		oldest := c.order.Back()
		c.removeLocked(oldest.Value.(*entry))
	}
	if size > maxBytes {
		logging.CacheWarn("response exceeds max_size_mb on its own (%d bytes); not cached", size)
		return
	}

	e := &entry{
		key:       key,
		response:  response,
		words:     normalizedWords(key),
		sizeBytes: size,
		storedAt:  time.Now(),
	}
	e.elem = c.order.PushFront(e)
	c.entries[key] = e
	c.sizeSum += size
}

// SimilarityGet compares query against stored keys by normalized
// token-set Jaccard similarity and returns the entry whose similarity
// meets SimilarityThreshold, if any. Ties are broken by most recent
// storage time.
func (c *Cache) SimilarityGet(query string) (model.Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	queryWords := normalizedWords(query)
	if len(queryWords) == 0 {
		return model.Response{}, false
	}

	var best *entry
	var bestScore float64
	for e := c.order.Front(); e != nil; e = e.Next() {
		candidate := e.Value.(*entry)
		if c.expired(candidate) {
			continue
		}
		score := jaccard(queryWords, candidate.words)
		if score < c.cfg.SimilarityThreshold {
			continue
		}
		if best == nil || score > bestScore ||
			(score == bestScore && candidate.storedAt.After(best.storedAt)) {
			best = candidate
			bestScore = score
		}
	}
	if best == nil {
		return model.Response{}, false
	}
	best.hits++
	c.hitCount++
	c.order.MoveToFront(best.elem)
	return best.response, true
}

// Len reports the number of live (unexpired) entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepExpiredLocked()
	return c.order.Len()
}

// SizeBytes reports the current total estimated size of cached entries.
func (c *Cache) SizeBytes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepExpiredLocked()
	return c.sizeSum
}

func (c *Cache) expired(e *entry) bool {
	if c.cfg.TTL <= 0 {
		return false
	}
	return time.Since(e.storedAt) > c.cfg.TTL
}

func (c *Cache) sweepExpiredLocked() {
	var next *list.Element
	for el := c.order.Back(); el != nil; el = next {
		next = el.Prev()
		e := el.Value.(*entry)
		if c.expired(e) {
			c.removeLocked(e)
		}
	}
}

func (c *Cache) removeLocked(e *entry) {
	c.order.Remove(e.elem)
	delete(c.entries, e.key)
	c.sizeSum -= e.sizeBytes
}

// estimateSize approximates a Response's serialized size; good enough for
// LRU eviction bookkeeping, not a precision requirement.
func estimateSize(r model.Response) int {
	return len(r.Text) + len(r.Provider) + 64
}

// normalizedWords lower-cases and strips punctuation from text, returning
// the set of resulting words, for Jaccard comparison.
func normalizedWords(text string) map[string]bool {
	words := make(map[string]bool)
	var sb strings.Builder
	flush := func() {
		if sb.Len() > 0 {
			words[strings.ToLower(sb.String())] = true
			sb.Reset()
		}
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return words
}

// jaccard computes |a ∩ b| / |a ∪ b| over two word sets.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	intersection := 0
	for w := range a {
		if b[w] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
