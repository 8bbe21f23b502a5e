package cache

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/libster-app/libster/internal/analyzer"
	"github.com/libster-app/libster/internal/store"
)

// Backend persists encoded snapshots between runs. *store.DB satisfies it.
type Backend interface {
	GetCachedStats(fingerprint string, schemaVersion int) (*store.CachedStats, error)
	PutCachedStats(c *store.CachedStats) error
}

// Cache is an in-process map in front of an optional Backend. It is safe for
// concurrent use; concurrent requests for the same key compute once.
type Cache struct {
	backend Backend

	mu  sync.RWMutex
	mem map[string]*analyzer.Stats

	group singleflight.Group
}

// New returns a cache. backend may be nil for a memory-only cache.
func New(backend Backend) *Cache {
	return &Cache{
		backend: backend,
		mem:     make(map[string]*analyzer.Stats),
	}
}

// Get returns the snapshot stored under key.
func (c *Cache) Get(key string) (*analyzer.Stats, bool, error) {
	c.mu.RLock()
	s, ok := c.mem[key]
	c.mu.RUnlock()
	if ok {
		return s, true, nil
	}
	if c.backend == nil {
		return nil, false, nil
	}

	row, err := c.backend.GetCachedStats(key, analyzer.SchemaVersion)
	if err != nil {
		return nil, false, fmt.Errorf("reading stats cache: %w", err)
	}
	if row == nil {
		return nil, false, nil
	}
	var stats analyzer.Stats
	if err := json.Unmarshal(row.Payload, &stats); err != nil {
		return nil, false, fmt.Errorf("decoding cached stats %s: %w", key, err)
	}

	c.remember(key, &stats)
	return &stats, true, nil
}

// Put stores s under key in memory and, when configured, in the backend.
func (c *Cache) Put(key string, s *analyzer.Stats) error {
	c.remember(key, s)
	if c.backend == nil {
		return nil
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding stats: %w", err)
	}
	if err := c.backend.PutCachedStats(&store.CachedStats{
		Fingerprint:   key,
		SchemaVersion: analyzer.SchemaVersion,
		Payload:       payload,
	}); err != nil {
		return fmt.Errorf("writing stats cache: %w", err)
	}
	return nil
}

func (c *Cache) remember(key string, s *analyzer.Stats) {
	c.mu.Lock()
	c.mem[key] = s
	c.mu.Unlock()
}

// Process returns the cached snapshot for the inputs, computing and storing
// it on a miss. The second result reports a cache hit. Cache read and write
// failures are logged and never fail the call.
func (c *Cache) Process(records []analyzer.RawSwipe, cfg analyzer.Config, terms []analyzer.Term) (*analyzer.Stats, bool, error) {
	key := Key(records, cfg, terms)

	type result struct {
		stats *analyzer.Stats
		hit   bool
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		s, ok, err := c.Get(key)
		if err != nil {
			log.Printf("Warning: %v", err)
		}
		if ok {
			return result{stats: s, hit: true}, nil
		}

		s, err = analyzer.Process(records, cfg, terms)
		if err != nil {
			return nil, err
		}
		if err := c.Put(key, s); err != nil {
			log.Printf("Warning: %v", err)
		}
		return result{stats: s}, nil
	})
	if err != nil {
		return nil, false, err
	}
	r := v.(result)
	return r.stats, r.hit, nil
}

// Len returns the number of snapshots held in memory.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.mem)
}
