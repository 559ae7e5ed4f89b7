// Package modelcache memoizes loaded models by source path.
package modelcache

import (
	"context"
	"sync"

	"github.com/binzume/tbmscene/identity"
	"github.com/binzume/tbmscene/naming"
	"github.com/binzume/tbmscene/rig"
	"github.com/binzume/tbmscene/scene"
	"golang.org/x/sync/singleflight"
)

// Entry is a normalized model with its identifier map.
type Entry struct {
	Path       string
	Convention naming.Convention
	Scene      *scene.Node // loaded scene root
	Model      *scene.Node // node named by the root name
	Parts      *identity.Map
	Rig        *rig.Rig // nil when the model has no hub
}

// LoadFunc builds the entry for a cache miss.
type LoadFunc func(ctx context.Context) (*Entry, error)

// Cache keeps at most one entry per path. All entries share one naming
// convention: a request with another convention clears the whole cache.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Entry
	order   []string

	loadMu sync.Mutex
	group  singleflight.Group
}

func New() *Cache {
	return &Cache{entries: map[string]*Entry{}}
}

// Get returns the entry for path if it was built with conv.
// An entry with another convention invalidates every entry.
func (c *Cache) Get(path string, conv naming.Convention) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getLocked(path, conv)
}

func (c *Cache) getLocked(path string, conv naming.Convention) (*Entry, bool) {
	e, ok := c.entries[path]
	if !ok {
		return nil, false
	}
	if !e.Convention.Equal(conv) {
		c.entries = map[string]*Entry{}
		c.order = nil
		return nil, false
	}
	return e, true
}

// Load returns the cached entry or calls load. Concurrent calls for the same
// (path, conv) share one call of load. Loads of different paths run one at a time.
// hit is true when the entry came from the cache.
//
// The shared load is not canceled with ctx; a canceled caller stops waiting
// and the others still get the result.
func (c *Cache) Load(ctx context.Context, path string, conv naming.Convention, load LoadFunc) (e *Entry, hit bool, err error) {
	if e, ok := c.Get(path, conv); ok {
		return e, true, nil
	}
	key := path + "\x00" + conv.String()
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		c.loadMu.Lock()
		defer c.loadMu.Unlock()
		if e, ok := c.Get(path, conv); ok {
			return e, nil
		}
		e, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		e.Path = path
		e.Convention = conv
		c.Put(e)
		return e, nil
	})
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, false, r.Err
		}
		return r.Val.(*Entry), false, nil
	}
}

// Put stores e, replacing the entry of the same path. Entries built with
// another convention are dropped.
func (c *Cache) Put(e *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, old := range c.entries {
		if !old.Convention.Equal(e.Convention) {
			c.entries = map[string]*Entry{}
			c.order = nil
			break
		}
	}
	if _, ok := c.entries[e.Path]; !ok {
		c.order = append(c.order, e.Path)
	}
	c.entries[e.Path] = e
}

func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]*Entry{}
	c.order = nil
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Paths returns the cached paths in insertion order.
func (c *Cache) Paths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.order...)
}
