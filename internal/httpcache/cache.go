package httpcache

import (
	"container/list"
	"net/http"
	"strings"
	"sync"
	"time"
)

// entry is one buffered 2xx response.
type entry struct {
	key     string
	status  int
	header  http.Header
	body    []byte
	etag    string
	fetched time.Time
}

// Cache is a size-bounded LRU of Comic Vine responses. It is safe for
// concurrent use.
type Cache struct {
	ttl        time.Duration
	maxEntries int

	mu    sync.Mutex
	index map[string]*list.Element
	order *list.List // front is most recently used
}

// New builds a cache from cfg. TTL zero keeps entries until evicted but
// never serves them without revalidation.
func New(cfg Config) *Cache {
	size := cfg.MaxEntries
	if size <= 0 {
		size = DefaultConfig().MaxEntries
	}
	return &Cache{
		ttl:        max(cfg.TTL, 0),
		maxEntries: size,
		index:      map[string]*list.Element{},
		order:      list.New(),
	}
}

// Get returns the entry for key and whether it is still within its TTL.
func (c *Cache) Get(key string, now time.Time) (entry, bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.index[key]
	if !ok {
		return entry{}, false, false
	}
	c.order.MoveToFront(el)
	ent := el.Value.(entry)
	return ent, true, c.ttl > 0 && now.Sub(ent.fetched) < c.ttl
}

func (c *Cache) Put(key string, resp *http.Response, body []byte, now time.Time) entry {
	ent := entry{
		key:     key,
		status:  resp.StatusCode,
		header:  resp.Header.Clone(),
		body:    body,
		etag:    strings.TrimSpace(resp.Header.Get("ETag")),
		fetched: now,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.index[key]; ok {
		el.Value = ent
		c.order.MoveToFront(el)
		return ent
	}
	c.index[key] = c.order.PushFront(ent)
	for c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		delete(c.index, oldest.Value.(entry).key)
		c.order.Remove(oldest)
	}
	return ent
}

// Revalidated restarts the TTL of key after a 304.
func (c *Cache) Revalidated(key string, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.index[key]; ok {
		ent := el.Value.(entry)
		ent.fetched = now
		el.Value = ent
	}
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.index[key]; ok {
		delete(c.index, key)
		c.order.Remove(el)
	}
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
