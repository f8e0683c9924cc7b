package speech

import (
	"container/list"
	"sync"

	"github.com/hyperjump/pagewise/internal/models"
)

// AudioCache is an LRU cache of synthesized speech keyed by request.
type AudioCache struct {
	capacity int
	cache    map[string]*list.Element
	lru      *list.List
	mu       sync.Mutex
}

type cacheEntry struct {
	key   string
	value *models.SpeechAudio
}

// NewAudioCache creates a new cache with the given capacity. A capacity of zero or less
// disables caching.
func NewAudioCache(capacity int) *AudioCache {
	return &AudioCache{
		capacity: capacity,
		cache:    make(map[string]*list.Element),
		lru:      list.New(),
	}
}

// Get returns the cached audio for key if present and marks it recently used.
func (c *AudioCache) Get(key string) (*models.SpeechAudio, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		return elem.Value.(*cacheEntry).value, true
	}
	return nil, false
}

// Set stores the audio for key, evicting the least recently used entry if at capacity.
func (c *AudioCache) Set(key string, value *models.SpeechAudio) {
	if c.capacity <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry).value = value
		return
	}

	entry := &cacheEntry{key: key, value: value}
	elem := c.lru.PushFront(entry)
	c.cache[key] = elem

	if c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		if oldest != nil {
			c.lru.Remove(oldest)
			delete(c.cache, oldest.Value.(*cacheEntry).key)
		}
	}
}

// Len returns the number of cached entries.
func (c *AudioCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
