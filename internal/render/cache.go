package render

import (
	"strings"
	"sync"
)

// cacheEntry готовый PNG вместе с размерами холста
type cacheEntry struct {
	png    []byte
	width  int
	height int
	seq    int64
}

// renderCache ограниченный LRU-кеш готовых изображений, ключ —
// абсолютный путь файла плюс время его изменения. Вытеснение
// детерминированное: при переполнении удаляется самый давний по
// использованию элемент.
type renderCache struct {
	mu      sync.Mutex
	max     int
	seq     int64
	entries map[string]*cacheEntry
}

func newRenderCache(max int) *renderCache {
	if max < 1 {
		max = 1
	}
	return &renderCache{max: max, entries: make(map[string]*cacheEntry)}
}

// Get возвращает закешированный PNG. Срез принадлежит кешу,
// вызывающий не должен его изменять.
func (c *renderCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.seq++
	e.seq = c.seq
	return e.png, true
}

// Put сохраняет PNG, при необходимости вытесняя давно не использованный
func (c *renderCache) Put(key string, png []byte, width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.entries[key] = &cacheEntry{png: png, width: width, height: height, seq: c.seq}

	for len(c.entries) > c.max {
		oldestKey := ""
		var oldestSeq int64
		for k, e := range c.entries {
			if oldestKey == "" || e.seq < oldestSeq {
				oldestKey = k
				oldestSeq = e.seq
			}
		}
		delete(c.entries, oldestKey)
	}
}

// InvalidatePrefix удаляет все записи с ключами, начинающимися с prefix.
// Используется при изменении исходного файла на диске.
func (c *renderCache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}

func (c *renderCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
