// Package cache holds rendered public pages and drops them when content changes.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hengyuan-pack/giftbox-site/internal/i18n"
)

// PageCache stores rendered HTML per language and path. Invalidate accepts
// exact paths or prefixes ending in "*".
type PageCache interface {
	Get(ctx context.Context, lang i18n.Lang, path string) ([]byte, bool)
	Set(ctx context.Context, lang i18n.Lang, path string, body []byte) error
	Invalidate(ctx context.Context, paths ...string) error
	Purge(ctx context.Context) error
}

var languages = []i18n.Lang{i18n.LangZh, i18n.LangEn}

func key(lang i18n.Lang, path string) string {
	return "render:" + string(lang) + ":" + path
}

type memoryEntry struct {
	body      []byte
	expiresAt time.Time
}

// MemoryCache is the in-process PageCache used without Redis.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, lang i18n.Lang, path string) ([]byte, bool) {
	m.mu.RLock()
	entry, ok := m.entries[key(lang, path)]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if m.ttl > 0 && m.now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key(lang, path))
		m.mu.Unlock()
		return nil, false
	}
	return entry.body, true
}

func (m *MemoryCache) Set(_ context.Context, lang i18n.Lang, path string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key(lang, path)] = memoryEntry{body: body, expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryCache) Invalidate(_ context.Context, paths ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, path := range paths {
		if prefix, ok := strings.CutSuffix(path, "*"); ok {
			for _, lang := range languages {
				p := key(lang, prefix)
				for k := range m.entries {
					if strings.HasPrefix(k, p) {
						delete(m.entries, k)
					}
				}
			}
			continue
		}
		for _, lang := range languages {
			delete(m.entries, key(lang, path))
		}
	}
	return nil
}

func (m *MemoryCache) Purge(_ context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
	return nil
}

// Len reports the number of cached renders.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
