package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ppiankov/centauri/internal/model"
)

// Cache defines the interface for byte-level caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ResponseStore is the request/response cache consumed by classifiers.
// Concurrent saves of the same key are last-write-wins.
type ResponseStore interface {
	Lookup(key string) (string, bool)
	Save(key, request, response, provider string) error
}

// Entry is one cached model exchange
type Entry struct {
	RequestKey   string    `json:"request_key"`
	RequestText  string    `json:"request_text"`
	ResponseText string    `json:"response_text"`
	Provider     string    `json:"provider"`
	CreatedAt    time.Time `json:"created_at"`
}

// RequestKey hashes provider and payload into a stable cache key
func RequestKey(provider, payload string) string {
	hash := sha256.Sum256([]byte(provider + ":" + payload))
	return hex.EncodeToString(hash[:])
}

// ResponseCache stores entries as JSON in any byte-level cache
type ResponseCache struct {
	cache Cache
	ttl   time.Duration
}

// NewResponseCache wraps a Cache so it satisfies ResponseStore
func NewResponseCache(c Cache, ttl time.Duration) *ResponseCache {
	return &ResponseCache{cache: c, ttl: ttl}
}

// Lookup returns the cached response text for key
func (r *ResponseCache) Lookup(key string) (string, bool) {
	data, ok := r.cache.Get(key)
	if !ok {
		return "", false
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return "", false
	}
	return entry.ResponseText, true
}

// Save replaces any existing entry for key
func (r *ResponseCache) Save(key, request, response, provider string) error {
	data, err := json.Marshal(Entry{
		RequestKey:   key,
		RequestText:  request,
		ResponseText: response,
		Provider:     provider,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	return r.cache.Set(key, data, r.ttl)
}

// New builds the response store described by cfg. It returns nil when caching is disabled.
// A SQLite path takes precedence over a disk directory; both are fronted by memory.
func New(cfg model.CacheConfig) (ResponseStore, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	memTTL := cfg.MemoryTTL
	if memTTL <= 0 {
		memTTL = time.Hour
	}
	memory := NewMemoryCache(memTTL, 10*time.Minute)

	switch {
	case cfg.SQLitePath != "":
		store, err := OpenSQLiteStore(cfg.SQLitePath, cfg.DiskTTL)
		if err != nil {
			return nil, err
		}
		return NewResponseCache(NewLayeredCache(memory, store), 0), nil
	case cfg.DiskDir != "":
		return NewResponseCache(NewLayeredCache(memory, NewDiskCache(cfg.DiskDir, cfg.DiskTTL)), 0), nil
	default:
		return NewResponseCache(memory, 0), nil
	}
}
