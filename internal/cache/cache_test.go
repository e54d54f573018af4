package cache

import (
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/centauri/internal/model"
)

func TestRequestKey(t *testing.T) {
	a := RequestKey("openai", "payload")
	if a != RequestKey("openai", "payload") {
		t.Error("expected stable key")
	}
	if a == RequestKey("anthropic", "payload") {
		t.Error("provider must be part of the key")
	}
	if a == RequestKey("openai", "other") {
		t.Error("payload must be part of the key")
	}
	if len(a) != 64 {
		t.Errorf("expected hex sha256, got %d chars", len(a))
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss")
	}
	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if v, ok := c.Get("k"); !ok || string(v) != "v" {
		t.Errorf("expected hit, got %q %v", v, ok)
	}
	_ = c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after delete")
	}
}

func TestDiskCache_RoundTripAndExpiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	if err := c.Set("abcdef", []byte("value"), 0); err != nil {
		t.Fatal(err)
	}
	if v, ok := c.Get("abcdef"); !ok || string(v) != "value" {
		t.Errorf("expected hit, got %q %v", v, ok)
	}

	if err := c.Set("expired", []byte("old"), -time.Second); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("expired"); ok {
		t.Error("expected a past deadline to miss")
	}

	if err := c.Delete("never-written"); err != nil {
		t.Errorf("deleting a missing key should not fail: %v", err)
	}
}

func TestLayeredCache_PromotesBackHits(t *testing.T) {
	front := NewMemoryCache(time.Minute, time.Minute)
	back := NewDiskCache(t.TempDir(), 0)
	layered := NewLayeredCache(front, back)

	if err := back.Set("k1", []byte("from-disk"), 0); err != nil {
		t.Fatal(err)
	}
	if v, ok := layered.Get("k1"); !ok || string(v) != "from-disk" {
		t.Fatalf("expected back hit, got %q %v", v, ok)
	}
	if v, ok := front.Get("k1"); !ok || string(v) != "from-disk" {
		t.Error("expected promotion into front layer")
	}
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "centauri.db")
	store, err := OpenSQLiteStore(path, 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	if _, ok := store.Get("k"); ok {
		t.Error("expected miss on empty store")
	}
	if err := store.Set("k", []byte("first"), 0); err != nil {
		t.Fatal(err)
	}
	if err := store.Set("k", []byte("second"), 0); err != nil {
		t.Fatal(err)
	}
	if v, ok := store.Get("k"); !ok || string(v) != "second" {
		t.Errorf("expected last write to win, got %q", v)
	}
	if n, _ := store.Count(); n != 1 {
		t.Errorf("expected one row, got %d", n)
	}

	if err := store.Set("short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, ok := store.Get("short"); ok {
		t.Error("expected expired row to miss")
	}
}

func TestSQLiteStore_OpenError(t *testing.T) {
	orig := openDB
	defer func() { openDB = orig }()
	openDB = func(string, string) (*sql.DB, error) { return nil, errors.New("boom") }

	if _, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "x.db"), 0); err == nil {
		t.Error("expected open error")
	}
}

func TestResponseCache_SaveLookup(t *testing.T) {
	rc := NewResponseCache(NewMemoryCache(time.Minute, time.Minute), 0)
	key := RequestKey("openai", "tag these")

	if _, ok := rc.Lookup(key); ok {
		t.Error("expected miss")
	}
	if err := rc.Save(key, "tag these", `[{"sentence_id":"S1"}]`, "openai"); err != nil {
		t.Fatal(err)
	}
	got, ok := rc.Lookup(key)
	if !ok || got != `[{"sentence_id":"S1"}]` {
		t.Errorf("unexpected lookup %q %v", got, ok)
	}
}

func TestResponseCache_ConcurrentSavesLastWriteWins(t *testing.T) {
	rc := NewResponseCache(NewMemoryCache(time.Minute, time.Minute), 0)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = rc.Save("k", "req", "resp", "p")
		}()
	}
	wg.Wait()
	if got, ok := rc.Lookup("k"); !ok || got != "resp" {
		t.Errorf("expected a stored response, got %q", got)
	}
}

func TestNew(t *testing.T) {
	store, err := New(model.CacheConfig{Enabled: false})
	if err != nil || store != nil {
		t.Errorf("disabled cache should be nil, got %v %v", store, err)
	}

	dir := t.TempDir()
	tests := []model.CacheConfig{
		{Enabled: true},
		{Enabled: true, DiskDir: dir},
		{Enabled: true, SQLitePath: filepath.Join(dir, "c.db")},
	}
	for i, cfg := range tests {
		store, err := New(cfg)
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		if err := store.Save("k", "req", "resp", "openai"); err != nil {
			t.Fatalf("case %d save: %v", i, err)
		}
		if got, ok := store.Lookup("k"); !ok || got != "resp" {
			t.Errorf("case %d: unexpected lookup %q %v", i, got, ok)
		}
	}
}
