package cache

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestCache(t *testing.T, maxBytes int64, ttl time.Duration) *DiskCache {
	t.Helper()
	dc, err := New(Config{
		Dir:      t.TempDir(),
		MaxBytes: maxBytes,
		TTL:      ttl,
	})
	if err != nil {
		t.Fatal(err)
	}
	return dc
}

func TestStoreAndLookup(t *testing.T) {
	dc := newTestCache(t, 1024, time.Hour)

	data := []byte("fake wav bytes")
	path, err := dc.Store("abc123", data)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Ext(path) != ".wav" {
		t.Errorf("path = %q, want .wav extension", path)
	}

	stored, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(stored, data) {
		t.Error("stored bytes differ from input")
	}

	gotPath, size, ok := dc.Lookup("abc123")
	if !ok {
		t.Fatal("lookup missed a stored entry")
	}
	if gotPath != path {
		t.Errorf("lookup path = %q, want %q", gotPath, path)
	}
	if size != int64(len(data)) {
		t.Errorf("size = %d, want %d", size, len(data))
	}
}

func TestLookupMiss(t *testing.T) {
	dc := newTestCache(t, 1024, time.Hour)
	if _, _, ok := dc.Lookup("nothing"); ok {
		t.Error("lookup hit on an empty cache")
	}

	stats := dc.Stats()
	if stats.Misses != 1 || stats.Hits != 0 {
		t.Errorf("stats = %+v, want 1 miss", stats)
	}
}

func TestTTLExpiry(t *testing.T) {
	dc := newTestCache(t, 1024, 50*time.Millisecond)

	if _, err := dc.Store("short-lived", []byte("data")); err != nil {
		t.Fatal(err)
	}
	if _, _, ok := dc.Lookup("short-lived"); !ok {
		t.Fatal("fresh entry should be served")
	}

	time.Sleep(70 * time.Millisecond)

	if _, _, ok := dc.Lookup("short-lived"); ok {
		t.Error("expired entry should be treated as absent")
	}

	// The file is reaped on the next store, not on lookup.
	if _, err := dc.Store("fresh", []byte("data")); err != nil {
		t.Fatal(err)
	}
	if dc.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after expired entry reaped", dc.Len())
	}
	if _, err := os.Stat(filepath.Join(dc.dir, "short-lived.wav")); !errors.Is(err, os.ErrNotExist) {
		t.Error("expired file should be removed from disk")
	}
}

func TestEvictionOldestFirst(t *testing.T) {
	dc := newTestCache(t, 30, time.Hour)

	payload := bytes.Repeat([]byte("x"), 10)
	if _, err := dc.Store("first", payload); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := dc.Store("second", payload); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := dc.Store("third", payload); err != nil {
		t.Fatal(err)
	}

	// All three fit exactly; a fourth pushes out the oldest.
	time.Sleep(10 * time.Millisecond)
	if _, err := dc.Store("fourth", payload); err != nil {
		t.Fatal(err)
	}

	if _, _, ok := dc.Lookup("first"); ok {
		t.Error("oldest entry should have been evicted")
	}
	for _, key := range []string{"second", "third", "fourth"} {
		if _, _, ok := dc.Lookup(key); !ok {
			t.Errorf("entry %q should have survived eviction", key)
		}
	}
	if dc.Size() > 30 {
		t.Errorf("Size() = %d, want at most 30", dc.Size())
	}
	if got := dc.Stats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}
}

func TestItemTooLarge(t *testing.T) {
	dc := newTestCache(t, 10, time.Hour)
	if _, err := dc.Store("big", bytes.Repeat([]byte("x"), 11)); !errors.Is(err, ErrItemTooLarge) {
		t.Errorf("error = %v, want ErrItemTooLarge", err)
	}
	if dc.Len() != 0 {
		t.Error("oversized item must not be recorded")
	}
}

func TestStoreOverwriteSameKey(t *testing.T) {
	dc := newTestCache(t, 1024, time.Hour)

	if _, err := dc.Store("key", []byte("aaaa")); err != nil {
		t.Fatal(err)
	}
	if _, err := dc.Store("key", []byte("bb")); err != nil {
		t.Fatal(err)
	}

	if dc.Len() != 1 {
		t.Errorf("Len() = %d, want 1", dc.Len())
	}
	if dc.Size() != 2 {
		t.Errorf("Size() = %d, want 2 after overwrite", dc.Size())
	}
}

func TestIndexSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	dc, err := New(Config{Dir: dir, MaxBytes: 1024, TTL: time.Hour})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := dc.Store("persistent", []byte("data")); err != nil {
		t.Fatal(err)
	}
	if err := dc.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := New(Config{Dir: dir, MaxBytes: 1024, TTL: time.Hour})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, ok := reopened.Lookup("persistent"); !ok {
		t.Error("entry lost across reopen")
	}
	if reopened.Size() != 4 {
		t.Errorf("Size() = %d, want 4 after reconcile", reopened.Size())
	}
}

func TestReopenDropsMissingFiles(t *testing.T) {
	dir := t.TempDir()

	dc, err := New(Config{Dir: dir, MaxBytes: 1024, TTL: time.Hour})
	if err != nil {
		t.Fatal(err)
	}
	path, err := dc.Store("doomed", []byte("data"))
	if err != nil {
		t.Fatal(err)
	}
	if err := dc.Close(); err != nil {
		t.Fatal(err)
	}

	// Someone cleaned the directory behind the cache's back.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	reopened, err := New(Config{Dir: dir, MaxBytes: 1024, TTL: time.Hour})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, ok := reopened.Lookup("doomed"); ok {
		t.Error("entry without a backing file should be dropped")
	}
	if reopened.Len() != 0 {
		t.Errorf("Len() = %d, want 0", reopened.Len())
	}
}

func TestStoreAfterClose(t *testing.T) {
	dc := newTestCache(t, 1024, time.Hour)
	if err := dc.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := dc.Store("late", []byte("data")); !errors.Is(err, ErrClosed) {
		t.Errorf("error = %v, want ErrClosed", err)
	}
}

func TestClear(t *testing.T) {
	dc := newTestCache(t, 1024, time.Hour)

	path, err := dc.Store("gone", []byte("data"))
	if err != nil {
		t.Fatal(err)
	}
	if err := dc.Clear(); err != nil {
		t.Fatal(err)
	}

	if dc.Len() != 0 || dc.Size() != 0 {
		t.Errorf("Len() = %d, Size() = %d after clear", dc.Len(), dc.Size())
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Error("cleared file should be removed from disk")
	}
}
