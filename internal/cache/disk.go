// Package cache provides a content-addressed disk cache for synthesized
// audio files, with a byte-size cap and per-entry TTL.
package cache

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

const indexFile = "index.gob.zst"

// DiskCache stores audio files in a flat directory, one file per request
// fingerprint. An in-memory index carries the bookkeeping (creation time,
// size) and is snapshotted to disk so entry ages survive restarts.
//
// The cache exclusively owns the files it creates and never deletes
// anything it did not create: eviction only ever touches indexed paths.
type DiskCache struct {
	dir      string
	maxBytes int64
	ttl      time.Duration
	ext      string

	mu     sync.Mutex
	index  map[string]*Entry
	size   int64
	stats  Stats
	closed bool

	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// New creates a disk cache rooted at cfg.Dir, creating the directory if
// needed and loading any persisted index. Index entries whose files have
// disappeared are dropped.
func New(cfg Config) (*DiskCache, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	if cfg.Extension == "" {
		cfg.Extension = "wav"
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(3)))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	dc := &DiskCache{
		dir:      cfg.Dir,
		maxBytes: cfg.MaxBytes,
		ttl:      cfg.TTL,
		ext:      cfg.Extension,
		index:    make(map[string]*Entry),
		encoder:  encoder,
		decoder:  decoder,
		stats:    Stats{Capacity: cfg.MaxBytes},
	}

	// Non-fatal: a missing or corrupt index just means a cold start.
	if err := dc.loadIndex(); err != nil {
		dc.index = make(map[string]*Entry)
	}
	dc.reconcile()

	return dc, nil
}

// Lookup returns the path and size of the entry if present and not
// expired. Expired entries are treated as absent; they are reaped on the
// next store rather than here.
func (dc *DiskCache) Lookup(key string) (string, int64, bool) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	entry, ok := dc.index[key]
	if !ok || dc.expired(entry) {
		dc.stats.Misses++
		return "", 0, false
	}

	// The file may have been removed out from under us.
	if _, err := os.Stat(entry.Path); err != nil {
		delete(dc.index, key)
		dc.size -= entry.Size
		dc.stats.Misses++
		return "", 0, false
	}

	dc.stats.Hits++
	return entry.Path, entry.Size, true
}

// Store writes audio bytes to a path derived from the key and records the
// entry. It then evicts expired entries and, under size pressure, the
// oldest entries until the total fits the cap. Concurrent stores of the
// same key are benign: the write is atomic and the last writer's metadata
// wins.
func (dc *DiskCache) Store(key string, data []byte) (string, error) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	if dc.closed {
		return "", ErrClosed
	}
	if dc.maxBytes > 0 && int64(len(data)) > dc.maxBytes {
		return "", ErrItemTooLarge
	}

	path := filepath.Join(dc.dir, key+"."+dc.ext)
	if err := writeFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("failed to write cache file: %w", err)
	}

	if existing, ok := dc.index[key]; ok {
		dc.size -= existing.Size
	}
	dc.index[key] = &Entry{
		Key:     key,
		Path:    path,
		Created: time.Now(),
		Size:    int64(len(data)),
	}
	dc.size += int64(len(data))

	dc.evict()

	// Best effort: the snapshot is an optimization, not the store itself.
	_ = dc.saveIndex()

	return path, nil
}

// Stats returns cache statistics.
func (dc *DiskCache) Stats() Stats {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	stats := dc.stats
	stats.Size = dc.size
	stats.ItemCount = int64(len(dc.index))
	return stats
}

// Size returns the current total size in bytes.
func (dc *DiskCache) Size() int64 {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	return dc.size
}

// Len returns the number of entries.
func (dc *DiskCache) Len() int {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	return len(dc.index)
}

// Clear removes every entry the cache owns.
func (dc *DiskCache) Clear() error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	for key, entry := range dc.index {
		os.Remove(entry.Path)
		delete(dc.index, key)
	}
	dc.size = 0
	return dc.saveIndex()
}

// Close persists the index. The cache rejects stores afterwards.
func (dc *DiskCache) Close() error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	dc.closed = true
	return dc.saveIndex()
}

// expired reports whether the entry's age has reached the TTL.
func (dc *DiskCache) expired(entry *Entry) bool {
	return dc.ttl > 0 && time.Since(entry.Created) >= dc.ttl
}

// evict removes expired entries regardless of size pressure, then removes
// oldest-created entries until the total size fits the cap. Caller holds
// the lock.
func (dc *DiskCache) evict() {
	for key, entry := range dc.index {
		if dc.expired(entry) {
			dc.remove(key, entry)
		}
	}

	if dc.maxBytes <= 0 {
		return
	}
	for dc.size > dc.maxBytes && len(dc.index) > 0 {
		var oldestKey string
		var oldest *Entry
		for key, entry := range dc.index {
			if oldest == nil || entry.Created.Before(oldest.Created) {
				oldestKey = key
				oldest = entry
			}
		}
		dc.remove(oldestKey, oldest)
	}
}

func (dc *DiskCache) remove(key string, entry *Entry) {
	os.Remove(entry.Path)
	dc.size -= entry.Size
	delete(dc.index, key)
	dc.stats.Evictions++
}

// reconcile drops index entries whose backing files are gone and
// recomputes the total size. Caller need not hold the lock; runs at
// construction only.
func (dc *DiskCache) reconcile() {
	dc.size = 0
	for key, entry := range dc.index {
		info, err := os.Stat(entry.Path)
		if err != nil {
			delete(dc.index, key)
			continue
		}
		entry.Size = info.Size()
		dc.size += entry.Size
	}
}

func (dc *DiskCache) loadIndex() error {
	raw, err := os.ReadFile(filepath.Join(dc.dir, indexFile))
	if err != nil {
		return err
	}
	decompressed, err := dc.decoder.DecodeAll(raw, nil)
	if err != nil {
		return fmt.Errorf("failed to decompress index: %w", err)
	}
	return gob.NewDecoder(bytes.NewReader(decompressed)).Decode(&dc.index)
}

func (dc *DiskCache) saveIndex() error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(dc.index); err != nil {
		return err
	}
	compressed := dc.encoder.EncodeAll(buf.Bytes(), nil)
	return writeFileAtomic(filepath.Join(dc.dir, indexFile), compressed)
}

// writeFileAtomic writes to a temp file and renames it into place so a
// concurrent reader never observes a partial file.
func writeFileAtomic(path string, data []byte) error {
	tempPath := path + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	closeErr := file.Close()

	if err != nil {
		os.Remove(tempPath)
		return err
	}
	if closeErr != nil {
		os.Remove(tempPath)
		return closeErr
	}

	return os.Rename(tempPath, path)
}
