package cache

import (
	"errors"
	"time"
)

// Common errors for cache operations.
var (
	// ErrItemTooLarge is returned when a single item exceeds the cache
	// capacity and could never be stored.
	ErrItemTooLarge = errors.New("item too large for cache")

	// ErrClosed is returned when operating on a closed cache.
	ErrClosed = errors.New("cache is closed")
)

// Entry describes one cached audio file.
type Entry struct {
	// Key is the request fingerprint the entry is stored under.
	Key string

	// Path is the audio file location inside the cache directory.
	Path string

	// Created is when the entry was written.
	Created time.Time

	// Size is the file size in bytes.
	Size int64
}

// Stats holds cache performance metrics.
type Stats struct {
	// Capacity is the maximum total size in bytes.
	Capacity int64

	// Size is the current total size in bytes.
	Size int64

	// ItemCount is the number of entries.
	ItemCount int64

	// Hits is the number of lookups served.
	Hits int64

	// Misses is the number of lookups not served.
	Misses int64

	// Evictions is the number of entries removed for age or size pressure.
	Evictions int64
}

// Config holds configuration for a disk cache.
type Config struct {
	// Dir is the cache directory. Created if missing.
	Dir string

	// MaxBytes caps the total size of cached files.
	MaxBytes int64

	// TTL is the maximum entry age. Entries older than TTL are treated as
	// absent on lookup and removed on the next store.
	TTL time.Duration

	// Extension is the audio file extension, without the dot.
	Extension string
}
