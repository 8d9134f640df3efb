// Package cache stores rendered layouts keyed by a hash of their inputs.
//
// Backends:
//   - NullCache: caching disabled
//   - FileCache: JSON entries under a directory, for CLI usage
//   - RedisCache: shared cache for multi-instance deployments
//   - MongoCache: cache collection in MongoDB
//
// Use Open to pick a backend from a URL.
package cache

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the data and true on a hit; a miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data; ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open selects a backend from rawURL:
//
//	""                       NullCache
//	file:///var/cache/x      FileCache in that directory
//	redis://host:6379/0      RedisCache
//	mongodb://host/db        MongoCache (database from the path, default "justify")
func Open(ctx context.Context, rawURL string) (Cache, error) {
	if rawURL == "" || rawURL == "none" {
		return NewNullCache(), nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse cache url: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "file":
		dir := u.Path
		if u.Host != "" {
			dir = u.Host + dir
		}
		return NewFileCache(dir)
	case "redis", "rediss":
		return NewRedisCache(ctx, rawURL)
	case "mongodb", "mongodb+srv":
		return NewMongoCache(ctx, rawURL)
	case "":
		// 不带 scheme 时视为目录
		return NewFileCache(rawURL)
	default:
		return nil, fmt.Errorf("unsupported cache scheme %q", u.Scheme)
	}
}
