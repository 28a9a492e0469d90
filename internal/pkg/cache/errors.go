package cache

import "github.com/pkg/errors"

// ErrNotFound is returned when the requested key holds no value.
var ErrNotFound = errors.New("cache: key not found")

// ErrNotInitialized is returned by redis-backed caches constructed without a
// client; callers treat it as a miss and fall through to their backing store.
var ErrNotInitialized = errors.New("cache: redis client not initialized")
