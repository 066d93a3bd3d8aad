package cache

import (
	"strconv"
	"time"
)

// Service represents a generic expiring key-value cache.
type Service interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}

// BlockList tracks marketplace sources embargoed after a bot-defense
// trigger. While a source is blocked, fetches against it fail fast
// instead of hammering the defenses again.
type BlockList struct {
	cache  Service
	window time.Duration
}

// NewBlockList creates a block list over the given cache with a default
// embargo window.
func NewBlockList(cache Service, window time.Duration) *BlockList {
	return &BlockList{cache: cache, window: window}
}

func blockKey(source string) string {
	return "blocked:" + source
}

// Blocked reports whether the source is currently embargoed.
func (b *BlockList) Blocked(source string) bool {
	if b == nil || b.cache == nil {
		return false
	}
	_, err := b.cache.Get(blockKey(source))
	return err == nil
}

// Block embargoes the source for the configured window.
func (b *BlockList) Block(source string) error {
	if b == nil || b.cache == nil {
		return nil
	}
	seconds := strconv.Itoa(int(b.window / time.Second))
	return b.cache.Set(blockKey(source), []byte(seconds), b.window)
}

// Unblock lifts an embargo early.
func (b *BlockList) Unblock(source string) error {
	if b == nil || b.cache == nil {
		return nil
	}
	return b.cache.Delete(blockKey(source))
}
