// Package memory provides the in-memory key/value store served by rifsredis.
package memory

import (
	"sync"

	"github.com/spaolacci/murmur3"
)

// DefaultShardCount is the default number of shards.
const DefaultShardCount = 16

// Store is a concurrent-safe string to string mapping. Last write wins.
type Store struct {
	shards    []*shard
	shardMask uint32
}

type shard struct {
	mu    sync.RWMutex
	items map[string]string
}

// Option configures the Store.
type Option func(*storeOptions)

type storeOptions struct {
	shardCount int
}

// WithShardCount sets the number of shards. It must be a power of 2;
// other values fall back to DefaultShardCount.
func WithShardCount(n int) Option {
	return func(o *storeOptions) {
		o.shardCount = n
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	o := storeOptions{shardCount: DefaultShardCount}
	for _, opt := range opts {
		opt(&o)
	}
	if o.shardCount <= 0 || o.shardCount&(o.shardCount-1) != 0 {
		o.shardCount = DefaultShardCount
	}

	s := &Store{
		shards:    make([]*shard, o.shardCount),
		shardMask: uint32(o.shardCount - 1),
	}
	for i := range s.shards {
		s.shards[i] = &shard{items: make(map[string]string)}
	}
	return s
}

func (s *Store) shardFor(key string) *shard {
	return s.shards[murmur3.Sum32([]byte(key))&s.shardMask]
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	sh.items[key] = value
	sh.mu.Unlock()
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool) {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	v, ok := sh.items[key]
	return v, ok
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += len(sh.items)
		sh.mu.RUnlock()
	}
	return n
}
