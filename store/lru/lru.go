// Package lru adapts hashicorp/golang-lru's expirable LRU to the store
// contract: a capacity-bounded embedded store with no external process.
// The TTL is cache-wide, fixed at construction; per-call TTLs are ignored
// and the frame deadline guards correctness on read.
package lru

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/unkn0wn-root/snapcache/store"
)

type Store struct {
	c *expirable.LRU[string, []byte]
}

var _ store.Store = (*Store)(nil)

type Config struct {
	Capacity int           // entries kept before LRU eviction; 0 = unlimited
	TTL      time.Duration // cache-wide entry lifetime; 0 = no expiry
}

func New(cfg Config) *Store {
	return &Store{c: expirable.NewLRU[string, []byte](cfg.Capacity, nil, cfg.TTL)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, ok := s.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	return b, true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte, _ int64, _ time.Duration) (bool, error) {
	s.c.Add(key, value)
	return true, nil
}

func (s *Store) Del(_ context.Context, key string) error {
	s.c.Remove(key)
	return nil
}

func (s *Store) Close(_ context.Context) error {
	s.c.Purge()
	return nil
}
