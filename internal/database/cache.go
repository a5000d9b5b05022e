package database

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cachedCaption struct {
	template string
	found    bool
}

// cachedStore fronts caption lookups with an LRU cache. Misses are cached too,
// since most channels never set an override.
//
// Each channel has a write generation. A lookup only fills the cache if no
// write committed while it was reading the backend, so a slow read cannot
// bring back a template that /set_cap or /del_cap already replaced.
type cachedStore struct {
	Store
	captions *lru.Cache[int64, cachedCaption]

	mu   sync.Mutex
	gens map[int64]uint64
}

// NewCachedStore wraps inner with a caption cache of the given size.
// A non-positive size returns inner unchanged.
func NewCachedStore(inner Store, size int) (Store, error) {
	if size <= 0 {
		return inner, nil
	}
	cache, err := lru.New[int64, cachedCaption](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create caption cache: %w", err)
	}
	return &cachedStore{Store: inner, captions: cache, gens: make(map[int64]uint64)}, nil
}

func (s *cachedStore) generation(channelID int64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[channelID]
}

func (s *cachedStore) GetChannelCaption(ctx context.Context, channelID int64) (string, bool, error) {
	if c, ok := s.captions.Get(channelID); ok {
		return c.template, c.found, nil
	}

	gen := s.generation(channelID)
	tmpl, found, err := s.Store.GetChannelCaption(ctx, channelID)
	if err != nil {
		return "", false, err
	}

	s.mu.Lock()
	if s.gens[channelID] == gen {
		s.captions.Add(channelID, cachedCaption{template: tmpl, found: found})
	}
	s.mu.Unlock()
	return tmpl, found, nil
}

// invalidate runs after a write, successful or not, since a failed write may
// still have reached the backend.
func (s *cachedStore) invalidate(channelID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[channelID]++
	s.captions.Remove(channelID)
}

func (s *cachedStore) SetChannelCaption(ctx context.Context, channelID int64, template string) (bool, error) {
	defer s.invalidate(channelID)
	return s.Store.SetChannelCaption(ctx, channelID, template)
}

func (s *cachedStore) DeleteChannelCaption(ctx context.Context, channelID int64) (bool, error) {
	defer s.invalidate(channelID)
	return s.Store.DeleteChannelCaption(ctx, channelID)
}
