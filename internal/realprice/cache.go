package realprice

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is the cached dataset's maximum age before a reload is attempted.
const DefaultTTL = 24 * time.Hour

// LoadFunc produces a fresh Dataset. It runs outside any lock; in-flight
// readers keep the previous snapshot until the swap.
type LoadFunc func(ctx context.Context) (*Dataset, error)

// Store owns the current dataset snapshot. Reads are a single atomic pointer
// load; reloads build the replacement off to the side and publish it with one
// atomic swap, so a reader never observes a half-replaced dataset.
type Store struct {
	load LoadFunc
	ttl  time.Duration

	current atomic.Pointer[Dataset]
	group   singleflight.Group
	now     func() time.Time
}

// NewStore creates a Store with the given loader and TTL (DefaultTTL if <= 0).
func NewStore(load LoadFunc, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		load: load,
		ttl:  ttl,
		now:  time.Now,
	}
}

// Snapshot returns the current dataset, reloading first when none is cached
// or the cache has outlived its TTL. A failed reload over an existing cache
// serves the stale snapshot and reports stale=true; a failed reload with
// nothing cached propagates the loader error.
func (s *Store) Snapshot(ctx context.Context) (*Dataset, bool, error) {
	if cur := s.current.Load(); cur != nil && s.fresh(cur) {
		return cur, false, nil
	}

	// Concurrent expired readers share one reload.
	v, err, _ := s.group.Do("reload", func() (any, error) {
		if cur := s.current.Load(); cur != nil && s.fresh(cur) {
			return cur, nil
		}
		ds, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		s.current.Store(ds)
		return ds, nil
	})
	if err != nil {
		if cur := s.current.Load(); cur != nil {
			zap.L().Warn("dataset reload failed, serving stale snapshot",
				zap.String("snapshot", cur.ID),
				zap.Time("loaded_at", cur.LoadedAt),
				zap.Error(err),
			)
			return cur, true, nil
		}
		return nil, false, eris.Wrap(err, "realprice: reload with no cached dataset")
	}

	return v.(*Dataset), false, nil
}

func (s *Store) fresh(ds *Dataset) bool {
	return s.now().Sub(ds.LoadedAt) < s.ttl
}
