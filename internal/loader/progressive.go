// Package loader implements progressive list enrichment: a parent collection
// is published immediately with placeholder rows, then each row is filled in
// by a secondary fetch, paced so the backend is not saturated and the caller
// can render partial results as they arrive.
package loader

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Fetch loads the enrichment payload for one parent id.
type Fetch[S any] func(ctx context.Context, id string) (S, error)

// Update is one state change published to the consumer. Updates are
// index-addressed: Index always refers to the position of ID in the input
// collection, so a late result can never land in another row's slot.
type Update[S any] struct {
	ID        string
	Index     int
	Stats     S
	Loading   bool
	FromCache bool
	Failed    bool
}

// Hooks receives loader instrumentation events. All fields are optional.
type Hooks struct {
	OnFetch    func()
	OnFailure  func()
	OnCacheHit func()
}

// Config tunes a Progressive loader.
type Config struct {
	// Delay is the pause between consecutive backend fetches.
	Delay time.Duration
	// Concurrency bounds in-flight fetches. Defaults to 1 (fully sequential).
	Concurrency int
	Logger      *zap.Logger
	Hooks       Hooks
}

// Progressive enriches rows one at a time, caching results per id. The cache
// belongs to this instance alone; discard the loader when the owning view
// unmounts.
type Progressive[S any] struct {
	fetch       Fetch[S]
	delay       time.Duration
	concurrency int
	logger      *zap.Logger
	hooks       Hooks

	generation atomic.Uint64

	mu    sync.Mutex
	cache map[string]S
}

// New builds a progressive loader around the given fetch function.
func New[S any](fetch Fetch[S], cfg Config) *Progressive[S] {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Progressive[S]{
		fetch:       fetch,
		delay:       cfg.Delay,
		concurrency: cfg.Concurrency,
		logger:      cfg.Logger,
		hooks:       cfg.Hooks,
		cache:       make(map[string]S),
	}
}

// Load publishes a loading placeholder for every id, then enriches each row
// in input order. A row's fetch failure publishes zero-value stats for that
// row only; the rest of the collection is unaffected. Load returns ctx.Err()
// when cancelled and nil otherwise.
//
// Calling Load again invalidates any still-running previous Load: its pending
// publishes are dropped so old and new collections never interleave.
func (p *Progressive[S]) Load(ctx context.Context, ids []string, publish func(Update[S])) error {
	gen := p.generation.Add(1)

	for i, id := range ids {
		if !p.publish(ctx, gen, publish, Update[S]{ID: id, Index: i, Loading: true}) {
			return ctx.Err()
		}
	}

	if p.concurrency == 1 {
		return p.loadSequential(ctx, gen, ids, publish)
	}
	return p.loadBounded(ctx, gen, ids, publish)
}

func (p *Progressive[S]) loadSequential(ctx context.Context, gen uint64, ids []string, publish func(Update[S])) error {
	for i, id := range ids {
		update, fetched := p.loadOne(ctx, gen, id, i)
		if !p.publish(ctx, gen, publish, update) {
			return ctx.Err()
		}
		if fetched && i < len(ids)-1 {
			if err := p.pace(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// loadBounded fans rows out to a small worker pool. Updates stay
// index-addressed, so completion order does not matter to the consumer.
func (p *Progressive[S]) loadBounded(ctx context.Context, gen uint64, ids []string, publish func(Update[S])) error {
	sem := make(chan struct{}, p.concurrency)
	var wg sync.WaitGroup
	var publishMu sync.Mutex

	for i, id := range ids {
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(index int, rowID string) {
			defer wg.Done()
			defer func() { <-sem }()

			update, _ := p.loadOne(ctx, gen, rowID, index)
			publishMu.Lock()
			p.publish(ctx, gen, publish, update)
			publishMu.Unlock()
		}(i, id)

		if err := p.pace(ctx); err != nil {
			wg.Wait()
			return err
		}
	}

	wg.Wait()
	return ctx.Err()
}

// loadOne resolves one row from cache or backend. The second return value
// reports whether a backend fetch actually happened.
func (p *Progressive[S]) loadOne(ctx context.Context, gen uint64, id string, index int) (Update[S], bool) {
	if stats, ok := p.cached(id); ok {
		if p.hooks.OnCacheHit != nil {
			p.hooks.OnCacheHit()
		}
		return Update[S]{ID: id, Index: index, Stats: stats, FromCache: true}, false
	}

	if p.hooks.OnFetch != nil {
		p.hooks.OnFetch()
	}
	stats, err := p.fetch(ctx, id)
	if err != nil {
		if p.hooks.OnFailure != nil {
			p.hooks.OnFailure()
		}
		p.logger.Warn("row enrichment failed",
			zap.String("id", id),
			zap.Int("index", index),
			zap.Error(err),
		)
		var zero S
		return Update[S]{ID: id, Index: index, Stats: zero, Failed: true}, true
	}

	p.store(id, stats)
	return Update[S]{ID: id, Index: index, Stats: stats}, true
}

// publish delivers an update unless the context is done or a newer Load has
// taken over. Reports whether the caller should keep going.
func (p *Progressive[S]) publish(ctx context.Context, gen uint64, publish func(Update[S]), u Update[S]) bool {
	if ctx.Err() != nil {
		return false
	}
	if p.generation.Load() != gen {
		return false
	}
	publish(u)
	return true
}

func (p *Progressive[S]) pace(ctx context.Context) error {
	if p.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(p.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p *Progressive[S]) cached(id string) (S, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	stats, ok := p.cache[id]
	return stats, ok
}

func (p *Progressive[S]) store(id string, stats S) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache[id] = stats
}

// Invalidate drops the cached stats for one id.
func (p *Progressive[S]) Invalidate(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.cache, id)
}

// Reset drops the whole cache.
func (p *Progressive[S]) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache = make(map[string]S)
}
