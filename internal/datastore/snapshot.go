package datastore

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"searchgraph/internal/logging"
	"searchgraph/internal/rollover"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-co-op/gocron/v2"
	"golang.org/x/sync/errgroup"
)

// IndexLister lists the concrete indices the datastore currently has for a
// search expression. This is the one datastore round trip the planning
// core depends on.
type IndexLister interface {
	ListIndices(ctx context.Context, expression string) ([]string, error)
}

// Snapshot is an immutable snapshot of the concrete sub-indices known per
// rollover group, keyed by group name. A query holds one snapshot for its
// whole duration; staleness is tolerated because a group's wildcard
// inclusion reaches sub-indices created after the snapshot was taken.
type Snapshot struct {
	taken   time.Time
	indices map[string][]string
}

// Taken is when the snapshot was listed.
func (s *Snapshot) Taken() time.Time { return s.taken }

// KnownIndices returns the sorted concrete sub-index names known for a
// rollover group. Nil for an unknown group.
func (s *Snapshot) KnownIndices(group string) []string {
	return slices.Clone(s.indices[group])
}

// Candidates assembles the per-query candidate indices: the catalog's
// definitions with each rollover group's known sub-indices filled in from
// the snapshot. A listed name whose suffix does not parse under the
// group's frequency is skipped; the wildcard inclusion still reaches it.
func (s *Snapshot) Candidates(catalog *Catalog) []rollover.Index {
	defs := catalog.Definitions()
	out := make([]rollover.Index, 0, len(defs))
	for _, def := range defs {
		idx := def.index()
		if idx.Rollover != nil {
			for _, name := range s.indices[def.Name] {
				sub, err := idx.Rollover.SubIndexFor(name)
				if err != nil {
					continue
				}
				idx.Rollover.KnownIndices = append(idx.Rollover.KnownIndices, sub)
			}
		}
		out = append(out, idx)
	}
	return out
}

// SnapshotRefresher keeps a current Snapshot by periodically re-listing
// every rollover group's search expression.
type SnapshotRefresher struct {
	lister  IndexLister
	catalog *Catalog
	logger  *slog.Logger

	scheduler gocron.Scheduler

	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewSnapshotRefresher builds a refresher and takes the initial snapshot.
func NewSnapshotRefresher(ctx context.Context, lister IndexLister, catalog *Catalog, interval time.Duration, logger *slog.Logger) (*SnapshotRefresher, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create snapshot scheduler: %w", err)
	}

	r := &SnapshotRefresher{
		lister:    lister,
		catalog:   catalog,
		logger:    logging.Component(logger, "snapshot"),
		scheduler: scheduler,
	}
	if err := r.Refresh(ctx); err != nil {
		return nil, err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(r.refreshJob),
		gocron.WithName("index-snapshot-refresh"),
	)
	if err != nil {
		return nil, fmt.Errorf("create snapshot refresh job: %w", err)
	}
	return r, nil
}

// Start begins the periodic refresh.
func (r *SnapshotRefresher) Start() {
	r.scheduler.Start()
	r.logger.Info("snapshot refresher started")
}

// Stop shuts the refresher down and waits for a running refresh to finish.
func (r *SnapshotRefresher) Stop() error {
	return r.scheduler.Shutdown()
}

// Current returns the latest snapshot. Callers hold it for a whole query.
func (r *SnapshotRefresher) Current() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

func (r *SnapshotRefresher) refreshJob() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := r.Refresh(ctx); err != nil {
		r.logger.Warn("snapshot refresh failed, keeping previous snapshot", "error", err)
	}
}

// Refresh lists every rollover group concurrently and swaps in a new
// snapshot. On any failure the previous snapshot stays in place; a stale
// snapshot is safe, a partial one is not worth distinguishing.
func (r *SnapshotRefresher) Refresh(ctx context.Context) error {
	indices := make(map[string][]string)

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	for _, def := range r.catalog.Definitions() {
		if def.Rollover == nil {
			continue
		}
		def := def
		g.Go(func() error {
			names, err := r.lister.ListIndices(ctx, def.SearchExpression)
			if err != nil {
				return fmt.Errorf("list indices for %s: %w", def.Name, err)
			}
			// Listers may match more broadly than the expression.
			kept := names[:0:0]
			for _, name := range names {
				if ok, _ := doublestar.Match(def.SearchExpression, name); ok {
					kept = append(kept, name)
				}
			}
			slices.Sort(kept)
			mu.Lock()
			indices[def.Name] = kept
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	r.mu.Lock()
	r.snapshot = &Snapshot{taken: time.Now(), indices: indices}
	r.mu.Unlock()
	r.logger.Debug("index snapshot refreshed", "groups", len(indices))
	return nil
}

// MemoryLister is an IndexLister over a fixed list of index names, matched
// against the expression with glob semantics. It backs tests and offline
// planning from a known index inventory.
type MemoryLister struct {
	Indices []string
}

func (l *MemoryLister) ListIndices(_ context.Context, expression string) ([]string, error) {
	var out []string
	for _, name := range l.Indices {
		ok, err := doublestar.Match(expression, name)
		if err != nil {
			return nil, fmt.Errorf("match %q against %q: %w", name, expression, err)
		}
		if ok {
			out = append(out, name)
		}
	}
	return out, nil
}
