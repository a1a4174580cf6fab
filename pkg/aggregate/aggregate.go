// Package aggregate computes cross-session rollups on top of the
// session store: a collection overview, per-track and per-car
// summaries, improvement trends for a track/car pair and comparisons
// against reference lap times. Rollups are served from a TTL cache, so
// a freshly ingested session becomes visible once the affected entries
// expire.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mpapenbr/ibt-analyzer-go/log"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/store"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/utils/cache"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/utils/cache/loadercache"
)

// DefaultTTL is the lifetime of a cached rollup.
const DefaultTTL = 5 * time.Minute

// collectionKey addresses rollups covering the whole store.
const collectionKey = "all"

// ErrNoSessions is returned when a rollup is requested for a filter
// which matches no stored session.
var ErrNoSessions = errors.New("no matching sessions")

type (
	Option   func(*Aggregator)
	trendKey struct {
		track string
		car   string
	}
)

// Aggregator serves rollups over the sessions in the store.
type Aggregator struct {
	store      *store.Store
	benchmarks *Benchmarks
	ttl        time.Duration
	l          *log.Logger

	overviewCache cache.Cache[string, model.Overview]
	trackCache    cache.Cache[string, model.TrackSummary]
	carsCache     cache.Cache[string, []model.CarSummary]
	trendCache    cache.Cache[trendKey, model.ImprovementTrend]
}

func WithTTL(arg time.Duration) Option {
	return func(a *Aggregator) {
		if arg > 0 {
			a.ttl = arg
		}
	}
}

func WithBenchmarks(arg *Benchmarks) Option {
	return func(a *Aggregator) {
		if arg != nil {
			a.benchmarks = arg
		}
	}
}

func WithLogger(arg *log.Logger) Option {
	return func(a *Aggregator) {
		a.l = arg
	}
}

func NewAggregator(st *store.Store, opts ...Option) *Aggregator {
	ret := &Aggregator{
		store:      st,
		benchmarks: NewBenchmarks(),
		ttl:        DefaultTTL,
		l:          log.Default().Named("aggregate"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	ret.overviewCache = loadercache.New(
		loadercache.WithExpiration[string, model.Overview](ret.ttl),
		loadercache.WithLoader[string, model.Overview](ret.buildOverview),
		loadercache.WithLogger[string, model.Overview](ret.l))
	ret.trackCache = loadercache.New(
		loadercache.WithExpiration[string, model.TrackSummary](ret.ttl),
		loadercache.WithLoader[string, model.TrackSummary](ret.buildTrackSummary),
		loadercache.WithLogger[string, model.TrackSummary](ret.l))
	ret.carsCache = loadercache.New(
		loadercache.WithExpiration[string, []model.CarSummary](ret.ttl),
		loadercache.WithLoader[string, []model.CarSummary](ret.buildCarComparison),
		loadercache.WithLogger[string, []model.CarSummary](ret.l))
	ret.trendCache = loadercache.New(
		loadercache.WithExpiration[trendKey, model.ImprovementTrend](ret.ttl),
		loadercache.WithLoader[trendKey, model.ImprovementTrend](ret.buildTrend),
		loadercache.WithLogger[trendKey, model.ImprovementTrend](ret.l))
	return ret
}

// Overview summarizes the whole collection.
func (a *Aggregator) Overview(ctx context.Context) (*model.Overview, error) {
	return a.overviewCache.Get(ctx, collectionKey)
}

// TrackSummary rolls up all sessions on the given track.
// Returns ErrNoSessions when no session matches.
func (a *Aggregator) TrackSummary(ctx context.Context, track string) (
	*model.TrackSummary, error,
) {
	return a.trackCache.Get(ctx, track)
}

// CarComparison rolls up per-car performance, sorted by car name.
func (a *Aggregator) CarComparison(ctx context.Context) ([]model.CarSummary, error) {
	ret, err := a.carsCache.Get(ctx, collectionKey)
	if err != nil {
		return nil, err
	}
	return *ret, nil
}

// ImprovementTrend describes the fastest-lap progression for a
// track/car pair in chronological session order.
// Returns ErrNoSessions when no session matches.
func (a *Aggregator) ImprovementTrend(ctx context.Context, track, car string) (
	*model.ImprovementTrend, error,
) {
	return a.trendCache.Get(ctx, trendKey{track: track, car: car})
}

// Benchmark compares the best stored lap of the track/car pair against
// the reference table. Returns ErrNoSessions when no session matches.
func (a *Aggregator) Benchmark(track, car string) (*model.BenchmarkComparison, error) {
	best := 0.0
	found := false
	for _, res := range a.store.All() {
		if res.Identity.Track != track || res.Identity.Car != car {
			continue
		}
		found = true
		if lap, ok := res.FastestLap(); ok && (best == 0 || lap < best) {
			best = lap
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s/%s", ErrNoSessions, track, car)
	}
	return a.benchmarks.Compare(track, car, best), nil
}
