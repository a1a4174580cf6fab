package aggregate

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/mpapenbr/ibt-analyzer-go/log"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
)

const (
	// trendWindow is the moving-average window for improvement trends.
	trendWindow = 5
	// improvementBand is the slope below which a trend counts as improving.
	improvementBand = -0.01
	// consistencyTrendBand is the minimum consistency change between the
	// early and recent sessions that counts as a trend.
	consistencyTrendBand = 0.05
)

func (a *Aggregator) buildOverview(_ context.Context, _ string) (*model.Overview, error) {
	results := a.store.All()
	ret := &model.Overview{TotalSessions: len(results)}
	var (
		allTimes      []float64
		consistencies []float64
		tracks        []string
		cars          []string
	)
	for _, res := range results {
		times := res.ValidLapTimes()
		ret.TotalLaps += len(times)
		allTimes = append(allTimes, times...)
		if res.Identity.Track != model.Unknown {
			tracks = append(tracks, res.Identity.Track)
		}
		if res.Identity.Car != model.Unknown {
			cars = append(cars, res.Identity.Car)
		}
		if fastest, ok := res.FastestLap(); ok &&
			(ret.FastestOverall == 0 || fastest < ret.FastestOverall) {
			ret.FastestOverall = fastest
			ret.FastestTrack = res.Identity.Track
			ret.FastestCar = res.Identity.Car
		}
		if res.Metrics.Laps != nil && res.Metrics.Laps.Consistency > 0 {
			consistencies = append(consistencies, res.Metrics.Laps.Consistency)
		}
	}
	ret.Tracks = distinctSorted(tracks)
	ret.Cars = distinctSorted(cars)
	if len(allTimes) > 0 {
		ret.AvgLapTime = stat.Mean(allTimes, nil)
	}
	if len(consistencies) > 0 {
		ret.AvgConsistency = stat.Mean(consistencies, nil)
	}
	a.l.Debug("overview computed",
		log.Int("sessions", ret.TotalSessions),
		log.Int("laps", ret.TotalLaps))
	return ret, nil
}

func (a *Aggregator) buildTrackSummary(_ context.Context, track string) (
	*model.TrackSummary, error,
) {
	matching := lo.Filter(a.store.All(),
		func(res *model.SessionResult, _ int) bool {
			return res.Identity.Track == track
		})
	if len(matching) == 0 {
		return nil, fmt.Errorf("%w: track %s", ErrNoSessions, track)
	}
	matching = byTime(matching)
	ret := &model.TrackSummary{Track: track}
	var (
		fastest       []float64
		consistencies []float64
		cars          []string
	)
	for _, res := range matching {
		ret.TotalLaps += len(res.ValidLapTimes())
		if res.Identity.Car != model.Unknown {
			cars = append(cars, res.Identity.Car)
		}
		if lap, ok := res.FastestLap(); ok {
			fastest = append(fastest, lap)
		}
		if res.Metrics.Laps != nil && res.Metrics.Laps.Consistency > 0 {
			consistencies = append(consistencies, res.Metrics.Laps.Consistency)
		}
	}
	ret.SessionCount = len(fastest)
	ret.CarsUsed = distinctSorted(cars)
	if len(fastest) > 0 {
		ret.BestLap = lo.Min(fastest)
		ret.AvgFastestLap = stat.Mean(fastest, nil)
	}
	if len(consistencies) > 0 {
		ret.AvgConsistency = stat.Mean(consistencies, nil)
	}
	ret.ImprovementRate = seriesSlope(fastest)
	return ret, nil
}

func (a *Aggregator) buildCarComparison(_ context.Context, _ string) (
	*[]model.CarSummary, error,
) {
	grouped := lo.GroupBy(
		lo.Filter(a.store.All(), func(res *model.SessionResult, _ int) bool {
			return res.Identity.Car != model.Unknown
		}),
		func(res *model.SessionResult) string { return res.Identity.Car })
	cars := lo.Keys(grouped)
	sort.Strings(cars)
	ret := make([]model.CarSummary, 0, len(cars))
	for _, car := range cars {
		sessions := grouped[car]
		entry := model.CarSummary{Car: car, SessionCount: len(sessions)}
		var (
			fastest       []float64
			consistencies []float64
			tracks        []string
		)
		for _, res := range sessions {
			if res.Identity.Track != model.Unknown {
				tracks = append(tracks, res.Identity.Track)
			}
			if lap, ok := res.FastestLap(); ok {
				fastest = append(fastest, lap)
			}
			if res.Metrics.Laps != nil && res.Metrics.Laps.Consistency > 0 {
				consistencies = append(consistencies, res.Metrics.Laps.Consistency)
			}
		}
		entry.TracksDriven = distinctSorted(tracks)
		if len(fastest) > 0 {
			entry.BestLap = lo.Min(fastest)
			entry.AvgFastestLap = stat.Mean(fastest, nil)
		}
		if len(consistencies) > 0 {
			entry.AvgConsistency = stat.Mean(consistencies, nil)
		}
		entry.VersatilityScore = len(entry.TracksDriven)*10 + len(sessions)
		ret = append(ret, entry)
	}
	return &ret, nil
}

func (a *Aggregator) buildTrend(_ context.Context, key trendKey) (
	*model.ImprovementTrend, error,
) {
	matching := lo.Filter(a.store.All(),
		func(res *model.SessionResult, _ int) bool {
			return res.Identity.Track == key.track && res.Identity.Car == key.car
		})
	if len(matching) == 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrNoSessions, key.track, key.car)
	}
	matching = byTime(matching)
	ret := &model.ImprovementTrend{Track: key.track, Car: key.car}
	var consistencies []float64
	for _, res := range matching {
		if lap, ok := res.FastestLap(); ok {
			ret.FastestLaps = append(ret.FastestLaps, lap)
		}
		if res.Metrics.Laps != nil && res.Metrics.Laps.Consistency > 0 {
			consistencies = append(consistencies, res.Metrics.Laps.Consistency)
		}
	}
	ret.SessionCount = len(ret.FastestLaps)
	ret.MovingAverage = movingAverage(ret.FastestLaps)
	ret.Slope = seriesSlope(ret.FastestLaps)
	ret.Direction = "stable"
	if ret.Slope < improvementBand {
		ret.Direction = "improving"
	}
	ret.ConsistencyTrend = consistencyTrend(consistencies)
	return ret, nil
}

// byTime returns the results in chronological order, preferring the
// identity timestamp over the processing time.
func byTime(results []*model.SessionResult) []*model.SessionResult {
	ret := make([]*model.SessionResult, len(results))
	copy(ret, results)
	sort.SliceStable(ret, func(i, j int) bool {
		return sessionTime(ret[i]).Before(sessionTime(ret[j]))
	})
	return ret
}

func sessionTime(res *model.SessionResult) time.Time {
	if ts, ok := res.Identity.Timestamp(); ok {
		return ts
	}
	return res.ProcessedAt
}

func distinctSorted(names []string) []string {
	ret := lo.Uniq(names)
	sort.Strings(ret)
	return ret
}

// seriesSlope fits a least squares line over the series and returns its
// gradient, 0 when fewer than two values exist.
func seriesSlope(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, slope := stat.LinearRegression(xs, values, nil, false)
	return slope
}

// movingAverage smooths the series with a window of min(trendWindow, n).
func movingAverage(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	window := trendWindow
	if len(values) < window {
		window = len(values)
	}
	ret := make([]float64, 0, len(values)-window+1)
	for i := 0; i+window <= len(values); i++ {
		ret = append(ret, stat.Mean(values[i:i+window], nil))
	}
	return ret
}

// consistencyTrend compares the recent sessions against the early ones.
// With three or more values both ends are averaged over three sessions,
// otherwise the edge values are compared directly.
func consistencyTrend(values []float64) string {
	if len(values) < 2 {
		return "stable"
	}
	recent := values[len(values)-1]
	early := values[0]
	if len(values) >= 3 {
		recent = stat.Mean(values[len(values)-3:], nil)
		early = stat.Mean(values[:3], nil)
	}
	switch {
	case recent > early+consistencyTrendBand:
		return "improving"
	case recent < early-consistencyTrendBand:
		return "declining"
	default:
		return "stable"
	}
}
