package testsupport

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
)

// NewResult builds a minimal processed-session result for rollup tests.
// Lap stats are computed naively from the given times; everything else
// stays zero so tests only see what they put in.
func NewResult(track, car, date string, lapTimes ...float64) *model.SessionResult {
	laps := make([]model.Lap, 0, len(lapTimes))
	for i, lt := range lapTimes {
		laps = append(laps, model.Lap{Num: i, Time: lt, Valid: true})
	}
	ret := &model.SessionResult{
		ID:          uuid.New().String(),
		Fingerprint: uuid.New().String(),
		ProcessedAt: time.Now(),
		Identity: model.SessionIdentity{
			Car:         car,
			Track:       track,
			Date:        date,
			Time:        "12:00:00",
			SessionType: model.Unknown,
		},
		Source: model.SourceExactDecode,
		Laps:   laps,
	}
	if len(lapTimes) > 0 {
		ret.Metrics.Laps = naiveLapStats(lapTimes)
	}
	return ret
}

func naiveLapStats(times []float64) *model.LapStats {
	sum := 0.0
	best := times[0]
	worst := times[0]
	for _, t := range times {
		sum += t
		if t < best {
			best = t
		}
		if t > worst {
			worst = t
		}
	}
	mean := sum / float64(len(times))
	variance := 0.0
	for _, t := range times {
		variance += (t - mean) * (t - mean)
	}
	std := 0.0
	if len(times) > 1 {
		std = math.Sqrt(variance / float64(len(times)-1))
	}
	consistency := 1.0
	if mean > 0 {
		consistency = 1.0 - std/mean
	}
	if consistency < 0 {
		consistency = 0
	}
	return &model.LapStats{
		LapCount:    len(times),
		Fastest:     best,
		Slowest:     worst,
		Average:     mean,
		StdDev:      std,
		Consistency: consistency,
	}
}
