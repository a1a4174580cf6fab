package metrics

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
)

const (
	minLapsForStats    = 2
	minLapsForOutliers = 5
	paceStableBand     = 0.01 // seconds per lap
	theoreticalFactor  = 0.998
	iqrFactor          = 1.5
	rollingMaxWindow   = 5
	rollingTrendBand   = 0.05
	strongGain         = 1.0 // seconds between session thirds
	moderateGain       = 0.3
	declineGain        = -0.3
)

// LapStatistics computes the lap time metrics of a session. At least
// two valid laps are required.
func LapStatistics(times []float64) (*model.LapStats, error) {
	if len(times) < minLapsForStats {
		return nil, fmt.Errorf("%w (%d laps)", ErrInsufficientData, len(times))
	}
	sorted := append([]float64{}, times...)
	sort.Float64s(sorted)

	mean := stat.Mean(times, nil)
	std := stat.StdDev(times, nil)
	consistency := 0.0
	if mean > 0 {
		consistency = clamp(1.0-std/mean, 0, 1)
	}

	xs := make([]float64, len(times))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, slope := stat.LinearRegression(xs, times, nil, false)

	return &model.LapStats{
		LapCount:        len(times),
		Fastest:         sorted[0],
		Slowest:         sorted[len(sorted)-1],
		Average:         mean,
		Median:          stat.Quantile(0.5, stat.LinInterp, sorted, nil),
		StdDev:          std,
		Consistency:     consistency,
		PaceSlope:       slope,
		PaceTrend:       classifyPace(slope),
		Percentiles:     percentiles(sorted),
		TheoreticalBest: theoreticalBest(sorted),
		Outliers:        outliers(times, sorted),
	}, nil
}

func classifyPace(slope float64) model.PaceTrend {
	switch {
	case slope < -paceStableBand:
		return model.PaceImproving
	case math.Abs(slope) <= paceStableBand:
		return model.PaceStable
	default:
		return model.PaceDegrading
	}
}

func percentiles(sorted []float64) model.Percentiles {
	q := func(p float64) float64 { return stat.Quantile(p, stat.LinInterp, sorted, nil) }
	return model.Percentiles{
		P25: q(0.25),
		P50: q(0.50),
		P75: q(0.75),
		P90: q(0.90),
		P95: q(0.95),
	}
}

// theoreticalBest is the average of the best laps with a small margin
// for a perfect execution.
func theoreticalBest(sorted []float64) float64 {
	n := len(sorted)
	if n > 3 {
		n = 3
	}
	return stat.Mean(sorted[:n], nil) * theoreticalFactor
}

// outliers flags laps outside the 1.5 IQR band. Lap numbers are
// 1-based positions within the valid lap sequence.
func outliers(times, sorted []float64) []model.OutlierLap {
	if len(times) < minLapsForOutliers {
		return nil
	}
	q1 := stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	q3 := stat.Quantile(0.75, stat.LinInterp, sorted, nil)
	iqr := q3 - q1
	lower := q1 - iqrFactor*iqr
	upper := q3 + iqrFactor*iqr
	median := stat.Quantile(0.5, stat.LinInterp, sorted, nil)

	var ret []model.OutlierLap
	for i, lapTime := range times {
		switch {
		case lapTime < lower:
			ret = append(ret, model.OutlierLap{
				LapNum: i + 1, Time: lapTime, Deviation: lapTime - median, Kind: model.OutlierFast,
			})
		case lapTime > upper:
			ret = append(ret, model.OutlierLap{
				LapNum: i + 1, Time: lapTime, Deviation: lapTime - median, Kind: model.OutlierSlow,
			})
		}
	}
	return ret
}

// RollingConsistencySeries computes the consistency over a sliding
// window of laps. The window is half the lap count, capped at 5.
func RollingConsistencySeries(times []float64) (*model.RollingConsistency, error) {
	window := len(times) / 2
	if window > rollingMaxWindow {
		window = rollingMaxWindow
	}
	if window < 2 {
		return nil, fmt.Errorf("%w (%d laps)", ErrInsufficientData, len(times))
	}
	values := make([]float64, 0, len(times)-window+1)
	for i := 0; i+window <= len(times); i++ {
		values = append(values, windowConsistency(times[i:i+window]))
	}
	best, worst := values[0], values[0]
	for _, v := range values {
		if v > best {
			best = v
		}
		if v < worst {
			worst = v
		}
	}
	return &model.RollingConsistency{
		Window:  window,
		Values:  values,
		Average: stat.Mean(values, nil),
		Best:    best,
		Worst:   worst,
		Trend:   rollingTrend(values),
	}, nil
}

func windowConsistency(win []float64) float64 {
	mean := stat.Mean(win, nil)
	if mean <= 0 {
		return 0
	}
	return clamp(1.0-stat.StdDev(win, nil)/mean, 0, 1)
}

func rollingTrend(values []float64) string {
	third := len(values) / 3
	if third < 1 {
		return "stable"
	}
	first := stat.Mean(values[:third], nil)
	last := stat.Mean(values[len(values)-third:], nil)
	switch {
	case last-first > rollingTrendBand:
		return "improving"
	case first-last > rollingTrendBand:
		return "declining"
	default:
		return "stable"
	}
}

// Improvement compares the first third of the session with the last.
// A positive gain means the driver got faster over the session.
func Improvement(times []float64) (*model.SessionImprovement, error) {
	third := len(times) / 3
	if third < 1 {
		return nil, fmt.Errorf("%w (%d laps)", ErrInsufficientData, len(times))
	}
	first := stat.Mean(times[:third], nil)
	last := stat.Mean(times[len(times)-third:], nil)
	gain := first - last
	return &model.SessionImprovement{Gain: gain, Class: classifyImprovement(gain)}, nil
}

func classifyImprovement(gain float64) model.ImprovementClass {
	switch {
	case gain > strongGain:
		return model.ImprovementStrong
	case gain > moderateGain:
		return model.ImprovementModerate
	case gain > declineGain:
		return model.ImprovementStable
	default:
		return model.ImprovementDeclining
	}
}
