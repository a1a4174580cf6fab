package metrics

import (
	"fmt"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
)

const (
	trailBrakingMinSpan   = 10   // samples
	brakingDecelG         = -0.2 // samples below count as braking instances
	decelEfficiencyWeight = 50.0
	decelSmoothnessWeight = 100.0
)

// BrakingMetrics aggregates the detected braking zones. The efficiency
// score works on the raw samples since it rates every braking instance,
// not just the ones long enough to form a zone.
func BrakingMetrics(zones []model.BrakingZone, samples []model.Sample) (*model.BrakingStats, error) {
	if len(zones) == 0 {
		return nil, fmt.Errorf("%w (no braking zones)", ErrInsufficientData)
	}
	peakPressures := lo.Map(zones,
		func(z model.BrakingZone, _ int) float64 { return z.PeakPressure })

	ret := &model.BrakingStats{
		ZoneCount: len(zones),
		AvgPeakDecel: stat.Mean(lo.Map(zones,
			func(z model.BrakingZone, _ int) float64 { return z.PeakDecelG }), nil),
		AvgPeakPressure: stat.Mean(peakPressures, nil),
		AvgDistance: stat.Mean(lo.Map(zones,
			func(z model.BrakingZone, _ int) float64 { return z.Distance }), nil),
		Efficiency:  brakingEfficiency(samples),
		Consistency: pressureConsistency(peakPressures),
		ByIntensity: lo.CountValuesBy(zones,
			func(z model.BrakingZone) model.BrakingIntensity { return z.Intensity }),
	}

	trail := lo.Filter(zones,
		func(z model.BrakingZone, _ int) bool { return z.Duration > trailBrakingMinSpan })
	ret.TrailBrakingZones = len(trail)
	if len(trail) > 0 {
		ret.TrailBrakingAvgDist = stat.Mean(lo.Map(trail,
			func(z model.BrakingZone, _ int) float64 { return z.Distance }), nil)
	}
	return ret, nil
}

// brakingEfficiency rewards strong deceleration and punishes uneven
// application over all braking instances of the stream.
func brakingEfficiency(samples []model.Sample) float64 {
	decels := []float64{}
	for i := range samples {
		if samples[i].LongAccel < brakingDecelG {
			decels = append(decels, -samples[i].LongAccel)
		}
	}
	if len(decels) == 0 {
		return 0
	}
	avg := stat.Mean(decels, nil)
	std := 0.0
	if len(decels) > 1 {
		std = stat.StdDev(decels, nil)
	}
	return clamp(avg*decelEfficiencyWeight-std*decelSmoothnessWeight, 0, 100)
}

func pressureConsistency(pressures []float64) float64 {
	mean := stat.Mean(pressures, nil)
	if mean <= 0 {
		return 0
	}
	std := 0.0
	if len(pressures) > 1 {
		std = stat.StdDev(pressures, nil)
	}
	return clamp(100-std/mean*100, 0, 100)
}
