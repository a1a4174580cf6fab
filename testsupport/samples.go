// Package testsupport provides builders for telemetry test data.
package testsupport

import (
	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
)

// Samples creates n samples at the given rate with a monotonic session
// time and all channels zeroed.
func Samples(n int, rate float64) []model.Sample {
	ret := make([]model.Sample, n)
	for i := 0; i < n; i++ {
		ret[i] = model.Sample{SessionTime: float64(i) / rate}
	}
	return ret
}

// WithLaps assigns the per-sample lap counter. Shorter value slices
// leave the tail unchanged.
func WithLaps(samples []model.Sample, laps []int) []model.Sample {
	for i := range laps {
		if i >= len(samples) {
			break
		}
		samples[i].Lap = laps[i]
	}
	return samples
}

// WithLateral assigns lateral g values.
func WithLateral(samples []model.Sample, latG []float64) []model.Sample {
	for i := range latG {
		if i >= len(samples) {
			break
		}
		samples[i].LatAccel = latG[i]
	}
	return samples
}

// WithLongitudinal assigns longitudinal g values.
func WithLongitudinal(samples []model.Sample, longG []float64) []model.Sample {
	for i := range longG {
		if i >= len(samples) {
			break
		}
		samples[i].LongAccel = longG[i]
	}
	return samples
}

// WithBrake assigns brake pressure percent values.
func WithBrake(samples []model.Sample, pct []float64) []model.Sample {
	for i := range pct {
		if i >= len(samples) {
			break
		}
		samples[i].BrakePct = pct[i]
	}
	return samples
}

// WithSpeed assigns speed values (km/h).
func WithSpeed(samples []model.Sample, speed []float64) []model.Sample {
	for i := range speed {
		if i >= len(samples) {
			break
		}
		samples[i].Speed = speed[i]
	}
	return samples
}

// ConstantSpeed sets every sample to the given speed (km/h).
func ConstantSpeed(samples []model.Sample, speed float64) []model.Sample {
	for i := range samples {
		samples[i].Speed = speed
	}
	return samples
}
