package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
)

const (
	envelopeG          = 1.0 // combined load counting toward envelope use
	sustainedLatG      = 1.0
	gConsistencyWeight = 30.0
	peakZoneMinSpan    = 10 // samples
)

// GForce derives the g-force envelope of a session from the raw
// samples.
//
//nolint:funlen // single pass over the stream plus assembly
func GForce(samples []model.Sample) (*model.GForceStats, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w (no samples)", ErrInsufficientData)
	}
	latG := make([]float64, len(samples))
	longG := make([]float64, len(samples))
	combined := make([]float64, len(samples))

	peakLat := 0.0
	sumAbsLat := 0.0
	peakAccel := 0.0
	minLong := 0.0
	envelopeCount := 0
	sustainedCount := 0
	for i := range samples {
		latG[i] = samples[i].LatAccel
		longG[i] = samples[i].LongAccel
		combined[i] = math.Hypot(latG[i], longG[i])

		absLat := math.Abs(latG[i])
		sumAbsLat += absLat
		if absLat > peakLat {
			peakLat = absLat
		}
		if absLat > sustainedLatG {
			sustainedCount++
		}
		if longG[i] > peakAccel {
			peakAccel = longG[i]
		}
		if longG[i] < minLong {
			minLong = longG[i]
		}
		if combined[i] > envelopeG {
			envelopeCount++
		}
	}

	peakCombined := combined[0]
	for _, g := range combined {
		if g > peakCombined {
			peakCombined = g
		}
	}
	latStd, longStd := 0.0, 0.0
	if len(samples) > 1 {
		latStd = stat.StdDev(latG, nil)
		longStd = stat.StdDev(longG, nil)
	}
	n := float64(len(samples))
	return &model.GForceStats{
		PeakLat:             peakLat,
		AvgLat:              sumAbsLat / n,
		PeakAccel:           peakAccel,
		PeakDecel:           math.Abs(minLong),
		PeakCombined:        peakCombined,
		AvgCombined:         stat.Mean(combined, nil),
		EnvelopeUtilization: float64(envelopeCount) / n * 100,
		Consistency:         clamp(100-(latStd+longStd)*gConsistencyWeight, 0, 100),
		SustainedHighLat:    float64(sustainedCount) / n * 100,
		PeakZones:           peakZones(combined),
	}, nil
}

// peakZones finds sustained spans of combined load above the envelope
// threshold, using the same open/close lifecycle as the segment
// detectors.
func peakZones(combined []float64) []model.GForceZone {
	var ret []model.GForceZone
	in := false
	start := 0
	for i, g := range combined {
		switch {
		case g > envelopeG && !in:
			in = true
			start = i
		case g <= envelopeG && in:
			in = false
			if i-start > peakZoneMinSpan {
				ret = append(ret, buildPeakZone(combined, start, i))
			}
		}
	}
	return ret
}

func buildPeakZone(combined []float64, start, end int) model.GForceZone {
	maxG := combined[start]
	sum := 0.0
	for i := start; i < end; i++ {
		if combined[i] > maxG {
			maxG = combined[i]
		}
		sum += combined[i]
	}
	return model.GForceZone{
		StartIdx: start,
		EndIdx:   end,
		Duration: end - start,
		MaxG:     maxG,
		AvgG:     sum / float64(end-start),
	}
}
