package lap

import (
	"math"

	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
)

// BrakingZones detects braking segments on brake pressure. The state
// machine mirrors the corner detector: open above the threshold, close
// at or below it, drop segments at or under the minimum span.
func (s *Segmenter) BrakingZones(samples []model.Sample) []model.BrakingZone {
	ret := []model.BrakingZone{}
	braking := false
	start := 0
	for i := range samples {
		pct := samples[i].BrakePct
		switch {
		case pct > s.brakeEntryPct && !braking:
			braking = true
			start = i
		case pct <= s.brakeEntryPct && braking:
			braking = false
			if i-start > s.brakeMinSpan {
				ret = append(ret, buildBrakingZone(samples, start, i))
			}
		}
	}
	return ret
}

func buildBrakingZone(samples []model.Sample, start, end int) model.BrakingZone {
	peakPressure := 0.0
	sumPressure := 0.0
	minLongG := samples[start].LongAccel
	for i := start; i < end; i++ {
		if samples[i].BrakePct > peakPressure {
			peakPressure = samples[i].BrakePct
		}
		sumPressure += samples[i].BrakePct
		if samples[i].LongAccel < minLongG {
			minLongG = samples[i].LongAccel
		}
	}
	span := end - start
	peakDecelG := math.Abs(minLongG)
	entrySpeed := samples[start].Speed
	exitSpeed := samples[end-1].Speed
	return model.BrakingZone{
		EntryIdx:       start,
		ExitIdx:        end,
		EntrySpeed:     entrySpeed,
		ExitSpeed:      exitSpeed,
		SpeedReduction: entrySpeed - exitSpeed,
		PeakPressure:   peakPressure,
		AvgPressure:    sumPressure / float64(span),
		PeakDecelG:     peakDecelG,
		Distance:       float64(span) * brakeDistancePerSample,
		Duration:       span,
		Intensity:      classifyBraking(peakDecelG),
	}
}

// braking intensity boundaries by peak deceleration (g)
const (
	lightMaxDecel    = 0.2
	moderateMaxDecel = 0.5
	heavyMaxDecel    = 0.8
)

func classifyBraking(peakDecelG float64) model.BrakingIntensity {
	switch {
	case peakDecelG < lightMaxDecel:
		return model.BrakingLight
	case peakDecelG < moderateMaxDecel:
		return model.BrakingModerate
	case peakDecelG < heavyMaxDecel:
		return model.BrakingHeavy
	default:
		return model.BrakingMaximum
	}
}
