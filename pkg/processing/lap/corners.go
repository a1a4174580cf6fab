package lap

import (
	"math"

	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
)

// Corners detects cornering segments on sustained lateral load. A
// segment opens when |lateral g| exceeds the threshold and closes when
// it falls back to or below it. Segments at or under the minimum span
// are dropped.
func (s *Segmenter) Corners(samples []model.Sample) []model.Corner {
	ret := []model.Corner{}
	inCorner := false
	start := 0
	for i := range samples {
		latG := math.Abs(samples[i].LatAccel)
		switch {
		case latG > s.cornerEntryG && !inCorner:
			inCorner = true
			start = i
		case latG <= s.cornerEntryG && inCorner:
			inCorner = false
			if i-start > s.cornerMinSpan {
				ret = append(ret, buildCorner(samples, start, i))
			}
		}
	}
	return ret
}

// buildCorner computes the segment attributes over [start,end). The
// apex is the minimum-speed sample of the segment.
func buildCorner(samples []model.Sample, start, end int) model.Corner {
	apexIdx := start
	peakLatG := 0.0
	for i := start; i < end; i++ {
		if samples[i].Speed < samples[apexIdx].Speed {
			apexIdx = i
		}
		if latG := math.Abs(samples[i].LatAccel); latG > peakLatG {
			peakLatG = latG
		}
	}
	entrySpeed := samples[start].Speed
	return model.Corner{
		EntryIdx:   start,
		ApexIdx:    apexIdx,
		ExitIdx:    end,
		EntrySpeed: entrySpeed,
		ApexSpeed:  samples[apexIdx].Speed,
		ExitSpeed:  samples[end-1].Speed,
		PeakLatG:   peakLatG,
		Duration:   end - start,
		Class:      classifyCorner(entrySpeed),
	}
}

// corner class boundaries by entry speed (km/h)
const (
	hairpinMaxSpeed = 60.0
	slowMaxSpeed    = 100.0
	mediumMaxSpeed  = 150.0
	fastMaxSpeed    = 200.0
)

func classifyCorner(entrySpeed float64) model.CornerClass {
	switch {
	case entrySpeed < hairpinMaxSpeed:
		return model.CornerHairpin
	case entrySpeed < slowMaxSpeed:
		return model.CornerSlow
	case entrySpeed < mediumMaxSpeed:
		return model.CornerMedium
	case entrySpeed < fastMaxSpeed:
		return model.CornerFast
	default:
		return model.CornerVeryFast
	}
}
