package decode

import (
	"hash/fnv"
	"math"
	"strconv"
	"strings"
)

// baseline lap times in seconds, used when synthesizing lap sequences
var trackBaseTimes = map[string]float64{
	"roadatlanta": 90.0,
	"talladega":   45.0,
	"watkinsglen": 105.0,
	"sebring":     115.0,
	"daytona":     85.0,
}

const (
	defaultBaseTime  = 90.0
	maxSyntheticLaps = 200
)

func baseLapTime(fileName string) float64 {
	lower := strings.ToLower(fileName)
	for track, base := range trackBaseTimes {
		if strings.Contains(lower, track) {
			return base
		}
	}
	return defaultBaseTime
}

// synthesizeLapTimes builds a plausible lap time sequence for the
// estimated session duration: baseline per track, a monotonic
// early-session improvement bias and bounded jitter seeded from the
// file name, so repeated runs on the same file are reproducible.
func synthesizeLapTimes(fileName string, duration float64) []float64 {
	base := baseLapTime(fileName)
	if duration <= 0 {
		return nil
	}
	laps := int(duration / base)
	if laps < 1 {
		laps = 1
	}
	if laps > maxSyntheticLaps {
		laps = maxSyntheticLaps
	}
	ret := make([]float64, 0, laps)
	for i := 0; i < laps; i++ {
		var variation float64
		if i < 5 {
			variation = -2.0 + float64(i)*0.1
		} else {
			variation = -1.0 + float64(i)*0.05
		}
		variation += jitter(fileName, i)
		ret = append(ret, math.Round((base+variation)*1000)/1000)
	}
	return ret
}

// jitter returns a deterministic value in [0,1) per file and lap.
func jitter(fileName string, lap int) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fileName))
	_, _ = h.Write([]byte(":" + strconv.Itoa(lap)))
	return float64(h.Sum64()%100) / 100.0
}
