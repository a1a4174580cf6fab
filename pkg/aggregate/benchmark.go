package aggregate

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
)

const (
	proLevelGap          = 1.0
	amateurLevelGap      = 1.0
	intermediateLevelGap = 3.0
)

// Benchmarks maps track and car names (lowercased, as they appear in
// telemetry filenames) to reference lap times.
type Benchmarks struct {
	table map[string]map[string]model.BenchmarkTier
}

// NewBenchmarks returns the built-in reference table.
func NewBenchmarks() *Benchmarks {
	return &Benchmarks{table: defaultTable()}
}

// LoadBenchmarks reads additional reference times from a YAML file
// shaped track -> car -> {pro, alien, fastAmateur}. Loaded entries
// extend and override the built-in table.
func LoadBenchmarks(fileName string) (*Benchmarks, error) {
	content, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	loaded := map[string]map[string]model.BenchmarkTier{}
	if err := yaml.Unmarshal(content, &loaded); err != nil {
		return nil, fmt.Errorf("could not parse benchmarks %s: %w", fileName, err)
	}
	ret := NewBenchmarks()
	for track, cars := range loaded {
		track = strings.ToLower(track)
		if ret.table[track] == nil {
			ret.table[track] = map[string]model.BenchmarkTier{}
		}
		for car, tier := range cars {
			ret.table[track][strings.ToLower(car)] = tier
		}
	}
	return ret, nil
}

// Compare relates a best lap to the reference tiers for the track/car
// pair. Without a matching reference (or without a usable best lap) the
// result carries HasReference=false and no gaps.
func (b *Benchmarks) Compare(track, car string, bestLap float64) *model.BenchmarkComparison {
	ret := &model.BenchmarkComparison{Track: track, Car: car, BestLap: bestLap}
	tier, ok := b.lookup(track, car)
	if !ok || bestLap <= 0 {
		ret.Interpretation = "Benchmark comparison not available"
		return ret
	}
	ret.HasReference = true
	ret.Reference = tier
	ret.GapToPro = bestLap - tier.Pro
	ret.GapToAlien = bestLap - tier.Alien
	ret.GapToAmateur = bestLap - tier.FastAmateur
	ret.Level = performanceLevel(ret.GapToPro, ret.GapToAmateur)
	ret.Interpretation = interpretGap(ret.GapToPro)
	return ret
}

func (b *Benchmarks) lookup(track, car string) (model.BenchmarkTier, bool) {
	cars, ok := b.table[strings.ToLower(track)]
	if !ok {
		return model.BenchmarkTier{}, false
	}
	tier, ok := cars[strings.ToLower(car)]
	return tier, ok
}

func performanceLevel(gapToPro, gapToAmateur float64) model.PerformanceLevel {
	switch {
	case gapToPro <= proLevelGap:
		return model.LevelProfessional
	case gapToAmateur <= amateurLevelGap:
		return model.LevelAdvancedAmateur
	case gapToAmateur <= intermediateLevelGap:
		return model.LevelIntermediate
	default:
		return model.LevelBeginner
	}
}

func interpretGap(gapToPro float64) string {
	switch {
	case gapToPro <= 0.5:
		return "Exceptional performance - within half second of professional level"
	case gapToPro <= 1.5:
		return "Very strong performance - approaching professional level"
	case gapToPro <= 3.0:
		return "Good performance - solid amateur level with improvement potential"
	default:
		return "Development level - focus on fundamentals and consistency"
	}
}

func defaultTable() map[string]map[string]model.BenchmarkTier {
	return map[string]map[string]model.BenchmarkTier{
		"roadatlanta": {
			"porsche992cup": {Pro: 85.2, Alien: 84.1, FastAmateur: 87.5},
			"toyotagr86":    {Pro: 95.8, Alien: 94.7, FastAmateur: 98.2},
		},
		"talladega": {
			"porsche992cup": {Pro: 48.5, Alien: 47.8, FastAmateur: 50.1},
			"toyotagr86":    {Pro: 42.1, Alien: 41.5, FastAmateur: 43.8},
		},
	}
}
