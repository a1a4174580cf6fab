// Package lap segments a telemetry sample stream into laps, corners and
// braking zones. All detectors are single-pass state machines over the
// stream; segments still open when the stream ends are discarded.
package lap

import (
	"github.com/mpapenbr/ibt-analyzer-go/log"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
)

const (
	DefaultCornerEntryG  = 0.3
	DefaultCornerMinSpan = 5
	DefaultBrakeEntryPct = 10.0
	DefaultBrakeMinSpan  = 3
	DefaultMinLapSamples = 2

	// without GPS data the braking distance is a coarse per-sample estimate
	brakeDistancePerSample = 20.0
)

type Segmenter struct {
	cornerEntryG  float64
	cornerMinSpan int
	brakeEntryPct float64
	brakeMinSpan  int
	minLapSamples int
	l             *log.Logger
}

type Option func(s *Segmenter)

// WithCornerThreshold sets the lateral g value opening a corner segment.
func WithCornerThreshold(arg float64) Option {
	return func(s *Segmenter) {
		if arg > 0 {
			s.cornerEntryG = arg
		}
	}
}

// WithCornerMinSpan sets the minimum sample span of a corner segment.
func WithCornerMinSpan(arg int) Option {
	return func(s *Segmenter) {
		if arg > 0 {
			s.cornerMinSpan = arg
		}
	}
}

// WithBrakeThreshold sets the brake pressure (percent) opening a braking zone.
func WithBrakeThreshold(arg float64) Option {
	return func(s *Segmenter) {
		if arg > 0 {
			s.brakeEntryPct = arg
		}
	}
}

// WithBrakeMinSpan sets the minimum sample span of a braking zone.
func WithBrakeMinSpan(arg int) Option {
	return func(s *Segmenter) {
		if arg > 0 {
			s.brakeMinSpan = arg
		}
	}
}

// WithMinLapSamples sets the minimum sample span of a valid lap.
func WithMinLapSamples(arg int) Option {
	return func(s *Segmenter) {
		if arg > 0 {
			s.minLapSamples = arg
		}
	}
}

func NewSegmenter(opts ...Option) *Segmenter {
	ret := &Segmenter{
		cornerEntryG:  DefaultCornerEntryG,
		cornerMinSpan: DefaultCornerMinSpan,
		brakeEntryPct: DefaultBrakeEntryPct,
		brakeMinSpan:  DefaultBrakeMinSpan,
		minLapSamples: DefaultMinLapSamples,
		l:             log.Default().Named("segment"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Result collects the segments of one sample stream.
type Result struct {
	Laps         []model.Lap
	Corners      []model.Corner
	BrakingZones []model.BrakingZone
}

// Process runs all detectors over the stream.
func (s *Segmenter) Process(samples []model.Sample) *Result {
	ret := &Result{
		Laps:         s.Laps(samples),
		Corners:      s.Corners(samples),
		BrakingZones: s.BrakingZones(samples),
	}
	s.l.Debug("segmented stream",
		log.Int("samples", len(samples)),
		log.Int("laps", len(ret.Laps)),
		log.Int("corners", len(ret.Corners)),
		log.Int("brakingZones", len(ret.BrakingZones)))
	return ret
}

// Laps closes a lap on every change of the lap counter. The lap time is
// the session-time delta between the boundary samples. Laps which are
// too short or carry a non-positive time are dropped, as is the lap
// still open at the end of the stream.
func (s *Segmenter) Laps(samples []model.Sample) []model.Lap {
	ret := []model.Lap{}
	if len(samples) == 0 {
		return ret
	}
	start := 0
	cur := samples[0].Lap
	for i := 1; i < len(samples); i++ {
		if samples[i].Lap == cur {
			continue
		}
		lapTime := samples[i].SessionTime - samples[start].SessionTime
		if lapTime > 0 && i-start >= s.minLapSamples {
			ret = append(ret, model.Lap{
				Num:      cur,
				StartIdx: start,
				EndIdx:   i - 1,
				Time:     lapTime,
				Valid:    true,
			})
		}
		start = i
		cur = samples[i].Lap
	}
	return ret
}
