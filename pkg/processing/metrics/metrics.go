// Package metrics derives performance metrics from segmented telemetry.
// Each metric group requires a minimum amount of input data; groups
// without enough data are reported as absent, never as an error for
// the whole session.
package metrics

import (
	"errors"

	"github.com/mpapenbr/ibt-analyzer-go/log"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
)

// ErrInsufficientData signals that a metric has less input than its
// minimum. Callers decide whether to skip the metric or the session.
var ErrInsufficientData = errors.New("insufficient data")

type Engine struct {
	l *log.Logger
}

type Option func(e *Engine)

func NewEngine(opts ...Option) *Engine {
	ret := &Engine{l: log.Default().Named("metrics")}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Input carries the segments and raw samples of one session. Bundles
// decoded without raw samples leave Corners, BrakingZones and Samples
// empty; the lap metrics still apply.
type Input struct {
	Laps         []model.Lap
	Corners      []model.Corner
	BrakingZones []model.BrakingZone
	Samples      []model.Sample
}

// Derive computes all metric groups. Groups whose input is below the
// minimum stay nil and leave a note explaining why.
func (e *Engine) Derive(arg Input) model.SessionMetrics {
	ret := model.SessionMetrics{}
	times := validLapTimes(arg.Laps)

	var err error
	if ret.Laps, err = LapStatistics(times); err != nil {
		ret.Notes = append(ret.Notes, "lap statistics: "+err.Error())
	}
	if ret.Rolling, err = RollingConsistencySeries(times); err != nil {
		ret.Notes = append(ret.Notes, "rolling consistency: "+err.Error())
	}
	if ret.Improvement, err = Improvement(times); err != nil {
		ret.Notes = append(ret.Notes, "session improvement: "+err.Error())
	}
	if ret.Corners, err = CornerMetrics(arg.Corners); err != nil {
		ret.Notes = append(ret.Notes, "corner analysis: "+err.Error())
	}
	if ret.Braking, err = BrakingMetrics(arg.BrakingZones, arg.Samples); err != nil {
		ret.Notes = append(ret.Notes, "braking analysis: "+err.Error())
	}
	if ret.GForce, err = GForce(arg.Samples); err != nil {
		ret.Notes = append(ret.Notes, "g-force analysis: "+err.Error())
	}
	e.l.Debug("metrics derived",
		log.Int("laps", len(times)),
		log.Int("notes", len(ret.Notes)))
	return ret
}

func validLapTimes(laps []model.Lap) []float64 {
	ret := make([]float64, 0, len(laps))
	for i := range laps {
		if laps[i].Valid {
			ret = append(ret, laps[i].Time)
		}
	}
	return ret
}

func clamp(val, lower, upper float64) float64 {
	if val < lower {
		return lower
	}
	if val > upper {
		return upper
	}
	return val
}
