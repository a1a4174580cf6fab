// Package decode turns a telemetry recording file into a normalized
// telemetry bundle. Decoding strategies are tried in fixed priority
// order with decreasing fidelity; the first successful bundle wins and
// is tagged with the provenance of the strategy that produced it.
package decode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mpapenbr/ibt-analyzer-go/log"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
)

var (
	// ErrDecodeFailure signals that all strategies were exhausted.
	ErrDecodeFailure = errors.New("no decode strategy succeeded")
	// ErrSubprocessTimeout signals that the external decoder exceeded
	// its time budget. Treated as a strategy failure, not fatal.
	ErrSubprocessTimeout = errors.New("decoder subprocess timed out")
)

// Strategy decodes a recording file. Implementations must be free of
// side effects and idempotent: a failed attempt leaves no state behind.
type Strategy interface {
	Source() model.DecodeSource
	Decode(ctx context.Context, path string) (*model.Telemetry, error)
}

type Decoder struct {
	strategies []Strategy
	l          *log.Logger
}

type Option func(*Decoder)

// WithStrategies replaces the default strategy chain. Order matters.
func WithStrategies(strategies ...Strategy) Option {
	return func(d *Decoder) {
		d.strategies = strategies
	}
}

func WithLogger(arg *log.Logger) Option {
	return func(d *Decoder) {
		d.l = arg
	}
}

// NewDecoder creates a Decoder with the default chain: subprocess exact
// decode, binary header heuristic, filename-only estimate.
func NewDecoder(opts ...Option) *Decoder {
	ret := &Decoder{l: log.Default().Named("decode")}
	for _, opt := range opts {
		opt(ret)
	}
	if len(ret.strategies) == 0 {
		ret.strategies = []Strategy{
			NewSubprocessStrategy(),
			NewHeuristicStrategy(),
			NewEstimateStrategy(),
		}
	}
	return ret
}

// Decode runs the strategy chain on path. The returned bundle carries
// the provenance of the first successful strategy.
func (d *Decoder) Decode(ctx context.Context, path string) (*model.Telemetry, error) {
	reasons := make([]string, 0, len(d.strategies))
	for _, s := range d.strategies {
		tel, err := s.Decode(ctx, path)
		if err != nil {
			d.l.Debug("strategy failed",
				log.String("strategy", string(s.Source())),
				log.String("file", path),
				log.ErrorField(err))
			reasons = append(reasons, fmt.Sprintf("%s: %v", s.Source(), err))
			continue
		}
		if tel.Empty() {
			d.l.Debug("strategy returned no data",
				log.String("strategy", string(s.Source())),
				log.String("file", path))
			reasons = append(reasons, fmt.Sprintf("%s: no data", s.Source()))
			continue
		}
		tel.Source = s.Source()
		d.l.Info("file decoded",
			log.String("file", path),
			log.String("source", string(tel.Source)),
			log.Int("samples", len(tel.Samples)),
			log.Int("lapTimes", len(tel.LapTimes)))
		return tel, nil
	}
	return nil, fmt.Errorf("%w (%s)", ErrDecodeFailure, strings.Join(reasons, "; "))
}
