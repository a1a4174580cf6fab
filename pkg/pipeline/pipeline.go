// Package pipeline processes one telemetry recording end to end:
// fingerprint and duplicate check, decode via the strategy chain,
// identity extraction, lap and zone segmentation, metric derivation
// and storage of the result.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mpapenbr/ibt-analyzer-go/log"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/decode"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/decode/identity"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/processing/lap"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/processing/metrics"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/store"
)

// ErrAlreadyProcessed signals that a file with the same fingerprint is
// in the store. Process returns the stored result alongside.
var ErrAlreadyProcessed = errors.New("file already processed")

type (
	Option    func(*Processor)
	Processor struct {
		decoder   *decode.Decoder
		segmenter *lap.Segmenter
		engine    *metrics.Engine
		store     *store.Store
		l         *log.Logger
	}
)

func WithDecoder(arg *decode.Decoder) Option {
	return func(p *Processor) {
		p.decoder = arg
	}
}

func WithSegmenter(arg *lap.Segmenter) Option {
	return func(p *Processor) {
		p.segmenter = arg
	}
}

func WithEngine(arg *metrics.Engine) Option {
	return func(p *Processor) {
		p.engine = arg
	}
}

func WithLogger(arg *log.Logger) Option {
	return func(p *Processor) {
		p.l = arg
	}
}

func NewProcessor(st *store.Store, opts ...Option) *Processor {
	ret := &Processor{
		store: st,
		l:     log.Default().Named("pipeline"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.decoder == nil {
		ret.decoder = decode.NewDecoder()
	}
	if ret.segmenter == nil {
		ret.segmenter = lap.NewSegmenter()
	}
	if ret.engine == nil {
		ret.engine = metrics.NewEngine()
	}
	return ret
}

// Process runs the full pipeline on path. A file whose fingerprint is
// already stored is not processed again; the stored result is returned
// together with ErrAlreadyProcessed.
func (p *Processor) Process(ctx context.Context, path string) (
	*model.SessionResult, error,
) {
	fingerprint, err := store.Fingerprint(path)
	if err != nil {
		return nil, err
	}
	if existing, ok := p.store.Get(fingerprint); ok {
		p.l.Info("skipping known file",
			log.String("file", path),
			log.String("fingerprint", fingerprint))
		return existing, ErrAlreadyProcessed
	}
	tel, err := p.decoder.Decode(ctx, path)
	if err != nil {
		return nil, err
	}
	ret := p.buildResult(path, fingerprint, tel)
	if !p.store.Put(ret) {
		// a concurrent Process call on the same file won the race
		if existing, ok := p.store.Get(fingerprint); ok {
			return existing, ErrAlreadyProcessed
		}
	}
	p.l.Info("file processed",
		log.String("file", path),
		log.String("source", string(ret.Source)),
		log.Int("laps", len(ret.Laps)),
		log.Int("corners", len(ret.Corners)),
		log.Int("brakingZones", len(ret.BrakingZones)))
	return ret, nil
}

func (p *Processor) buildResult(
	path, fingerprint string, tel *model.Telemetry,
) *model.SessionResult {
	ret := &model.SessionResult{
		ID:            uuid.New().String(),
		SourceFile:    path,
		Fingerprint:   fingerprint,
		FileSizeBytes: tel.FileSizeBytes,
		ProcessedAt:   time.Now(),
		Identity:      identity.FromBundle(tel, path),
		Source:        tel.Source,
		SampleRate:    tel.SampleRate,
	}
	if tel.HasSamples() {
		segments := p.segmenter.Process(tel.Samples)
		ret.Laps = segments.Laps
		ret.Corners = segments.Corners
		ret.BrakingZones = segments.BrakingZones
	} else {
		ret.Laps = lapsFromTimes(tel.LapTimes)
	}
	ret.Metrics = p.engine.Derive(metrics.Input{
		Laps:         ret.Laps,
		Corners:      ret.Corners,
		BrakingZones: ret.BrakingZones,
		Samples:      tel.Samples,
	})
	return ret
}

// lapsFromTimes converts pre-computed lap times (heuristic and estimate
// bundles carry no samples) into lap entries without sample ranges.
func lapsFromTimes(times []float64) []model.Lap {
	ret := make([]model.Lap, 0, len(times))
	for i, lapTime := range times {
		ret = append(ret, model.Lap{Num: i, Time: lapTime, Valid: lapTime > 0})
	}
	return ret
}
