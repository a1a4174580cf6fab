// Package util provides the pieces shared by the CLI commands: logger
// bootstrap from the resolved config values and construction of the
// processing pipeline and the aggregator.
package util

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mpapenbr/ibt-analyzer-go/log"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/aggregate"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/config"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/decode"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/pipeline"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/processing/lap"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/store"
)

func ParseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// SetupLogger builds the process logger from the resolved config values
// and installs it as the package default. With a log-config file the
// zapfilter rules take precedence over the plain level.
func SetupLogger() *log.Logger {
	var logger *log.Logger
	if config.LogConfig != "" {
		content, err := os.ReadFile(config.LogConfig)
		if err == nil {
			logger, err = log.NewFiltered(
				os.Stderr,
				strings.TrimSpace(string(content)),
				log.WithCaller(true),
				log.AddCallerSkip(1))
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not setup filtered logger: %v\n", err)
			logger = nil
		}
	}
	if logger == nil {
		switch config.LogFormat {
		case "json":
			logger = log.New(
				os.Stderr,
				ParseLogLevel(config.LogLevel, log.InfoLevel),
				log.WithCaller(true),
				log.AddCallerSkip(1))
		default:
			logger = log.DevLogger(
				os.Stderr,
				ParseLogLevel(config.LogLevel, log.DebugLevel),
				log.WithCaller(true),
				log.AddCallerSkip(1))
		}
	}
	log.ResetDefault(logger)
	return logger
}

// NewProcessor wires a processing pipeline from the resolved config values.
func NewProcessor(st *store.Store) *pipeline.Processor {
	decodeTimeout, err := time.ParseDuration(config.DecodeTimeout)
	if err != nil {
		log.Warn("Invalid decode timeout. Setting default 5m", log.ErrorField(err))
		decodeTimeout = 5 * time.Minute
	}
	subprocessOpts := []decode.SubprocessOption{
		decode.WithCommand(config.DecoderCmd, config.DecoderScript),
		decode.WithTimeout(decodeTimeout),
		decode.WithMaxSamples(config.MaxSamples),
	}
	if config.DecoderMinVersion != "" {
		subprocessOpts = append(subprocessOpts,
			decode.WithMinVersion(config.DecoderMinVersion))
	}
	decoder := decode.NewDecoder(decode.WithStrategies(
		decode.NewSubprocessStrategy(subprocessOpts...),
		decode.NewHeuristicStrategy(),
		decode.NewEstimateStrategy()))
	segmenter := lap.NewSegmenter(
		lap.WithCornerThreshold(config.CornerEntryG),
		lap.WithCornerMinSpan(config.CornerMinSpan),
		lap.WithBrakeThreshold(config.BrakeEntryPct),
		lap.WithBrakeMinSpan(config.BrakeMinSpan),
		lap.WithMinLapSamples(config.MinLapSamples))
	return pipeline.NewProcessor(st,
		pipeline.WithDecoder(decoder),
		pipeline.WithSegmenter(segmenter))
}

// NewAggregator wires an aggregator from the resolved config values.
func NewAggregator(st *store.Store) (*aggregate.Aggregator, error) {
	opts := []aggregate.Option{}
	if config.CacheTTL != "" {
		ttl, err := time.ParseDuration(config.CacheTTL)
		if err != nil {
			log.Warn("Invalid cache ttl. Using default", log.ErrorField(err))
		} else {
			opts = append(opts, aggregate.WithTTL(ttl))
		}
	}
	if config.BenchmarksFile != "" {
		benchmarks, err := aggregate.LoadBenchmarks(config.BenchmarksFile)
		if err != nil {
			return nil, fmt.Errorf("could not load benchmarks: %w", err)
		}
		opts = append(opts, aggregate.WithBenchmarks(benchmarks))
	}
	return aggregate.NewAggregator(st, opts...), nil
}
