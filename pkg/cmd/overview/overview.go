package overview

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/ibt-analyzer-go/log"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/aggregate"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/cmd/util"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/config"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/pipeline"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/store"
)

var chartDir string

func NewOverviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overview dir",
		Short: "process all recordings in a directory and print the collection report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOverview(cmd.Context(), args[0])
		},
	}
	cmd.Flags().StringVar(&config.BenchmarksFile,
		"benchmarks",
		"",
		"YAML file with additional benchmark reference times")
	cmd.Flags().StringVar(&config.CacheTTL,
		"cache-ttl",
		"5m",
		"time to live for cached rollups")
	cmd.Flags().StringVar(&chartDir,
		"chart-dir",
		"",
		"write one trend chart (PNG) per track/car pair into this directory")
	return cmd
}

func runOverview(ctx context.Context, dir string) error {
	logger := util.SetupLogger()
	defer logger.Sync() //nolint:errcheck // ok on exit

	files, err := filepath.Glob(filepath.Join(dir, "*.ibt"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .ibt recordings found in %s", dir)
	}
	st := store.New()
	proc := util.NewProcessor(st)
	for _, fileName := range files {
		if _, procErr := proc.Process(ctx, fileName); procErr != nil {
			if errors.Is(procErr, pipeline.ErrAlreadyProcessed) {
				continue
			}
			log.Warn("skipping file",
				log.String("file", fileName),
				log.ErrorField(procErr))
		}
	}
	if st.Len() == 0 {
		return fmt.Errorf("none of the %d recordings could be processed", len(files))
	}
	agg, err := util.NewAggregator(st)
	if err != nil {
		return err
	}
	report, err := buildReport(ctx, agg, st)
	if err != nil {
		return err
	}
	if chartDir != "" {
		if chartErr := writeTrendCharts(report.Trends, chartDir); chartErr != nil {
			log.Warn("could not write charts", log.ErrorField(chartErr))
		}
	}
	return printReport(os.Stdout, report)
}

// Report bundles the rollups of one collection run.
type Report struct {
	Overview   *model.Overview              `json:"overview"`
	Tracks     []*model.TrackSummary        `json:"tracks,omitempty"`
	Cars       []model.CarSummary           `json:"cars,omitempty"`
	Trends     []*model.ImprovementTrend    `json:"trends,omitempty"`
	Benchmarks []*model.BenchmarkComparison `json:"benchmarks,omitempty"`
}

func buildReport(
	ctx context.Context, agg *aggregate.Aggregator, st *store.Store,
) (*Report, error) {
	ov, err := agg.Overview(ctx)
	if err != nil {
		return nil, err
	}
	ret := &Report{Overview: ov}
	for _, track := range ov.Tracks {
		summary, sumErr := agg.TrackSummary(ctx, track)
		if sumErr != nil {
			return nil, sumErr
		}
		ret.Tracks = append(ret.Tracks, summary)
	}
	if ret.Cars, err = agg.CarComparison(ctx); err != nil {
		return nil, err
	}
	for _, pair := range trackCarPairs(st) {
		trend, trendErr := agg.ImprovementTrend(ctx, pair.track, pair.car)
		if trendErr != nil {
			continue
		}
		ret.Trends = append(ret.Trends, trend)
		if comparison, cmpErr := agg.Benchmark(pair.track, pair.car); cmpErr == nil {
			ret.Benchmarks = append(ret.Benchmarks, comparison)
		}
	}
	return ret, nil
}

type trackCar struct {
	track string
	car   string
}

func trackCarPairs(st *store.Store) []trackCar {
	pairs := lo.Uniq(lo.FilterMap(st.All(),
		func(res *model.SessionResult, _ int) (trackCar, bool) {
			if res.Identity.Track == model.Unknown ||
				res.Identity.Car == model.Unknown {
				return trackCar{}, false
			}
			return trackCar{track: res.Identity.Track, car: res.Identity.Car}, true
		}))
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].track != pairs[j].track {
			return pairs[i].track < pairs[j].track
		}
		return pairs[i].car < pairs[j].car
	})
	return pairs
}
