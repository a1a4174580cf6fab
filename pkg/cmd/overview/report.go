package overview

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mpapenbr/ibt-analyzer-go/pkg/config"
)

func printReport(w io.Writer, report *Report) error {
	if config.OutputFormat == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	renderText(w, report)
	return nil
}

//nolint:funlen,cyclop // sequential report sections
func renderText(w io.Writer, report *Report) {
	ov := report.Overview
	fmt.Fprintf(w, "Collection: %d sessions, %d laps\n",
		ov.TotalSessions, ov.TotalLaps)
	fmt.Fprintf(w, "Tracks:     %s\n", nameList(ov.Tracks))
	fmt.Fprintf(w, "Cars:       %s\n", nameList(ov.Cars))
	if ov.FastestOverall > 0 {
		fmt.Fprintf(w, "Fastest:    %s (%s @ %s)\n",
			formatLapTime(ov.FastestOverall), ov.FastestCar, ov.FastestTrack)
	}
	if ov.AvgLapTime > 0 {
		fmt.Fprintf(w, "Averages:   %s lap, %.3f consistency\n",
			formatLapTime(ov.AvgLapTime), ov.AvgConsistency)
	}

	if len(report.Tracks) > 0 {
		fmt.Fprintf(w, "\nTracks\n")
		for _, ts := range report.Tracks {
			fmt.Fprintf(w, "  %s: %d sessions, %d laps", ts.Track,
				ts.SessionCount, ts.TotalLaps)
			if ts.BestLap > 0 {
				fmt.Fprintf(w, ", best %s, avg fastest %s",
					formatLapTime(ts.BestLap), formatLapTime(ts.AvgFastestLap))
			}
			fmt.Fprintf(w, "\n    cars %s, consistency %.3f, trend %+.3f s/session\n",
				nameList(ts.CarsUsed), ts.AvgConsistency, ts.ImprovementRate)
		}
	}

	if len(report.Cars) > 0 {
		fmt.Fprintf(w, "\nCars\n")
		for i := range report.Cars {
			cs := &report.Cars[i]
			fmt.Fprintf(w, "  %s: %d sessions on %d tracks", cs.Car,
				cs.SessionCount, len(cs.TracksDriven))
			if cs.BestLap > 0 {
				fmt.Fprintf(w, ", best %s, avg fastest %s",
					formatLapTime(cs.BestLap), formatLapTime(cs.AvgFastestLap))
			}
			fmt.Fprintf(w, "\n    consistency %.3f, versatility %d\n",
				cs.AvgConsistency, cs.VersatilityScore)
		}
	}

	if len(report.Trends) > 0 {
		fmt.Fprintf(w, "\nTrends\n")
		for _, trend := range report.Trends {
			fmt.Fprintf(w, "  %s @ %s: %d sessions, slope %+.3f s/session (%s), consistency %s\n",
				trend.Car, trend.Track, trend.SessionCount,
				trend.Slope, trend.Direction, trend.ConsistencyTrend)
		}
	}

	if len(report.Benchmarks) > 0 {
		fmt.Fprintf(w, "\nBenchmarks\n")
		for _, comparison := range report.Benchmarks {
			if !comparison.HasReference {
				fmt.Fprintf(w, "  %s @ %s: %s\n",
					comparison.Car, comparison.Track, comparison.Interpretation)
				continue
			}
			fmt.Fprintf(w, "  %s @ %s: best %s, gap to pro %+.3fs, gap to alien %+.3fs\n",
				comparison.Car, comparison.Track, formatLapTime(comparison.BestLap),
				comparison.GapToPro, comparison.GapToAlien)
			fmt.Fprintf(w, "    %s - %s\n",
				comparison.Level, comparison.Interpretation)
		}
	}
}

func nameList(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

func formatLapTime(arg float64) string {
	if arg >= 60 {
		mins := int(arg) / 60
		return fmt.Sprintf("%d:%06.3f", mins, arg-float64(mins*60))
	}
	return fmt.Sprintf("%.3fs", arg)
}
