package analyze

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/mpapenbr/ibt-analyzer-go/pkg/config"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
)

func printResult(w io.Writer, res *model.SessionResult) error {
	if config.OutputFormat == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	renderText(w, res)
	return nil
}

//nolint:funlen,cyclop // sequential report sections
func renderText(w io.Writer, res *model.SessionResult) {
	id := res.Identity
	fmt.Fprintf(w, "Session  %s @ %s (%s %s, %s)\n",
		id.Car, id.Track, id.Date, id.Time, id.SessionType)
	fmt.Fprintf(w, "Source   %s, %s (%d bytes)\n",
		res.Source, res.SourceFile, res.FileSizeBytes)

	if s := res.Metrics.Laps; s != nil {
		fmt.Fprintf(w, "\nLaps (%d valid)\n", s.LapCount)
		fmt.Fprintf(w, "  fastest          %s\n", formatLapTime(s.Fastest))
		fmt.Fprintf(w, "  average          %s\n", formatLapTime(s.Average))
		fmt.Fprintf(w, "  median           %s\n", formatLapTime(s.Median))
		fmt.Fprintf(w, "  consistency      %.3f\n", s.Consistency)
		fmt.Fprintf(w, "  pace             %+.3f s/lap (%s)\n", s.PaceSlope, s.PaceTrend)
		fmt.Fprintf(w, "  theoretical best %s\n", formatLapTime(s.TheoreticalBest))
		for _, outlier := range s.Outliers {
			fmt.Fprintf(w, "  outlier lap %d: %s (%+.3fs vs median, %s)\n",
				outlier.LapNum, formatLapTime(outlier.Time), outlier.Deviation,
				outlier.Kind)
		}
	}
	if s := res.Metrics.Improvement; s != nil {
		fmt.Fprintf(w, "  improvement      %+.3fs (%s)\n", s.Gain, s.Class)
	}

	if s := res.Metrics.Corners; s != nil {
		fmt.Fprintf(w, "\nCorners (%d)\n", s.CornerCount)
		fmt.Fprintf(w, "  entry/apex/exit  %.1f / %.1f / %.1f km/h\n",
			s.AvgEntrySpeed, s.AvgApexSpeed, s.AvgExitSpeed)
		fmt.Fprintf(w, "  efficiency       %.1f/100\n", s.Efficiency)
		fmt.Fprintf(w, "  speed maintained %.1f%%\n", s.SpeedMaintained)
		classes := make([]model.CornerClass, 0, len(s.ByClass))
		for class := range s.ByClass {
			classes = append(classes, class)
		}
		sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
		for _, class := range classes {
			fmt.Fprintf(w, "  %-10s %3d corners, apex %.1f km/h\n",
				class, s.ByClass[class].Count, s.ByClass[class].AvgApexSpeed)
		}
	}

	if s := res.Metrics.Braking; s != nil {
		fmt.Fprintf(w, "\nBraking (%d zones)\n", s.ZoneCount)
		fmt.Fprintf(w, "  peak decel       %.2f g avg\n", s.AvgPeakDecel)
		fmt.Fprintf(w, "  efficiency       %.1f/100\n", s.Efficiency)
		fmt.Fprintf(w, "  consistency      %.1f/100\n", s.Consistency)
		fmt.Fprintf(w, "  trail braking    %d zones\n", s.TrailBrakingZones)
	}

	if s := res.Metrics.GForce; s != nil {
		fmt.Fprintf(w, "\nG-forces\n")
		fmt.Fprintf(w, "  peak lat/combined %.2f / %.2f g\n", s.PeakLat, s.PeakCombined)
		fmt.Fprintf(w, "  envelope usage    %.1f%% above 1g\n", s.EnvelopeUtilization)
		fmt.Fprintf(w, "  sustained lateral %.1f%%\n", s.SustainedHighLat)
	}

	if len(res.Metrics.Notes) > 0 {
		fmt.Fprintf(w, "\nNotes\n")
		for _, note := range res.Metrics.Notes {
			fmt.Fprintf(w, "  %s\n", note)
		}
	}
}

// formatLapTime renders a lap time, switching to m:ss.fff beyond a minute.
func formatLapTime(arg float64) string {
	if arg >= 60 {
		mins := int(arg) / 60
		return fmt.Sprintf("%d:%06.3f", mins, arg-float64(mins*60))
	}
	return fmt.Sprintf("%.3fs", arg)
}
