//nolint:funlen // ok for tests
package analyze

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/ibt-analyzer-go/pkg/config"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
)

func sampleResult() *model.SessionResult {
	return &model.SessionResult{
		ID:            "4a1c9a4e-0000-0000-0000-000000000000",
		SourceFile:    "/data/porsche992cup_roadatlanta practice 2025-07-01 14-30-00.ibt",
		FileSizeBytes: 2048,
		Identity: model.SessionIdentity{
			Car:         "porsche992cup",
			Track:       "roadatlanta",
			Date:        "2025-07-01",
			Time:        "14:30:00",
			SessionType: "practice",
		},
		Source:     model.SourceExactDecode,
		SampleRate: 60,
		Metrics: model.SessionMetrics{
			Laps: &model.LapStats{
				LapCount:        5,
				Fastest:         89.2,
				Slowest:         92.1,
				Average:         90.5,
				Median:          90.3,
				Consistency:     0.989,
				PaceSlope:       -0.25,
				PaceTrend:       model.PaceImproving,
				TheoreticalBest: 88.9,
				Outliers: []model.OutlierLap{
					{LapNum: 3, Time: 92.1, Deviation: 1.8, Kind: model.OutlierSlow},
				},
			},
			Improvement: &model.SessionImprovement{
				Gain:  0.8,
				Class: model.ImprovementModerate,
			},
			Corners: &model.CornerStats{
				CornerCount:     12,
				AvgEntrySpeed:   140,
				AvgApexSpeed:    95,
				AvgExitSpeed:    120,
				Efficiency:      82.5,
				SpeedMaintained: 67.8,
				ByClass: map[model.CornerClass]model.CornerClassStats{
					model.CornerMedium: {Count: 8, AvgApexSpeed: 110},
					model.CornerSlow:   {Count: 4, AvgApexSpeed: 80},
				},
			},
			Braking: &model.BrakingStats{
				ZoneCount:         10,
				AvgPeakDecel:      1.1,
				Efficiency:        70.2,
				Consistency:       88.0,
				TrailBrakingZones: 4,
			},
			GForce: &model.GForceStats{
				PeakLat:             1.42,
				PeakCombined:        1.65,
				EnvelopeUtilization: 23.4,
				SustainedHighLat:    12.1,
			},
			Notes: []string{"rolling consistency: insufficient data"},
		},
	}
}

func TestPrintResult_Text(t *testing.T) {
	config.OutputFormat = "text"
	t.Cleanup(func() { config.OutputFormat = "" })

	var buf bytes.Buffer
	require.NoError(t, printResult(&buf, sampleResult()))
	out := buf.String()

	assert.Contains(t, out, "Session  porsche992cup @ roadatlanta (2025-07-01 14:30:00, practice)")
	assert.Contains(t, out, "exact-decode")
	assert.Contains(t, out, "Laps (5 valid)")
	assert.Contains(t, out, "1:29.200")
	assert.Contains(t, out, "-0.250 s/lap (improving)")
	assert.Contains(t, out, "outlier lap 3:")
	assert.Contains(t, out, "+0.800s (moderate-improvement)")
	assert.Contains(t, out, "Corners (12)")
	assert.Contains(t, out, "Braking (10 zones)")
	assert.Contains(t, out, "trail braking    4 zones")
	assert.Contains(t, out, "G-forces")
	assert.Contains(t, out, "rolling consistency: insufficient data")

	// corner classes in deterministic order
	medium := strings.Index(out, "apex 110.0 km/h")
	slow := strings.Index(out, "apex 80.0 km/h")
	require.GreaterOrEqual(t, medium, 0)
	require.GreaterOrEqual(t, slow, 0)
	assert.Less(t, medium, slow)
}

func TestPrintResult_TextSparse(t *testing.T) {
	config.OutputFormat = "text"
	t.Cleanup(func() { config.OutputFormat = "" })

	res := &model.SessionResult{
		SourceFile: "unparsable.ibt",
		Identity: model.SessionIdentity{
			Car:         model.Unknown,
			Track:       model.Unknown,
			Date:        model.Unknown,
			Time:        model.Unknown,
			SessionType: model.Unknown,
		},
		Source: model.SourceFilenameEstimate,
		Metrics: model.SessionMetrics{
			Notes: []string{"lap statistics: insufficient data"},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, printResult(&buf, res))
	out := buf.String()

	assert.Contains(t, out, "Unknown @ Unknown")
	assert.Contains(t, out, "filename-only-estimate")
	assert.NotContains(t, out, "Laps (")
	assert.Contains(t, out, "lap statistics: insufficient data")
}

func TestPrintResult_JSON(t *testing.T) {
	config.OutputFormat = "json"
	t.Cleanup(func() { config.OutputFormat = "" })

	var buf bytes.Buffer
	require.NoError(t, printResult(&buf, sampleResult()))

	var decoded model.SessionResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "roadatlanta", decoded.Identity.Track)
	assert.Equal(t, model.SourceExactDecode, decoded.Source)
	assert.InDelta(t, 89.2, decoded.Metrics.Laps.Fastest, 0.0001)
	assert.Len(t, decoded.Metrics.Laps.Outliers, 1)
}

func TestFormatLapTime(t *testing.T) {
	assert.Equal(t, "45.123s", formatLapTime(45.123))
	assert.Equal(t, "1:29.500", formatLapTime(89.5))
	assert.Equal(t, "2:05.000", formatLapTime(125.0))
}
