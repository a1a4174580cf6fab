//nolint:funlen // ok for tests
package overview

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/ibt-analyzer-go/pkg/aggregate"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/config"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/store"
	"github.com/mpapenbr/ibt-analyzer-go/testsupport"
)

func buildStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New()
	require.True(t, st.Put(
		testsupport.NewResult("roadatlanta", "porsche992cup", "2025-07-01", 92.0, 93.5)))
	require.True(t, st.Put(
		testsupport.NewResult("roadatlanta", "porsche992cup", "2025-07-08", 90.0, 91.0)))
	require.True(t, st.Put(
		testsupport.NewResult("talladega", "toyotagr86", "2025-07-03", 43.0, 43.4)))
	return st
}

func TestBuildReport(t *testing.T) {
	st := buildStore(t)
	agg := aggregate.NewAggregator(st)

	report, err := buildReport(context.Background(), agg, st)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Overview.TotalSessions)
	assert.Equal(t, 6, report.Overview.TotalLaps)
	assert.Equal(t, []string{"roadatlanta", "talladega"}, report.Overview.Tracks)

	require.Len(t, report.Tracks, 2)
	assert.Equal(t, "roadatlanta", report.Tracks[0].Track)
	assert.Equal(t, 2, report.Tracks[0].SessionCount)

	require.Len(t, report.Cars, 2)
	assert.Equal(t, "porsche992cup", report.Cars[0].Car)

	require.Len(t, report.Trends, 2)
	assert.Equal(t, 2, report.Trends[0].SessionCount)

	require.Len(t, report.Benchmarks, 2)
	assert.True(t, report.Benchmarks[0].HasReference)
	assert.InDelta(t, 0.9, report.Benchmarks[1].GapToPro, 0.0001)
}

func TestTrackCarPairs(t *testing.T) {
	st := buildStore(t)
	st.Put(testsupport.NewResult(model.Unknown, model.Unknown, "2025-07-09", 100.0))

	want := []trackCar{
		{track: "roadatlanta", car: "porsche992cup"},
		{track: "talladega", car: "toyotagr86"},
	}
	assert.Equal(t, want, trackCarPairs(st))
}

func TestPrintReport_Text(t *testing.T) {
	config.OutputFormat = "text"
	t.Cleanup(func() { config.OutputFormat = "" })

	st := buildStore(t)
	report, err := buildReport(context.Background(), aggregate.NewAggregator(st), st)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printReport(&buf, report))
	out := buf.String()

	assert.Contains(t, out, "Collection: 3 sessions, 6 laps")
	assert.Contains(t, out, "Tracks:     roadatlanta, talladega")
	assert.Contains(t, out, "Fastest:    43.000s (toyotagr86 @ talladega)")
	assert.Contains(t, out, "\nTracks\n")
	assert.Contains(t, out, "\nCars\n")
	assert.Contains(t, out, "\nTrends\n")
	assert.Contains(t, out, "\nBenchmarks\n")
	assert.Contains(t, out, "gap to pro +0.900s")
}

func TestPrintReport_JSON(t *testing.T) {
	config.OutputFormat = "json"
	t.Cleanup(func() { config.OutputFormat = "" })

	st := buildStore(t)
	report, err := buildReport(context.Background(), aggregate.NewAggregator(st), st)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printReport(&buf, report))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 3, decoded.Overview.TotalSessions)
	assert.Len(t, decoded.Tracks, 2)
	assert.Len(t, decoded.Benchmarks, 2)
}
