package overview

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
)

func TestWriteTrendCharts(t *testing.T) {
	dir := t.TempDir()
	trends := []*model.ImprovementTrend{
		{
			Track:         "roadatlanta",
			Car:           "porsche992cup",
			FastestLaps:   []float64{92, 91, 90.5, 90, 89.5},
			MovingAverage: []float64{90.6},
		},
		// no fastest laps, no chart
		{Track: "talladega", Car: "toyotagr86"},
	}
	require.NoError(t, writeTrendCharts(trends, dir))

	fi, err := os.Stat(filepath.Join(dir, "trend_roadatlanta_porsche992cup.png"))
	require.NoError(t, err)
	assert.Greater(t, fi.Size(), int64(0))

	_, err = os.Stat(filepath.Join(dir, "trend_talladega_toyotagr86.png"))
	assert.True(t, os.IsNotExist(err))
}
