//nolint:funlen // ok for tests
package aggregate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
)

func TestBenchmarks_Compare(t *testing.T) {
	b := NewBenchmarks()
	type test struct {
		name    string
		bestLap float64
		level   model.PerformanceLevel
		interp  string
	}
	tests := []test{
		{
			name:    "professional",
			bestLap: 85.5,
			level:   model.LevelProfessional,
			interp:  "Exceptional performance - within half second of professional level",
		},
		{
			name:    "advanced amateur",
			bestLap: 86.5,
			level:   model.LevelAdvancedAmateur,
			interp:  "Very strong performance - approaching professional level",
		},
		{
			name:    "advanced amateur with larger gap",
			bestLap: 88.0,
			level:   model.LevelAdvancedAmateur,
			interp:  "Good performance - solid amateur level with improvement potential",
		},
		{
			name:    "intermediate",
			bestLap: 89.0,
			level:   model.LevelIntermediate,
			interp:  "Development level - focus on fundamentals and consistency",
		},
		{
			name:    "beginner",
			bestLap: 92.0,
			level:   model.LevelBeginner,
			interp:  "Development level - focus on fundamentals and consistency",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := b.Compare("roadatlanta", "porsche992cup", tc.bestLap)
			assert.True(t, got.HasReference)
			assert.Equal(t, tc.level, got.Level)
			assert.Equal(t, tc.interp, got.Interpretation)
		})
	}
}

func TestBenchmarks_Compare_Gaps(t *testing.T) {
	got := NewBenchmarks().Compare("talladega", "toyotagr86", 43.0)

	assert.True(t, got.HasReference)
	assert.InDelta(t, 0.9, got.GapToPro, 1e-9)
	assert.InDelta(t, 1.5, got.GapToAlien, 1e-9)
	assert.InDelta(t, -0.8, got.GapToAmateur, 1e-9)
}

func TestBenchmarks_Compare_CaseInsensitive(t *testing.T) {
	got := NewBenchmarks().Compare("RoadAtlanta", "Porsche992Cup", 86.0)

	assert.True(t, got.HasReference)
}

func TestBenchmarks_Compare_Unavailable(t *testing.T) {
	b := NewBenchmarks()
	t.Run("unknown pair", func(t *testing.T) {
		got := b.Compare("sebring", "porsche992cup", 120.0)
		assert.False(t, got.HasReference)
		assert.Equal(t, "Benchmark comparison not available", got.Interpretation)
		assert.Equal(t, model.PerformanceLevel(""), got.Level)
	})
	t.Run("no best lap", func(t *testing.T) {
		got := b.Compare("roadatlanta", "porsche992cup", 0)
		assert.False(t, got.HasReference)
		assert.Equal(t, "Benchmark comparison not available", got.Interpretation)
	})
}

func TestLoadBenchmarks(t *testing.T) {
	content := `
sebring:
  porsche992cup:
    pro: 122.5
    alien: 121.0
    fastAmateur: 125.0
roadatlanta:
  porsche992cup:
    pro: 80.0
    alien: 79.0
    fastAmateur: 82.0
`
	fileName := filepath.Join(t.TempDir(), "benchmarks.yml")
	require.NoError(t, os.WriteFile(fileName, []byte(content), 0o600))

	b, err := LoadBenchmarks(fileName)
	require.NoError(t, err)

	t.Run("new entry", func(t *testing.T) {
		got := b.Compare("sebring", "porsche992cup", 123.0)
		assert.True(t, got.HasReference)
		assert.InDelta(t, 0.5, got.GapToPro, 1e-9)
	})
	t.Run("overrides builtin", func(t *testing.T) {
		got := b.Compare("roadatlanta", "porsche992cup", 86.0)
		require.True(t, got.HasReference)
		assert.InDelta(t, 6.0, got.GapToPro, 1e-9)
		assert.Equal(t, model.LevelBeginner, got.Level)
	})
	t.Run("keeps builtin", func(t *testing.T) {
		got := b.Compare("roadatlanta", "toyotagr86", 95.0)
		assert.True(t, got.HasReference)
	})
}

func TestLoadBenchmarks_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadBenchmarks(filepath.Join(t.TempDir(), "missing.yml"))
		assert.Error(t, err)
	})
	t.Run("malformed yaml", func(t *testing.T) {
		fileName := filepath.Join(t.TempDir(), "broken.yml")
		require.NoError(t, os.WriteFile(fileName, []byte("[not: a: map"), 0o600))
		_, err := LoadBenchmarks(fileName)
		assert.Error(t, err)
	})
}
