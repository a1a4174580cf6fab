package decode

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:unparam // size varies by test case
func writeFakeIBT(t *testing.T, name string, size int, withMarker bool) string {
	t.Helper()
	buf := make([]byte, size)
	if size >= 8 {
		binary.LittleEndian.PutUint32(buf[0:4], 2)   // header version
		binary.LittleEndian.PutUint32(buf[4:8], 144) // header length
	}
	if withMarker && size > 200 {
		copy(buf[100:], []byte("iRacing Telemetry Recording"))
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf, 0o600))
	return path
}

func TestHeuristicStrategy_Decode(t *testing.T) {
	path := writeFakeIBT(t,
		"porsche992cup_roadatlanta full 2025-09-13 13-27-17.ibt", 3610000, true)
	s := NewHeuristicStrategy()

	tel, err := s.Decode(context.Background(), path)
	require.NoError(t, err)

	// (3610000 - 10000) / 400 = 9000 samples at 60 Hz = 150s
	assert.Equal(t, 9000, tel.TotalSamples)
	assert.InDelta(t, 150.0, tel.Duration, 0.001)
	assert.Equal(t, "iRacing", tel.Sim)
	assert.False(t, tel.HasSamples())
	// one full roadatlanta lap fits into 150s
	require.Equal(t, 1, len(tel.LapTimes))
	assert.InDelta(t, 88.5, tel.LapTimes[0], 1.0)
}

func TestHeuristicStrategy_NoMarkerSaneVersion(t *testing.T) {
	// no text marker, but the version field is in a plausible range
	path := writeFakeIBT(t, "toyotagr86_daytona full 2025-09-13 13-27-17.ibt", 50000, false)
	s := NewHeuristicStrategy()

	tel, err := s.Decode(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "", tel.Sim)
	assert.NotEmpty(t, tel.LapTimes)
}

func TestHeuristicStrategy_Rejections(t *testing.T) {
	s := NewHeuristicStrategy()
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		_, err := s.Decode(ctx, filepath.Join(t.TempDir(), "nope.ibt"))
		assert.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.ibt")
		require.NoError(t, os.WriteFile(path, []byte{}, 0o600))
		_, err := s.Decode(ctx, path)
		assert.Error(t, err)
	})

	t.Run("header too short", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tiny.ibt")
		require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o600))
		_, err := s.Decode(ctx, path)
		assert.Error(t, err)
	})

	t.Run("no signature", func(t *testing.T) {
		buf := make([]byte, 20000)
		for i := range buf {
			buf[i] = 0xff
		}
		path := filepath.Join(t.TempDir(), "noise.bin")
		require.NoError(t, os.WriteFile(path, buf, 0o600))
		_, err := s.Decode(ctx, path)
		assert.Error(t, err)
	})

	t.Run("too small for estimate", func(t *testing.T) {
		path := writeFakeIBT(t, "small.ibt", 5000, true)
		_, err := s.Decode(ctx, path)
		assert.Error(t, err)
	})
}
