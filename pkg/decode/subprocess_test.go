package decode

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:lll // test fixture
const decoderOutput = `{
  "fileName": "porsche992cup_roadatlanta full 2025-09-13 13-27-17.ibt",
  "telemetryId": "abc-123",
  "fileSize": 2400000,
  "parameters": ["SessionTime", "Speed", "Lap", "LatAccel", "LongAccel", "Brake", "Throttle", "SteeringWheelAngle", "LapDist"],
  "samples": [
    {"SessionTime": 10.0, "Speed": 50.0, "Lap": 0, "LatAccel": 9.81, "LongAccel": -4.905, "Brake": 0.5, "Throttle": 0.1, "SteeringWheelAngle": 0.2, "LapDist": 1200.5},
    {"SessionTime": 10.5, "Speed": 48.0, "Lap": 0, "LatAccel": 0, "LongAccel": 0, "Brake": 0, "Throttle": 1, "SteeringWheelAngle": 0, "LapDist": 1225.0}
  ],
  "summary": {
    "totalSamples": 5400,
    "duration": 90.0,
    "laps": [
      {"lapNumber": 0, "lapTime": 92.5},
      {"lapNumber": 1, "lapTime": 91.1},
      {"lapNumber": 2, "lapTime": -1.0}
    ]
  }
}`

func TestSubprocessStrategy_ParseOutput(t *testing.T) {
	s := NewSubprocessStrategy()
	tel, err := s.parseOutput([]byte(decoderOutput), 2400000)
	require.NoError(t, err)

	assert.Equal(t, "porsche992cup_roadatlanta full 2025-09-13 13-27-17.ibt", tel.FileName)
	assert.Equal(t, "abc-123", tel.TelemetryID)
	assert.Equal(t, int64(2400000), tel.FileSizeBytes)
	assert.Equal(t, 5400, tel.TotalSamples)
	assert.InDelta(t, 60.0, tel.SampleRate, 0.001)

	// negative lap time is dropped
	assert.Equal(t, []float64{92.5, 91.1}, tel.LapTimes)

	require.Equal(t, 2, len(tel.Samples))
	first := tel.Samples[0]
	assert.InDelta(t, 10.0, first.SessionTime, 1e-9)
	assert.InDelta(t, 180.0, first.Speed, 1e-9)    // 50 m/s
	assert.InDelta(t, 1.0, first.LatAccel, 1e-9)   // 9.81 m/s^2
	assert.InDelta(t, -0.5, first.LongAccel, 1e-9) // -4.905 m/s^2
	assert.InDelta(t, 50.0, first.BrakePct, 1e-9)
	assert.InDelta(t, 10.0, first.ThrottlePct, 1e-9)
	assert.Equal(t, 0, first.Lap)
}

func TestSubprocessStrategy_ParseOutputCapsSamples(t *testing.T) {
	s := NewSubprocessStrategy(WithMaxSamples(1))
	tel, err := s.parseOutput([]byte(decoderOutput), 2400000)
	require.NoError(t, err)
	assert.Equal(t, 1, len(tel.Samples))
}

func TestSubprocessStrategy_ParseOutputWithoutSessionTime(t *testing.T) {
	payload := `{
	  "fileName": "x_y.ibt",
	  "parameters": ["Speed"],
	  "samples": [{"Speed": 10}],
	  "summary": {"totalSamples": 1, "duration": 0, "laps": []}
	}`
	s := NewSubprocessStrategy()
	tel, err := s.parseOutput([]byte(payload), 100)
	require.NoError(t, err)
	// without a time base the samples are useless for segmentation
	assert.Equal(t, 0, len(tel.Samples))
	assert.InDelta(t, defaultSampleRate, tel.SampleRate, 0.001)
}

func TestSubprocessStrategy_ParseOutputRejectsGarbage(t *testing.T) {
	s := NewSubprocessStrategy()
	_, err := s.parseOutput([]byte("Error: cannot load module"), 100)
	assert.Error(t, err)
}

func TestSubprocessStrategy_MissingFile(t *testing.T) {
	s := NewSubprocessStrategy()
	_, err := s.Decode(context.Background(), filepath.Join(t.TempDir(), "nope.ibt"))
	assert.Error(t, err)
}

func TestCheckDecoderVersion(t *testing.T) {
	tests := []struct {
		name     string
		toCheck  string
		required string
		want     bool
	}{
		{name: "newer", toCheck: "v1.2.0", required: "v1.1.0", want: true},
		{name: "equal", toCheck: "1.1.0", required: "v1.1.0", want: true},
		{name: "older", toCheck: "v1.0.9", required: "v1.1.0", want: false},
		{name: "no prefix required", toCheck: "v20.4.1", required: "18.0.0", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckDecoderVersion(tt.toCheck, tt.required))
		})
	}
}
