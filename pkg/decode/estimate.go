package decode

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mpapenbr/ibt-analyzer-go/log"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/decode/identity"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
)

// EstimateStrategy is the last resort: it reads nothing but the file
// size and the filename. The lap time sequence is synthetic and tagged
// with the lowest-trust provenance; downstream consumers must treat
// the numbers as illustrative.
type EstimateStrategy struct {
	l *log.Logger
}

func NewEstimateStrategy() *EstimateStrategy {
	return &EstimateStrategy{l: log.Default().Named("decode.estimate")}
}

func (s *EstimateStrategy) Source() model.DecodeSource {
	return model.SourceFilenameEstimate
}

func (s *EstimateStrategy) Decode(ctx context.Context, path string) (*model.Telemetry, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat recording: %w", err)
	}
	if fi.Size() == 0 {
		return nil, fmt.Errorf("recording %s is empty", path)
	}

	fileName := filepath.Base(path)
	id := identity.Extract(fileName)
	if id.Car == model.Unknown && id.Track == model.Unknown {
		return nil, fmt.Errorf("filename %s does not follow the car_track convention", fileName)
	}

	samples := (fi.Size() - estHeaderBytes) / estBytesPerSample
	if samples < 1 {
		samples = 1
	}
	duration := float64(samples) / estSampleRate
	lapTimes := synthesizeLapTimes(fileName, duration)
	if len(lapTimes) == 0 {
		return nil, fmt.Errorf("could not synthesize lap times for %s", fileName)
	}
	s.l.Debug("synthesized session",
		log.String("file", fileName),
		log.String("track", id.Track),
		log.Int("laps", len(lapTimes)))

	return &model.Telemetry{
		FileName:      fileName,
		FileSizeBytes: fi.Size(),
		SampleRate:    estSampleRate,
		TotalSamples:  int(samples),
		Duration:      duration,
		LapTimes:      lapTimes,
	}, nil
}
