package decode

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mpapenbr/ibt-analyzer-go/log"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
)

const (
	headerProbeSize = 1024
	// empirical telemetry shape used when estimating from file size
	estHeaderBytes    = 10000
	estBytesPerSample = 400
	estSampleRate     = 60.0

	iracingMarker = "iRacing"
	// plausible range for the header version field
	maxHeaderVersion = 15
)

// HeuristicStrategy decodes what it can from the binary header: it
// verifies the file looks like an IBT recording, extracts text markers
// and estimates the telemetry shape from the file size. Lap times are
// synthesized from the per-track baseline over the estimated duration.
type HeuristicStrategy struct {
	l *log.Logger
}

func NewHeuristicStrategy() *HeuristicStrategy {
	return &HeuristicStrategy{l: log.Default().Named("decode.heuristic")}
}

func (s *HeuristicStrategy) Source() model.DecodeSource {
	return model.SourceBinaryHeuristic
}

func (s *HeuristicStrategy) Decode(ctx context.Context, path string) (*model.Telemetry, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat recording: %w", err)
	}
	if fi.Size() == 0 {
		return nil, fmt.Errorf("recording %s is empty", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()

	header := make([]byte, headerProbeSize)
	n, err := f.Read(header)
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header = header[:n]
	if n < 16 {
		return nil, fmt.Errorf("header too short (%d bytes)", n)
	}

	version := binary.LittleEndian.Uint32(header[0:4])
	headerLen := binary.LittleEndian.Uint32(header[4:8])
	text := strings.ToValidUTF8(string(header), "")
	sim := ""
	if strings.Contains(text, iracingMarker) {
		sim = iracingMarker
	}
	if sim == "" && (version == 0 || version > maxHeaderVersion) {
		return nil, fmt.Errorf("no IBT header signature (version field %d)", version)
	}
	s.l.Debug("header analyzed",
		log.String("file", path),
		log.Uint32("version", version),
		log.Uint32("headerLen", headerLen),
		log.String("sim", sim))

	samples := (fi.Size() - estHeaderBytes) / estBytesPerSample
	if samples <= 0 {
		return nil, fmt.Errorf("file too small for a telemetry estimate (%d bytes)", fi.Size())
	}
	duration := float64(samples) / estSampleRate

	fileName := filepath.Base(path)
	return &model.Telemetry{
		FileName:      fileName,
		FileSizeBytes: fi.Size(),
		SampleRate:    estSampleRate,
		TotalSamples:  int(samples),
		Duration:      duration,
		LapTimes:      synthesizeLapTimes(fileName, duration),
		Sim:           sim,
	}, nil
}
