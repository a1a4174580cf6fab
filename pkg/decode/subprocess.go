package decode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/mpapenbr/ibt-analyzer-go/log"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
)

const (
	defaultDecoderCmd  = "node"
	defaultTimeout     = 5 * time.Minute
	defaultMaxSamples  = 50000
	defaultSampleRate  = 60.0
	versionProbeBudget = 10 * time.Second

	mpsToKmh = 3.6
	gravity  = 9.81
)

// iRacing channel names as emitted by the decoder tool
const (
	chanSessionTime = "SessionTime"
	chanSpeed       = "Speed"
	chanLatAccel    = "LatAccel"
	chanLongAccel   = "LongAccel"
	chanBrake       = "Brake"
	chanThrottle    = "Throttle"
	chanSteering    = "SteeringWheelAngle"
	chanLap         = "Lap"
	chanLapDist     = "LapDist"
)

// paths into the decoder tool's JSON output
var (
	fileNamePath     = jp.MustParseString("$.fileName")
	telemetryIDPath  = jp.MustParseString("$.telemetryId")
	parametersPath   = jp.MustParseString("$.parameters[*]")
	samplesPath      = jp.MustParseString("$.samples[*]")
	totalSamplesPath = jp.MustParseString("$.summary.totalSamples")
	durationPath     = jp.MustParseString("$.summary.duration")
	lapTimesPath     = jp.MustParseString("$.summary.laps[*].lapTime")
)

// SubprocessStrategy performs the exact structured decode by invoking
// an external decoder tool which writes the parsed telemetry as JSON
// to stdout. The call is bounded by a timeout; sample retention is
// capped to keep memory use bounded on pathological files.
type SubprocessStrategy struct {
	cmd        string
	script     string
	timeout    time.Duration
	maxSamples int
	minVersion string
	l          *log.Logger
}

type SubprocessOption func(*SubprocessStrategy)

// WithCommand sets the decoder command and an optional script argument
// placed before the file path.
func WithCommand(cmd, script string) SubprocessOption {
	return func(s *SubprocessStrategy) {
		s.cmd = cmd
		s.script = script
	}
}

func WithTimeout(arg time.Duration) SubprocessOption {
	return func(s *SubprocessStrategy) {
		s.timeout = arg
	}
}

func WithMaxSamples(arg int) SubprocessOption {
	return func(s *SubprocessStrategy) {
		s.maxSamples = arg
	}
}

// WithMinVersion enables the version gate on the decoder command.
func WithMinVersion(arg string) SubprocessOption {
	return func(s *SubprocessStrategy) {
		s.minVersion = arg
	}
}

func WithSubprocessLogger(arg *log.Logger) SubprocessOption {
	return func(s *SubprocessStrategy) {
		s.l = arg
	}
}

func NewSubprocessStrategy(opts ...SubprocessOption) *SubprocessStrategy {
	ret := &SubprocessStrategy{
		cmd:        defaultDecoderCmd,
		timeout:    defaultTimeout,
		maxSamples: defaultMaxSamples,
		l:          log.Default().Named("decode.subprocess"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (s *SubprocessStrategy) Source() model.DecodeSource {
	return model.SourceExactDecode
}

func (s *SubprocessStrategy) Decode(ctx context.Context, path string) (*model.Telemetry, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat recording: %w", err)
	}
	if fi.Size() == 0 {
		return nil, fmt.Errorf("recording %s is empty", path)
	}
	if err := s.checkToolVersion(ctx); err != nil {
		return nil, err
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	args := make([]string, 0, 2)
	if s.script != "" {
		args = append(args, s.script)
	}
	args = append(args, path)

	var stdout, stderr bytes.Buffer
	//nolint:gosec // command and script are operator configuration
	cmd := exec.CommandContext(cctx, s.cmd, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	if errors.Is(cctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w after %s", ErrSubprocessTimeout, s.timeout)
	}
	if runErr != nil {
		return nil, fmt.Errorf("decoder exited: %w (stderr: %s)",
			runErr, firstLine(stderr.String()))
	}
	s.l.Debug("decoder finished",
		log.String("file", path),
		log.Duration("took", time.Since(start)))

	tel, err := s.parseOutput(stdout.Bytes(), fi.Size())
	if err != nil {
		return nil, err
	}
	if tel.FileName == "" {
		tel.FileName = filepath.Base(path)
	}
	return tel, nil
}

func (s *SubprocessStrategy) checkToolVersion(ctx context.Context) error {
	if s.minVersion == "" {
		return nil
	}
	cctx, cancel := context.WithTimeout(ctx, versionProbeBudget)
	defer cancel()
	//nolint:gosec // command is operator configuration
	out, err := exec.CommandContext(cctx, s.cmd, "--version").Output()
	if err != nil {
		// tool may not support the probe, let the decode attempt decide
		s.l.Warn("could not probe decoder version", log.ErrorField(err))
		return nil
	}
	version := firstLine(string(out))
	if fields := strings.Fields(version); len(fields) > 0 {
		version = fields[len(fields)-1]
	}
	if !CheckDecoderVersion(version, s.minVersion) {
		return fmt.Errorf("decoder version %s below required %s", version, s.minVersion)
	}
	return nil
}

//nolint:cyclop // mostly field mapping
func (s *SubprocessStrategy) parseOutput(data []byte, fileSize int64) (*model.Telemetry, error) {
	obj, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("decoder output is not valid JSON: %w", err)
	}
	ret := &model.Telemetry{FileSizeBytes: fileSize, Sim: "iRacing"}
	ret.FileName, _ = jpString(fileNamePath, obj)
	ret.TelemetryID, _ = jpString(telemetryIDPath, obj)
	if v, ok := jpFloat(totalSamplesPath, obj); ok {
		ret.TotalSamples = int(v)
	}
	if v, ok := jpFloat(durationPath, obj); ok {
		ret.Duration = v
	}
	for _, raw := range lapTimesPath.Get(obj) {
		if f, ok := toFloat(raw); ok && f > 0 {
			ret.LapTimes = append(ret.LapTimes, f)
		}
	}

	params := make([]string, 0, 16)
	for _, raw := range parametersPath.Get(obj) {
		if p, ok := raw.(string); ok {
			params = append(params, p)
		}
	}
	ext := newChannelExtractor(params)
	if ext.has(chanSessionTime) {
		for i, raw := range samplesPath.Get(obj) {
			if i >= s.maxSamples {
				break
			}
			m, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			ret.Samples = append(ret.Samples, model.Sample{
				SessionTime:   ext.float(m, chanSessionTime),
				Speed:         ext.float(m, chanSpeed) * mpsToKmh,
				LatAccel:      ext.float(m, chanLatAccel) / gravity,
				LongAccel:     ext.float(m, chanLongAccel) / gravity,
				BrakePct:      ext.float(m, chanBrake) * 100,
				ThrottlePct:   ext.float(m, chanThrottle) * 100,
				SteeringAngle: ext.float(m, chanSteering),
				Lap:           ext.int(m, chanLap),
				LapDist:       ext.float(m, chanLapDist),
			})
		}
	}
	if ret.TotalSamples > 0 && ret.Duration > 0 {
		ret.SampleRate = float64(ret.TotalSamples) / ret.Duration
	} else {
		ret.SampleRate = defaultSampleRate
	}
	return ret, nil
}

// channelExtractor resolves telemetry channels by name from the
// decoder's per-sample JSON objects.
type channelExtractor struct {
	available map[string]struct{}
}

func newChannelExtractor(parameters []string) *channelExtractor {
	avail := make(map[string]struct{}, len(parameters))
	for _, p := range parameters {
		avail[p] = struct{}{}
	}
	return &channelExtractor{available: avail}
}

func (e *channelExtractor) has(key string) bool {
	_, ok := e.available[key]
	return ok
}

func (e *channelExtractor) float(sample map[string]any, key string) float64 {
	if v, ok := sample[key]; ok {
		if f, valid := toFloat(v); valid {
			return f
		}
	}
	return 0
}

func (e *channelExtractor) int(sample map[string]any, key string) int {
	return int(e.float(sample, key))
}

func toFloat(arg any) (float64, bool) {
	switch v := arg.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func jpString(expr jp.Expr, obj any) (string, bool) {
	res := expr.Get(obj)
	if len(res) == 0 {
		return "", false
	}
	s, ok := res[0].(string)
	return s, ok
}

func jpFloat(expr jp.Expr, obj any) (float64, bool) {
	res := expr.Get(obj)
	if len(res) == 0 {
		return 0, false
	}
	return toFloat(res[0])
}

func firstLine(arg string) string {
	if idx := strings.IndexByte(arg, '\n'); idx >= 0 {
		return strings.TrimSpace(arg[:idx])
	}
	return strings.TrimSpace(arg)
}
