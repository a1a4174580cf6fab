package model

// DecodeSource describes which decode strategy produced a telemetry bundle.
// Trust decreases from exact decode down to the filename estimate.
type DecodeSource string

const (
	SourceExactDecode      DecodeSource = "exact-decode"
	SourceBinaryHeuristic  DecodeSource = "binary-heuristic"
	SourceFilenameEstimate DecodeSource = "filename-only-estimate"
)

// Trust returns a comparable rank for the source (higher = more trustworthy).
func (s DecodeSource) Trust() int {
	switch s {
	case SourceExactDecode:
		return 3
	case SourceBinaryHeuristic:
		return 2
	case SourceFilenameEstimate:
		return 1
	default:
		return 0
	}
}

// Sample is one normalized telemetry tick.
// Speed is km/h, accelerations are in g, brake/throttle are percent.
type Sample struct {
	SessionTime   float64 `json:"sessionTime"`
	Speed         float64 `json:"speed"`
	LatAccel      float64 `json:"latAccel"`
	LongAccel     float64 `json:"longAccel"`
	BrakePct      float64 `json:"brakePct"`
	ThrottlePct   float64 `json:"throttlePct"`
	SteeringAngle float64 `json:"steeringAngle"`
	Lap           int     `json:"lap"`
	LapDist       float64 `json:"lapDist"`
}

// Telemetry is the normalized output of the decoder chain.
// Depending on the strategy it carries raw samples, pre-computed lap
// times or both. A bundle with neither counts as a failed decode.
type Telemetry struct {
	FileName      string       `json:"fileName"`
	TelemetryID   string       `json:"telemetryId,omitempty"`
	Source        DecodeSource `json:"source"`
	FileSizeBytes int64        `json:"fileSizeBytes"`
	SampleRate    float64      `json:"sampleRate"`
	TotalSamples  int          `json:"totalSamples"`
	Duration      float64      `json:"duration"`
	Samples       []Sample     `json:"samples,omitempty"`
	LapTimes      []float64    `json:"lapTimes,omitempty"`
	Sim           string       `json:"sim,omitempty"`
}

func (t *Telemetry) HasSamples() bool {
	return t != nil && len(t.Samples) > 0
}

func (t *Telemetry) Empty() bool {
	return t == nil || (len(t.Samples) == 0 && len(t.LapTimes) == 0)
}
