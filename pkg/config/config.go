package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	LogLevel          string  // sets the log level (zap log level values)
	LogFormat         string  // text vs json
	LogConfig         string  // path to a zapfilter rules file
	DecoderCmd        string  // command invoked for the exact telemetry decode
	DecoderScript     string  // script argument passed to the decoder command
	DecoderMinVersion string  // minimum required version of the decoder tool (empty: no check)
	DecodeTimeout     string  // duration budget for one decode subprocess call
	MaxSamples        int     // cap on retained telemetry samples per file
	CornerEntryG      float64 // lateral g threshold opening a corner segment
	CornerMinSpan     int     // minimum sample span of a corner segment
	BrakeEntryPct     float64 // brake pressure (percent) opening a braking zone
	BrakeMinSpan      int     // minimum sample span of a braking zone
	MinLapSamples     int     // minimum sample span of a valid lap
	BenchmarksFile    string  // path to a benchmark reference table (yaml)
	CacheTTL          string  // time-to-live for aggregated rollups
	WatchCooldown     string  // minimum delay between processing the same file again
	OutputFormat      string  // output format for reports (text, json)
)

// Config holds the configuration values which are used by the application
type Config struct {
	PrintSampleSummary bool // if true, a decoded sample summary is printed on debug level
}
