package model

// Overview summarizes the whole session collection.
type Overview struct {
	TotalSessions  int      `json:"totalSessions"`
	TotalLaps      int      `json:"totalLaps"`
	Tracks         []string `json:"tracks"`
	Cars           []string `json:"cars"`
	FastestOverall float64  `json:"fastestOverall"`
	FastestTrack   string   `json:"fastestTrack"`
	FastestCar     string   `json:"fastestCar"`
	AvgLapTime     float64  `json:"avgLapTime"`
	AvgConsistency float64  `json:"avgConsistency"`
}

// TrackSummary is the per-track rollup over all sessions on that track.
type TrackSummary struct {
	Track           string   `json:"track"`
	SessionCount    int      `json:"sessionCount"`
	BestLap         float64  `json:"bestLap"`
	AvgFastestLap   float64  `json:"avgFastestLap"`
	TotalLaps       int      `json:"totalLaps"`
	CarsUsed        []string `json:"carsUsed"`
	AvgConsistency  float64  `json:"avgConsistency"`
	ImprovementRate float64  `json:"improvementRate"` // slope, negative = improving
}

// CarSummary compares performance across cars.
type CarSummary struct {
	Car              string   `json:"car"`
	SessionCount     int      `json:"sessionCount"`
	TracksDriven     []string `json:"tracksDriven"`
	BestLap          float64  `json:"bestLap"`
	AvgFastestLap    float64  `json:"avgFastestLap"`
	AvgConsistency   float64  `json:"avgConsistency"`
	VersatilityScore int      `json:"versatilityScore"`
}

// ImprovementTrend tracks fastest-lap progression for a track/car pair.
type ImprovementTrend struct {
	Track            string    `json:"track"`
	Car              string    `json:"car"`
	SessionCount     int       `json:"sessionCount"`
	FastestLaps      []float64 `json:"fastestLaps"` // chronological
	MovingAverage    []float64 `json:"movingAverage"`
	Slope            float64   `json:"slope"` // per session, negative = improving
	Direction        string    `json:"direction"`
	ConsistencyTrend string    `json:"consistencyTrend"`
}

// BenchmarkTier holds the reference lap times for one car on one track.
type BenchmarkTier struct {
	Pro         float64 `json:"pro"         yaml:"pro"`
	Alien       float64 `json:"alien"       yaml:"alien"`
	FastAmateur float64 `json:"fastAmateur" yaml:"fastAmateur"`
}

// PerformanceLevel is the qualitative tier derived from benchmark gaps.
type PerformanceLevel string

const (
	LevelProfessional    PerformanceLevel = "Professional level"
	LevelAdvancedAmateur PerformanceLevel = "Advanced amateur"
	LevelIntermediate    PerformanceLevel = "Intermediate"
	LevelBeginner        PerformanceLevel = "Beginner/Learning"
)

// BenchmarkComparison relates a best lap to the reference tiers.
// HasReference is false when no reference exists for the track/car
// pair; the gaps and level are meaningless in that case.
type BenchmarkComparison struct {
	Track          string           `json:"track"`
	Car            string           `json:"car"`
	BestLap        float64          `json:"bestLap"`
	HasReference   bool             `json:"hasReference"`
	Reference      BenchmarkTier    `json:"reference"`
	GapToPro       float64          `json:"gapToPro"`
	GapToAlien     float64          `json:"gapToAlien"`
	GapToAmateur   float64          `json:"gapToAmateur"`
	Level          PerformanceLevel `json:"level"`
	Interpretation string           `json:"interpretation"`
}
