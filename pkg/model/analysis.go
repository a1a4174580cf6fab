package model

import (
	"time"
)

const Unknown = "Unknown"

// SessionIdentity describes the session as derived from filename and
// header conventions. Fields which could not be resolved hold Unknown.
type SessionIdentity struct {
	Car         string `json:"car"`
	Track       string `json:"track"`
	Date        string `json:"date"` // YYYY-MM-DD
	Time        string `json:"time"` // HH:MM:SS
	SessionType string `json:"sessionType"`
}

// Timestamp combines date and time into a time.Time if both were resolved.
func (s SessionIdentity) Timestamp() (time.Time, bool) {
	if s.Date == Unknown || s.Date == "" {
		return time.Time{}, false
	}
	layout := "2006-01-02 15:04:05"
	arg := s.Date + " " + s.Time
	if s.Time == Unknown || s.Time == "" {
		layout = "2006-01-02"
		arg = s.Date
	}
	ts, err := time.Parse(layout, arg)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

type Lap struct {
	Num      int     `json:"num"`
	StartIdx int     `json:"startIdx"`
	EndIdx   int     `json:"endIdx"`
	Time     float64 `json:"time"`
	Valid    bool    `json:"valid"`
}

// CornerClass buckets corners by entry speed. The boundaries are
// configuration, not derived from the data.
type CornerClass string

const (
	CornerHairpin  CornerClass = "hairpin"
	CornerSlow     CornerClass = "slow"
	CornerMedium   CornerClass = "medium"
	CornerFast     CornerClass = "fast"
	CornerVeryFast CornerClass = "very-fast"
)

type Corner struct {
	EntryIdx   int         `json:"entryIdx"`
	ApexIdx    int         `json:"apexIdx"`
	ExitIdx    int         `json:"exitIdx"`
	EntrySpeed float64     `json:"entrySpeed"`
	ApexSpeed  float64     `json:"apexSpeed"`
	ExitSpeed  float64     `json:"exitSpeed"`
	PeakLatG   float64     `json:"peakLatG"`
	Duration   int         `json:"duration"` // samples
	Class      CornerClass `json:"class"`
}

// BrakingIntensity buckets braking zones by peak deceleration.
type BrakingIntensity string

const (
	BrakingLight    BrakingIntensity = "light"
	BrakingModerate BrakingIntensity = "moderate"
	BrakingHeavy    BrakingIntensity = "heavy"
	BrakingMaximum  BrakingIntensity = "maximum"
)

type BrakingZone struct {
	EntryIdx       int              `json:"entryIdx"`
	ExitIdx        int              `json:"exitIdx"`
	EntrySpeed     float64          `json:"entrySpeed"`
	ExitSpeed      float64          `json:"exitSpeed"`
	SpeedReduction float64          `json:"speedReduction"`
	PeakPressure   float64          `json:"peakPressure"`
	AvgPressure    float64          `json:"avgPressure"`
	PeakDecelG     float64          `json:"peakDecelG"`
	Distance       float64          `json:"distance"` // meters, estimated
	Duration       int              `json:"duration"` // samples
	Intensity      BrakingIntensity `json:"intensity"`
}

type OutlierKind string

const (
	OutlierFast OutlierKind = "fast"
	OutlierSlow OutlierKind = "slow"
)

type OutlierLap struct {
	LapNum    int         `json:"lapNum"`
	Time      float64     `json:"time"`
	Deviation float64     `json:"deviation"` // vs median
	Kind      OutlierKind `json:"kind"`
}

type PaceTrend string

const (
	PaceImproving PaceTrend = "improving"
	PaceStable    PaceTrend = "stable"
	PaceDegrading PaceTrend = "degrading"
)

type LapStats struct {
	LapCount        int          `json:"lapCount"`
	Fastest         float64      `json:"fastest"`
	Slowest         float64      `json:"slowest"`
	Average         float64      `json:"average"`
	Median          float64      `json:"median"`
	StdDev          float64      `json:"stdDev"`
	Consistency     float64      `json:"consistency"` // 0..1
	PaceSlope       float64      `json:"paceSlope"`   // seconds per lap
	PaceTrend       PaceTrend    `json:"paceTrend"`
	Percentiles     Percentiles  `json:"percentiles"`
	TheoreticalBest float64      `json:"theoreticalBest"`
	Outliers        []OutlierLap `json:"outliers,omitempty"`
}

type Percentiles struct {
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
}

// RollingConsistency holds the windowed consistency series over a session.
type RollingConsistency struct {
	Window  int       `json:"window"`
	Values  []float64 `json:"values"`
	Average float64   `json:"average"`
	Best    float64   `json:"best"`
	Worst   float64   `json:"worst"`
	Trend   string    `json:"trend"`
}

type ImprovementClass string

const (
	ImprovementStrong    ImprovementClass = "strong-improvement"
	ImprovementModerate  ImprovementClass = "moderate-improvement"
	ImprovementStable    ImprovementClass = "stable"
	ImprovementDeclining ImprovementClass = "declining"
)

// SessionImprovement compares the first third of a session with the last.
type SessionImprovement struct {
	Gain  float64          `json:"gain"` // seconds, positive = faster at the end
	Class ImprovementClass `json:"class"`
}

type CornerClassStats struct {
	Count           int     `json:"count"`
	AvgEntrySpeed   float64 `json:"avgEntrySpeed"`
	AvgApexSpeed    float64 `json:"avgApexSpeed"`
	AvgExitSpeed    float64 `json:"avgExitSpeed"`
	AvgPeakLatG     float64 `json:"avgPeakLatG"`
	SpeedMaintained float64 `json:"speedMaintained"` // percent
}

type CornerStats struct {
	CornerCount     int                              `json:"cornerCount"`
	AvgEntrySpeed   float64                          `json:"avgEntrySpeed"`
	AvgApexSpeed    float64                          `json:"avgApexSpeed"`
	AvgExitSpeed    float64                          `json:"avgExitSpeed"`
	Efficiency      float64                          `json:"efficiency"`      // 0..100
	SpeedMaintained float64                          `json:"speedMaintained"` // percent
	ByClass         map[CornerClass]CornerClassStats `json:"byClass,omitempty"`
}

type BrakingStats struct {
	ZoneCount           int                      `json:"zoneCount"`
	AvgPeakDecel        float64                  `json:"avgPeakDecel"`
	AvgPeakPressure     float64                  `json:"avgPeakPressure"`
	AvgDistance         float64                  `json:"avgDistance"`
	Efficiency          float64                  `json:"efficiency"`  // 0..100
	Consistency         float64                  `json:"consistency"` // 0..100
	ByIntensity         map[BrakingIntensity]int `json:"byIntensity,omitempty"`
	TrailBrakingZones   int                      `json:"trailBrakingZones"`
	TrailBrakingAvgDist float64                  `json:"trailBrakingAvgDist"`
}

// GForceZone is a span of sustained lateral load above the peak threshold.
type GForceZone struct {
	StartIdx int     `json:"startIdx"`
	EndIdx   int     `json:"endIdx"`
	Duration int     `json:"duration"`
	MaxG     float64 `json:"maxG"`
	AvgG     float64 `json:"avgG"`
}

type GForceStats struct {
	PeakLat             float64      `json:"peakLat"`
	AvgLat              float64      `json:"avgLat"`
	PeakAccel           float64      `json:"peakAccel"`
	PeakDecel           float64      `json:"peakDecel"`
	PeakCombined        float64      `json:"peakCombined"`
	AvgCombined         float64      `json:"avgCombined"`
	EnvelopeUtilization float64      `json:"envelopeUtilization"` // percent of samples > 1g
	Consistency         float64      `json:"consistency"`         // 0..100
	SustainedHighLat    float64      `json:"sustainedHighLat"`    // percent of samples
	PeakZones           []GForceZone `json:"peakZones,omitempty"`
}

// SessionMetrics aggregates the derived metrics of one session. A nil
// group means its inputs were missing; Notes carries the reasons so
// consumers can render a "no data" state instead of failing.
type SessionMetrics struct {
	Laps        *LapStats           `json:"laps,omitempty"`
	Rolling     *RollingConsistency `json:"rolling,omitempty"`
	Improvement *SessionImprovement `json:"improvement,omitempty"`
	Corners     *CornerStats        `json:"corners,omitempty"`
	Braking     *BrakingStats       `json:"braking,omitempty"`
	GForce      *GForceStats        `json:"gForce,omitempty"`
	Notes       []string            `json:"notes,omitempty"`
}

// SessionResult is the immutable top-level outcome of processing one
// telemetry recording.
type SessionResult struct {
	ID            string          `json:"id"`
	SourceFile    string          `json:"sourceFile"`
	Fingerprint   string          `json:"fingerprint"`
	FileSizeBytes int64           `json:"fileSizeBytes"`
	ProcessedAt   time.Time       `json:"processedAt"`
	Identity      SessionIdentity `json:"identity"`
	Source        DecodeSource    `json:"source"`
	SampleRate    float64         `json:"sampleRate"`
	Laps          []Lap           `json:"laps,omitempty"`
	Corners       []Corner        `json:"corners,omitempty"`
	BrakingZones  []BrakingZone   `json:"brakingZones,omitempty"`
	Metrics       SessionMetrics  `json:"metrics"`
}

// ValidLapTimes returns the times of all valid laps in lap order.
func (r *SessionResult) ValidLapTimes() []float64 {
	ret := make([]float64, 0, len(r.Laps))
	for i := range r.Laps {
		if r.Laps[i].Valid {
			ret = append(ret, r.Laps[i].Time)
		}
	}
	return ret
}

// FastestLap returns the fastest valid lap time of the session.
func (r *SessionResult) FastestLap() (float64, bool) {
	best := 0.0
	found := false
	for i := range r.Laps {
		if !r.Laps[i].Valid {
			continue
		}
		if !found || r.Laps[i].Time < best {
			best = r.Laps[i].Time
			found = true
		}
	}
	return best, found
}
