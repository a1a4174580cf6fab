// Package identity derives the session identity (car, track, date, time,
// session type) from recording filename conventions. Parsing is best
// effort: fields which cannot be resolved default to Unknown, the
// functions never fail.
package identity

import (
	"path/filepath"
	"strings"

	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
)

// session type keywords as they appear in recording filenames
var sessionTypes = []string{"practice", "qualifying", "race", "test", "warmup"}

// Extract parses a recording filename of the convention
// "<car>_<track> <descriptor...> <YYYY-MM-DD> <HH-MM-SS>.ibt".
func Extract(fileName string) model.SessionIdentity {
	ret := model.SessionIdentity{
		Car:         model.Unknown,
		Track:       model.Unknown,
		Date:        model.Unknown,
		Time:        model.Unknown,
		SessionType: model.Unknown,
	}
	name := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	if name == "" {
		return ret
	}
	parts := strings.Split(name, " ")

	if car, track, found := strings.Cut(parts[0], "_"); found {
		if car != "" {
			ret.Car = car
		}
		if track != "" {
			ret.Track = track
		}
	}

	if len(parts) >= 3 {
		date := parts[len(parts)-2]
		clock := parts[len(parts)-1]
		if isDate(date) && isClock(clock) {
			ret.Date = date
			ret.Time = strings.ReplaceAll(clock, "-", ":")
		}
	}

	for _, part := range parts {
		lower := strings.ToLower(part)
		for _, st := range sessionTypes {
			if lower == st {
				ret.SessionType = st
				break
			}
		}
		if ret.SessionType != model.Unknown {
			break
		}
	}
	return ret
}

// FromBundle resolves the identity for a decoded bundle, preferring the
// file name recorded during decode over the path argument.
func FromBundle(tel *model.Telemetry, path string) model.SessionIdentity {
	name := filepath.Base(path)
	if tel != nil && tel.FileName != "" {
		name = tel.FileName
	}
	return Extract(name)
}

// isDate matches YYYY-MM-DD (10 chars, three numeric groups).
func isDate(arg string) bool {
	if len(arg) != 10 {
		return false
	}
	groups := strings.Split(arg, "-")
	if len(groups) != 3 {
		return false
	}
	return allDigits(groups)
}

// isClock matches HH-MM-SS and similar hyphen-separated numeric groups.
func isClock(arg string) bool {
	groups := strings.Split(arg, "-")
	if len(groups) < 2 {
		return false
	}
	return allDigits(groups)
}

func allDigits(groups []string) bool {
	for _, g := range groups {
		if g == "" {
			return false
		}
		for _, c := range g {
			if c < '0' || c > '9' {
				return false
			}
		}
	}
	return true
}
