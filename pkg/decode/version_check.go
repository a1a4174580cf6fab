package decode

import (
	"strings"

	"golang.org/x/mod/semver"
)

// CheckDecoderVersion reports whether the decoder tool version
// satisfies the required minimum.
func CheckDecoderVersion(toCheck, required string) bool {
	if !strings.HasPrefix(toCheck, "v") {
		toCheck = "v" + toCheck
	}
	if !strings.HasPrefix(required, "v") {
		required = "v" + required
	}
	return semver.Compare(toCheck, required) >= 0
}
