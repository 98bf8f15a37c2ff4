package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateLatitude checks that lat is a finite geodetic latitude in degrees.
func ValidateLatitude(lat float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) {
		return New(ErrCodeInvalidSite, "latitude must be finite")
	}
	if lat < -90 || lat > 90 {
		return New(ErrCodeInvalidSite, "latitude %g out of range [-90, 90]", lat)
	}
	return nil
}

// ValidateLongitude checks that lon is a finite east-positive longitude in
// degrees. Both -180 and 360 conventions are accepted.
func ValidateLongitude(lon float64) error {
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return New(ErrCodeInvalidSite, "longitude must be finite")
	}
	if lon < -180 || lon > 360 {
		return New(ErrCodeInvalidSite, "longitude %g out of range [-180, 360]", lon)
	}
	return nil
}

// ValidateSiteName rejects names that would break file names or log lines.
//
// An empty name is allowed; sites are identified by their coordinates.
func ValidateSiteName(name string) error {
	if len(name) > 128 {
		return New(ErrCodeInvalidSite, "site name too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSite, "site name contains control characters")
		}
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidSite, "site name cannot contain path separators")
	}
	return nil
}

// ValidateRange checks the bounds and step of a sampling range.
// A stop below start is legal and describes an empty sweep.
func ValidateRange(name string, start, stop, step float64) error {
	for _, v := range []float64{start, stop, step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidRange, "%s: bounds and step must be finite", name)
		}
	}
	if step <= 0 {
		return New(ErrCodeInvalidRange, "%s: step must be positive, got %g", name, step)
	}
	return nil
}

// ValidateOutputPath validates an output base path given on the command line.
func ValidateOutputPath(path string) error {
	if path == "" {
		return nil
	}
	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "output path too long (max %d characters)", maxPathLength)
	}
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output path contains invalid characters")
		}
	}
	return nil
}
