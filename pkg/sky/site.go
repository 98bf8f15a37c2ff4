// Package sky provides observing sites and the hour-angle/declination to
// azimuth/elevation transform used to draw pointing charts.
//
// All spherical astronomy is delegated to github.com/soniakeys/meeus: the
// package only converts between the chart's conventions (east-positive
// longitude, azimuth measured from north) and Meeus' conventions
// (west-positive longitude, azimuth measured westward from south).
package sky

import (
	"fmt"

	"github.com/matzehuels/skygrid/pkg/errors"
)

// Site is a fixed observing location.
type Site struct {
	Name      string  `json:"name,omitempty" toml:"name"`
	Latitude  float64 `json:"latitude" toml:"latitude"`   // degrees, north positive
	Longitude float64 `json:"longitude" toml:"longitude"` // degrees, east positive
	Height    float64 `json:"height" toml:"height"`       // metres above the ellipsoid
}

// DRAO is the Dominion Radio Astrophysical Observatory, home of the GALT
// telescope. It is the default site.
var DRAO = Site{
	Name:      "DRAO",
	Latitude:  49.32102306,
	Longitude: -119.61898028,
	Height:    546.566,
}

// Validate checks the site coordinates and name.
func (s Site) Validate() error {
	if err := errors.ValidateLatitude(s.Latitude); err != nil {
		return err
	}
	if err := errors.ValidateLongitude(s.Longitude); err != nil {
		return err
	}
	return errors.ValidateSiteName(s.Name)
}

// String returns the site name, or its coordinates when unnamed.
func (s Site) String() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("%.4f,%.4f", s.Latitude, s.Longitude)
}
