package sky

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/refraction"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/unit"

	"github.com/matzehuels/skygrid/pkg/errors"
)

// Observer transforms hour angle and declination to azimuth and elevation
// for one site at one instant. It holds no mutable state and is safe for
// concurrent use.
type Observer struct {
	site       Site
	instant    time.Time
	lat        unit.Angle
	lonWest    unit.Angle
	st         unit.Time // apparent sidereal time at Greenwich
	refraction bool
}

// ObserverOption configures an Observer.
type ObserverOption func(*Observer)

// WithRefraction adds standard atmospheric refraction to elevations.
func WithRefraction() ObserverOption {
	return func(o *Observer) { o.refraction = true }
}

// NewObserver prepares the transform for site at instant. The instant is
// used as given; the observer never reads the clock.
func NewObserver(site Site, instant time.Time, opts ...ObserverOption) (*Observer, error) {
	if err := site.Validate(); err != nil {
		return nil, err
	}
	if instant.IsZero() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "observation instant is required")
	}
	o := &Observer{
		site:    site,
		instant: instant.UTC(),
		lat:     unit.AngleFromDeg(site.Latitude),
		lonWest: unit.AngleFromDeg(-site.Longitude),
		st:      sidereal.Apparent(julian.TimeToJD(instant.UTC())),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Site returns the observing site.
func (o *Observer) Site() Site { return o.site }

// Instant returns the observation instant in UTC.
func (o *Observer) Instant() time.Time { return o.instant }

// Transform converts hour angle ha and declination dec (degrees) to
// azimuth, measured from north through east in [0, 360), and elevation
// (degrees). It has the signature of grid.Transform.
//
// At dec = ±90 azimuth is undefined and an arbitrary value is returned;
// elevation is still correct.
func (o *Observer) Transform(ha, dec float64) (az, el float64, err error) {
	if math.IsNaN(ha) || math.IsNaN(dec) {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "hour angle and declination must be numbers")
	}
	if dec < -90 || dec > 90 {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "declination %g out of range [-90, 90]", dec)
	}

	// Meeus works from right ascension and Greenwich sidereal time, with
	// H = θ0 - L - α for west-positive L. Pick the α that yields ha.
	ra := unit.RAFromRad(o.st.Rad() - o.lonWest.Rad() - unit.AngleFromDeg(ha).Rad())
	A, h := coord.EqToHz(ra, unit.AngleFromDeg(dec), o.lat, o.lonWest, o.st)

	if o.refraction {
		h += refraction.Saemundsson(h)
	}

	az = math.Mod(A.Deg()+180, 360)
	if az < 0 {
		az += 360
	}
	return az, h.Deg(), nil
}

// PoleElevation returns the elevation of the north celestial pole, which
// for a geometric transform equals the site latitude.
func (o *Observer) PoleElevation() (float64, error) {
	_, el, err := o.Transform(0, 90)
	return el, err
}

// LocalSiderealTime returns the apparent local sidereal time, wrapped to
// one day.
func (o *Observer) LocalSiderealTime() unit.Time {
	return unit.TimeFromRad(o.st.Rad() - o.lonWest.Rad()).Mod1()
}
