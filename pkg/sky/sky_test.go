package sky

import (
	"math"
	"testing"
	"time"

	"github.com/matzehuels/skygrid/pkg/errors"
)

var testInstant = time.Date(2024, 3, 20, 6, 0, 0, 0, time.UTC)

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func newTestObserver(t *testing.T, opts ...ObserverOption) *Observer {
	t.Helper()
	o, err := NewObserver(DRAO, testInstant, opts...)
	if err != nil {
		t.Fatalf("NewObserver: %v", err)
	}
	return o
}

func TestSiteValidate(t *testing.T) {
	tests := []struct {
		name    string
		site    Site
		wantErr bool
	}{
		{"drao", DRAO, false},
		{"unnamed", Site{Latitude: 10, Longitude: 20}, false},
		{"east of greenwich as 0-360", Site{Latitude: 10, Longitude: 240}, false},
		{"latitude too high", Site{Latitude: 91}, true},
		{"latitude nan", Site{Latitude: math.NaN()}, true},
		{"longitude out of range", Site{Longitude: 400}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.site.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSiteString(t *testing.T) {
	if got := DRAO.String(); got != "DRAO" {
		t.Errorf("String() = %q, want DRAO", got)
	}
	if got := (Site{Latitude: 1.5, Longitude: -2.25}).String(); got != "1.5000,-2.2500" {
		t.Errorf("String() = %q", got)
	}
}

func TestNewObserverErrors(t *testing.T) {
	if _, err := NewObserver(DRAO, time.Time{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("zero instant: got %v, want INVALID_INPUT", err)
	}
	if _, err := NewObserver(Site{Latitude: 100}, testInstant); !errors.Is(err, errors.ErrCodeInvalidSite) {
		t.Errorf("bad site: got %v, want INVALID_SITE", err)
	}
}

func TestTransformMeridian(t *testing.T) {
	o := newTestObserver(t)
	lat := DRAO.Latitude

	tests := []struct {
		name   string
		ha     float64
		dec    float64
		wantAz float64 // NaN skips the azimuth check
		wantEl float64
	}{
		{"zenith", 0, lat, math.NaN(), 90},
		{"celestial equator due south", 0, 0, 180, 90 - lat},
		{"below pole due north", 180, 60, 0, lat - 30},
		{"west horizon", 90, 0, 270, 0},
		{"east horizon", -90, 0, 90, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			az, el, err := o.Transform(tt.ha, tt.dec)
			if err != nil {
				t.Fatalf("Transform: %v", err)
			}
			if !near(el, tt.wantEl, 1e-4) {
				t.Errorf("el = %v, want %v", el, tt.wantEl)
			}
			if !math.IsNaN(tt.wantAz) {
				d := math.Abs(az - tt.wantAz)
				if d > 180 {
					d = 360 - d
				}
				if d > 1e-6 {
					t.Errorf("az = %v, want %v", az, tt.wantAz)
				}
			}
		})
	}
}

func TestTransformAzimuthRange(t *testing.T) {
	o := newTestObserver(t)
	for ha := -180.0; ha <= 180; ha += 7.5 {
		for dec := -40.0; dec <= 88; dec += 8 {
			az, _, err := o.Transform(ha, dec)
			if err != nil {
				t.Fatalf("Transform(%v, %v): %v", ha, dec, err)
			}
			if az < 0 || az >= 360 {
				t.Fatalf("Transform(%v, %v) az = %v, want [0, 360)", ha, dec, az)
			}
		}
	}
}

func TestTransformIndependentOfInstant(t *testing.T) {
	a := newTestObserver(t)
	b, err := NewObserver(DRAO, testInstant.Add(9*time.Hour+17*time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range [][2]float64{{-120, 10}, {0, 30}, {45, -20}, {170, 70}} {
		az1, el1, _ := a.Transform(p[0], p[1])
		az2, el2, _ := b.Transform(p[0], p[1])
		if !near(az1, az2, 1e-6) || !near(el1, el2, 1e-6) {
			t.Errorf("Transform(%v) differs across instants: (%v,%v) vs (%v,%v)", p, az1, el1, az2, el2)
		}
	}
}

func TestPoleElevation(t *testing.T) {
	o := newTestObserver(t)
	el, err := o.PoleElevation()
	if err != nil {
		t.Fatal(err)
	}
	if !near(el, DRAO.Latitude, 1e-6) {
		t.Errorf("PoleElevation() = %v, want %v", el, DRAO.Latitude)
	}
}

func TestTransformRefraction(t *testing.T) {
	geo := newTestObserver(t)
	ref := newTestObserver(t, WithRefraction())

	_, elGeo, _ := geo.Transform(80, 0)
	_, elRef, _ := ref.Transform(80, 0)
	if elRef <= elGeo {
		t.Errorf("refracted el %v should exceed geometric el %v", elRef, elGeo)
	}
	if elRef-elGeo > 1 {
		t.Errorf("refraction lift %v degrees is implausibly large", elRef-elGeo)
	}
}

func TestTransformInvalid(t *testing.T) {
	o := newTestObserver(t)
	for _, p := range [][2]float64{{math.NaN(), 0}, {0, math.NaN()}, {0, 91}, {0, -90.5}} {
		if _, _, err := o.Transform(p[0], p[1]); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Transform(%v) error = %v, want INVALID_INPUT", p, err)
		}
	}
}

func TestLocalSiderealTime(t *testing.T) {
	a := newTestObserver(t)
	b, err := NewObserver(DRAO, testInstant.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}

	lstA, lstB := a.LocalSiderealTime().Sec(), b.LocalSiderealTime().Sec()
	for _, s := range []float64{lstA, lstB} {
		if s < 0 || s >= 86400 {
			t.Errorf("LocalSiderealTime() = %vs, want within one day", s)
		}
	}

	// One solar hour is about 3609.86 sidereal seconds.
	d := math.Mod(lstB-lstA+86400, 86400)
	if !near(d, 3609.856, 0.05) {
		t.Errorf("sidereal advance over one hour = %vs, want about 3609.856s", d)
	}
}
