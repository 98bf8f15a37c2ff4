package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/skygrid/pkg/errors"
	"github.com/matzehuels/skygrid/pkg/grid"
	"github.com/matzehuels/skygrid/pkg/pipeline"
	"github.com/matzehuels/skygrid/pkg/sky"
)

const fullConfig = `
[site]
name = "GALT"
latitude = 49.32102306
longitude = -119.61898028
height = 546.566

[chart]
time = "2024-03-20T04:00:00Z"
formats = ["png", "json"]
width = 800
height = 600
refraction = true
workers = 2

[grid.hour_angle]
values = { start = -120, stop = 120, step = 30 }

[grid.declination]
sweep = { start = -180, stop = 180, step = 0.5 }
gap_threshold = 2.5

[cache]
url = "redis://localhost:6379/0"
`

func TestParseFull(t *testing.T) {
	cfg, err := Parse([]byte(fullConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if !cfg.HasSite() {
		t.Error("HasSite() = false, want true")
	}
	want := time.Date(2024, 3, 20, 4, 0, 0, 0, time.UTC)
	if !cfg.Instant().Equal(want) {
		t.Errorf("Instant() = %v, want %v", cfg.Instant(), want)
	}
	if cfg.Cache.URL != "redis://localhost:6379/0" {
		t.Errorf("Cache.URL = %q", cfg.Cache.URL)
	}

	var opts pipeline.Options
	cfg.ApplyTo(&opts)

	site := sky.Site{Name: "GALT", Latitude: 49.32102306, Longitude: -119.61898028, Height: 546.566}
	if opts.Site != site {
		t.Errorf("Site = %+v, want %+v", opts.Site, site)
	}
	if len(opts.Formats) != 2 || opts.Formats[0] != "png" || opts.Formats[1] != "json" {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.Width != 800 || opts.Height != 600 || opts.Workers != 2 || !opts.Refraction {
		t.Errorf("chart settings not applied: %+v", opts)
	}

	ha := opts.HourAngle
	if ha == nil {
		t.Fatal("HourAngle not applied")
	}
	if ha.Values != (grid.Range{Start: -120, Stop: 120, Step: 30}) {
		t.Errorf("HourAngle.Values = %+v", ha.Values)
	}
	if ha.Sweep != grid.HourAngleFamily().Sweep {
		t.Errorf("HourAngle.Sweep = %+v, want default", ha.Sweep)
	}

	dec := opts.Declination
	if dec == nil {
		t.Fatal("Declination not applied")
	}
	if dec.GapThreshold != 2.5 || dec.Sweep.Step != 0.5 {
		t.Errorf("Declination = %+v", dec)
	}
	if dec.Values != grid.DeclinationFamily().Values {
		t.Errorf("Declination.Values = %+v, want default", dec.Values)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("applied options do not validate: %v", err)
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.HasSite() || !cfg.Instant().IsZero() {
		t.Error("empty config should define nothing")
	}

	opts := pipeline.Options{Width: 300, Formats: []string{"svg"}}
	cfg.ApplyTo(&opts)
	if opts.Width != 300 || opts.Formats[0] != "svg" || opts.HourAngle != nil {
		t.Errorf("empty config changed options: %+v", opts)
	}
}

func TestParseNow(t *testing.T) {
	cfg, err := Parse([]byte("[chart]\ntime = \"now\"\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !cfg.Instant().IsZero() {
		t.Errorf("Instant() = %v, want zero for now", cfg.Instant())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[site\n"},
		{"unknown key", "[chart]\ncolour = \"red\"\n"},
		{"unknown table", "[plot]\nx = 1\n"},
		{"missing longitude", "[site]\nlatitude = 10\n"},
		{"bad latitude", "[site]\nlatitude = 95\nlongitude = 0\n"},
		{"bad time", "[chart]\ntime = \"yesterday\"\n"},
		{"bad format", "[chart]\nformats = [\"gif\"]\n"},
		{"negative width", "[chart]\nwidth = -1\n"},
		{"bad range", "[grid.hour_angle]\nvalues = { start = 0, stop = 10, step = 0 }\n"},
		{"negative gap", "[grid.declination]\ngap_threshold = -1\n"},
		{"cache conflict", "[cache]\nurl = \"redis://x\"\ndisabled = true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("error %v is not INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skygrid.toml")
	if err := os.WriteFile(path, []byte(fullConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Site.Name != "GALT" {
		t.Errorf("Site.Name = %q", cfg.Site.Name)
	}

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("missing file: got %v", err)
	}
}
