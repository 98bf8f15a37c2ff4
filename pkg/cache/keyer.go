package cache

import (
	"time"
)

// Keyer generates cache keys.
type Keyer interface {
	// FigureKey identifies an assembled figure.
	FigureKey(opts FigureKeyOpts) string

	// ArtifactKey identifies a rendered output of the figure whose JSON
	// encoding hashes to figureHash.
	ArtifactKey(figureHash string, opts ArtifactKeyOpts) string
}

// FigureKeyOpts holds every input that changes an assembled figure.
type FigureKeyOpts struct {
	Latitude   float64   `json:"lat"`
	Longitude  float64   `json:"lon"`
	Height     float64   `json:"height"`
	Instant    time.Time `json:"instant"`
	Refraction bool      `json:"refraction"`
	Grid       string    `json:"grid"` // hash of the grid family definitions
}

// ArtifactKeyOpts holds every input that changes a rendered output.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// DefaultKeyer hashes options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FigureKey returns "figure:<sha256>".
func (DefaultKeyer) FigureKey(opts FigureKeyOpts) string {
	opts.Instant = opts.Instant.UTC()
	return hashKey("figure", opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(figureHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", figureHash, opts)
}
