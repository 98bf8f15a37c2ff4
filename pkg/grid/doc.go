// Package grid samples coordinate-grid lines through a transform and breaks
// them into drawable segments.
//
// # Overview
//
// A grid [Family] holds one coordinate fixed at a series of values and
// sweeps the other one. For every fixed value the package:
//
//  1. Samples a [RawLine] by calling the [Transform] once per sweep step
//     ([SampleLine]).
//  2. Cuts the line wherever the transformed X coordinate jumps forward by
//     more than the family's gap threshold ([SegmentLine]), which removes
//     the spurious stroke across the plot at the 360°→0° azimuth wrap.
//  3. Returns the resulting [Segment] values grouped per [Line] ([Build]).
//
// [PlaceLabel] then picks, within a segment, the sample closest to a target
// value on one axis, which is where a line label is anchored.
//
// # Coordinates
//
// Samples carry the two generating coordinates A and B (hour angle and
// declination, in degrees) and the transformed X and Y (azimuth and
// elevation). The package never does spherical astronomy itself; the
// transform is supplied by the caller:
//
//	obs, _ := sky.NewObserver(site, instant)
//	lines, err := grid.Build(ctx, grid.HourAngleFamily(), obs.Transform)
//
// # Gap Threshold
//
// [DefaultGapThreshold] (5°) is tuned to [DefaultSweepStep] (1°): adjacent
// samples on a real grid line never move that far in azimuth, while a wrap
// moves nearly 360°. Lines sampled close to a celestial pole can swing in
// azimuth legitimately and may be split where no wrap occurred.
package grid
