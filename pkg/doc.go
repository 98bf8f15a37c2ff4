// Package pkg provides the core libraries for skygrid pointing charts.
//
// # Overview
//
// Skygrid draws lines of constant hour angle and constant declination on an
// azimuth/elevation chart for one telescope site at one instant. The pkg
// directory is organized leaves first:
//
//  1. [segment] - Splitting sampled lines where azimuth wraps around north
//  2. [grid] - Sampling grid families, segmenting lines, placing labels
//  3. [sky] - Sites and the HA/Dec to Az/El transform
//  4. [chart] - Assembling segments and labels into a figure
//  5. [render/sink] - Drawing a figure to PNG, SVG, PDF or Plotly JSON
//  6. [pipeline] - Orchestration (assemble → render) with caching
//
// # Architecture
//
// The data flow through skygrid:
//
//	Site + instant
//	         ↓
//	    [sky] package (HA/Dec → Az/El transform)
//	         ↓
//	    [grid] package (sample, segment, label every line)
//	         ↓
//	    [chart] package (traces, annotations, layout)
//	         ↓
//	    [render/sink] package (PNG/SVG/PDF/JSON)
//
// # Quick Start
//
//	obs, _ := sky.NewObserver(sky.DRAO, time.Now())
//	fig, _ := chart.Assemble(ctx, obs.Transform)
//	plot := sink.NewPlot()
//	_ = fig.Draw(plot)
//	png, _ := plot.Encode(sink.FormatPNG, 1250, 900)
//
// # Supporting Packages
//
// [cache] - Figure and artifact caching (file, redis, null backends).
//
// [config] - TOML run configuration.
//
// [errors] - Error codes and input validators.
//
// [observability] - Hooks for pipeline and cache events.
//
// [buildinfo] - Version information injected at build time.
package pkg
