// Package chart assembles hour-angle and declination grid lines into a
// renderer-neutral figure.
//
// # Overview
//
// [Assemble] builds both grid families through [grid.Build], turns every
// segment into a [Trace], attaches one label [Annotation] per segment via
// [grid.PlaceLabel], and adds the fixed compass, zenith and pole labels. The
// result is a [Figure]: plain data with no rendering behaviour.
//
// A figure is drawn by handing it to a [Sink]:
//
//	obs, _ := sky.NewObserver(sky.DRAO, time.Now())
//	fig, err := chart.Assemble(ctx, obs.Transform, chart.WithWorkers(4))
//	if err != nil {
//	    return err
//	}
//	p := sink.NewPlot()
//	if err := fig.Draw(p); err != nil {
//	    return err
//	}
//
// # Legend
//
// Each series contributes exactly one legend entry. The first trace of a
// series claims it; every later trace of the same series is drawn without a
// legend entry. The decision is folded over the traces after all lines have
// been built, so it does not depend on how many workers sampled them.
//
// # Label placement
//
// Hour-angle labels sit where their segment is closest to 5° elevation and
// are drawn at exactly 5°, giving a row of labels along the horizon.
// Declination labels sit where their segment is closest to due south.
package chart
