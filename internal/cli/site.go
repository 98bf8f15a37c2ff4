package cli

import (
	"fmt"
	"time"

	"github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"
	"github.com/spf13/cobra"

	"github.com/matzehuels/skygrid/pkg/sky"
)

// siteCommand creates the site command, which summarises the observing
// site without drawing anything.
func (c *CLI) siteCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "site",
		Short: "Show the observing site, sidereal time and pole elevation",
		Long: `Show the observing site, sidereal time and pole elevation.

Accepts the same site, time and config flags as render.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, _, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			var obsOpts []sky.ObserverOption
			if popts.Refraction {
				obsOpts = append(obsOpts, sky.WithRefraction())
			}
			obs, err := sky.NewObserver(popts.Site, popts.Time, obsOpts...)
			if err != nil {
				return err
			}
			return printSite(obs)
		},
	}

	opts.addSiteFlags(cmd.Flags())
	cmd.Flags().BoolVar(&opts.refraction, "refraction", false, "apply atmospheric refraction to elevations")

	return cmd
}

// siteSummary is the text shown by the site command, one key/value per row.
type siteSummary [][2]string

// summarizeSite formats the site and the derived quantities at the
// observer's instant.
func summarizeSite(obs *sky.Observer) (siteSummary, error) {
	site := obs.Site()
	ncp, err := obs.PoleElevation()
	if err != nil {
		return nil, err
	}

	name := site.Name
	if name == "" {
		name = "(unnamed)"
	}
	return siteSummary{
		{"Site", name},
		{"Latitude", fmtAngle(site.Latitude)},
		{"Longitude", fmtAngle(site.Longitude)},
		{"Height", fmt.Sprintf("%.1f m", site.Height)},
		{"Time (UTC)", obs.Instant().Format(time.RFC3339)},
		{"Sidereal time", fmt.Sprintf("%.1s", sexa.FmtTime(obs.LocalSiderealTime()))},
		{"NCP elevation", fmtAngle(ncp)},
	}, nil
}

func printSite(obs *sky.Observer) error {
	rows, err := summarizeSite(obs)
	if err != nil {
		return err
	}
	fmt.Println(StyleTitle.Render("Observing site"))
	for _, r := range rows {
		printKeyValue(r[0], r[1])
	}
	if obs.Site().Latitude < 0 {
		printWarning("The north celestial pole is below the horizon at this site")
	}
	return nil
}

// fmtAngle formats degrees as sexagesimal degrees, minutes and seconds
// with one decimal on the seconds.
func fmtAngle(deg float64) string {
	return fmt.Sprintf("%.1s", sexa.FmtAngle(unit.AngleFromDeg(deg)))
}
