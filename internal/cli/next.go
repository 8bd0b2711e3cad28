package cli

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/adhan/internal/prayer"
	"github.com/smokyabdulrahman/adhan/internal/server"
)

func (a *app) newNextCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next prayer with countdown",
		Long: "Display the next prayer that has not been performed and the time left until it.\n" +
			"The single-line output suits status bars such as tmux.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.prayerTimes(cmd)
			if err != nil && m.Len() == 0 {
				return err
			}

			now := civil.DateTimeOf(a.now())
			u, uerr := upcoming(m, now)
			if uerr != nil {
				return uerr
			}

			out := cmd.OutOrStdout()
			if a.jsonOut {
				if jerr := writeJSON(out, server.NewNextView(u, now, a.cfg.TimeLayout())); jerr != nil {
					return jerr
				}
				return err
			}
			fmt.Fprintln(out, prayer.FormatOutput(u, now, format, a.cfg.TimeLayout()))
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", prayer.FormatFull, "Display format: time-remaining, next-prayer-time, name-and-time, name-and-remaining, short-name-and-time, short-name-and-remaining, full, or a custom Go template (e.g. '{{.Name}} in {{.Remaining}}')")

	return cmd
}
