package cli

import (
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/adhan/internal/server"
)

func (a *app) newServeCmd() *cobra.Command {
	var (
		addr    string
		origins []string
		rate    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the cached timetable over HTTP",
		Long: "Refresh the cached month once, then serve it read-only.\n\n" +
			"Endpoints: /healthz, /today, /next, /month, /days/{YYYY-MM-DD}, /timetable",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.prayerTimes(cmd); err != nil {
				a.logger.Warn().Err(err).Msg("could not refresh the timetable, serving what is cached")
			}

			srv := server.New(a.store.LoadMonth, a.logger)
			srv.SetTimeLayout(a.cfg.TimeLayout())
			srv.AllowedOrigins = origins
			srv.RequestsPerMinute = rate

			return srv.ListenAndServe(commandContext(cmd), addr)
		},
	}

	f := cmd.Flags()
	f.StringVar(&addr, "addr", ":8080", "Listen address")
	f.StringSliceVar(&origins, "cors-origin", nil, "Allowed CORS origin; repeatable (default any)")
	f.IntVar(&rate, "rate-limit", 100, "Requests per minute allowed from one client IP")

	return cmd
}
