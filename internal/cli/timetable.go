package cli

import (
	"fmt"
	"io"

	"cloud.google.com/go/civil"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/adhan/internal/display"
	"github.com/smokyabdulrahman/adhan/internal/export"
	"github.com/smokyabdulrahman/adhan/internal/prayer"
	"github.com/smokyabdulrahman/adhan/internal/server"
)

func (a *app) newTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's prayer times",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runToday(cmd)
		},
	}
}

func (a *app) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the month as a table",
		Long:  "Display every day of the month in a compact table, highlighting today.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(cmd)
		},
	}
}

func (a *app) newExportCmd() *cobra.Command {
	var generateCSS bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the month to an HTML timetable",
		Long:  "Write current_month.html and current_month.css to the documents directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExport(cmd, generateCSS)
		},
	}
	cmd.Flags().BoolVar(&generateCSS, "generate-css", false, "Write the finished stylesheet instead of the editable template")
	return cmd
}

// runCards prints every day of the month as a card.
func (a *app) runCards(cmd *cobra.Command) error {
	m, err := a.prayerTimes(cmd)
	if err != nil && m.Len() == 0 {
		return err
	}

	out := cmd.OutOrStdout()
	if a.jsonOut {
		if jerr := writeJSON(out, server.NewMonthView(m, a.cfg.TimeLayout())); jerr != nil {
			return jerr
		}
		return err
	}
	for day := range m.All() {
		fmt.Fprint(out, display.DayCard(day))
	}
	return err
}

func (a *app) runToday(cmd *cobra.Command) error {
	m, err := a.prayerTimes(cmd)
	if err != nil && m.Len() == 0 {
		return err
	}

	now := civil.DateTimeOf(a.now())
	day, ok := m.Today(now)
	if !ok {
		a.logger.Warn().Stringer("date", now.Date).Msg("today is not in the fetched month")
		return err
	}

	out := cmd.OutOrStdout()
	if a.jsonOut {
		if jerr := writeJSON(out, server.NewDayView(day, a.cfg.TimeLayout())); jerr != nil {
			return jerr
		}
		return err
	}
	fmt.Fprint(out, display.DayCard(day))
	return err
}

func (a *app) runList(cmd *cobra.Command) error {
	m, err := a.prayerTimes(cmd)
	if err != nil && m.Len() == 0 {
		return err
	}

	out := cmd.OutOrStdout()
	if a.jsonOut {
		if jerr := writeJSON(out, server.NewMonthView(m, a.cfg.TimeLayout())); jerr != nil {
			return jerr
		}
		return err
	}

	today := civil.DateOf(a.now())
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Bold(fmt.Sprintf("Prayer Times: %s, %s", a.cfg.City, a.cfg.Country)))
	fmt.Fprintf(out, "  %s\n\n", export.FormatHeader(civil.DateOf(a.header())))
	fmt.Fprint(out, display.MonthTable(m, today, a.cfg.TimeLayout()).Render())
	fmt.Fprintln(out)
	return err
}

func (a *app) runExport(cmd *cobra.Command, generateCSS bool) error {
	m, err := a.prayerTimes(cmd)
	if err != nil && m.Len() == 0 {
		return err
	}

	htmlPath, cssPath, werr := export.Write(a.store, m, civil.DateOf(a.header()), generateCSS)
	if werr != nil {
		return werr
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Timetable written to %s\n", htmlPath)
	fmt.Fprintf(out, "Stylesheet written to %s\n", cssPath)
	return err
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// upcoming finds the next prayer at now within m.
func upcoming(m prayer.Month, now civil.DateTime) (prayer.Upcoming, error) {
	u, ok := prayer.NextPrayer(m, now)
	if !ok {
		return prayer.Upcoming{}, fmt.Errorf("no upcoming prayer in the timetable for %s", now.Date)
	}
	return u, nil
}
