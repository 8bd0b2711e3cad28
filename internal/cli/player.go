package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/adhan/internal/audio"
	"github.com/smokyabdulrahman/adhan/internal/display"
)

// NewPlayerCmd creates the adhan-player command.
func NewPlayerCmd(version string) *cobra.Command {
	return NewPlayer(Options{Version: version})
}

// NewPlayer creates the adhan-player command with the given collaborators.
func NewPlayer(opts Options) *cobra.Command {
	a := newApp(opts)

	cmd := &cobra.Command{
		Use:   "adhan-player",
		Short: "Play the adhan at each of today's prayers",
		Long: "Fetches or loads the month, then waits for each of today's remaining prayers,\n" +
			"plays the adhan and records the prayer as performed in the cached timetable.",
		Version:           a.opts.Version,
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.prepare,
		RunE:              a.runPlayer,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	a.registerFlags(cmd.PersistentFlags())

	return cmd
}

func (a *app) runPlayer(cmd *cobra.Command, args []string) error {
	a.skipAudio = false

	m, err := a.prayerTimes(cmd)
	if err != nil {
		return err
	}

	now := civil.DateTimeOf(a.now())
	day, ok := m.Today(now)
	if !ok {
		return fmt.Errorf("no prayer times for %s in the fetched month", now.Date)
	}
	if !a.store.HasAudio() {
		return fmt.Errorf("%w: adhan recording missing at %s", audio.ErrAudio, a.store.AudioPath())
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, display.DayCard(day))

	backend := a.opts.Backend
	if backend == nil {
		backend = audio.NewOtoBackend(a.cfg.OutputDevice, a.logger)
	}

	scheduler := &audio.Scheduler{
		Player:    audio.NewPlayer(backend, out),
		Updater:   a.manager(cmd),
		Clock:     a.clock(),
		AudioPath: a.store.AudioPath(),
		Out:       out,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := scheduler.Run(ctx, day); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return nil
}
