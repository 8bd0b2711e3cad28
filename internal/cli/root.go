// Package cli builds the cobra command trees of the adhan and adhan-player
// binaries.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/adhan/internal/api"
	"github.com/smokyabdulrahman/adhan/internal/audio"
	"github.com/smokyabdulrahman/adhan/internal/cache"
	"github.com/smokyabdulrahman/adhan/internal/config"
	"github.com/smokyabdulrahman/adhan/internal/geo"
	"github.com/smokyabdulrahman/adhan/internal/prayer"
	"github.com/smokyabdulrahman/adhan/internal/settings"
)

// Options injects the collaborators that touch the outside world. Zero
// values select the real implementations.
type Options struct {
	Version string
	Clock   audio.Clock
	Fetcher cache.Fetcher
	Backend audio.Backend
	Detect  func(ctx context.Context) (geo.Location, error)
}

// app holds the parsed flags and the state prepared in PersistentPreRunE.
type app struct {
	opts Options

	configPath string
	month      int
	clearCache bool
	autoLocate bool
	skipAudio  bool
	jsonOut    bool
	logLevel   string

	cfg    config.Config
	logger zerolog.Logger
	store  *cache.Store
}

func newApp(opts Options) *app {
	if opts.Clock == nil {
		opts.Clock = audio.RealClock{}
	}
	if opts.Detect == nil {
		opts.Detect = geo.Detect
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	return &app{opts: opts, logger: zerolog.Nop()}
}

// NewRootCmd creates the adhan command.
func NewRootCmd(version string) *cobra.Command {
	return New(Options{Version: version})
}

// New creates the adhan command with the given collaborators.
func New(opts Options) *cobra.Command {
	a := newApp(opts)

	var today, export, generateCSS bool

	rootCmd := &cobra.Command{
		Use:               "adhan",
		Short:             "Monthly prayer timetable",
		Long:              "Fetches the monthly prayer timetable for a city, caches it, and prints or exports it.",
		Version:           a.opts.Version,
		PersistentPreRunE: a.prepare,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case today:
				return a.runToday(cmd)
			case export:
				return a.runExport(cmd, generateCSS)
			default:
				return a.runCards(cmd)
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	a.registerFlags(rootCmd.PersistentFlags())

	f := rootCmd.Flags()
	f.BoolVarP(&today, "today", "t", false, "Print only today's times")
	f.BoolVar(&export, "export", false, "Export the month to an HTML timetable")
	f.BoolVar(&generateCSS, "generate-css", false, "With --export, write the finished stylesheet instead of the editable template")

	rootCmd.AddCommand(a.newTodayCmd())
	rootCmd.AddCommand(a.newListCmd())
	rootCmd.AddCommand(a.newNextCmd())
	rootCmd.AddCommand(a.newExportCmd())
	rootCmd.AddCommand(a.newServeCmd())
	rootCmd.AddCommand(a.newConfigCmd())
	rootCmd.AddCommand(a.newMethodsCmd())
	rootCmd.AddCommand(a.newClearCacheCmd())

	return rootCmd
}

// registerFlags adds the flags shared by both binaries. Config-backed flags
// default to empty so that an unset flag never hides the config file.
func (a *app) registerFlags(pf *pflag.FlagSet) {
	pf.String("latitude-method", "", "Latitude method: one-seventh or angle-based")
	pf.String("prayer-method", "", "Prayer calculation method: mwl, uis or isna")
	pf.String("asr-method", "", "Asr method: shafi or hanafi")
	pf.String("country", "", "Country as it appears in the timetable URL, e.g. uk")
	pf.String("city", "", "City as it appears in the timetable URL, e.g. bath")
	pf.String("output-device", "", "Audio output device")
	pf.String("documents-dir", "", "Directory for the timetable, export and audio files")
	pf.String("cache-dir", "", "Directory for the settings fingerprint and geolocation cache")
	pf.String("time-format", "", "Time format: 12h or 24h")

	pf.IntVar(&a.month, "month", 0, "Fetch this month (1-12) of the current year instead of the current month")
	pf.BoolVar(&a.clearCache, "clear-cache", false, "Remove every cached file before running")
	pf.BoolVar(&a.autoLocate, "auto-locate", false, "Detect country and city from your IP address")
	pf.BoolVar(&a.skipAudio, "skip-audio", false, "Do not download the adhan recording")
	pf.BoolVar(&a.jsonOut, "json", false, "Output as JSON (where supported)")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error (default warn, or $ADHAN_LOG_LEVEL)")
	pf.StringVar(&a.configPath, "config", "", "Config file (default "+config.Path()+")")
}

// prepare configures logging and merges defaults, config file, environment
// and flags into a.cfg.
func (a *app) prepare(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	level := a.logLevel
	if level == "" {
		level = os.Getenv("ADHAN_LOG_LEVEL")
	}
	logger, err := newLogger(cmd.ErrOrStderr(), level)
	if err != nil {
		return err
	}
	a.logger = logger
	cmd.SetContext(a.logger.WithContext(commandContext(cmd)))

	if a.configPath == "" {
		a.configPath = config.Path()
	}
	cfg, err := config.LoadFrom(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}

	for _, key := range config.ValidKeys {
		f := lookupFlag(cmd, flagName(key))
		if f == nil || !f.Changed {
			continue
		}
		if err := cfg.Set(key, f.Value.String()); err != nil {
			return fmt.Errorf("--%s: %w", flagName(key), err)
		}
	}

	a.cfg = cfg.WithDefaults()
	a.store = cache.NewStore(a.cfg.DocumentsDir, a.cfg.CacheDir, a.logger)

	if a.autoLocate && !flagChanged(cmd, "country") && !flagChanged(cmd, "city") {
		if err := a.locate(cmd.Context()); err != nil {
			return err
		}
	}
	return nil
}

// locate replaces the configured location with the detected one, reusing
// a detection younger than a day.
func (a *app) locate(ctx context.Context) error {
	now := a.now()
	loc, ok := a.store.LoadGeo(now)
	if !ok {
		detected, err := a.opts.Detect(ctx)
		if err != nil {
			return fmt.Errorf("auto-locate failed: %w", err)
		}
		loc = detected
		if err := a.store.SaveGeo(loc, now); err != nil {
			a.logger.Warn().Err(err).Msg("could not cache detected location")
		}
	}
	a.logger.Info().Str("country", loc.Country).Str("city", loc.City).Msg("using detected location")
	a.cfg.Country = loc.Country
	a.cfg.City = loc.City
	return nil
}

func (a *app) now() time.Time { return a.opts.Clock.Now() }

func (a *app) clock() audio.Clock { return a.opts.Clock }

// settings builds the fingerprint for the effective config.
func (a *app) settings() (settings.Settings, error) {
	methods, err := a.cfg.Methods()
	if err != nil {
		return settings.Settings{}, err
	}
	return settings.New(methods, a.cfg.Location(), a.now()), nil
}

func (a *app) fetcher(progress io.Writer) cache.Fetcher {
	if a.opts.Fetcher != nil {
		return a.opts.Fetcher
	}
	client := api.NewClient()
	client.Progress = progress
	return client
}

func (a *app) manager(cmd *cobra.Command) *cache.Manager {
	m := cache.NewManager(a.store, a.fetcher(cmd.ErrOrStderr()))
	m.SkipAudio = a.skipAudio
	return m
}

// prayerTimes clears the cache when asked and returns the month. A non-empty
// month may come with an error when the fetch succeeded but caching it
// failed; callers print the month and then return the error.
func (a *app) prayerTimes(cmd *cobra.Command) (prayer.Month, error) {
	if a.clearCache {
		if err := a.store.Clear(); err != nil {
			return prayer.Month{}, err
		}
		a.logger.Info().Msg("cache cleared")
	}
	s, err := a.settings()
	if err != nil {
		return prayer.Month{}, err
	}
	return a.manager(cmd).PrayerTimes(cmd.Context(), s, a.month, a.now())
}

// header is the date naming the month being shown.
func (a *app) header() time.Time {
	now := a.now()
	if a.month != 0 {
		return time.Date(now.Year(), time.Month(a.month), 1, 0, 0, 0, 0, now.Location())
	}
	return now
}

// Execute runs cmd until it finishes or the process receives SIGINT or
// SIGTERM, which cancels the context every subcommand works under.
func Execute(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cmd.ExecuteContext(ctx)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// flagName maps a config key to its flag, e.g. prayer_method to prayer-method.
func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// lookupFlag finds a flag on either the local or the inherited flag set.
func lookupFlag(cmd *cobra.Command, name string) *pflag.Flag {
	if f := cmd.Flags().Lookup(name); f != nil {
		return f
	}
	return cmd.InheritedFlags().Lookup(name)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := lookupFlag(cmd, name)
	return f != nil && f.Changed
}
