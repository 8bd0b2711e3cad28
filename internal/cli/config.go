package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/adhan/internal/config"
	"github.com/smokyabdulrahman/adhan/internal/display"
	"github.com/smokyabdulrahman/adhan/internal/settings"
)

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or modify configuration",
		Long:  "Display current configuration, or use subcommands to modify it.\nWhen run without subcommands, shows the file's values and the effective values after environment and flags.",
		Args:  cobra.NoArgs,
		// Subcommands edit the raw file and must work while it is invalid.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.configPath == "" {
				a.configPath = config.Path()
			}
			return nil
		},
		RunE: a.runConfigShow,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: fmt.Sprintf("Set a configuration value. Valid keys: %s\n\nExamples:\n  adhan config set city london\n  adhan config set prayer_method isna\n  adhan config set asr_method hanafi\n  adhan config set time_format 12h",
			strings.Join(config.ValidKeys, ", ")),
		Args: cobra.ExactArgs(2),
		RunE: a.runConfigSet,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print a config value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFrom(a.configPath)
			if err != nil {
				return err
			}
			val, err := cfg.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), val)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset config to defaults",
		Long:  "Delete the config file and restore all settings to defaults.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ResetAt(a.configPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults.")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.configPath)
			return nil
		},
	})

	return cmd
}

// runConfigShow displays the stored and the effective configuration.
func (a *app) runConfigShow(cmd *cobra.Command, args []string) error {
	if err := a.prepare(cmd, args); err != nil {
		return err
	}
	stored, err := config.LoadFrom(a.configPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  Configuration (%s)\n\n", a.configPath)

	t := display.NewTable("Key", "File", "Effective")
	for _, key := range config.ValidKeys {
		val, _ := stored.Get(key)
		if val == "" {
			val = "(not set)"
		}
		effective, _ := a.cfg.Get(key)
		t.AddRow(key, val, effective)
	}
	fmt.Fprint(out, t.Render())
	return nil
}

// runConfigSet validates and stores one key.
func (a *app) runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := config.LoadFrom(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.SaveTo(a.configPath); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
	return nil
}

func (a *app) newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List all calculation methods",
		Long:  "Print the latitude, prayer and Asr methods the timetable site supports.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			groups := []struct {
				title, flag, current string
				entries              []settings.MethodEntry
			}{
				{"Latitude methods", "--latitude-method", a.cfg.LatitudeMethod, settings.LatitudeMethods()},
				{"Prayer methods", "--prayer-method", a.cfg.PrayerMethod, settings.PrayerMethods()},
				{"Asr methods", "--asr-method", a.cfg.AsrMethod, settings.AsrMethods()},
			}
			for _, g := range groups {
				fmt.Fprintf(out, "\n  %s (%s)\n\n", display.Bold(g.title), g.flag)
				t := display.NewTable("Code", "Name", "Description")
				for i, e := range g.entries {
					t.AddRow(fmt.Sprint(e.Code), e.Name, e.Description)
					if e.Name == g.current {
						t.Highlight(i)
					}
				}
				fmt.Fprint(out, t.Render())
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

func (a *app) newClearCacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-cache",
		Short: "Remove the cached timetable, settings and audio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s and %s\n", a.store.DocumentsDir(), a.store.CacheDir())
			return nil
		},
	}
}
