package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bracefmt/internal/config"
)

// loadSettings resolves the config file (--config or upward search) and
// applies command-line overrides on top of it.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Settings{}, fmt.Errorf("failed to get config flag: %w", err)
	}

	var settings config.Settings
	if path != "" {
		settings, err = config.Load(path)
	} else {
		settings, err = config.Discover(".")
	}
	if err != nil {
		return config.Settings{}, err
	}

	flags := cmd.Flags()
	if f := flags.Lookup("jobs"); f != nil && f.Changed {
		jobs, err := flags.GetInt("jobs")
		if err != nil {
			return config.Settings{}, err
		}
		if jobs < 0 {
			return config.Settings{}, fmt.Errorf("--jobs must not be negative, got %d", jobs)
		}
		settings.Jobs = jobs
	}
	if f := flags.Lookup("cache"); f != nil && f.Changed {
		cache, err := flags.GetBool("cache")
		if err != nil {
			return config.Settings{}, err
		}
		settings.Cache = cache
	}
	if f := flags.Lookup("final-newline"); f != nil && f.Changed {
		finalNewline, err := flags.GetBool("final-newline")
		if err != nil {
			return config.Settings{}, err
		}
		settings.FinalNewline = finalNewline
	}
	return settings, nil
}
