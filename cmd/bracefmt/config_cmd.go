package main

import (
	"github.com/spf13/cobra"

	"bracefmt/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as TOML",
	Long: `Print the configuration bracefmt would use in the current directory:
built-in defaults, overlaid with the nearest .bracefmt.toml (or --config).
The output is a complete config file and can be saved as a starting point.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := cmd.Flags().GetBool("default")
		if err != nil {
			return err
		}
		settings := config.Default()
		if !defaults {
			if settings, err = loadSettings(cmd); err != nil {
				return err
			}
		}
		data, err := config.Encode(settings)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	configCmd.Flags().Bool("default", false, "ignore config files and print the built-in defaults")
}
