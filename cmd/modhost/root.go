package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skekre98/modhost/config"
	"github.com/skekre98/modhost/config/source"
)

var (
	// Version is set via -ldflags.
	Version = "dev"

	configDir string
	profile   string

	rootCmd = &cobra.Command{
		Use:   "modhost",
		Short: "Host that resolves, starts and stops lifecycle modules",
		Long: `modhost discovers its modules, orders them by their declared
dependencies and drives each through initialize, start, stop and dispose.
A failing module is recorded and isolated; the rest keep going.

Any dotted flag (--server.addr=:9090, --modules.greeter.enabled=false)
overrides configuration.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Dotted config flags are read by the CLI config source.
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "configs", "directory holding application.{yaml,yml,toml}")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "configuration profile overlay (application.<profile>.yaml)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "modhost", Version)
	},
}

func loadConfig(opts config.Options) (*config.Root, *config.Manager, error) {
	var cfg config.Root
	mgr, err := config.NewManager(&cfg, opts,
		&source.MapSource{Label: "defaults", Data: config.Defaults()},
		&source.FileSource{BasePath: configDir, Profile: profile},
		&source.EnvSource{},
		&source.CLISource{},
	)
	if err != nil {
		return nil, nil, err
	}
	return &cfg, mgr, nil
}
