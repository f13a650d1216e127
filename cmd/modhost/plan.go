package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skekre98/modhost/config"
	"github.com/skekre98/modhost/core"
	"github.com/skekre98/modhost/logging"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the module load order without starting anything",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := loadConfig(config.Options{})
		if err != nil {
			return err
		}
		app := newApp(cfg, logging.New(cfg.Logging), nil)
		plan, descs, err := app.Plan()
		if err != nil {
			return err
		}
		writePlan(cmd, plan, descs)
		return nil
	},
}

func writePlan(cmd *cobra.Command, plan core.Plan, descs []core.Descriptor) {
	out := cmd.OutOrStdout()
	byID := make(map[string]core.Descriptor, len(descs))
	for _, d := range descs {
		byID[d.ID] = d
	}
	for i, id := range plan {
		d := byID[id]
		deps := "-"
		if len(d.Dependencies) > 0 {
			deps = strings.Join(d.Dependencies, ",")
		}
		fmt.Fprintf(out, "%2d. %-12s %-24s deps: %s\n", i+1, id, d.Name(), deps)
	}
	for n, level := range plan.Levels(descs) {
		fmt.Fprintf(out, "level %d: %s\n", n, strings.Join(level, " "))
	}
}

// newApp wires the demo module set with configuration.
func newApp(cfg *config.Root, logger *slog.Logger, observers []core.Observer) *core.App {
	app := core.NewApp(logger, demoModules()...)
	app.Settings = cfg.ModuleSettings()
	app.Policy = cfg.Policy()
	app.CallTimeout = cfg.Lifecycle.CallTimeout
	if cfg.Lifecycle.ShutdownTimeout > 0 {
		app.ShutdownTimeout = cfg.Lifecycle.ShutdownTimeout
	}
	app.Observers = observers
	return app
}
