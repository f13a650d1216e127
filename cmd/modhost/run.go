package main

import (
	"context"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/skekre98/modhost/config"
	"github.com/skekre98/modhost/core"
	"github.com/skekre98/modhost/logging"
	"github.com/skekre98/modhost/metrics"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start every enabled module and run until interrupted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runHost(cmd.Context())
	},
}

func runHost(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// 1) config
	cfg, mgr, err := loadConfig(config.Options{AutoReload: true})
	if err != nil {
		return err
	}
	defer mgr.Close()

	// 2) logging
	logger := logging.New(cfg.Logging).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
	)
	changes := make(chan config.Event, 4)
	mgr.Subscribe(changes)
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go logConfigChanges(watchCtx, logger, changes)

	// 3) metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector, err := metrics.New(reg)
	if err != nil {
		return err
	}

	// 4) compose the app
	app := newApp(cfg, logger, []core.Observer{logging.Lifecycle(logger), collector})

	// 5) seed shared objects into the container
	core.Put[config.Root](app.Container, *cfg)
	core.Put[*slog.Logger](app.Container, logger)
	core.Put[*prometheus.Registry](app.Container, reg)

	// 6) run
	runErr := app.Run(ctx)
	if report := app.Report(); report != nil {
		logging.LogReport(logger, report)
	}
	if runErr != nil {
		logger.Error("app error", "error", runErr)
	}
	return runErr
}

// logConfigChanges logs each change event until ctx is done. The manager
// never closes subscriber channels.
func logConfigChanges(ctx context.Context, logger *slog.Logger, changes <-chan config.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-changes:
			logger.Info("configuration changed; module settings apply on next start",
				"keys", strings.Join(evt.ChangedKeys, ","))
		}
	}
}
