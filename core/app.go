package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const defaultShutdownTimeout = 15 * time.Second

type App struct {
	Modules   []Module
	Container Container
	Logger    *slog.Logger
	// Settings come from configuration, keyed by module id.
	Settings map[string]ModuleSettings
	// Policy decides which faults abort the run. When Required is nil it is
	// derived from Settings.
	Policy    Policy
	Observers []Observer
	// CallTimeout bounds each module call; zero waits indefinitely.
	CallTimeout     time.Duration
	ShutdownTimeout time.Duration

	orch *Orchestrator
}

func NewApp(logger *slog.Logger, mods ...Module) *App {
	return &App{
		Modules:         mods,
		Container:       NewContainer(),
		Logger:          logger,
		ShutdownTimeout: defaultShutdownTimeout,
	}
}

// Plan runs discovery and resolution without touching any module.
func (a *App) Plan() (Plan, []Descriptor, error) {
	descs, _, err := Discover(a.Modules, a.Settings)
	if err != nil {
		return nil, nil, err
	}
	enabled := EnabledOnly(descs)
	plan, err := Resolve(enabled)
	if err != nil {
		return nil, nil, err
	}
	return plan, enabled, nil
}

// Report returns the current run's report, or nil before Run.
func (a *App) Report() *Report {
	if a.orch == nil {
		return nil
	}
	return a.orch.Report()
}

func (a *App) Run(ctx context.Context) error {
	// 1) Discover and order modules
	descs, mods, err := Discover(a.Modules, a.Settings)
	if err != nil {
		return err
	}
	a.orch = NewOrchestrator(a.Container,
		WithCallTimeout(a.CallTimeout),
		WithObservers(a.Observers...),
		WithDescriptors(descs...),
	)
	obs := observers(a.Observers)
	runID := a.orch.RunID()
	for _, d := range descs {
		if !d.Enabled {
			a.Logger.Info("module disabled", "module", d.ID)
			continue
		}
		obs.emit(Event{RunID: runID, Type: EventDiscovered, Module: d.ID, State: StateDiscovered})
	}

	plan, err := Resolve(EnabledOnly(descs))
	if err != nil {
		return fmt.Errorf("resolve modules: %w", err)
	}
	obs.emit(Event{RunID: runID, Type: EventPlanned, Plan: plan})

	policy := a.Policy
	if policy.Required == nil {
		policy = PolicyFromSettings(a.Settings)
	}
	if missing := policy.MissingRequired(plan); len(missing) > 0 {
		return &RequiredModuleError{Modules: missing}
	}

	// 2) Expose run status to modules
	Put[Reporter](a.Container, a.orch)
	Put[Policy](a.Container, policy)

	// 3) Initialize, then start
	report, err := a.orch.StartAll(ctx, plan, mods)
	if err != nil {
		return err
	}
	verdict := policy.Evaluate(report)
	for _, id := range verdict.Degraded {
		a.Logger.Warn("optional module faulted, continuing degraded", "module", id, "error", report.Err(id))
	}
	if !verdict.OK() {
		for _, id := range verdict.Blocking {
			a.Logger.Error("required module faulted", "module", id, "error", report.Err(id))
		}
		a.shutdown()
		return &RequiredModuleError{Modules: verdict.Blocking}
	}

	// 4) Wait for signal, then stop in reverse order
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)
	select {
	case <-ctx.Done():
	case <-stop:
	}

	a.shutdown()
	return nil
}

func (a *App) shutdown() {
	timeout := a.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	// give modules time to shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	report := a.orch.StopAll(shutdownCtx)
	for _, id := range report.Order {
		if err := report.Err(id); err != nil {
			a.Logger.Warn("module finished with errors", "module", id, "state", report.State(id), "error", err)
		}
	}
}
