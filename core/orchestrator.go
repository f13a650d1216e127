package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCallTimeout bounds every module call. A call that overruns faults the
// module with ErrTimeout. Zero means wait indefinitely.
func WithCallTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// WithObservers registers lifecycle event observers.
func WithObservers(obs ...Observer) Option {
	return func(o *Orchestrator) { o.observers = append(o.observers, obs...) }
}

// WithDescriptors supplies the discovered descriptors, so the report uses
// display names as configured rather than as the modules declare them.
func WithDescriptors(descs ...Descriptor) Option {
	return func(o *Orchestrator) {
		if o.descs == nil {
			o.descs = make(map[string]Descriptor, len(descs))
		}
		for _, d := range descs {
			o.descs[d.ID] = d
		}
	}
}

// WithRunID overrides the generated run id that correlates events.
func WithRunID(id string) Option {
	return func(o *Orchestrator) { o.runID = id }
}

// Orchestrator drives a resolved set of modules through initialize, start,
// stop and dispose. One module's failure is recorded and never stops the
// others. An Orchestrator runs once: StartAll, then StopAll.
type Orchestrator struct {
	container Container
	timeout   time.Duration
	observers observers
	runID     string
	descs     map[string]Descriptor

	mu      sync.Mutex
	plan    Plan
	modules map[string]Module
	report  *Report
	// Append-only ledgers of modules that completed a phase, in completion
	// order. Teardown walks them in reverse.
	initialized []string
	started     []string
	running     bool
	stopped     bool
}

// Reporter exposes a live report snapshot.
type Reporter interface {
	Report() *Report
}

func NewOrchestrator(c Container, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		container: c,
		runID:     uuid.NewString(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.report = &Report{RunID: o.runID, Modules: map[string]ModuleReport{}}
	return o
}

// RunID returns the id attached to this orchestrator's events.
func (o *Orchestrator) RunID() string { return o.runID }

// StartAll initializes every module in plan order, then starts every module
// that initialized, again in plan order. No Start call happens until every
// Initialize call has returned.
//
// The returned error is only for misuse: a second call, or a plan naming a
// module that is not in modules. Lifecycle failures land in the report.
func (o *Orchestrator) StartAll(ctx context.Context, plan Plan, modules map[string]Module) (*Report, error) {
	o.mu.Lock()
	if o.running || o.stopped {
		o.mu.Unlock()
		return nil, ErrAlreadyStarted
	}
	for _, id := range plan {
		if _, ok := modules[id]; !ok {
			o.mu.Unlock()
			return nil, fmt.Errorf("plan references module %s with no implementation", id)
		}
	}
	o.running = true
	o.plan = append(Plan(nil), plan...)
	o.modules = modules
	o.report.Order = o.plan
	for _, id := range plan {
		d, ok := o.descs[id]
		if !ok {
			d = modules[id].Descriptor()
		}
		o.report.Modules[id] = ModuleReport{ID: id, DisplayName: d.DisplayName, State: StateDiscovered}
	}
	o.mu.Unlock()

	for _, id := range plan {
		if o.run(ctx, o.timeout, id, PhaseInitialize) {
			o.mu.Lock()
			o.initialized = append(o.initialized, id)
			o.mu.Unlock()
		}
	}

	for _, id := range plan {
		if o.State(id) != StateInitialized {
			continue
		}
		if o.run(ctx, o.timeout, id, PhaseStart) {
			o.mu.Lock()
			o.started = append(o.started, id)
			o.mu.Unlock()
		}
	}

	return o.Report(), nil
}

// StopAll stops started modules in reverse start order, then disposes every
// initialized module in reverse initialize order. Failures are recorded and
// never stop the walk. Every call is made even after ctx is done; a deadline
// on ctx is shared out as a per-call budget. StopAll runs once; later calls
// return the report.
func (o *Orchestrator) StopAll(ctx context.Context) *Report {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return o.Report()
	}
	o.stopped = true
	started := append([]string(nil), o.started...)
	initialized := append([]string(nil), o.initialized...)
	o.mu.Unlock()

	budget := o.teardownBudget(ctx, len(started)+len(initialized))
	callCtx := context.WithoutCancel(ctx)
	for i := len(started) - 1; i >= 0; i-- {
		o.run(callCtx, budget, started[i], PhaseStop)
	}
	for i := len(initialized) - 1; i >= 0; i-- {
		o.run(callCtx, budget, initialized[i], PhaseDispose)
	}
	return o.Report()
}

// minTeardownCall is the least time a teardown call gets once the shutdown
// deadline is close or already past.
const minTeardownCall = 10 * time.Millisecond

// teardownBudget bounds each of n teardown calls. A deadline on ctx is split
// evenly across the calls, so one hung module cannot use up the time owed to
// the rest. The call timeout applies when it is tighter.
func (o *Orchestrator) teardownBudget(ctx context.Context, n int) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok || n == 0 {
		return o.timeout
	}
	share := time.Until(deadline) / time.Duration(n)
	if share < minTeardownCall {
		share = minTeardownCall
	}
	if o.timeout > 0 && o.timeout < share {
		return o.timeout
	}
	return share
}

// Report returns a snapshot of the current report. Safe to call while a run
// is in progress.
func (o *Orchestrator) Report() *Report {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.report.clone()
}

// State returns a module's current state.
func (o *Orchestrator) State(id string) State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.report.Modules[id].State
}

// Ledgers returns copies of the initialized and started ledgers.
func (o *Orchestrator) Ledgers() (initialized, started []string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.initialized...), append([]string(nil), o.started...)
}

// run performs one phase call for one module, bounded by timeout when it is
// positive, and reports whether it succeeded. A faulted module keeps
// StateFaulted through teardown.
func (o *Orchestrator) run(ctx context.Context, timeout time.Duration, id string, phase Phase) bool {
	inFlight, done := phase.transitions()
	mod := o.modules[id]

	o.mu.Lock()
	faulted := o.report.Modules[id].State == StateFaulted
	if !faulted {
		o.setState(id, inFlight)
	}
	current := o.report.Modules[id].State
	o.mu.Unlock()

	o.observers.emit(Event{RunID: o.runID, Type: EventPhaseStarted, Module: id, Phase: phase, State: current})

	begin := time.Now()
	err := supervise(ctx, timeout, func(ctx context.Context) error {
		switch phase {
		case PhaseInitialize:
			return mod.Initialize(ctx, o.container)
		case PhaseStart:
			return mod.Start(ctx, o.container)
		case PhaseStop:
			return mod.Stop(ctx, o.container)
		default:
			return mod.Dispose(ctx, o.container)
		}
	})
	elapsed := time.Since(begin)

	o.mu.Lock()
	var state State
	if err != nil {
		perr := &PhaseError{Module: id, Phase: phase, Err: err}
		err = perr
		entry := o.report.Modules[id]
		entry.Errors = append(entry.Errors, perr)
		o.report.Modules[id] = entry
		o.setState(id, StateFaulted)
		state = StateFaulted
	} else {
		if !faulted {
			o.setState(id, done)
		}
		state = o.report.Modules[id].State
	}
	o.mu.Unlock()

	evt := Event{RunID: o.runID, Type: EventPhaseCompleted, Module: id, Phase: phase, State: state, Duration: elapsed}
	if err != nil {
		evt.Type = EventPhaseFailed
		evt.Err = err
	}
	o.observers.emit(evt)
	return err == nil
}

// setState must be called with o.mu held.
func (o *Orchestrator) setState(id string, s State) {
	entry := o.report.Modules[id]
	entry.State = s
	o.report.Modules[id] = entry
}
