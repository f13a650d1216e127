package core

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// cancelAfterStart cancels the run once module id has started, which lets
// App.Run move on to shutdown.
func cancelAfterStart(id string, cancel context.CancelFunc) Observer {
	return ObserverFunc(func(e Event) {
		if e.Module == id && e.Phase == PhaseStart && e.Type != EventPhaseStarted {
			cancel()
		}
	})
}

func TestApp_Run(t *testing.T) {
	var buf bytes.Buffer
	log := &callLog{}
	c, b, a := newFake("c", log, "b"), newFake("b", log, "a"), newFake("a", log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var types []EventType
	app := NewApp(testLogger(&buf), c, b, a)
	app.Observers = []Observer{
		ObserverFunc(func(e Event) { types = append(types, e.Type) }),
		cancelAfterStart("c", cancel),
	}

	require.NoError(t, app.Run(ctx))

	assert.Equal(t, []string{
		"a:initialize", "b:initialize", "c:initialize",
		"a:start", "b:start", "c:start",
		"c:stop", "b:stop", "a:stop",
		"c:dispose", "b:dispose", "a:dispose",
	}, log.all())

	report := app.Report()
	require.NotNil(t, report)
	assert.Equal(t, Plan{"a", "b", "c"}, report.Order)
	assert.False(t, report.HasFaults())

	assert.Equal(t, []EventType{EventDiscovered, EventDiscovered, EventDiscovered, EventPlanned}, types[:4])

	reporter, ok := Lookup[Reporter](app.Container)
	require.True(t, ok)
	assert.Equal(t, StateDisposed, reporter.Report().State("a"))
}

func TestApp_Run_OptionalFaultDegrades(t *testing.T) {
	var buf bytes.Buffer
	log := &callLog{}
	a, b := newFake("a", log), newFake("b", log)
	b.fail[PhaseStart] = errors.New("no gpu")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := NewApp(testLogger(&buf), a, b)
	app.Observers = []Observer{cancelAfterStart("b", cancel)}

	require.NoError(t, app.Run(ctx))
	assert.Contains(t, buf.String(), "optional module faulted")
	assert.Equal(t, []string{"b", "a"}, log.of(PhaseDispose))
}

func TestApp_Run_RequiredFaultAborts(t *testing.T) {
	var buf bytes.Buffer
	log := &callLog{}
	a, b := newFake("a", log), newFake("b", log)
	b.fail[PhaseInitialize] = errors.New("no license")

	app := NewApp(testLogger(&buf), a, b)
	app.Settings = map[string]ModuleSettings{"b": {Required: true}}

	err := app.Run(context.Background())

	var required *RequiredModuleError
	require.ErrorAs(t, err, &required)
	assert.Equal(t, []string{"b"}, required.Modules)
	assert.Contains(t, buf.String(), "required module faulted")

	// a started and is torn down even though the run was aborted.
	assert.Equal(t, []string{"a"}, log.of(PhaseStop))
	assert.Equal(t, []string{"a"}, log.of(PhaseDispose))
}

func TestApp_Run_ExplicitPolicyWins(t *testing.T) {
	log := &callLog{}
	a, b := newFake("a", log), newFake("b", log)
	b.fail[PhaseStart] = errors.New("no upstream")

	app := NewApp(testLogger(&bytes.Buffer{}), a, b)
	app.Policy = Policy{Required: map[string]bool{"b": true}}

	err := app.Run(context.Background())

	var required *RequiredModuleError
	require.ErrorAs(t, err, &required)
	assert.Equal(t, []string{"b"}, required.Modules)
	assert.Equal(t, []string{"b", "a"}, log.of(PhaseDispose))
}

func TestApp_Run_RequiredModuleDisabled(t *testing.T) {
	log := &callLog{}
	a := newFake("a", log)

	app := NewApp(testLogger(&bytes.Buffer{}), a)
	app.Settings = map[string]ModuleSettings{"a": {Required: true, Enabled: boolPtr(false)}}

	err := app.Run(context.Background())
	var required *RequiredModuleError
	require.ErrorAs(t, err, &required)
	assert.Empty(t, log.all())
}

func TestApp_Run_ResolutionErrorIsFatal(t *testing.T) {
	log := &callLog{}
	a, b := newFake("a", log, "b"), newFake("b", log, "a")

	app := NewApp(testLogger(&bytes.Buffer{}), a, b)
	err := app.Run(context.Background())

	assert.True(t, IsResolutionError(err))
	var cycle *CyclicDependencyError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"a", "b"}, cycle.Members)
	assert.Empty(t, log.all())
}

func TestApp_Plan(t *testing.T) {
	log := &callLog{}
	app := NewApp(testLogger(&bytes.Buffer{}),
		newFake("ui", log, "api"), newFake("api", log), newFake("extra", log))
	app.Settings = map[string]ModuleSettings{"extra": {Enabled: boolPtr(false)}}

	plan, descs, err := app.Plan()
	require.NoError(t, err)
	assert.Equal(t, Plan{"api", "ui"}, plan)
	assert.Len(t, descs, 2)
	assert.Nil(t, app.Report())
	assert.Empty(t, log.all())
}
