package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skekre98/modhost/config"
	"github.com/skekre98/modhost/core"
)

func jsonLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLifecycle(t *testing.T) {
	var buf bytes.Buffer
	obs := Lifecycle(NewWithWriter(&buf, config.LoggingConfig{Level: "debug", Format: "json"}))

	obs.OnEvent(core.Event{RunID: "r1", Type: core.EventDiscovered, Module: "web"})
	obs.OnEvent(core.Event{RunID: "r1", Type: core.EventPlanned, Plan: core.Plan{"web", "actuator"}})
	obs.OnEvent(core.Event{RunID: "r1", Type: core.EventPhaseStarted, Module: "web", Phase: core.PhaseStart, State: core.StateStarting})
	obs.OnEvent(core.Event{RunID: "r1", Type: core.EventPhaseCompleted, Module: "web", Phase: core.PhaseStart,
		State: core.StateStarted, Duration: 1500 * time.Millisecond})
	obs.OnEvent(core.Event{RunID: "r1", Type: core.EventPhaseFailed, Module: "actuator", Phase: core.PhaseInitialize,
		State: core.StateFaulted, Err: errors.New("no web engine")})

	lines := jsonLines(t, &buf)
	require.Len(t, lines, 5)

	assert.Equal(t, "module discovered", lines[0]["msg"])
	assert.Equal(t, "DEBUG", lines[0]["level"])
	assert.Equal(t, "web", lines[0]["module"])

	assert.Equal(t, "load plan resolved", lines[1]["msg"])
	assert.Equal(t, "web,actuator", lines[1]["order"])
	assert.NotContains(t, lines[1], "module")

	assert.Equal(t, "module phase begin", lines[2]["msg"])
	assert.Equal(t, "start", lines[2]["phase"])

	assert.Equal(t, "module phase done", lines[3]["msg"])
	assert.Equal(t, "INFO", lines[3]["level"])
	assert.Equal(t, "started", lines[3]["state"])
	assert.EqualValues(t, 1500, lines[3]["duration_ms"])

	assert.Equal(t, "module phase failed", lines[4]["msg"])
	assert.Equal(t, "WARN", lines[4]["level"])
	assert.Equal(t, "faulted", lines[4]["state"])
	assert.Equal(t, "no web engine", lines[4]["error"])

	for _, l := range lines {
		assert.Equal(t, "r1", l["run_id"])
	}
}

func TestLifecycle_InfoLevelHidesPhaseBegin(t *testing.T) {
	var buf bytes.Buffer
	obs := Lifecycle(NewWithWriter(&buf, config.LoggingConfig{Level: "info", Format: "json"}))

	obs.OnEvent(core.Event{Type: core.EventDiscovered, Module: "web"})
	obs.OnEvent(core.Event{Type: core.EventPhaseStarted, Module: "web", Phase: core.PhaseInitialize})
	obs.OnEvent(core.Event{Type: core.EventPhaseCompleted, Module: "web", Phase: core.PhaseInitialize, State: core.StateInitialized})

	lines := jsonLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "module phase done", lines[0]["msg"])
}

func TestLogReport(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, config.LoggingConfig{Format: "json"})

	report := &core.Report{
		RunID: "r2",
		Order: core.Plan{"a", "b"},
		Modules: map[string]core.ModuleReport{
			"a": {ID: "a", State: core.StateDisposed},
			"b": {ID: "b", State: core.StateFaulted, Errors: []*core.PhaseError{
				{Module: "b", Phase: core.PhaseStart, Err: errors.New("bind: address in use")},
			}},
		},
	}
	LogReport(l, report)

	lines := jsonLines(t, &buf)
	require.Len(t, lines, 3)

	assert.Equal(t, "a", lines[0]["module"])
	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "disposed", lines[0]["state"])

	assert.Equal(t, "b", lines[1]["module"])
	assert.Equal(t, "WARN", lines[1]["level"])
	assert.Contains(t, lines[1]["error"], "address in use")

	assert.Equal(t, "lifecycle summary", lines[2]["msg"])
	assert.EqualValues(t, 2, lines[2]["modules"])
	assert.EqualValues(t, 1, lines[2]["faulted"])
}
