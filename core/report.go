package core

import (
	"errors"
	"slices"
)

// ModuleReport is the outcome for a single module.
type ModuleReport struct {
	ID          string
	DisplayName string
	State       State
	Errors      []*PhaseError
}

// Err joins every recorded phase error, or returns nil.
func (m ModuleReport) Err() error {
	if len(m.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(m.Errors))
	for i, e := range m.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Report is the cumulative result of an orchestration run.
type Report struct {
	RunID   string
	Order   Plan
	Modules map[string]ModuleReport
}

// State returns the module's state, or StateDiscovered if it is unknown.
func (r *Report) State(id string) State {
	return r.Modules[id].State
}

// Err returns the joined errors recorded for id.
func (r *Report) Err(id string) error {
	return r.Modules[id].Err()
}

// Faulted lists faulted modules in plan order.
func (r *Report) Faulted() []string {
	var out []string
	for _, id := range r.Order {
		if r.Modules[id].State == StateFaulted {
			out = append(out, id)
		}
	}
	return out
}

// HasFaults reports whether any module recorded an error, including teardown
// errors.
func (r *Report) HasFaults() bool {
	for _, m := range r.Modules {
		if len(m.Errors) > 0 {
			return true
		}
	}
	return false
}

// Entries returns module reports in plan order.
func (r *Report) Entries() []ModuleReport {
	out := make([]ModuleReport, 0, len(r.Order))
	for _, id := range r.Order {
		out = append(out, r.Modules[id])
	}
	return out
}

func (r *Report) clone() *Report {
	out := &Report{
		RunID:   r.RunID,
		Order:   slices.Clone(r.Order),
		Modules: make(map[string]ModuleReport, len(r.Modules)),
	}
	for id, m := range r.Modules {
		m.Errors = slices.Clone(m.Errors)
		out.Modules[id] = m
	}
	return out
}
