package core

import "slices"

// Policy classifies faulted modules for the host. The orchestrator never
// acts on it.
type Policy struct {
	Required map[string]bool
}

// Verdict splits faulted modules by whether the host can run without them.
type Verdict struct {
	Blocking []string
	Degraded []string
}

// OK reports whether no required module faulted.
func (v Verdict) OK() bool { return len(v.Blocking) == 0 }

// PolicyFromSettings marks modules with Required set.
func PolicyFromSettings(settings map[string]ModuleSettings) Policy {
	p := Policy{Required: map[string]bool{}}
	for id, s := range settings {
		if s.Required {
			p.Required[id] = true
		}
	}
	return p
}

// Evaluate classifies the faulted modules of r in plan order.
func (p Policy) Evaluate(r *Report) Verdict {
	var v Verdict
	for _, id := range r.Faulted() {
		if p.Required[id] {
			v.Blocking = append(v.Blocking, id)
		} else {
			v.Degraded = append(v.Degraded, id)
		}
	}
	return v
}

// MissingRequired lists required modules that are absent from the plan,
// for instance because configuration disabled them.
func (p Policy) MissingRequired(plan Plan) []string {
	in := make(map[string]bool, len(plan))
	for _, id := range plan {
		in[id] = true
	}
	var out []string
	for id := range p.Required {
		if !in[id] {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}
