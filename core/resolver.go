package core

import "slices"

// Plan is a load order: every module appears after all of its dependencies.
type Plan []string

// Resolve orders descriptors so dependencies come before dependents. Callers
// pass enabled descriptors only (see EnabledOnly). Modules with no ordering
// constraint between them keep their discovery order, so the same input
// always yields the same plan.
//
// Resolve fails with *SelfDependencyError, *DuplicateModuleError,
// *MissingDependencyError or *CyclicDependencyError. It has no side effects.
func Resolve(descs []Descriptor) (Plan, error) {
	// Self references are rejected before anything else is looked at.
	for _, d := range descs {
		if slices.Contains(d.Dependencies, d.ID) {
			return nil, &SelfDependencyError{Module: d.ID}
		}
	}

	index := make(map[string]int, len(descs))
	for i, d := range descs {
		if d.ID == "" {
			return nil, ErrEmptyModuleID
		}
		if _, dup := index[d.ID]; dup {
			return nil, &DuplicateModuleError{Module: d.ID}
		}
		index[d.ID] = i
	}

	// dependents[i] holds indexes of modules that depend on descs[i].
	dependents := make([][]int, len(descs))
	inDegree := make([]int, len(descs))
	for i, d := range descs {
		seen := make(map[int]bool, len(d.Dependencies))
		for _, dep := range d.Dependencies {
			j, ok := index[dep]
			if !ok {
				return nil, &MissingDependencyError{Module: d.ID, Missing: dep}
			}
			if seen[j] {
				continue
			}
			seen[j] = true
			dependents[j] = append(dependents[j], i)
			inDegree[i]++
		}
	}

	// Kahn's algorithm; ready is kept sorted by discovery index.
	var ready []int
	for i := range descs {
		if inDegree[i] == 0 {
			ready = append(ready, i)
		}
	}
	plan := make(Plan, 0, len(descs))
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		plan = append(plan, descs[n].ID)
		for _, m := range dependents[n] {
			inDegree[m]--
			if inDegree[m] == 0 {
				pos, _ := slices.BinarySearch(ready, m)
				ready = slices.Insert(ready, pos, m)
			}
		}
	}

	if len(plan) != len(descs) {
		return nil, &CyclicDependencyError{Members: cycleMembers(descs, dependents, inDegree)}
	}
	return plan, nil
}

// cycleMembers returns, in discovery order, the modules left unsorted by
// Kahn's algorithm that belong to a strongly connected component of more than
// one node. Nodes that only hang off a cycle are left out.
func cycleMembers(descs []Descriptor, dependents [][]int, inDegree []int) []string {
	var (
		counter int
		stack   []int
		order   = make([]int, len(descs))
		low     = make([]int, len(descs))
		onStack = make([]bool, len(descs))
		member  = make([]bool, len(descs))
	)
	remaining := func(n int) bool { return inDegree[n] > 0 }

	var connect func(n int)
	connect = func(n int) {
		counter++
		order[n], low[n] = counter, counter
		stack = append(stack, n)
		onStack[n] = true
		for _, m := range dependents[n] {
			if !remaining(m) {
				continue
			}
			if order[m] == 0 {
				connect(m)
				low[n] = min(low[n], low[m])
			} else if onStack[m] {
				low[n] = min(low[n], order[m])
			}
		}
		if low[n] != order[n] {
			return
		}
		var component []int
		for {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[top] = false
			component = append(component, top)
			if top == n {
				break
			}
		}
		if len(component) > 1 {
			for _, c := range component {
				member[c] = true
			}
		}
	}

	for n := range descs {
		if remaining(n) && order[n] == 0 {
			connect(n)
		}
	}

	var out []string
	for n, d := range descs {
		if member[n] {
			out = append(out, d.ID)
		}
	}
	return out
}

// Levels groups the plan into dependency levels: modules in level n depend
// only on modules in levels below n. Within a level, plan order is kept.
func (p Plan) Levels(descs []Descriptor) [][]string {
	deps := make(map[string][]string, len(descs))
	for _, d := range descs {
		deps[d.ID] = d.Dependencies
	}
	level := make(map[string]int, len(p))
	var out [][]string
	for _, id := range p {
		lvl := 0
		for _, dep := range deps[id] {
			if l, ok := level[dep]; ok && l+1 > lvl {
				lvl = l + 1
			}
		}
		level[id] = lvl
		for len(out) <= lvl {
			out = append(out, nil)
		}
		out[lvl] = append(out[lvl], id)
	}
	return out
}
