package core

import "slices"

// ModuleSettings is the per-module configuration handed in by the host.
type ModuleSettings struct {
	// Enabled defaults to true when nil.
	Enabled     *bool
	Required    bool
	DependsOn   []string
	DisplayName string
}

// Discover merges each module's own descriptor with its settings. The
// returned descriptors keep the order of mods, which is the tie-break order
// for Resolve. Disabled modules are returned with Enabled false and are left
// out of the module map.
func Discover(mods []Module, settings map[string]ModuleSettings) ([]Descriptor, map[string]Module, error) {
	descs := make([]Descriptor, 0, len(mods))
	byID := make(map[string]Module, len(mods))
	known := make(map[string]bool, len(mods))

	for _, m := range mods {
		d := m.Descriptor()
		if d.ID == "" {
			return nil, nil, ErrEmptyModuleID
		}
		if known[d.ID] {
			return nil, nil, &DuplicateModuleError{Module: d.ID}
		}
		known[d.ID] = true

		s := settings[d.ID]
		d.Enabled = s.Enabled == nil || *s.Enabled
		d.Dependencies = mergeDependencies(d.Dependencies, s.DependsOn)
		if s.DisplayName != "" {
			d.DisplayName = s.DisplayName
		}
		descs = append(descs, d)
		if d.Enabled {
			byID[d.ID] = m
		}
	}

	for id := range settings {
		if !known[id] {
			return nil, nil, &UnknownModuleError{Module: id}
		}
	}
	return descs, byID, nil
}

// EnabledOnly drops disabled descriptors, keeping order.
func EnabledOnly(descs []Descriptor) []Descriptor {
	out := make([]Descriptor, 0, len(descs))
	for _, d := range descs {
		if d.Enabled {
			out = append(out, d)
		}
	}
	return out
}

func mergeDependencies(declared, extra []string) []string {
	out := make([]string, 0, len(declared)+len(extra))
	for _, dep := range slices.Concat(declared, extra) {
		if dep == "" || slices.Contains(out, dep) {
			continue
		}
		out = append(out, dep)
	}
	return out
}
