package config

import "github.com/skekre98/modhost/core"

// ModuleSettings converts the modules section for core.Discover.
func (r Root) ModuleSettings() map[string]core.ModuleSettings {
	out := make(map[string]core.ModuleSettings, len(r.Modules))
	for id, m := range r.Modules {
		out[id] = core.ModuleSettings{
			Enabled:     m.Enabled,
			Required:    m.Required,
			DependsOn:   append([]string(nil), m.DependsOn...),
			DisplayName: m.DisplayName,
		}
	}
	return out
}

// Policy marks the modules configured as required.
func (r Root) Policy() core.Policy {
	return core.PolicyFromSettings(r.ModuleSettings())
}
