package source

import (
	"context"
	"maps"

	"github.com/skekre98/modhost/config"
)

// MapSource serves a fixed map, typically config.Defaults().
type MapSource struct {
	Label string
	Data  map[string]any
}

func (s *MapSource) Name() string {
	if s.Label == "" {
		return "map"
	}
	return s.Label
}

func (s *MapSource) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return deepCopy(s.Data), nil
}

func (s *MapSource) Watch(ctx context.Context, ch chan<- config.Event) error { return nil }

func deepCopy(in map[string]any) map[string]any {
	out := maps.Clone(in)
	if out == nil {
		return map[string]any{}
	}
	for k, v := range out {
		if nested, ok := v.(map[string]any); ok {
			out[k] = deepCopy(nested)
		}
	}
	return out
}
