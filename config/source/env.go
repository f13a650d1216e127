package source

import (
	"context"
	"os"
	"strings"

	"github.com/skekre98/modhost/config"
)

// DefaultEnvPrefix is used when EnvSource.Prefix is empty.
const DefaultEnvPrefix = "MODHOST_"

// EnvSource reads prefixed environment variables. After the prefix is
// stripped the name is lowercased and split on underscores into a path:
//
//	MODHOST_SERVER_ADDR=:9090            -> {server: {addr: ":9090"}}
//	MODHOST_MODULES_GREETER_ENABLED=false -> {modules: {greeter: {enabled: "false"}}}
//
// Values stay strings; the binder converts them. When a name is both a leaf
// and a parent (MODHOST_DB and MODHOST_DB_HOST) the first one seen wins.
type EnvSource struct {
	Prefix string
	// Environ replaces os.Environ, mainly for tests.
	Environ func() []string
}

func (e *EnvSource) Name() string { return "env" }

func (e *EnvSource) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefix := e.Prefix
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	environ := e.Environ
	if environ == nil {
		environ = os.Environ
	}

	result := make(map[string]any)
	for _, kv := range environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		key = strings.ToLower(strings.TrimPrefix(key, prefix))
		if key == "" {
			continue
		}
		setNestedValue(result, strings.Split(key, "_"), value)
	}
	return result, nil
}

// Watch returns nil: the environment is fixed for the process lifetime.
func (e *EnvSource) Watch(ctx context.Context, ch chan<- config.Event) error {
	return nil
}

// setNestedValue stores value at path, creating maps on the way. Empty
// segments are skipped; a leaf already sitting on the path wins.
func setNestedValue(m map[string]any, path []string, value string) {
	current := m
	for i, segment := range path {
		if segment == "" {
			continue
		}
		if i == len(path)-1 {
			current[segment] = value
			return
		}
		existing, ok := current[segment]
		if !ok {
			nested := make(map[string]any)
			current[segment] = nested
			current = nested
			continue
		}
		nested, ok := existing.(map[string]any)
		if !ok {
			return
		}
		current = nested
	}
}
