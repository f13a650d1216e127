package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/skekre98/modhost/config"
)

// FileSource reads application.{yaml,yml,toml} from BasePath and, when
// Profile is set, merges application.<profile>.{yaml,yml,toml} over it.
//
//	configs/
//	  application.yaml
//	  application.prod.toml
//
// A missing profile file is not an error; a missing base file is
// os.ErrNotExist.
type FileSource struct {
	BasePath string
	Profile  string
}

var extensions = []string{".yaml", ".yml", ".toml"}

func (f *FileSource) Name() string { return "file" }

func (f *FileSource) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	base := findConfigFile(f.BasePath, "application")
	if base == "" {
		return nil, fmt.Errorf("no application config in %s: %w", f.BasePath, os.ErrNotExist)
	}
	data, err := readConfigFile(base)
	if err != nil {
		return nil, err
	}

	if f.Profile != "" {
		if overlay := findConfigFile(f.BasePath, "application."+f.Profile); overlay != "" {
			layer, err := readConfigFile(overlay)
			if err != nil {
				return nil, err
			}
			mergeNested(data, layer)
		}
	}
	return data, nil
}

// Watch returns nil: files are read on each Load only.
func (f *FileSource) Watch(ctx context.Context, ch chan<- config.Event) error { return nil }

func findConfigFile(dir, basename string) string {
	for _, ext := range extensions {
		path := filepath.Join(dir, basename+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func readConfigFile(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	out := map[string]any{}
	if filepath.Ext(path) == ".toml" {
		err = toml.Unmarshal(b, &out)
	} else {
		err = yaml.Unmarshal(b, &out)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

func mergeNested(dst, src map[string]any) {
	for k, v := range src {
		if sv, ok := v.(map[string]any); ok {
			if dv, ok := dst[k].(map[string]any); ok {
				mergeNested(dv, sv)
				continue
			}
		}
		dst[k] = v
	}
}
