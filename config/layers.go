package config

import (
	"reflect"
	"strings"
)

// mergeMaps folds src into dst. Nested maps merge key by key; anything else
// in src replaces what dst held. Keys match case-insensitively so the
// lowercased env layer overrides camelCase keys from files and defaults.
func mergeMaps(dst, src map[string]any) {
	for k, v := range src {
		k = matchKey(dst, k)
		if mv, ok := v.(map[string]any); ok {
			if existing, ok := dst[k].(map[string]any); ok {
				mergeMaps(existing, mv)
				continue
			}
			fresh := make(map[string]any, len(mv))
			mergeMaps(fresh, mv)
			dst[k] = fresh
			continue
		}
		dst[k] = v
	}
}

// matchKey returns the key dst already uses for k, or k itself.
func matchKey(dst map[string]any, k string) string {
	if _, ok := dst[k]; ok {
		return k
	}
	for existing := range dst {
		if strings.EqualFold(existing, k) {
			return existing
		}
	}
	return k
}

// changedKeys lists the top-level config keys whose values differ between two
// structs of the same type. Keys use the `config` tag when present.
func changedKeys(old, new any) []string {
	if old == nil || new == nil {
		return nil
	}
	ov := reflect.Indirect(reflect.ValueOf(old))
	nv := reflect.Indirect(reflect.ValueOf(new))
	if ov.Kind() != reflect.Struct || ov.Type() != nv.Type() {
		return nil
	}

	var keys []string
	t := ov.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if reflect.DeepEqual(ov.Field(i).Interface(), nv.Field(i).Interface()) {
			continue
		}
		keys = append(keys, keyName(f))
	}
	return keys
}

func keyName(f reflect.StructField) string {
	if tag, ok := f.Tag.Lookup("config"); ok {
		if name, _, _ := strings.Cut(tag, ","); name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}
