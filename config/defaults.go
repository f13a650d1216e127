package config

// Defaults returns the lowest-precedence configuration layer.
func Defaults() map[string]any {
	return map[string]any{
		"app": map[string]any{
			"name":    "modhost",
			"version": "dev",
		},
		"server": map[string]any{
			"addr":         ":8080",
			"readTimeout":  "10s",
			"writeTimeout": "10s",
			"idleTimeout":  "60s",
		},
		"actuator": map[string]any{
			"basePath": "/actuator",
		},
		"observability": map[string]any{
			"metrics": map[string]any{
				"enabled": true,
				"path":    "/actuator/metrics",
			},
		},
		"logging": map[string]any{
			"level":  "info",
			"format": "text",
		},
		"lifecycle": map[string]any{
			"callTimeout":     "0s",
			"shutdownTimeout": "15s",
		},
	}
}
