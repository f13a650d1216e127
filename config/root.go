package config

import "time"

type AppInfo struct {
	Name    string `config:"name" validate:"required"`
	Version string `config:"version" validate:"required"`
}

type MetricsConfig struct {
	Enabled bool   `config:"enabled"`
	Path    string `config:"path"`
}

type ObservabilityConfig struct {
	Metrics MetricsConfig `config:"metrics"`
}

type ActuatorConfig struct {
	BasePath string `config:"basePath" validate:"required,startswith=/"`
}

type ServerConfig struct {
	Addr         string        `config:"addr" validate:"required"`
	ReadTimeout  time.Duration `config:"readTimeout"`
	WriteTimeout time.Duration `config:"writeTimeout"`
	IdleTimeout  time.Duration `config:"idleTimeout"`
}

type LoggingConfig struct {
	Level  string `config:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `config:"format" validate:"omitempty,oneof=text json"`
}

// LifecycleConfig bounds module calls. A zero CallTimeout waits forever.
type LifecycleConfig struct {
	CallTimeout     time.Duration `config:"callTimeout" validate:"min=0"`
	ShutdownTimeout time.Duration `config:"shutdownTimeout" validate:"min=0"`
}

// ModuleConfig is the per-module entry under modules.<id>.
type ModuleConfig struct {
	Enabled     *bool    `config:"enabled"`
	Required    bool     `config:"required"`
	DependsOn   []string `config:"dependsOn" validate:"dive,required"`
	DisplayName string   `config:"displayName"`
}

type Root struct {
	App           AppInfo                 `config:"app"`
	Server        ServerConfig            `config:"server"`
	Observability ObservabilityConfig     `config:"observability"`
	Actuator      ActuatorConfig          `config:"actuator"`
	Logging       LoggingConfig           `config:"logging"`
	Lifecycle     LifecycleConfig         `config:"lifecycle"`
	Modules       map[string]ModuleConfig `config:"modules" validate:"dive,keys,moduleid,endkeys"`
}
