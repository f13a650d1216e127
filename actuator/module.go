package actuator

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skekre98/modhost/config"
	"github.com/skekre98/modhost/core"
	"github.com/skekre98/modhost/web"
)

const ID = "actuator"

type module struct {
	core.Base
}

func Module() core.Module { return &module{} }

func (m *module) Descriptor() core.Descriptor {
	return core.Descriptor{
		ID:           ID,
		DisplayName:  "Actuator endpoints",
		Dependencies: []string{web.ID},
	}
}

func (m *module) Initialize(_ context.Context, c core.Container) error {
	engine := web.Engine(c)
	cfg := core.Get[config.Root](c)

	group := engine.Group(cfg.Actuator.BasePath)
	group.GET("/health", healthHandler(c))
	group.GET("/modules", modulesHandler(c))
	group.GET("/info", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"app": gin.H{
				"name":    cfg.App.Name,
				"version": cfg.App.Version,
			},
			"runtime": gin.H{
				"go":           runtime.Version(),
				"numGoroutine": runtime.NumGoroutine(),
				"time":         time.Now().UTC().Format(time.RFC3339),
				"pid":          os.Getpid(),
			},
		})
	})

	if cfg.Observability.Metrics.Enabled {
		handler := promhttp.Handler()
		if reg, ok := core.Lookup[*prometheus.Registry](c); ok {
			handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
		}
		engine.GET(cfg.Observability.Metrics.Path, gin.WrapH(handler))
	}
	return nil
}

type moduleView struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName,omitempty"`
	State       string   `json:"state"`
	Required    bool     `json:"required"`
	Errors      []string `json:"errors,omitempty"`
}

func modulesHandler(c core.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		report, policy, ok := snapshot(c)
		if !ok {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"modules": []moduleView{}})
			return
		}
		views := make([]moduleView, 0, len(report.Order))
		for _, m := range report.Entries() {
			v := moduleView{
				ID:          m.ID,
				DisplayName: m.DisplayName,
				State:       m.State.String(),
				Required:    policy.Required[m.ID],
			}
			for _, err := range m.Errors {
				v.Errors = append(v.Errors, err.Error())
			}
			views = append(views, v)
		}
		ctx.JSON(http.StatusOK, gin.H{"runId": report.RunID, "modules": views})
	}
}

// healthHandler answers UP with no faults, DEGRADED when only optional
// modules faulted and DOWN (503) when a required module faulted.
func healthHandler(c core.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		report, policy, ok := snapshot(c)
		if !ok {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "UNKNOWN", "checks": []gin.H{}})
			return
		}
		checks := make([]gin.H, 0, len(report.Order))
		for _, m := range report.Entries() {
			checks = append(checks, gin.H{"module": m.ID, "state": m.State.String()})
		}

		verdict := policy.Evaluate(report)
		status, code := "UP", http.StatusOK
		switch {
		case !verdict.OK():
			status, code = "DOWN", http.StatusServiceUnavailable
		case len(verdict.Degraded) > 0:
			status = "DEGRADED"
		}
		ctx.JSON(code, gin.H{"status": status, "checks": checks})
	}
}

func snapshot(c core.Container) (*core.Report, core.Policy, bool) {
	reporter, ok := core.Lookup[core.Reporter](c)
	if !ok {
		return nil, core.Policy{}, false
	}
	policy, _ := core.Lookup[core.Policy](c)
	return reporter.Report(), policy, true
}
