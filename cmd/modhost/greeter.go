package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skekre98/modhost/actuator"
	"github.com/skekre98/modhost/config"
	"github.com/skekre98/modhost/core"
	"github.com/skekre98/modhost/web"
)

// greeter is a small example module that adds a route during Initialize.
type greeter struct {
	core.Base
}

func (g *greeter) Descriptor() core.Descriptor {
	return core.Descriptor{ID: "greeter", DisplayName: "Greeter", Dependencies: []string{web.ID}}
}

func (g *greeter) Initialize(_ context.Context, c core.Container) error {
	name := core.Get[config.Root](c).App.Name
	web.Engine(c).GET("/hello", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "hello from " + name})
	})
	return nil
}

func demoModules() []core.Module {
	return []core.Module{
		web.Module(web.WithRoutes(func(r web.Router) {
			r.GET("/", func(ctx *gin.Context) { ctx.Redirect(http.StatusFound, "/hello") })
		})),
		actuator.Module(),
		&greeter{},
	}
}
