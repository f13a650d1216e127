package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skekre98/modhost/config"
	"github.com/skekre98/modhost/core"
)

const ID = "web"

func Engine(c core.Container) *gin.Engine {
	return core.Get[*gin.Engine](c)
}

// Addr returns the address the server is bound to once the module started.
type Addr string

func Module(opts ...Option) core.Module {
	var options Options
	for _, o := range opts {
		o(&options)
	}
	return &webModule{opts: options}
}

type webModule struct {
	opts   Options
	server *http.Server
	served chan struct{}
	logger *slog.Logger
}

func (m *webModule) Descriptor() core.Descriptor {
	return core.Descriptor{ID: ID, DisplayName: "HTTP server"}
}

// Initialize builds the engine and server and registers both. Routes added by
// other modules during their own Initialize are served once Start runs.
func (m *webModule) Initialize(_ context.Context, c core.Container) error {
	cfg := core.Get[config.Root](c)
	m.logger = core.Get[*slog.Logger](c).With("module", ID)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(RequestID(), RecoveryProblem(m.logger), AccessLog(m.logger))
	r.Use(m.opts.Middlewares...)
	r.NoRoute(noRoute)

	for _, reg := range m.opts.Routes {
		reg(r)
	}

	m.server = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	core.Put[*gin.Engine](c, r)
	core.Put[*http.Server](c, m.server)
	return nil
}

// Start binds the listener before returning so a busy port faults the module.
func (m *webModule) Start(_ context.Context, c core.Container) error {
	ln, err := net.Listen("tcp", m.server.Addr)
	if err != nil {
		return fmt.Errorf("http listen: %w", err)
	}
	core.Put[Addr](c, Addr(ln.Addr().String()))
	m.served = make(chan struct{})
	go func() {
		defer close(m.served)
		m.logger.Info("http server starting", "addr", ln.Addr().String())
		if err := m.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error("http server error", "error", err)
		}
	}()
	return nil
}

func (m *webModule) Stop(ctx context.Context, _ core.Container) error {
	if err := m.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	select {
	case <-m.served:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// Dispose closes whatever Shutdown left open, e.g. when Start never ran.
func (m *webModule) Dispose(_ context.Context, _ core.Container) error {
	if m.server == nil {
		return nil
	}
	if err := m.server.Close(); err != nil {
		return fmt.Errorf("http close: %w", err)
	}
	return nil
}
