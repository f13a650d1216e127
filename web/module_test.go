package web

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skekre98/modhost/config"
	"github.com/skekre98/modhost/core"
)

func testContainer(addr string) core.Container {
	c := core.NewContainer()
	core.Put(c, config.Root{Server: config.ServerConfig{Addr: addr, ReadTimeout: time.Second}})
	core.Put(c, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return c
}

func TestModule_Lifecycle(t *testing.T) {
	ctx := context.Background()
	c := testContainer("127.0.0.1:0")

	m := Module(
		WithRoutes(func(r Router) {
			r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
		}),
		WithMiddlewares(func(c *gin.Context) {
			c.Header("X-Served-By", "modhost")
			c.Next()
		}),
	)
	assert.Equal(t, ID, m.Descriptor().ID)

	require.NoError(t, m.Initialize(ctx, c))
	_, ok := core.Lookup[*http.Server](c)
	assert.True(t, ok)

	// Routes registered after Initialize, as a dependent module would.
	Engine(c).GET("/late", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	require.NoError(t, m.Start(ctx, c))
	addr := core.Get[Addr](c)
	require.NotEmpty(t, addr)

	resp, err := http.Get("http://" + string(addr) + "/ping")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "pong", string(body))
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))
	assert.Equal(t, "modhost", resp.Header.Get("X-Served-By"))

	resp, err = http.Get("http://" + string(addr) + "/late")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, m.Stop(stopCtx, c))
	require.NoError(t, m.Dispose(ctx, c))

	_, err = http.Get("http://" + string(addr) + "/ping")
	assert.Error(t, err)
}

func TestModule_StartFailsOnBusyPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	ctx := context.Background()
	c := testContainer(ln.Addr().String())
	m := Module()

	require.NoError(t, m.Initialize(ctx, c))
	err = m.Start(ctx, c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http listen")

	// Dispose still succeeds for a server that never served.
	assert.NoError(t, m.Dispose(ctx, c))
}
