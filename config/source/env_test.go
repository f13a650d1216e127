package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvSource_Load(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		environ []string
		want    map[string]any
	}{
		{
			name:    "default prefix",
			environ: []string{"MODHOST_SERVER_ADDR=:9090", "HOME=/root", "PATH=/bin"},
			want:    map[string]any{"server": map[string]any{"addr": ":9090"}},
		},
		{
			name:    "custom prefix",
			prefix:  "APP_",
			environ: []string{"APP_LOGGING_LEVEL=debug", "MODHOST_SERVER_ADDR=:1"},
			want:    map[string]any{"logging": map[string]any{"level": "debug"}},
		},
		{
			name:    "module settings",
			environ: []string{"MODHOST_MODULES_GREETER_ENABLED=false", "MODHOST_MODULES_GREETER_DEPENDSON=web,auth"},
			want: map[string]any{"modules": map[string]any{
				"greeter": map[string]any{"enabled": "false", "dependson": "web,auth"},
			}},
		},
		{
			name:    "value with equals sign",
			environ: []string{"MODHOST_APP_NAME=a=b"},
			want:    map[string]any{"app": map[string]any{"name": "a=b"}},
		},
		{
			name:    "bare prefix and doubled underscores",
			environ: []string{"MODHOST_=x", "MODHOST_SERVER__ADDR=:1"},
			want:    map[string]any{"server": map[string]any{"addr": ":1"}},
		},
		{
			name:    "first leaf wins over a parent",
			environ: []string{"MODHOST_DB=sqlite", "MODHOST_DB_HOST=localhost"},
			want:    map[string]any{"db": "sqlite"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &EnvSource{Prefix: tt.prefix, Environ: func() []string { return tt.environ }}
			got, err := src.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnvSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&EnvSource{}).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
