package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestFileSource_YAMLWithTOMLProfile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "application.yaml", `
server:
  addr: ":8080"
  readTimeout: 5s
modules:
  web:
    required: true
`)
	writeFile(t, dir, "application.prod.toml", `
[server]
addr = ":80"

[modules.greeter]
enabled = false
`)

	got, err := (&FileSource{BasePath: dir, Profile: "prod"}).Load(context.Background())
	require.NoError(t, err)

	server := got["server"].(map[string]any)
	assert.Equal(t, ":80", server["addr"])
	assert.Equal(t, "5s", server["readTimeout"])

	modules := got["modules"].(map[string]any)
	assert.Equal(t, true, modules["web"].(map[string]any)["required"])
	assert.Equal(t, false, modules["greeter"].(map[string]any)["enabled"])
}

func TestFileSource_MissingProfileIgnored(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "application.yml", "app:\n  name: demo\n")

	got, err := (&FileSource{BasePath: dir, Profile: "staging"}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"app": map[string]any{"name": "demo"}}, got)
}

func TestFileSource_MissingBase(t *testing.T) {
	_, err := (&FileSource{BasePath: t.TempDir()}).Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileSource_ParseError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "application.toml", "[server\naddr = ")

	_, err := (&FileSource{BasePath: dir}).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestFileSource_YAMLPreferredOverTOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "application.yaml", "app:\n  name: from-yaml\n")
	writeFile(t, dir, "application.toml", "[app]\nname = \"from-toml\"\n")

	got, err := (&FileSource{BasePath: dir}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-yaml", got["app"].(map[string]any)["name"])
}
