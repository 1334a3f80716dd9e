package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/gridterm/graphics"
	"github.com/lixenwraith/gridterm/terminal"
)

func TestParseDefaults(t *testing.T) {
	f, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, Default(), f)
	assert.Nil(t, f.Size())
}

func TestParseFull(t *testing.T) {
	f, err := Parse(`
backend = "termios"
width = 100
height = 30
color_schema = true
title = "demo"

[log]
level = "debug"
file = "/tmp/x.log"
debug = true
`)
	require.NoError(t, err)
	assert.Equal(t, "termios", f.Backend)
	assert.Equal(t, &graphics.Size{Width: 100, Height: 30}, f.Size())
	assert.True(t, f.ColorSchema)
	assert.Equal(t, Log{Level: "debug", File: "/tmp/x.log", Debug: true}, f.Log)

	cfg, err := f.ToTerminal(logrus.New())
	require.NoError(t, err)
	assert.Equal(t, terminal.TypeTermios, cfg.Type)
	assert.True(t, cfg.UseColorSchema)
	assert.Equal(t, "demo", cfg.Title)
	assert.Empty(t, cfg.DebugScript)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		msg  string
	}{
		{"syntax", "backend = ", "decode config"},
		{"unknown key", "colour = true", "unknown config keys: colour"},
		{"bad backend", `backend = "hologram"`, "unknown backend type"},
		{"negative size", "width = -1\nheight = 4", "must not be negative"},
		{"half size", "width = 10", "must be set together"},
		{"bad level", "[log]\nlevel = \"loud\"", "log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.doc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadWithScript(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "run.script")
	require.NoError(t, os.WriteFile(script, []byte("Paint(start)\n"), 0o644))
	path := filepath.Join(dir, "gridterm.toml")
	require.NoError(t, os.WriteFile(path, []byte("script = \""+filepath.ToSlash(script)+"\"\nwidth = 20\nheight = 10\n"), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	cfg, err := f.ToTerminal(nil)
	require.NoError(t, err)
	assert.Equal(t, "Paint(start)\n", cfg.DebugScript)
	assert.Equal(t, &graphics.Size{Width: 20, Height: 10}, cfg.Size)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
