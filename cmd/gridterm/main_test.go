package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	w, h, err := parseSize("80x24")
	require.NoError(t, err)
	assert.Equal(t, 80, w)
	assert.Equal(t, 24, h)

	w, h, err = parseSize(" 120X40 ")
	require.NoError(t, err)
	assert.Equal(t, 120, w)
	assert.Equal(t, 40, h)

	for _, bad := range []string{"", "80", "x24", "80x", "0x10", "-5x10", "axb"} {
		_, _, err := parseSize(bad)
		assert.Error(t, err, bad)
	}
}

// parseFlags builds a bare command carrying the persistent flags and parses args
func parseFlags(t *testing.T, args ...string) (*cobra.Command, *options) {
	t.Helper()
	opts := &options{}
	cmd := &cobra.Command{Use: "test"}
	addPersistentFlags(cmd, opts)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd, opts
}

func TestResolveDefaults(t *testing.T) {
	cmd, opts := parseFlags(t)
	f, err := opts.resolve(cmd)
	require.NoError(t, err)
	assert.Equal(t, "auto", f.Backend)
	assert.Nil(t, f.Size())
	assert.False(t, f.Log.Debug)
}

func TestResolveFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridterm.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend = "termios"
width = 100
height = 30
title = "from file"
`), 0o644))

	cmd, opts := parseFlags(t, "--config", path, "--size", "40x12", "--backend", "debug", "--debug")
	f, err := opts.resolve(cmd)
	require.NoError(t, err)
	assert.Equal(t, "debug", f.Backend)
	assert.Equal(t, 40, f.Width)
	assert.Equal(t, 12, f.Height)
	assert.Equal(t, "from file", f.Title)
	assert.True(t, f.Log.Debug)
}

func TestResolveErrors(t *testing.T) {
	cmd, opts := parseFlags(t, "--size", "big")
	_, err := opts.resolve(cmd)
	assert.Error(t, err)

	cmd, opts = parseFlags(t, "--backend", "hologram")
	_, err = opts.resolve(cmd)
	assert.Error(t, err)

	cmd, opts = parseFlags(t, "--config", filepath.Join(t.TempDir(), "missing.toml"))
	_, err = opts.resolve(cmd)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRootHasSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"demo", "script", "image"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}
