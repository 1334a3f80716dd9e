package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/gridterm/config"
)

func testLogConfig(t *testing.T) config.Log {
	return config.Log{Level: "info", File: filepath.Join(t.TempDir(), "logs", "gridterm.log")}
}

func TestSetupLoggingDisabledByDefault(t *testing.T) {
	cfg := testLogConfig(t)
	log, f := setupLogging(cfg, false)
	assert.Nil(t, f)
	assert.Equal(t, io.Discard, log.Out)

	_, err := os.Stat(cfg.File)
	assert.True(t, os.IsNotExist(err))
}

func TestSetupLoggingEnabledWithDebug(t *testing.T) {
	cfg := testLogConfig(t)
	log, f := setupLogging(cfg, true)
	require.NotNil(t, f)
	defer f.Close()

	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.NotEqual(t, os.Stdout, log.Out)
	assert.NotEqual(t, os.Stderr, log.Out)

	log.Info("test message")
	data, err := os.ReadFile(cfg.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), "test message")
}

func TestSetupLoggingFromConfig(t *testing.T) {
	cfg := testLogConfig(t)
	cfg.Debug = true
	cfg.Level = "warn"
	log, f := setupLogging(cfg, false)
	require.NotNil(t, f)
	defer f.Close()
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())
}

func TestSetupLoggingRotation(t *testing.T) {
	cfg := testLogConfig(t)
	dir := filepath.Dir(cfg.File)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(cfg.File, make([]byte, maxLogSize+1), 0o644))

	_, f := setupLogging(cfg, true)
	require.NotNil(t, f)
	defer f.Close()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var rotated bool
	for _, e := range entries {
		if e.Name() != "gridterm.log" && filepath.Ext(e.Name()) == ".log" {
			rotated = true
		}
	}
	assert.True(t, rotated, "expected a rotated log file")

	info, err := os.Stat(cfg.File)
	require.NoError(t, err)
	assert.Less(t, info.Size(), int64(maxLogSize))
}
