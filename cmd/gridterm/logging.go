package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/gridterm/config"
)

const maxLogSize = 10 * 1024 * 1024

// setupLogging builds the process logger
// Without debug the logger discards everything, the terminal owns stdout and stderr
// With debug it appends to the configured file, rotating it first when it exceeds maxLogSize
func setupLogging(cfg config.Log, debug bool) (*logrus.Logger, *os.File) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	if !debug && !cfg.Debug {
		return log, nil
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	if debug {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return log, nil
	}
	rotateLog(cfg.File)

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return log, nil
	}
	log.SetOutput(f)
	log.WithField("pid", os.Getpid()).Info("logging started")
	return log, f
}

// rotateLog renames path to a timestamped sibling when it has grown past maxLogSize
func rotateLog(path string) {
	info, err := os.Stat(path)
	if err != nil || info.Size() <= maxLogSize {
		return
	}
	ext := filepath.Ext(path)
	base := path[:len(path)-len(ext)]
	rotated := fmt.Sprintf("%s-%s%s", base, time.Now().Format("20060102-150405"), ext)
	os.Rename(path, rotated)
}
