// Package config loads gridterm settings from a TOML file
package config

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/gridterm/graphics"
	"github.com/lixenwraith/gridterm/terminal"
)

// Log controls the CLI file logger
type Log struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
	Debug bool   `toml:"debug"`
}

// File mirrors the TOML document
// Width and Height of 0 keep the terminal size
type File struct {
	Backend     string `toml:"backend"`
	Width       int    `toml:"width"`
	Height      int    `toml:"height"`
	Script      string `toml:"script"`
	ColorSchema bool   `toml:"color_schema"`
	Title       string `toml:"title"`
	Log         Log    `toml:"log"`
}

// Default returns the settings used when no file is given
func Default() File {
	return File{
		Backend: "auto",
		Title:   "gridterm",
		Log: Log{
			Level: "info",
			File:  "logs/gridterm.log",
		},
	}
}

// Parse decodes a TOML document over the defaults, unknown keys are rejected
func Parse(data string) (File, error) {
	f := Default()
	md, err := toml.Decode(data, &f)
	if err != nil {
		return File{}, errors.Wrap(err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return File{}, errors.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Load reads and parses path
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, errors.Wrap(err, "read config")
	}
	f, err := Parse(string(data))
	if err != nil {
		return File{}, errors.Wrapf(err, "config %s", path)
	}
	return f, nil
}

// Validate checks values that decode cleanly but cannot be used
func (f File) Validate() error {
	if _, err := terminal.ParseType(f.Backend); err != nil {
		return err
	}
	if f.Width < 0 || f.Height < 0 {
		return errors.New("width and height must not be negative")
	}
	if (f.Width == 0) != (f.Height == 0) {
		return errors.New("width and height must be set together")
	}
	if _, err := logrus.ParseLevel(f.Log.Level); err != nil {
		return errors.Wrap(err, "log level")
	}
	return nil
}

// Size returns the configured size, nil when the terminal size should be used
func (f File) Size() *graphics.Size {
	if f.Width == 0 || f.Height == 0 {
		return nil
	}
	return &graphics.Size{Width: f.Width, Height: f.Height}
}

// ToTerminal builds a backend config, reading the debug script when one is named
func (f File) ToTerminal(log logrus.FieldLogger) (terminal.Config, error) {
	if err := f.Validate(); err != nil {
		return terminal.Config{}, err
	}
	typ, _ := terminal.ParseType(f.Backend)
	cfg := terminal.Config{
		Type:           typ,
		Size:           f.Size(),
		UseColorSchema: f.ColorSchema,
		Title:          f.Title,
		Logger:         log,
	}
	if f.Script != "" {
		data, err := os.ReadFile(f.Script)
		if err != nil {
			return terminal.Config{}, errors.Wrap(err, "read debug script")
		}
		cfg.DebugScript = string(data)
	}
	return cfg, nil
}
