// Package config loads kyac settings from kyac.toml or kyac.yaml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config file names, in lookup order.
var FileNames = []string{"kyac.toml", "kyac.yaml", "kyac.yml"}

// Layout output formats.
const (
	LayoutText = "text"
	LayoutYAML = "yaml"
)

// Config holds compiler settings.
type Config struct {
	// MaxErrors stops type checking after this many errors; 0 means no limit.
	MaxErrors int `toml:"max_errors" yaml:"max_errors"`

	// Jobs bounds concurrent IR generation; 0 uses GOMAXPROCS.
	Jobs int `toml:"jobs" yaml:"jobs"`

	// VerifyIR runs the IR verifier after generation.
	VerifyIR bool `toml:"verify_ir" yaml:"verify_ir"`

	Log  LogConfig  `toml:"log" yaml:"log"`
	Emit EmitConfig `toml:"emit" yaml:"emit"`
}

type LogConfig struct {
	Level string `toml:"level" yaml:"level"` // debug, info, warn or error
}

type EmitConfig struct {
	LayoutFormat string `toml:"layout_format" yaml:"layout_format"` // text or yaml
}

// Default returns the settings used without a config file.
func Default() *Config {
	return &Config{
		MaxErrors: 10,
		VerifyIR:  true,
		Log:       LogConfig{Level: "warn"},
		Emit:      EmitConfig{LayoutFormat: LayoutText},
	}
}

// Load reads the config file at path over the defaults. The format is
// chosen by extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	c := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = c.decodeTOML(data)
	case ".yaml", ".yml":
		err = c.decodeYAML(data)
	default:
		return nil, fmt.Errorf("config: %s: unknown format %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

func (c *Config) decodeTOML(data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(c)
}

func (c *Config) decodeYAML(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	if c.MaxErrors < 0 {
		return fmt.Errorf("max_errors must not be negative (got %d)", c.MaxErrors)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative (got %d)", c.Jobs)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch c.Emit.LayoutFormat {
	case LayoutText, LayoutYAML:
	default:
		return fmt.Errorf("emit.layout_format must be %q or %q (got %q)", LayoutText, LayoutYAML, c.Emit.LayoutFormat)
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (zapcore.Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return l, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}

// Find looks for a config file in dir and its parents and returns the
// first match, or "" if there is none.
func Find(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
