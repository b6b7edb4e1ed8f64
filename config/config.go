// Package config holds every runtime knob: command-line flags, TAQUIN_*
// environment overrides, and values changed interactively from the shell.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultDataPath    = "./data"
	DefaultArchivePath = "./taquin.db"
	DefaultOrder       = "UDLR"
	DefaultMaxDepth    = 20
	DefaultMemFraction = 0.05
	DefaultConfidence  = 95.0
)

type Config struct {
	v    *viper.Viper
	args []string
}

// Load parses flags and the environment into the config. Leftover
// positional arguments are available through Args.
func (c *Config) Load(args []string) error {
	c.v = viper.New()

	fs := pflag.NewFlagSet("taquin", pflag.ContinueOnError)
	fs.Bool("debug", false, "debug logging on")
	fs.String("data-path", DefaultDataPath, "directory puzzle files are resolved against")
	fs.String("archive-path", DefaultArchivePath, "sqlite file solves are archived to")
	fs.String("default-order", DefaultOrder, "move order used when a solve omits one")
	fs.Int("max-depth", DefaultMaxDepth, "depth bound for depth-first search")
	fs.Float64("mem-fraction", DefaultMemFraction, "share of system memory for the visited registry")
	fs.Float64("confidence", DefaultConfidence, "confidence level for benchmark intervals, in percent")
	fs.Int("bench-workers", 0, "benchmark worker count, 0 means one per cpu")
	fs.String("cpu-profile", "", "write cpu profile to file")
	fs.String("mem-profile", "", "write memory profile to file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()

	if err := c.v.BindPFlags(fs); err != nil {
		return err
	}
	c.v.SetEnvPrefix("taquin")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	// an optional config.yaml under data-path; explicit flags and env
	// still win over it
	c.v.SetConfigName("config")
	c.v.SetConfigType("yaml")
	c.v.AddConfigPath(c.v.GetString("data-path"))
	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}

// Write persists the current settings to config.yaml under data-path.
// The shell's setconfig command calls this after changing a value.
func (c *Config) Write() error {
	dir := c.v.GetString("data-path")
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}
	return c.v.WriteConfigAs(filepath.Join(dir, "config.yaml"))
}

// Args returns the positional arguments left after flag parsing.
func (c *Config) Args() []string {
	return c.args
}

func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// Set overrides a known setting at runtime; the shell's set command goes
// through here.
func (c *Config) Set(key string, value any) error {
	if c.v.Get(key) == nil {
		return fmt.Errorf("unknown setting %q", key)
	}
	c.v.Set(key, value)
	return nil
}

// SanitizedSettings returns a copy of every setting for display. Nothing
// in here is secret yet; the copy keeps callers away from viper state.
func (c *Config) SanitizedSettings() map[string]any {
	return c.v.AllSettings()
}

// AdjustRelativePaths anchors relative path settings at the executable's
// directory, so the binary behaves the same no matter where it is invoked
// from.
func (c *Config) AdjustRelativePaths(basepath string) {
	for _, key := range []string{"data-path", "archive-path"} {
		current := c.v.GetString(key)
		adjusted := toAbsPath(basepath, current)
		if adjusted != current {
			log.Info().Str(key, adjusted).Msg("adjusted relative path")
			c.v.Set(key, adjusted)
		}
	}
}

func toAbsPath(basepath, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(basepath, path)
}
