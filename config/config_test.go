package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	c := &Config{}
	err := c.Load(nil)
	assert.Nil(t, err)
	assert.False(t, c.GetBool("debug"))
	assert.Equal(t, DefaultOrder, c.GetString("default-order"))
	assert.Equal(t, DefaultMaxDepth, c.GetInt("max-depth"))
	assert.Equal(t, DefaultMemFraction, c.GetFloat64("mem-fraction"))
}

func TestLoadFlags(t *testing.T) {
	c := &Config{}
	err := c.Load([]string{"--debug", "--max-depth", "25", "solve", "bfs"})
	assert.Nil(t, err)
	assert.True(t, c.GetBool("debug"))
	assert.Equal(t, 25, c.GetInt("max-depth"))
	assert.Equal(t, []string{"solve", "bfs"}, c.Args())
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("TAQUIN_MAX_DEPTH", "31")
	c := &Config{}
	err := c.Load(nil)
	assert.Nil(t, err)
	assert.Equal(t, 31, c.GetInt("max-depth"))
}

func TestSet(t *testing.T) {
	c := &Config{}
	err := c.Load(nil)
	assert.Nil(t, err)

	err = c.Set("max-depth", 12)
	assert.Nil(t, err)
	assert.Equal(t, 12, c.GetInt("max-depth"))

	err = c.Set("no-such-knob", 1)
	assert.NotNil(t, err)
}

func TestAdjustRelativePaths(t *testing.T) {
	c := &Config{}
	err := c.Load([]string{"--data-path", "./puzzles"})
	assert.Nil(t, err)

	base := t.TempDir()
	c.AdjustRelativePaths(base)
	assert.Equal(t, filepath.Join(base, "puzzles"), c.GetString("data-path"))

	// absolute paths are left alone
	abs := filepath.Join(base, "elsewhere.db")
	assert.Nil(t, c.Set("archive-path", abs))
	c.AdjustRelativePaths(base)
	assert.Equal(t, abs, c.GetString("archive-path"))
}

func TestSanitizedSettings(t *testing.T) {
	c := &Config{}
	err := c.Load(nil)
	assert.Nil(t, err)
	settings := c.SanitizedSettings()
	assert.Contains(t, settings, "max-depth")
	assert.Contains(t, settings, "data-path")
}

func TestWriteAndReload(t *testing.T) {
	dir := t.TempDir()
	c := &Config{}
	err := c.Load([]string{"--data-path", dir})
	assert.Nil(t, err)
	assert.Nil(t, c.Set("max-depth", 42))
	assert.Nil(t, c.Write())

	reloaded := &Config{}
	err = reloaded.Load([]string{"--data-path", dir})
	assert.Nil(t, err)
	assert.Equal(t, 42, reloaded.GetInt("max-depth"))

	// an explicit flag still wins over the config file
	flagged := &Config{}
	err = flagged.Load([]string{"--data-path", dir, "--max-depth", "7"})
	assert.Nil(t, err)
	assert.Equal(t, 7, flagged.GetInt("max-depth"))
}
