package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gotaylor/series"
)

func TestLoadEmptyPathYieldsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, series.DefaultDomain, cfg.Domain)
	assert.Equal(t, 250*time.Millisecond, time.Duration(cfg.Debounce))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taylor.yaml")
	src := `
domain:
  min: -2
  max: 2
  step: 0.5
bound: 10
defaults:
  function: cos(x)
  center: 1
  order: 4
debounce: 100ms
server:
  addr: 127.0.0.1:9000
trace: debug
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, series.Domain{Min: -2, Max: 2, Step: 0.5}, cfg.Domain)
	assert.Equal(t, 10.0, cfg.Bound)
	assert.Equal(t, "cos(x)", cfg.Defaults.Function)
	assert.Equal(t, 1.0, cfg.Defaults.Center)
	assert.Equal(t, 4, cfg.Defaults.Order)
	assert.Equal(t, 100*time.Millisecond, time.Duration(cfg.Debounce))
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)

	lvl, err := ParseLevel(cfg.Trace)
	require.NoError(t, err)
	assert.Equal(t, tracing.LevelDebug, lvl)

	res, err := cfg.Engine().Compute(cfg.Defaults)
	require.NoError(t, err)
	assert.Len(t, res.Series, 8)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("trace: info\n"))
	require.NoError(t, err)
	assert.Equal(t, series.DefaultDomain, cfg.Domain)
	assert.Equal(t, Default().Defaults, cfg.Defaults)
	assert.Equal(t, "info", cfg.Trace)
}

func TestInvalid(t *testing.T) {
	for _, src := range []string{
		"domain: {min: 1, max: 0, step: 0.1}",
		"domain: {min: 0, max: 1, step: 0}",
		"bound: -1",
		"defaults: {order: 11}",
		"debounce: soon",
		"trace: verbose",
		"domain: [1, 2]",
	} {
		_, err := Parse([]byte(src))
		assert.ErrorIs(t, err, ErrInvalidConfig, src)
	}
}

func TestMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
