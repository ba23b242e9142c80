package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.env")
	require.NoError(t, os.WriteFile(path, []byte("CFGTEST_MODEL=from-file\nCFGTEST_STORE=redis\n"), 0o600))

	t.Setenv("CFGTEST_STORE", "memory")
	t.Cleanup(func() { _ = os.Unsetenv("CFGTEST_MODEL") })

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "from-file", os.Getenv("CFGTEST_MODEL"))
	assert.Equal(t, "memory", os.Getenv("CFGTEST_STORE"), "process environment wins")
}

func TestLoadEnvMissingExplicitFile(t *testing.T) {
	assert.Error(t, LoadEnv(filepath.Join(t.TempDir(), "missing.env")))
}

type sampleConfig struct {
	Addr    string `envconfig:"CFGTEST_ADDR" default:":8001"`
	Retries int    `envconfig:"CFGTEST_RETRIES" default:"2"`
}

func TestNew(t *testing.T) {
	t.Setenv("CFGTEST_RETRIES", "5")

	cfg, err := New[sampleConfig]("")
	require.NoError(t, err)
	assert.Equal(t, ":8001", cfg.Addr)
	assert.Equal(t, 5, cfg.Retries)

	t.Setenv("CFGTEST_RETRIES", "many")
	_, err = New[sampleConfig]("")
	assert.Error(t, err)
	assert.Panics(t, func() { MustNew[sampleConfig]("") })
}
