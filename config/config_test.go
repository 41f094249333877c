package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissing(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "basm.toml"))
	require.NoError(t, err)

	assert.Equal(t, Default(), c)
	assert.Equal(t, -1, c.Run.Cycles)
}

func TestLoad(t *testing.T) {
	name := filepath.Join(t.TempDir(), "basm.toml")

	err := os.WriteFile(name, []byte(`
[run]
cycles = 1000
perf = true

[log]
verbosity = "exec,link"
`), 0o644)
	require.NoError(t, err)

	c, err := Load(name)
	require.NoError(t, err)

	assert.Equal(t, Config{
		Run: Run{Cycles: 1000, Perf: true},
		Log: Log{Verbosity: "exec,link"},
	}, c)
}

func TestParsePartial(t *testing.T) {
	c, err := Parse([]byte("[run]\ncoverage = true\n"))
	require.NoError(t, err)

	assert.Equal(t, -1, c.Run.Cycles)
	assert.True(t, c.Run.Coverage)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("[run]\ncycels = 10\n"))
	assert.ErrorIs(t, err, ErrUnknownKey)

	_, err = Parse([]byte("[run\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("[run]\ncycles = \"many\"\n"))
	assert.Error(t, err)
}
