// Package config handles basm.toml defaults for the command line tool.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"tlog.app/go/errors"
)

type (
	Config struct {
		Run Run `toml:"run"`
		Log Log `toml:"log"`
	}

	Run struct {
		// Cycles limits executed instructions. Negative means no limit.
		Cycles   int  `toml:"cycles"`
		Perf     bool `toml:"perf"`
		Coverage bool `toml:"coverage"`
		Regs     bool `toml:"regs"`
	}

	Log struct {
		// Verbosity is a tlog topic filter, like "parse,link" or "exec".
		Verbosity string `toml:"verbosity"`
	}
)

var ErrUnknownKey = errors.New("unknown config key")

func Default() Config {
	return Config{
		Run: Run{
			Cycles: -1,
		},
	}
}

// Load reads the file at path over the defaults.
// A missing file is not an error.
func Load(path string) (c Config, err error) {
	c = Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, errors.Wrap(err, "read config")
	}

	return Parse(data)
}

func Parse(data []byte) (c Config, err error) {
	c = Default()

	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return c, errors.Wrap(err, "decode config")
	}

	if keys := md.Undecoded(); len(keys) != 0 {
		return c, errors.Wrap(ErrUnknownKey, "%v", keys[0])
	}

	return c, nil
}
