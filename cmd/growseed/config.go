package main

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the optional settings growseed reads from a TOML file
// before falling back to flag/CLI defaults.
type Config struct {
	// Dialect is the default surface syntax used when -d/--dialect is not
	// given on the command line: "canonical" or "bpeg".
	Dialect string `toml:"dialect"`

	// MaxBootstrapIterations overrides internal/bootstrap.MaxIterations for
	// this run. Zero means "use the package default".
	MaxBootstrapIterations int `toml:"max_bootstrap_iterations"`

	// Prompt is the REPL prompt string used in interactive mode.
	Prompt string `toml:"prompt"`
}

// defaultConfig is used whenever no config file is found or given; it is not
// itself written to disk.
func defaultConfig() Config {
	return Config{
		Dialect: "canonical",
		Prompt:  "growseed> ",
	}
}

// loadConfig reads a TOML config file at path, overlaying its fields onto
// defaultConfig(). A missing file at the default path is not an error; an
// explicitly-named missing file is.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := defaultConfig()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
