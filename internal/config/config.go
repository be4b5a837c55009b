// Package config loads grammarq settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultFile is the config file that is read when no other one is given.
const DefaultFile = "gq.toml"

// Config holds every setting that can be given in a config file.
type Config struct {
	Produce Produce `toml:"produce"`
	Compare Compare `toml:"compare"`
	Cache   Cache   `toml:"cache"`
	Server  Server  `toml:"server"`
}

// Produce holds settings for listing the words of a grammar.
type Produce struct {
	// Limit is the number of words listed when no count is given.
	Limit int `toml:"limit"`
}

// Compare holds settings for comparing two grammars.
type Compare struct {
	// Limit is the number of words taken from each grammar when no count is
	// given.
	Limit int `toml:"limit"`
}

// Cache holds settings for the compiled grammar cache.
type Cache struct {
	// Path is the SQLite file that compiled grammars are kept in. The cache is
	// disabled if it is empty.
	Path string `toml:"path"`
}

// Server holds settings for gqserver.
type Server struct {
	Listen        string `toml:"listen"`
	DB            string `toml:"db"`
	UnauthDelayMS int    `toml:"unauth_delay_ms"`
	Secret        string `toml:"secret"`
}

// Default returns the Config used when no config file exists.
func Default() Config {
	return Config{
		Produce: Produce{Limit: 20},
		Compare: Compare{Limit: 1000},
		Server: Server{
			Listen:        "localhost:8080",
			DB:            "inmem",
			UnauthDelayMS: 1000,
		},
	}
}

// Load reads the config file at path. Settings the file leaves out keep their
// default values. If path is empty, DefaultFile is read, and it is not an
// error for DefaultFile to not exist.
func Load(path string) (Config, error) {
	cfg := Default()

	optional := path == ""
	if optional {
		path = DefaultFile
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i := range undec {
			keys[i] = undec[i].String()
		}
		return Config{}, fmt.Errorf("load config: %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %s: %w", path, err)
	}

	return cfg, nil
}

// Validate returns an error if any setting in cfg has an invalid value.
func (cfg Config) Validate() error {
	if cfg.Produce.Limit < 1 {
		return fmt.Errorf("produce.limit: must be at least 1 but is %d", cfg.Produce.Limit)
	}
	if cfg.Compare.Limit < 1 {
		return fmt.Errorf("compare.limit: must be at least 1 but is %d", cfg.Compare.Limit)
	}
	if cfg.Server.Listen != "" && !strings.Contains(cfg.Server.Listen, ":") {
		return fmt.Errorf("server.listen: not in ADDRESS:PORT or :PORT format: %q", cfg.Server.Listen)
	}
	return nil
}

// Write writes cfg to path in TOML format.
func (cfg Config) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return f.Close()
}
