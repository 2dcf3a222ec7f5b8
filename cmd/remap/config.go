package main

import (
	"github.com/BurntSushi/toml"
	"github.com/influxdata/remap/logger"
	"github.com/pkg/errors"
)

// Config is the optional TOML configuration file. Its values are the
// defaults of the matching flags and environment variables.
//
//	program = "nginx.yml"
//	input-format = "json"
//	workers = 4
//	partition-key = ".host"
//
//	[logging]
//	  format = "logfmt"
//	  level = "debug"
type Config struct {
	Program      string        `toml:"program"`
	InputFormat  string        `toml:"input-format"`
	Workers      int           `toml:"workers"`
	PartitionKey string        `toml:"partition-key"`
	Logging      logger.Config `toml:"logging"`
}

// NewConfig returns the configuration used without a config file.
func NewConfig() Config {
	return Config{
		InputFormat: "json",
		Logging:     logger.NewConfig(),
	}
}

// LoadConfig reads the TOML file at path over the defaults.
func LoadConfig(path string) (Config, error) {
	c := NewConfig()
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return c, errors.Wrapf(err, "failed loading config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return c, errors.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}
	return c, nil
}

// defaults maps flag names to the values set in the file.
func (c Config) defaults() map[string]interface{} {
	d := map[string]interface{}{
		"log-format": c.Logging.Format,
		"log-level":  c.Logging.Level.String(),
	}
	if c.Program != "" {
		d["program"] = c.Program
	}
	if c.InputFormat != "" {
		d["input-format"] = c.InputFormat
	}
	if c.Workers > 0 {
		d["workers"] = c.Workers
	}
	if c.PartitionKey != "" {
		d["partition-key"] = c.PartitionKey
	}
	return d
}
