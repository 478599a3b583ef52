// Package config loads statement-building options from YAML.
package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Konsultn-Engineering/sqlinterp/cache"
	"github.com/Konsultn-Engineering/sqlinterp/dialect"
	"github.com/Konsultn-Engineering/sqlinterp/params"
	"github.com/Konsultn-Engineering/sqlinterp/query"
	"github.com/Konsultn-Engineering/sqlinterp/template"
)

// Naming schemes.
const (
	NamingSequential = "sequential"
	NamingUnique     = "unique"
)

// Config captures the options of a query builder.
type Config struct {
	Dialect        string `yaml:"dialect"`
	Naming         string `yaml:"naming"`
	NamePrefix     string `yaml:"name_prefix"`
	ArrayPrefix    string `yaml:"array_prefix"`
	ParseCacheSize int    `yaml:"parse_cache_size"`
	Debug          bool   `yaml:"debug"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Dialect:        "ansi",
		Naming:         NamingSequential,
		NamePrefix:     params.DefaultPrefix,
		ArrayPrefix:    params.DefaultArrayPrefix,
		ParseCacheSize: cache.DefaultSize,
	}
}

// Load reads configuration from a YAML file. Missing keys keep their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(data)
}

// Parse reads configuration from YAML data.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse config")
	}
	normalizeConfig(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func normalizeConfig(cfg *Config) {
	cfg.Naming = strings.ToLower(strings.TrimSpace(cfg.Naming))
	if cfg.Naming == "" {
		cfg.Naming = NamingSequential
	}
	if cfg.ParseCacheSize <= 0 {
		cfg.ParseCacheSize = cache.DefaultSize
	}
}

// Validate checks the dialect and naming scheme.
func (c Config) Validate() error {
	if _, err := dialect.ByName(c.Dialect); err != nil {
		return err
	}
	switch c.Naming {
	case NamingSequential, NamingUnique, "":
	default:
		return errors.Errorf("unknown naming scheme %q", c.Naming)
	}
	for _, prefix := range []string{c.NamePrefix, c.ArrayPrefix} {
		for i := 0; i < len(prefix); i++ {
			if !isIdentByte(prefix[i], i == 0) {
				return errors.Errorf("invalid parameter prefix %q", prefix)
			}
		}
	}
	return nil
}

func isIdentByte(c byte, first bool) bool {
	switch {
	case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		return true
	case '0' <= c && c <= '9':
		return !first
	}
	return false
}

// QueryOptions turns the configuration into query builder options.
func (c Config) QueryOptions() ([]query.Option, error) {
	d, err := dialect.ByName(c.Dialect)
	if err != nil {
		return nil, err
	}
	naming := []params.Option{params.WithPrefixes(c.NamePrefix, c.ArrayPrefix)}
	if c.Naming == NamingUnique {
		naming = append(naming, params.WithNaming(params.UniqueNames()))
	}
	return []query.Option{
		query.WithDialect(d),
		query.WithNaming(naming...),
		query.WithParser(template.NewParser(c.ParseCacheSize)),
	}, nil
}
