package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix = "TASKS_"

	// ConfigFileEnv names an optional YAML file layered over the defaults.
	ConfigFileEnv = "TASKS_CONFIG_FILE"

	// DatabaseURLEnv is read when database.url is not set any other way.
	DatabaseURLEnv = "DATABASE_URL"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config     *Config
	configFile string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithConfigFile sets the YAML file to read. It takes precedence over
// TASKS_CONFIG_FILE.
func WithConfigFile(path string) LoaderOption {
	return func(l *Loader) { l.configFile = path }
}

// NewLoader creates a new configuration loader
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{config: NewConfig()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load layers configuration, later sources winning:
//
//  1. defaults from NewConfig
//  2. the YAML file from WithConfigFile or TASKS_CONFIG_FILE, if any
//  3. TASKS_* environment variables
//
// DATABASE_URL fills database.url when none of the above set it.
func (l *Loader) Load() (*Config, error) {
	config, err := l.load()
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (l *Loader) load() (*Config, error) {
	k := koanf.New(".")

	configFile := l.configFile
	if configFile == "" {
		configFile = os.Getenv(ConfigFileEnv)
	}
	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", configFile, err)
		}
	}

	envLookup := buildEnvLookup(knownKeys)
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			if koanfKey, ok := envLookup[key]; ok {
				return koanfKey, value
			}
			return strings.ReplaceAll(key, "_", "."), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	if err := k.UnmarshalWithConf("", l.config, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if l.config.Database.URL == "" {
		l.config.Database.URL = os.Getenv(DatabaseURLEnv)
	}

	return l.config, nil
}

// LoadWithOverrides loads configuration and applies command line overrides.
// Validation runs once, after the overrides.
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		l.applyOverrides(config, overrides)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ConfigOverrides holds command line flag overrides. Nil fields are left alone.
type ConfigOverrides struct {
	Driver         *string
	DBDir          *string
	DBFilename     *string
	DBURL          *string
	DBQueryTimeout *time.Duration

	LogLevel  *string
	LogFormat *string
}

func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	if overrides.Driver != nil {
		config.Database.Driver = *overrides.Driver
	}
	if overrides.DBDir != nil {
		config.Database.Dir = *overrides.DBDir
	}
	if overrides.DBFilename != nil {
		config.Database.Filename = *overrides.DBFilename
	}
	if overrides.DBURL != nil {
		config.Database.URL = *overrides.DBURL
	}
	if overrides.DBQueryTimeout != nil {
		config.Database.QueryTimeout = *overrides.DBQueryTimeout
	}
	if overrides.LogLevel != nil {
		config.Log.Level = *overrides.LogLevel
	}
	if overrides.LogFormat != nil {
		config.Log.Format = *overrides.LogFormat
	}
}

// buildEnvLookup maps env-style keys ("database_query_timeout") to koanf
// keys ("database.query_timeout").
func buildEnvLookup(keys []string) map[string]string {
	lookup := make(map[string]string, len(keys))
	for _, key := range keys {
		lookup[strings.ReplaceAll(key, ".", "_")] = key
	}
	return lookup
}
