// Package config loads valmatch settings from a config file, VALMATCH_* env
// variables and built-in defaults, in that order of precedence after flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/log"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Payload  PayloadConfig  `mapstructure:"payload"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Rank     RankConfig     `mapstructure:"rank"`
	Log      LogConfig      `mapstructure:"logging"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type CatalogConfig struct {
	// Empty uses the built-in catalog.
	Path string `mapstructure:"path"`
}

type PayloadConfig struct {
	Dir string `mapstructure:"dir"`
}

type EngineConfig struct {
	Workers    int  `mapstructure:"workers"`
	Sequential bool `mapstructure:"sequential"`
}

type RankConfig struct {
	// Rank service base URL; empty uses cached tiers only.
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
	// Rank service lookups per second; 0 disables pacing.
	RateLimit int `mapstructure:"rate_limit"`
}

type LogConfig struct {
	Level log.Level `mapstructure:"level"`
	File  string    `mapstructure:"file"`
}

const (
	appName   = "valmatch"
	appDir    = ".valmatch"
	envPrefix = "VALMATCH"
)

// Read loads the configuration. An explicit cfgFile must exist; without one,
// valmatch.yaml is searched in ~/.valmatch and the working directory, and a
// missing file leaves the defaults in place.
func Read(cfgFile string) (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, fmt.Errorf("find home dir: %w", err)
	}

	v := viper.New()
	setDefaults(v, home)

	v.AddConfigPath(filepath.Join(home, appDir))
	v.AddConfigPath(".")
	v.SetConfigName(appName)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", cfgFile, err)
		}
	} else if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config file format: %w", err)
	}

	for _, p := range []*string{&cfg.Database.Path, &cfg.Catalog.Path, &cfg.Payload.Dir, &cfg.Log.File} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return nil, fmt.Errorf("expand path %q: %w", *p, err)
		}
		*p = expanded
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, home string) {
	base := filepath.Join(home, appDir)
	v.SetDefault("database.path", filepath.Join(base, "valmatch.db"))
	v.SetDefault("catalog.path", "")
	v.SetDefault("payload.dir", filepath.Join(base, "matches"))
	v.SetDefault("engine.workers", 3)
	v.SetDefault("engine.sequential", false)
	v.SetDefault("rank.url", "")
	v.SetDefault("rank.api_key", "")
	v.SetDefault("rank.rate_limit", 5)
	v.SetDefault("logging.level", string(log.Warn))
	v.SetDefault("logging.file", "")
}
