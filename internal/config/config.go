// Package config loads dupfind's settings from, in order of
// precedence, CLI overrides, DUPFIND_* environment variables,
// ./.dupfind.yaml, and ~/.dupfind.yaml, falling back to struct defaults.
// Modeled on quantmind-br-gendocs/internal/config/loader.go's
// viper+godotenv+mapstructure precedence chain, scaled down to this
// domain's handful of knobs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every tunable dupfind needs, independent of how it was
// sourced.
type Config struct {
	LowerLimit int64    `mapstructure:"lower_limit"`
	UpperLimit int64    `mapstructure:"upper_limit"`
	Workers    int      `mapstructure:"workers"`
	CachePath  string   `mapstructure:"cache_path"`
	Excludes   []string `mapstructure:"excludes"`
	LogFormat  string   `mapstructure:"log_format"`
}

func defaults() Config {
	return Config{
		LowerLimit: 1,
		LogFormat:  "console",
	}
}

// Load builds a Config for repoPath (used to locate ./.dupfind.yaml),
// applying overrides (as produced by CLI flag parsing) with the
// highest precedence. A .env file in the working directory, if
// present, is loaded best-effort before environment variables are
// read, so DUPFIND_* vars can be supplied without a shell export.
func Load(repoPath string, overrides map[string]any) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvPrefix("DUPFIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	def := defaults()
	v.SetDefault("lower_limit", def.LowerLimit)
	v.SetDefault("upper_limit", def.UpperLimit)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("cache_path", def.CachePath)
	v.SetDefault("excludes", def.Excludes)
	v.SetDefault("log_format", def.LogFormat)

	if err := mergeGlobalConfig(v); err != nil {
		return nil, err
	}
	if err := mergeProjectConfig(v, repoPath); err != nil {
		return nil, err
	}

	for key, value := range overrides {
		if value != nil {
			v.Set(key, value)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

func mergeGlobalConfig(v *viper.Viper) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	path := filepath.Join(home, ".dupfind.yaml")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

func mergeProjectConfig(v *viper.Viper, repoPath string) error {
	if repoPath == "" {
		repoPath = "."
	}
	path := filepath.Join(repoPath, ".dupfind.yaml")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}
