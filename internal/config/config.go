// Package config loads application settings from defaults, an optional
// YAML file and COURSEWALK_* environment variables, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes every environment override, e.g. COURSEWALK_DB or
// COURSEWALK_AUTOPLAY_SPEED.
const EnvPrefix = "COURSEWALK"

type Config struct {
	// Course is the path of the course file to open.
	Course string `mapstructure:"course"`

	// DB is the SQLite database path. Empty selects the default location.
	DB string `mapstructure:"db"`

	// StoragePrefix overrides the course's own storage prefix.
	StoragePrefix string `mapstructure:"storage_prefix"`

	Navigation NavigationConfig `mapstructure:"navigation"`
	Autoplay   AutoplayConfig   `mapstructure:"autoplay"`
	Context    ContextConfig    `mapstructure:"context"`
	Ask        AskConfig        `mapstructure:"ask"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Log        LogConfig        `mapstructure:"log"`
}

type NavigationConfig struct {
	Cooldown       time.Duration `mapstructure:"cooldown"`
	WheelThreshold float64       `mapstructure:"wheel_threshold"`
	TouchThreshold float64       `mapstructure:"touch_threshold"`
}

type AutoplayConfig struct {
	Speed time.Duration `mapstructure:"speed"`
	Min   time.Duration `mapstructure:"min"`
	Max   time.Duration `mapstructure:"max"`
	Step  time.Duration `mapstructure:"step"`
}

type ContextConfig struct {
	// Window is the number of preceding turns sent with a question.
	Window int `mapstructure:"window"`
}

type AskConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// LLMConfig picks the AI tutor backend. Leaving Provider empty lets the
// vendors' own key variables decide.
type LLMConfig struct {
	Provider string      `mapstructure:"provider"`
	Model    string      `mapstructure:"model"`
	APIKey   string      `mapstructure:"api_key"`
	BaseURL  string      `mapstructure:"base_url"`
	Retry    RetryConfig `mapstructure:"retry"`
}

type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Multiplier  float64       `mapstructure:"multiplier"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("course", "")
	v.SetDefault("db", "")
	v.SetDefault("storage_prefix", "")

	v.SetDefault("navigation.cooldown", 300*time.Millisecond)
	v.SetDefault("navigation.wheel_threshold", 0.0)
	v.SetDefault("navigation.touch_threshold", 50.0)

	v.SetDefault("autoplay.speed", 3*time.Second)
	v.SetDefault("autoplay.min", time.Second)
	v.SetDefault("autoplay.max", 8*time.Second)
	v.SetDefault("autoplay.step", 500*time.Millisecond)

	v.SetDefault("context.window", 5)
	v.SetDefault("ask.timeout", 60*time.Second)

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.retry.max_attempts", 3)
	v.SetDefault("llm.retry.initial_wait", time.Second)
	v.SetDefault("llm.retry.max_wait", 10*time.Second)
	v.SetDefault("llm.retry.multiplier", 2.0)

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

// DefaultDir returns the directory searched for config.yaml:
// $XDG_CONFIG_HOME/coursewalk, falling back to ~/.config/coursewalk.
func DefaultDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "coursewalk")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "coursewalk")
}

// Load reads the configuration. An explicit path must exist; without one
// config.yaml in DefaultDir is used when present.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultDir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration with no file and no environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Validate checks the settings for values no component can work with.
func (c *Config) Validate() error {
	var errs []error
	if c.Navigation.Cooldown < 0 {
		errs = append(errs, fmt.Errorf("navigation.cooldown must not be negative"))
	}
	if c.Navigation.WheelThreshold < 0 {
		errs = append(errs, fmt.Errorf("navigation.wheel_threshold must not be negative"))
	}
	if c.Navigation.TouchThreshold < 0 {
		errs = append(errs, fmt.Errorf("navigation.touch_threshold must not be negative"))
	}
	a := c.Autoplay
	if a.Min <= 0 || a.Max < a.Min {
		errs = append(errs, fmt.Errorf("autoplay bounds [%s, %s] are invalid", a.Min, a.Max))
	} else if a.Speed < a.Min || a.Speed > a.Max {
		errs = append(errs, fmt.Errorf("autoplay.speed %s is outside [%s, %s]", a.Speed, a.Min, a.Max))
	}
	if a.Step <= 0 {
		errs = append(errs, fmt.Errorf("autoplay.step must be positive"))
	}
	if c.Context.Window < 0 {
		errs = append(errs, fmt.Errorf("context.window must not be negative"))
	}
	if r := c.LLM.Retry; r.MaxAttempts < 1 || r.InitialWait <= 0 || r.Multiplier < 1 {
		errs = append(errs, fmt.Errorf("llm.retry needs max_attempts >= 1, a positive initial_wait and multiplier >= 1"))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
