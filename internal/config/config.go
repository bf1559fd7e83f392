// Package config loads verstamp configuration from the environment and an
// optional config file. All environment coupling lives here: the core
// pipeline receives resolved values at construction and never reads the
// environment mid-algorithm.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/sufield/verstamp/internal/core/section"
)

// EnvPrefix is the prefix for all verstamp environment variables, e.g.
// VERSTAMP_BUFFER_SIZE, VERSTAMP_BUILD_TIME, VERSTAMP_OBJCOPY.
const EnvPrefix = "VERSTAMP"

// Config carries the resolved settings for one invocation.
type Config struct {
	// BufferSize is the total section buffer size in bytes. The format's
	// uint16 end offsets bound it to HeaderSize+65535.
	BufferSize int `mapstructure:"buffer_size" validate:"gte=18,lte=65553"`

	// SectionName is the object-file section holding the buffer. It must
	// match the reading runtime exactly.
	SectionName string `mapstructure:"section_name" validate:"required"`

	// Objcopy names the section-editing tool; empty means discover
	// llvm-objcopy or objcopy on PATH.
	Objcopy string `mapstructure:"objcopy"`

	// BuildTime overrides the build-time clock for reproducible builds.
	// Accepts integer epoch seconds or an RFC 3339 datetime; validity is
	// checked when the clock is constructed.
	BuildTime string `mapstructure:"build_time"`

	// Strict promotes provider unavailability from a warning to a fatal
	// error.
	Strict bool `mapstructure:"strict"`
}

// Load resolves configuration from defaults, an optional config file, and
// VERSTAMP_* environment variables, in increasing precedence. configFile may
// be empty.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("buffer_size", section.DefaultBufferSize)
	v.SetDefault("section_name", section.DefaultSectionName)
	v.SetDefault("objcopy", "")
	v.SetDefault("build_time", "")
	v.SetDefault("strict", false)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		messages := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			messages = append(messages, describeFieldError(fe))
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
	}
	return fmt.Errorf("invalid configuration: %w", err)
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Field() {
	case "BufferSize":
		return fmt.Sprintf("buffer size %v must be between 18 and 65553 bytes", fe.Value())
	case "SectionName":
		return "section name must not be empty"
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
