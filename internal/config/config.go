// File: internal/config/config.go
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Converter() ConverterConfig
	Session() SessionConfig

	// Session Setters
	SetSessionParserMode(string)
	SetSessionDialect(string)

	// Converter Setters
	SetConverterSandboxSize(width, height int)
	SetConverterStrictCoordinates(bool)
	SetConverterCapslockMode(string)
}

// Config holds the entire application configuration. It uses private fields
// to enforce access through the Interface's getter methods.
type Config struct {
	logger    LoggerConfig
	converter ConverterConfig
	session   SessionConfig
}

// fileConfig is the exported shape mapstructure decodes into; Config copies
// from it so the private-field access discipline survives unmarshaling.
type fileConfig struct {
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Converter ConverterConfig `mapstructure:"converter" yaml:"converter"`
	Session   SessionConfig   `mapstructure:"session" yaml:"session"`
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig       { return c.logger }
func (c *Config) Converter() ConverterConfig { return c.converter }
func (c *Config) Session() SessionConfig     { return c.session }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetSessionParserMode(m string) { c.session.ParserMode = m }
func (c *Config) SetSessionDialect(d string)    { c.session.Dialect = d }

func (c *Config) SetConverterSandboxSize(width, height int) {
	c.converter.SandboxWidth = width
	c.converter.SandboxHeight = height
}
func (c *Config) SetConverterStrictCoordinates(b bool) { c.converter.StrictCoordinates = b }
func (c *Config) SetConverterCapslockMode(m string)    { c.converter.CapslockMode = m }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// ConverterConfig tunes how model actions are turned into commands.
type ConverterConfig struct {
	SandboxWidth      int     `mapstructure:"sandbox_width" yaml:"sandbox_width"`
	SandboxHeight     int     `mapstructure:"sandbox_height" yaml:"sandbox_height"`
	DragDuration      float64 `mapstructure:"drag_duration" yaml:"drag_duration"`
	ScrollAmount      int     `mapstructure:"scroll_amount" yaml:"scroll_amount"`
	WaitDuration      float64 `mapstructure:"wait_duration" yaml:"wait_duration"`
	HotkeyInterval    float64 `mapstructure:"hotkey_interval" yaml:"hotkey_interval"`
	CapslockMode      string  `mapstructure:"capslock_mode" yaml:"capslock_mode"`
	StrictCoordinates bool    `mapstructure:"strict_coordinates" yaml:"strict_coordinates"`
}

// SessionConfig selects the parser grammar and the action dialect.
type SessionConfig struct {
	ParserMode string `mapstructure:"parser_mode" yaml:"parser_mode"`
	Dialect    string `mapstructure:"dialect" yaml:"dialect"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	cfg, err := NewConfigFromViper(v)
	if err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to build default config: %v", err))
	}
	return cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "deskpilot")
	v.SetDefault("logger.log_file", "deskpilot.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Converter --
	v.SetDefault("converter.sandbox_width", 1920)
	v.SetDefault("converter.sandbox_height", 1080)
	v.SetDefault("converter.drag_duration", 0.5)
	v.SetDefault("converter.scroll_amount", 2)
	v.SetDefault("converter.wait_duration", 1.0)
	v.SetDefault("converter.hotkey_interval", 0.1)
	v.SetDefault("converter.capslock_mode", "session")
	v.SetDefault("converter.strict_coordinates", false)

	// -- Session --
	v.SetDefault("session.parser_mode", "auto")
	v.SetDefault("session.dialect", "native")
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg := Config{logger: fc.Logger, converter: fc.Converter, session: fc.Session}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.converter.SandboxWidth <= 0 || c.converter.SandboxHeight <= 0 {
		return fmt.Errorf("converter.sandbox_width and converter.sandbox_height must be positive integers")
	}
	if c.converter.DragDuration < 0 {
		return fmt.Errorf("converter.drag_duration must not be negative")
	}
	if c.converter.ScrollAmount <= 0 {
		return fmt.Errorf("converter.scroll_amount must be a positive integer")
	}
	switch c.converter.CapslockMode {
	case "", "session", "system":
	default:
		return fmt.Errorf("converter.capslock_mode must be 'session' or 'system', got %q", c.converter.CapslockMode)
	}
	switch c.session.ParserMode {
	case "", "auto", "tagged", "tool_call":
	default:
		return fmt.Errorf("session.parser_mode must be 'auto', 'tagged' or 'tool_call', got %q", c.session.ParserMode)
	}
	switch c.session.Dialect {
	case "", "native", "claude", "gemini", "qwen3":
	default:
		return fmt.Errorf("session.dialect must be one of native, claude, gemini, qwen3; got %q", c.session.Dialect)
	}
	return nil
}
