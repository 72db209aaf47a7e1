// Package logger は zerolog ベースのロガー生成を提供します。
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Config はロガー設定です。
type Config struct {
	Level       string            `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Format      string            `yaml:"format" validate:"omitempty,oneof=json console"`
	Env         string            `yaml:"env" validate:"omitempty,oneof=dev staging prod"`
	ServiceName string            `yaml:"service_name"`
	WithCaller  bool              `yaml:"with_caller"`
	Fields      map[string]string `yaml:"fields"`
}

func (c *Config) setDefaults() {
	if c.Env == "" {
		c.Env = "prod"
	}
	if c.Level == "" {
		if c.Env == "dev" {
			c.Level = "debug"
		} else {
			c.Level = "info"
		}
	}
	if c.Format == "" {
		if c.Env == "dev" {
			c.Format = "console"
		} else {
			c.Format = "json"
		}
	}
	if c.ServiceName == "" {
		c.ServiceName = "employee-directory"
	}
}

// New は設定からロガーを生成します。
func New(cfg Config) (zerolog.Logger, error) {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter は出力先を指定してロガーを生成します。
func NewWithWriter(cfg Config, w io.Writer) (zerolog.Logger, error) {
	cfg.setDefaults()

	if err := validator.New().Struct(cfg); err != nil {
		return zerolog.Nop(), fmt.Errorf("logger: invalid config: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("logger: parse level: %w", err)
	}

	out := w
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("env", cfg.Env)
	if cfg.WithCaller {
		ctx = ctx.Caller()
	}
	for k, v := range cfg.Fields {
		ctx = ctx.Str(k, v)
	}

	return ctx.Logger(), nil
}
