package config

import (
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/ogurasousui/employee-directory/internal/platform/logger"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix は設定を上書きする環境変数の接頭辞です。
// database.port は APP_DATABASE_PORT のように対応します。
const EnvPrefix = "APP"

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Logger    logger.Config   `yaml:"logger"`
	Directory DirectoryConfig `yaml:"directory"`
}

// ServerConfig は gRPC / HTTP サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr      string        `yaml:"listen_addr" validate:"required"`
	HTTPAddr        string        `yaml:"http_addr"`
	ShutdownTimeout time.Duration `yaml:"-"`
	ShutdownRaw     string        `yaml:"shutdown_timeout"`
	CORS            CORSConfig    `yaml:"cors"`
}

// CORSConfig はブラウザクライアント向けの CORS 設定です。
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" validate:"dive,url"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host" validate:"required"`
	Port               int           `yaml:"port" validate:"required,min=1,max=65535"`
	User               string        `yaml:"user" validate:"required"`
	Password           string        `yaml:"password" validate:"required"`
	Name               string        `yaml:"name" validate:"required"`
	SSLMode            string        `yaml:"ssl_mode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	MaxOpenConns       int           `yaml:"max_open_conns" validate:"min=0"`
	MaxIdleConns       int           `yaml:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
	QueryLogLevel      string        `yaml:"query_log_level" validate:"omitempty,oneof=trace debug info warn error none"`
}

// DirectoryConfig は社員名簿の参照に関する設定です。
type DirectoryConfig struct {
	DisplayTimeZone string `yaml:"display_time_zone"`
	DefaultTake     int    `yaml:"default_take" validate:"min=0"`
	MaxTake         int    `yaml:"max_take" validate:"min=0"`
}

// Load は指定されたパスから設定ファイルを読み込み、環境変数で上書きします。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnv(v, reflect.TypeOf(Config{}), ""); err != nil {
		return nil, fmt.Errorf("config: bind env: %w", err)
	}
	if err := v.MergeConfigMap(raw); err != nil {
		return nil, fmt.Errorf("config: merge yaml: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	}); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// bindEnv は yaml タグから全キーを列挙し、ファイルに無いキーも環境変数で設定できるようにします。
func bindEnv(v *viper.Viper, t reflect.Type, prefix string) error {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			continue
		}
		key := prefix + name

		switch field.Type.Kind() {
		case reflect.Struct:
			if err := bindEnv(v, field.Type, key+"."); err != nil {
				return err
			}
			continue
		case reflect.Map:
			continue
		}
		if err := v.BindEnv(key); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateAndNormalize() error {
	c.Server.CORS.AllowedOrigins = trimList(c.Server.CORS.AllowedOrigins)

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	shutdown, err := parseDurationAllowEmpty(c.Server.ShutdownRaw)
	if err != nil {
		return fmt.Errorf("config: server.shutdown_timeout: %w", err)
	}
	if shutdown == 0 {
		shutdown = 10 * time.Second
	}
	c.Server.ShutdownTimeout = shutdown

	db := &c.Database
	if err := db.validateAndNormalize(); err != nil {
		return err
	}

	if c.Directory.MaxTake > 0 && c.Directory.DefaultTake > c.Directory.MaxTake {
		return fmt.Errorf("config: directory.default_take must not exceed directory.max_take")
	}

	return nil
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func trimList(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN は pgx 用の接続文字列を返します。認証情報はエスケープされます。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := url.Values{}
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
