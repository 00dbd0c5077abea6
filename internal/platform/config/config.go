package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ストレージドライバ名です。
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const defaultAvatarMaxBytes = 300 * 1024

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Avatar   AvatarConfig   `yaml:"avatar"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig は gRPC / HTTP サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	HTTPAddr   string `yaml:"http_addr"`
}

// StorageConfig は社員レコードの保存先に関する設定です。
type StorageConfig struct {
	Driver           string        `yaml:"driver"`
	Path             string        `yaml:"path"`
	WatchDebounce    time.Duration `yaml:"-"`
	WatchDebounceRaw string        `yaml:"watch_debounce"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。storage.driver が postgres の場合のみ必須です。
type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	SSLMode            string        `yaml:"ssl_mode"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	LockTimeout        time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
	LockTimeoutRaw     string        `yaml:"lock_timeout"`
}

// AvatarConfig はアバター画像の受付条件です。
type AvatarConfig struct {
	MaxBytes int64 `yaml:"max_bytes"`
}

// LogConfig はロガーの設定です。
type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// Load は指定されたパスから設定ファイルを読み込みます。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" && c.Server.HTTPAddr == "" {
		return fmt.Errorf("config: server.listen_addr or server.http_addr must be set")
	}

	if err := c.Storage.validateAndNormalize(); err != nil {
		return err
	}

	if c.Storage.Driver == DriverPostgres {
		db := &c.Database
		if err := db.validateAndNormalize(); err != nil {
			return err
		}
	}

	if c.Avatar.MaxBytes < 0 {
		return fmt.Errorf("config: avatar.max_bytes must not be negative")
	}
	if c.Avatar.MaxBytes == 0 {
		c.Avatar.MaxBytes = defaultAvatarMaxBytes
	}

	switch c.Log.Level {
	case "":
		c.Log.Level = "info"
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is not supported", c.Log.Level)
	}
	switch c.Log.Encoding {
	case "":
		c.Log.Encoding = "json"
	case "json", "console":
	default:
		return fmt.Errorf("config: log.encoding %q is not supported", c.Log.Encoding)
	}

	return nil
}

func (s *StorageConfig) validateAndNormalize() error {
	if s.Driver == "" {
		s.Driver = DriverFile
	}

	switch s.Driver {
	case DriverMemory, DriverPostgres:
	case DriverFile, DriverSQLite:
		if s.Path == "" {
			return fmt.Errorf("config: storage.path must be set for driver %s", s.Driver)
		}
	default:
		return fmt.Errorf("config: storage.driver %q is not supported", s.Driver)
	}

	debounce, err := parseDurationAllowEmpty(s.WatchDebounceRaw)
	if err != nil {
		return fmt.Errorf("config: storage.watch_debounce: %w", err)
	}
	s.WatchDebounce = debounce

	return nil
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
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

	lockTimeout, err := parseDurationAllowEmpty(d.LockTimeoutRaw)
	if err != nil {
		return fmt.Errorf("config: database.lock_timeout: %w", err)
	}
	d.LockTimeout = lockTimeout

	return nil
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

// DSN は pgx 用の接続文字列を返します。ユーザー名とパスワードはエスケープされます。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + strconv.Itoa(d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}
