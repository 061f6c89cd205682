// Package config loads application configuration from config.yaml and
// MOVIES_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"movie-analyzer/pkg/database"
)

// Configuration validation errors.
var (
	ErrInvalidPort           = errors.New("server.port must be between 1 and 65535")
	ErrMissingInputPath      = errors.New("pipeline.input_path is required")
	ErrMissingOutputPath     = errors.New("pipeline.output_path is required")
	ErrInvalidHitQuantile    = errors.New("pipeline.hit_quantile must be in (0, 1]")
	ErrInvalidROICap         = errors.New("pipeline.roi_cap_quantile must be in (0, 1]")
	ErrInvalidSnapshotSource = errors.New("server.snapshot_source must be 'csv' or 'postgres'")
	ErrMissingDatabase       = errors.New("database.host and database.database are required when the database is enabled")
	ErrInvalidLogLevel       = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Snapshot sources the API server can read from.
const (
	SnapshotCSV      = "csv"
	SnapshotPostgres = "postgres"
)

// Config holds the full application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
}

// ServerConfig configures the dashboard API server.
type ServerConfig struct {
	Host           string        `yaml:"host" mapstructure:"host"`
	Port           int           `yaml:"port" mapstructure:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	SnapshotSource string        `yaml:"snapshot_source" mapstructure:"snapshot_source"`
}

// DatabaseConfig configures the optional Postgres snapshot store.
type DatabaseConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            int           `yaml:"port" mapstructure:"port"`
	User            string        `yaml:"user" mapstructure:"user"`
	Password        string        `yaml:"password" mapstructure:"password"`
	Database        string        `yaml:"database" mapstructure:"database"`
	SSLMode         string        `yaml:"sslmode" mapstructure:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" mapstructure:"conn_max_idle_time"`
	MigrationsDir   string        `yaml:"migrations_dir" mapstructure:"migrations_dir"`
}

// Postgres converts the section into connection pool settings.
func (d DatabaseConfig) Postgres() *database.Config {
	return &database.Config{
		Host:            d.Host,
		Port:            d.Port,
		User:            d.User,
		Password:        d.Password,
		Database:        d.Database,
		SSLMode:         d.SSLMode,
		MaxOpenConns:    d.MaxOpenConns,
		MaxIdleConns:    d.MaxIdleConns,
		ConnMaxLifetime: d.ConnMaxLifetime,
		ConnMaxIdleTime: d.ConnMaxIdleTime,
	}
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// PipelineConfig configures the clean and classify run.
type PipelineConfig struct {
	InputPath      string  `yaml:"input_path" mapstructure:"input_path"`
	CleanPath      string  `yaml:"clean_path" mapstructure:"clean_path"`
	OutputPath     string  `yaml:"output_path" mapstructure:"output_path"`
	HitQuantile    float64 `yaml:"hit_quantile" mapstructure:"hit_quantile"`
	ROICapQuantile float64 `yaml:"roi_cap_quantile" mapstructure:"roi_cap_quantile"`
	PersistToDB    bool    `yaml:"persist_to_db" mapstructure:"persist_to_db"`
}

// LoadConfig reads configuration from ./config.yaml (optional) and the
// environment, e.g. MOVIES_PIPELINE_INPUT_PATH.
func LoadConfig() (*Config, error) {
	return load(viper.New(), ".")
}

// LoadConfigFrom reads configuration from the given directory.
func LoadConfigFrom(dir string) (*Config, error) {
	return load(viper.New(), dir)
}

func load(v *viper.Viper, dir string) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("MOVIES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.snapshot_source", SnapshotCSV)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "movies")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "movies")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.conn_max_idle_time", 5*time.Minute)
	v.SetDefault("database.migrations_dir", "migrations")

	v.SetDefault("logging.level", "info")

	v.SetDefault("pipeline.input_path", "data/movies.csv")
	v.SetDefault("pipeline.clean_path", "data/movies_clean.csv")
	v.SetDefault("pipeline.output_path", "data/movies_metrics.csv")
	v.SetDefault("pipeline.hit_quantile", 0.75)
	v.SetDefault("pipeline.roi_cap_quantile", 0.99)
	v.SetDefault("pipeline.persist_to_db", false)
}

// Validate checks the settings every command relies on.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return ErrInvalidPort
	}
	if c.Pipeline.InputPath == "" {
		return ErrMissingInputPath
	}
	if c.Pipeline.OutputPath == "" {
		return ErrMissingOutputPath
	}
	if c.Pipeline.HitQuantile <= 0 || c.Pipeline.HitQuantile > 1 {
		return ErrInvalidHitQuantile
	}
	if c.Pipeline.ROICapQuantile <= 0 || c.Pipeline.ROICapQuantile > 1 {
		return ErrInvalidROICap
	}

	switch c.Server.SnapshotSource {
	case SnapshotCSV:
	case SnapshotPostgres:
		if !c.Database.Enabled {
			return fmt.Errorf("%w: postgres snapshot requires database.enabled", ErrInvalidSnapshotSource)
		}
	default:
		return ErrInvalidSnapshotSource
	}

	if c.Database.Enabled && (c.Database.Host == "" || c.Database.Database == "") {
		return ErrMissingDatabase
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}

	return nil
}
