// Package config resolves an ecomload.LoadConfig from compiled-in defaults,
// the optional ecomload.yaml project file and the environment. Command-line
// flags are layered on top by the cli package.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/ecomload/pkg/ecomload"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// Environment variables read by ApplyEnv.
const (
	EnvDSN         = "ECOMLOAD_DSN"
	EnvDatabaseURL = "DATABASE_URL"
	EnvS3Region    = "ECOMLOAD_S3_REGION"
	EnvAWSRegion   = "AWS_REGION"
	EnvS3Endpoint  = "ECOMLOAD_S3_ENDPOINT"
	EnvS3PathStyle = "ECOMLOAD_S3_PATH_STYLE"
)

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path,omitempty"`
	DSN    string `yaml:"dsn,omitempty"`
}

type S3Config struct {
	Region    string `yaml:"region,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	PathStyle bool   `yaml:"path_style,omitempty"`
}

type ProjectConfig struct {
	DataDir     string         `yaml:"data_dir"`
	Database    DatabaseConfig `yaml:"database"`
	Atomic      bool           `yaml:"atomic,omitempty"`
	MetricsFile string         `yaml:"metrics_file,omitempty"`
	Timeout     string         `yaml:"timeout,omitempty"`
	S3          S3Config       `yaml:"s3,omitempty"`
}

const ConfigFileName = "ecomload.yaml"

// Defaults returns the compiled-in configuration: ./data into ./ecom.db.
func Defaults() ecomload.LoadConfig {
	return ecomload.LoadConfig{
		DataDir:      ecomload.DefaultDataDir,
		Driver:       ecomload.DefaultDriver,
		DatabasePath: ecomload.DefaultDatabasePath,
	}
}

// Load reads ConfigFileName from dir.
func Load(dir string) (*ProjectConfig, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads a project config from path.
func LoadFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, ecomload.ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// Apply overlays the values set in the project file onto base.
func (p *ProjectConfig) Apply(base ecomload.LoadConfig) (ecomload.LoadConfig, error) {
	cfg := base
	if p.DataDir != "" {
		cfg.DataDir = p.DataDir
	}
	if p.Database.Driver != "" {
		cfg.Driver = ecomload.Driver(p.Database.Driver)
	}
	if p.Database.Path != "" {
		cfg.DatabasePath = p.Database.Path
	}
	if p.Database.DSN != "" {
		cfg.DSN = p.Database.DSN
	}
	if p.Atomic {
		cfg.Atomic = true
	}
	if p.MetricsFile != "" {
		cfg.MetricsFile = p.MetricsFile
	}
	if p.Timeout != "" {
		d, err := time.ParseDuration(p.Timeout)
		if err != nil {
			return base, fmt.Errorf("invalid timeout %q: %w", p.Timeout, ecomload.ErrInvalidConfig)
		}
		cfg.Timeout = d
	}
	if p.S3.Region != "" {
		cfg.S3.Region = p.S3.Region
	}
	if p.S3.Endpoint != "" {
		cfg.S3.Endpoint = p.S3.Endpoint
	}
	if p.S3.PathStyle {
		cfg.S3.PathStyle = true
	}
	return cfg, nil
}

// ApplyEnv overlays environment values onto base. ECOMLOAD_DSN wins over
// DATABASE_URL, ECOMLOAD_S3_REGION over AWS_REGION.
func ApplyEnv(base ecomload.LoadConfig, getenv func(string) string) (ecomload.LoadConfig, error) {
	cfg := base
	if v := firstSet(getenv, EnvDSN, EnvDatabaseURL); v != "" {
		cfg.DSN = v
	}
	if v := firstSet(getenv, EnvS3Region, EnvAWSRegion); v != "" {
		cfg.S3.Region = v
	}
	if v := getenv(EnvS3Endpoint); v != "" {
		cfg.S3.Endpoint = v
	}
	if v := getenv(EnvS3PathStyle); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return base, fmt.Errorf("%s=%q is not a boolean: %w", EnvS3PathStyle, v, ecomload.ErrInvalidConfig)
		}
		cfg.S3.PathStyle = b
	}
	return cfg, nil
}

func firstSet(getenv func(string) string, keys ...string) string {
	for _, k := range keys {
		if v := getenv(k); v != "" {
			return v
		}
	}
	return ""
}
