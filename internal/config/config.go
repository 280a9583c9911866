// Package config loads service settings from defaults, an optional YAML file,
// a .env file and PDF2WORD_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. PDF2WORD_PORT
const EnvPrefix = "PDF2WORD"

// Config is the centralized configuration for the service
type Config struct {
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxUploadSize  int64         `mapstructure:"max_upload_size"`
	MaxConnections int           `mapstructure:"max_connections"`
	CORSOrigins    []string      `mapstructure:"cors_origins"`

	TessdataPrefix string   `mapstructure:"tessdata_prefix"`
	OCRLanguages   []string `mapstructure:"ocr_languages"`
	RenderDPI      int      `mapstructure:"render_dpi"`

	UnidocLicenseKey string `mapstructure:"unidoc_license_key"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	ServiceName  string `mapstructure:"service_name"`
	OTelEnabled  bool   `mapstructure:"otel_enabled"`
	OTelExporter string `mapstructure:"otel_exporter"`
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return ":" + c.Port
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	// OCR of a long scan easily outlives a 10s write timeout
	v.SetDefault("read_timeout", 30*time.Second)
	v.SetDefault("write_timeout", 5*time.Minute)
	v.SetDefault("max_upload_size", int64(50*1024*1024))
	v.SetDefault("max_connections", 0)
	v.SetDefault("cors_origins", []string{"*"})

	v.SetDefault("tessdata_prefix", "./tessdata")
	v.SetDefault("ocr_languages", []string{"eng"})
	v.SetDefault("render_dpi", 300)

	v.SetDefault("unidoc_license_key", "")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("service_name", "pdf-to-word-service")
	v.SetDefault("otel_enabled", false)
	v.SetDefault("otel_exporter", "grpc")
}

// New returns a viper instance with defaults and environment binding set up.
// UNIDOC_LICENSE_API_KEY is honored as well, since it is the variable the
// UniDoc tooling documents.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("unidoc_license_key", EnvPrefix+"_UNIDOC_LICENSE_KEY", "UNIDOC_LICENSE_API_KEY")

	return v
}

// LoadDotEnv loads a .env file into the process environment if present.
// Variables already set are not overwritten.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !isNotExist(err) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ReadFile merges a YAML config file into v. An empty path searches for
// pdf-to-word.yaml in the working directory and ignores a missing file.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		return v.ReadInConfig()
	}

	v.SetConfigName("pdf-to-word")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// Load decodes v into a Config and validates it
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.CORSOrigins = splitList(cfg.CORSOrigins)
	cfg.OCRLanguages = splitList(cfg.OCRLanguages)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that would otherwise fail late
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.RenderDPI <= 0 {
		return fmt.Errorf("render_dpi must be positive, got %d", c.RenderDPI)
	}
	if c.MaxUploadSize < 0 {
		return fmt.Errorf("max_upload_size must not be negative, got %d", c.MaxUploadSize)
	}
	if len(c.OCRLanguages) == 0 {
		return errors.New("ocr_languages must name at least one language")
	}
	return nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// splitList accepts both YAML lists and comma separated environment values
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
