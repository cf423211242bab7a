package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/logger"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/media"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/pkg/common"
)

// DefaultAPIBaseURL is the hosted classification service.
const DefaultAPIBaseURL = "https://gradioapibackend.onrender.com/api"

// Preview backends
const (
	PreviewMemory = "memory"
	PreviewS3     = "s3"
)

// Config represents the application configuration
type Config struct {
	LogLevel           string        `mapstructure:"log_level"`
	APIBaseURL         string        `mapstructure:"api_base_url"`
	Listen             string        `mapstructure:"listen"`
	DefaultKind        string        `mapstructure:"default_kind"`
	SessionIdleTimeout time.Duration `mapstructure:"session_idle_timeout"`
	NoticeTTL          time.Duration `mapstructure:"notice_ttl"`
	SpoolDir           string        `mapstructure:"spool_dir"`
	Preview            PreviewConfig `mapstructure:"preview"`
}

// PreviewConfig selects where preview handles resolve to
type PreviewConfig struct {
	Backend   string        `mapstructure:"backend"`
	URLExpiry time.Duration `mapstructure:"url_expiry"`
	S3        S3Config      `mapstructure:"s3"`
}

// S3Config represents S3 connection configuration
type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Prefix    string `mapstructure:"prefix"`
}

// New creates a new configuration with default values
func New() *Config {
	return &Config{
		LogLevel:           "info",
		APIBaseURL:         DefaultAPIBaseURL,
		Listen:             ":8080",
		DefaultKind:        string(media.KindImage),
		SessionIdleTimeout: 30 * time.Minute,
		NoticeTTL:          5 * time.Second,
		SpoolDir:           filepath.Join(os.TempDir(), "fake-media-detector"),
		Preview: PreviewConfig{
			Backend:   PreviewMemory,
			URLExpiry: 15 * time.Minute,
			S3: S3Config{
				Region: "us-east-1",
				UseSSL: true,
				Prefix: "previews",
			},
		},
	}
}

// Load reads configuration from an optional file, a .env file and
// DETECTOR_-prefixed environment variables, on top of the defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded: %v", err)
	}

	cfg := New()
	v := viper.New()
	v.SetEnvPrefix("DETECTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		logger.Debug("Loaded configuration from %s", v.ConfigFileUsed())
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// every key needs a default so AutomaticEnv can see it during Unmarshal
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("api_base_url", cfg.APIBaseURL)
	v.SetDefault("listen", cfg.Listen)
	v.SetDefault("default_kind", cfg.DefaultKind)
	v.SetDefault("session_idle_timeout", cfg.SessionIdleTimeout)
	v.SetDefault("notice_ttl", cfg.NoticeTTL)
	v.SetDefault("spool_dir", cfg.SpoolDir)
	v.SetDefault("preview.backend", cfg.Preview.Backend)
	v.SetDefault("preview.url_expiry", cfg.Preview.URLExpiry)
	v.SetDefault("preview.s3.endpoint", cfg.Preview.S3.Endpoint)
	v.SetDefault("preview.s3.region", cfg.Preview.S3.Region)
	v.SetDefault("preview.s3.bucket", cfg.Preview.S3.Bucket)
	v.SetDefault("preview.s3.access_key", cfg.Preview.S3.AccessKey)
	v.SetDefault("preview.s3.secret_key", cfg.Preview.S3.SecretKey)
	v.SetDefault("preview.s3.use_ssl", cfg.Preview.S3.UseSSL)
	v.SetDefault("preview.s3.prefix", cfg.Preview.S3.Prefix)
}

// Validate checks the configuration for values the widget cannot run with
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return common.NewConfigError("api base URL %q must be an absolute http(s) URL", c.APIBaseURL)
	}
	if _, err := media.ParseKind(c.DefaultKind); err != nil {
		return common.NewConfigError("default kind: %v", err)
	}
	if c.NoticeTTL <= 0 {
		return common.NewConfigError("notice TTL must be positive, got %s", c.NoticeTTL)
	}
	if c.SessionIdleTimeout <= 0 {
		return common.NewConfigError("session idle timeout must be positive, got %s", c.SessionIdleTimeout)
	}

	switch c.Preview.Backend {
	case PreviewMemory:
	case PreviewS3:
		s3 := c.Preview.S3
		if s3.Endpoint == "" || s3.Bucket == "" {
			return common.NewConfigError("s3 preview backend requires endpoint and bucket")
		}
		if s3.AccessKey == "" || s3.SecretKey == "" {
			return common.NewConfigError("s3 preview backend requires access key and secret key")
		}
		if c.Preview.URLExpiry <= 0 {
			return common.NewConfigError("preview URL expiry must be positive, got %s", c.Preview.URLExpiry)
		}
	default:
		return common.NewConfigError("unknown preview backend %q (use %s or %s)", c.Preview.Backend, PreviewMemory, PreviewS3)
	}

	return nil
}
