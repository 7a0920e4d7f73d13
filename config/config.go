package config

import (
	"errors"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"

	"github.com/angeloszaimis/odata-adapter/internal/httpserver"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

var (
	pathPrefix    = regexp.MustCompile(`^/\S*$`)
	servicePrefix = regexp.MustCompile(`^(/[^/?#]+)+$`)
)

type ServerConfig struct {
	Address     string `mapstructure:"address"`
	Environment string `mapstructure:"environment"`
	// RateLimit is requests per minute per client IP; 0 disables it.
	RateLimit int `mapstructure:"rate_limit"`
	// WriteTimeout bounds writing one response; "0s" disables it for long
	// streamed responses.
	WriteTimeout string `mapstructure:"write_timeout"`
}

// ResponseWriteTimeout returns the parsed write timeout, 60 seconds when
// unset or invalid.
func (s ServerConfig) ResponseWriteTimeout() time.Duration {
	d, err := time.ParseDuration(s.WriteTimeout)
	if err != nil || d < 0 {
		return 60 * time.Second
	}
	return d
}

type ODataConfig struct {
	Split        int    `mapstructure:"split"`
	ContextPath  string `mapstructure:"context_path"`
	ServletPath  string `mapstructure:"servlet_path"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes"`
}

type ServiceConfig struct {
	Prefix   string `mapstructure:"prefix"`
	Upstream string `mapstructure:"upstream"`
	Timeout  string `mapstructure:"timeout"`
}

type CircuitBreakerConfig struct {
	Threshold    int    `mapstructure:"threshold"`
	ResetTimeout string `mapstructure:"reset_timeout"`
}

type HealthCheckConfig struct {
	// Interval between upstream probes; zero disables probing.
	Interval string `mapstructure:"interval"`
	Path     string `mapstructure:"path"`
}

// ProbeInterval returns the parsed interval, zero when disabled or invalid.
func (h HealthCheckConfig) ProbeInterval() time.Duration {
	d, err := time.ParseDuration(h.Interval)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

type MetricsConfig struct {
	BufferSize int    `mapstructure:"buffer_size"`
	Path       string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	OData          ODataConfig          `mapstructure:"odata"`
	Services       []ServiceConfig      `mapstructure:"services"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
	HealthCheck    HealthCheckConfig    `mapstructure:"health_check"`
	Metrics        MetricsConfig        `mapstructure:"metrics"`
	Logging        LoggingConfig        `mapstructure:"logging"`
}

// Load reads config.yaml from the given directories, or from ./config and
// the working directory when none are given. A missing file is not an error.
func Load(paths ...string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.environment", EnvDev)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.rate_limit", 0)
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("odata.split", 0)
	v.SetDefault("odata.context_path", "")
	v.SetDefault("odata.servlet_path", "/odata")
	v.SetDefault("odata.max_body_bytes", 0)
	v.SetDefault("circuit_breaker.threshold", 5)
	v.SetDefault("circuit_breaker.reset_timeout", "30s")
	v.SetDefault("health_check.interval", "0s")
	v.SetDefault("health_check.path", "/$metadata")
	v.SetDefault("metrics.buffer_size", 1000)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("logging.level", LogLevelInfo)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./config", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Warn("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server,
			validation.Required,
			validation.By(func(value interface{}) error {
				sc, ok := value.(ServerConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ServerConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Environment,
						validation.Required,
						validation.In(EnvDev, EnvStaging, EnvProd),
					),
					validation.Field(&sc.Address,
						validation.Required,
						validation.By(httpserver.ValidateAddress),
					),
					validation.Field(&sc.RateLimit, validation.Min(0)),
					validation.Field(&sc.WriteTimeout, validation.When(sc.WriteTimeout != "", validation.By(validateDuration))),
				)
			}),
		),
		validation.Field(&c.OData,
			validation.By(func(value interface{}) error {
				oc, ok := value.(ODataConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be an ODataConfig")
				}
				return validation.ValidateStruct(&oc,
					validation.Field(&oc.Split, validation.Min(0)),
					validation.Field(&oc.ContextPath, validation.Match(pathPrefix)),
					validation.Field(&oc.ServletPath, validation.Match(pathPrefix)),
					validation.Field(&oc.MaxBodyBytes, validation.Min(int64(0))),
				)
			}),
		),
		validation.Field(&c.Services,
			validation.Each(validation.By(validateServiceConfig)),
			validation.By(validateUniquePrefixes),
		),
		validation.Field(&c.CircuitBreaker,
			validation.Required,
			validation.By(func(value interface{}) error {
				cb, ok := value.(CircuitBreakerConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a CircuitBreakerConfig")
				}
				return validation.ValidateStruct(&cb,
					validation.Field(&cb.Threshold, validation.Required, validation.Min(1)),
					validation.Field(&cb.ResetTimeout, validation.Required, validation.By(validateDuration)),
				)
			}),
		),
		validation.Field(&c.HealthCheck,
			validation.By(func(value interface{}) error {
				hc, ok := value.(HealthCheckConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a HealthCheckConfig")
				}
				return validation.ValidateStruct(&hc,
					validation.Field(&hc.Interval, validation.When(hc.Interval != "", validation.By(validateDuration))),
					validation.Field(&hc.Path, validation.Match(pathPrefix)),
				)
			}),
		),
		validation.Field(&c.Metrics,
			validation.Required,
			validation.By(func(value interface{}) error {
				mc, ok := value.(MetricsConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a MetricsConfig")
				}
				return validation.ValidateStruct(&mc,
					validation.Field(&mc.BufferSize, validation.Required, validation.Min(1)),
					validation.Field(&mc.Path, validation.Required, validation.Match(pathPrefix)),
				)
			}),
		),
		validation.Field(&c.Logging,
			validation.Required,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
	)
}

// ServiceTimeout returns the upstream timeout, defaulting to 30 seconds.
func (s ServiceConfig) ServiceTimeout() time.Duration {
	if d, err := time.ParseDuration(s.Timeout); err == nil && d > 0 {
		return d
	}
	return 30 * time.Second
}

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if _, err := time.ParseDuration(durationStr); err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 2s, 5m, 1h)")
	}

	return nil
}

func validateUpstreamURL(value interface{}) error {
	upstream, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if upstream == "" {
		return validation.NewError("validation_empty_url", "upstream URL cannot be empty")
	}

	parsedURL, err := url.Parse(upstream)
	if err != nil {
		return validation.NewError("validation_invalid_url", "must be a valid URL")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return validation.NewError("validation_invalid_scheme", "URL must use http or https scheme")
	}

	if parsedURL.Host == "" {
		return validation.NewError("validation_missing_host", "URL must have a host")
	}

	return nil
}

func validateServiceConfig(value interface{}) error {
	svc, ok := value.(ServiceConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a ServiceConfig")
	}

	return validation.ValidateStruct(&svc,
		validation.Field(&svc.Prefix, validation.Match(servicePrefix)),
		validation.Field(&svc.Upstream, validation.By(validateUpstreamURL)),
		validation.Field(&svc.Timeout, validation.When(svc.Timeout != "", validation.By(validateDuration))),
	)
}

func validateUniquePrefixes(value interface{}) error {
	services, ok := value.([]ServiceConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a list of ServiceConfig")
	}

	seen := make(map[string]bool, len(services))
	for _, svc := range services {
		if seen[svc.Prefix] {
			return validation.NewError("validation_duplicate_prefix", "service prefix "+svc.Prefix+" is declared twice")
		}
		seen[svc.Prefix] = true
	}
	return nil
}
