package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"

	"github.com/hamed0406/devstack/internal/domain"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// EnvPrefix namespaces environment overrides, e.g. DEVSTACK_TIMEOUT=5s.
const EnvPrefix = "DEVSTACK"

type StopConfig struct {
	Image   string `mapstructure:"image"`   // taskkill /IM target on Windows
	Pattern string `mapstructure:"pattern"` // pkill -f pattern elsewhere
}

type APIConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Dir   string `mapstructure:"dir"`
	Level string `mapstructure:"level"`
}

type Config struct {
	Host       string           `mapstructure:"host"`
	HealthPath string           `mapstructure:"health_path"`
	Timeout    time.Duration    `mapstructure:"timeout"`
	BackendDir string           `mapstructure:"backend_dir"`
	InitWait   time.Duration    `mapstructure:"init_wait"`
	Stop       StopConfig       `mapstructure:"stop"`
	API        APIConfig        `mapstructure:"api"`
	Log        LogConfig        `mapstructure:"log"`
	Services   []domain.Service `mapstructure:"services"`
}

// Targets returns the probe targets for the configured services, in order.
func (c *Config) Targets() []domain.ServiceTarget {
	return domain.Targets(c.Host, c.Services)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "localhost")
	v.SetDefault("health_path", "/health")
	v.SetDefault("timeout", "3s")
	v.SetDefault("backend_dir", "../Fluence-Backend-Private")
	v.SetDefault("init_wait", "15s")
	v.SetDefault("stop.image", "node.exe")
	v.SetDefault("stop.pattern", "node")
	v.SetDefault("api.addr", "127.0.0.1:8080")
	v.SetDefault("log.dir", "logs")
	v.SetDefault("log.level", LogLevelInfo)
}

// Load reads defaults, then an optional YAML file, then DEVSTACK_* env vars.
// An explicit path must exist; without one, devstack.yaml is looked up in
// ./config and the working directory and may be absent.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("devstack")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if len(cfg.Services) == 0 {
		cfg.Services = domain.DefaultServices()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Host, validation.Required, is.Host),
		validation.Field(&c.HealthPath, validation.Required, validation.By(validatePath)),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.InitWait, validation.Min(time.Duration(0))),
		validation.Field(&c.API, validation.By(func(value interface{}) error {
			ac, ok := value.(APIConfig)
			if !ok {
				return validation.NewError("validation_invalid_type", "must be an APIConfig")
			}
			return validation.ValidateStruct(&ac,
				validation.Field(&ac.Addr, validation.Required, validation.By(validateHostPort)),
			)
		})),
		validation.Field(&c.Log, validation.By(func(value interface{}) error {
			lc, ok := value.(LogConfig)
			if !ok {
				return validation.NewError("validation_invalid_type", "must be a LogConfig")
			}
			return validation.ValidateStruct(&lc,
				validation.Field(&lc.Dir, validation.Required),
				validation.Field(&lc.Level,
					validation.Required,
					validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
				),
			)
		})),
		validation.Field(&c.Services,
			validation.Required,
			validation.Each(validation.By(validateService)),
			validation.By(uniqueServices),
		),
	)
}

func validateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}
	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}
	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}
	return nil
}

func validatePath(value interface{}) error {
	p, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}
	if !strings.HasPrefix(p, "/") {
		return validation.NewError("validation_invalid_path", "must start with /")
	}
	return nil
}

func validateService(value interface{}) error {
	s, ok := value.(domain.Service)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a Service")
	}
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

func uniqueServices(value interface{}) error {
	svcs, ok := value.([]domain.Service)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a list of services")
	}
	names := make(map[string]bool, len(svcs))
	ports := make(map[int]bool, len(svcs))
	for _, s := range svcs {
		if names[s.Name] {
			return validation.NewError("validation_duplicate_name", fmt.Sprintf("duplicate service name %q", s.Name))
		}
		if ports[s.Port] {
			return validation.NewError("validation_duplicate_port", fmt.Sprintf("duplicate service port %d", s.Port))
		}
		names[s.Name] = true
		ports[s.Port] = true
	}
	return nil
}
