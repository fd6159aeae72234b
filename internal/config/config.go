package config

import (
	"os"
	"time"

	"github.com/Egor213/LogBoard/internal/domain"
	errorsUtils "github.com/Egor213/LogBoard/pkg/errors"

	"github.com/ilyakaznacheev/cleanenv"
	log "github.com/sirupsen/logrus"

	"github.com/joho/godotenv"
)

type (
	Config struct {
		App        `yaml:"app"`
		Log        `yaml:"log"`
		PG         `yaml:"postgres"`
		HTTP       `yaml:"http"`
		Prometheus `yaml:"prometheus"`
		Pagination `yaml:"pagination"`
		Kafka      `yaml:"kafka"`
	}

	App struct {
		Name    string `yaml:"name" env-required:"true"`
		Version string `yaml:"version" env-required:"true"`
	}

	Log struct {
		Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
		Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
	}

	PG struct {
		MaxPoolSize      int           `env-required:"true" env:"MAX_POOL_SIZE" yaml:"max_pool_size"`
		ConnAttempts     int           `env:"PG_CONN_ATTEMPTS" yaml:"conn_attempts" env-default:"10"`
		ConnTimeout      time.Duration `env:"PG_CONN_TIMEOUT" yaml:"conn_timeout" env-default:"1s"`
		StatementTimeout time.Duration `env:"PG_STATEMENT_TIMEOUT" yaml:"statement_timeout" env-default:"30s"`
		URL              string        `env-required:"true" env:"PG_URL"`
	}

	HTTP struct {
		Port            string        `env-required:"true" yaml:"port" env:"HTTP_PORT"`
		ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"5s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"60s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
		CORSOrigins     []string      `yaml:"cors_origins" env:"HTTP_CORS_ORIGINS" env-separator:"," env-default:"*"`
		RateLimitRPS    float64       `yaml:"rate_limit_rps" env:"HTTP_RATE_LIMIT_RPS" env-default:"50"`
		RateLimitBurst  int           `yaml:"rate_limit_burst" env:"HTTP_RATE_LIMIT_BURST" env-default:"100"`
	}

	Prometheus struct {
		Port string `env-required:"true" yaml:"port" env:"PROMETHEUS_PORT"`
	}

	Pagination struct {
		DefaultPageSize int `yaml:"default_page_size" env:"DEFAULT_PAGE_SIZE" env-default:"50"`
		MaxPageSize     int `yaml:"max_page_size" env:"MAX_PAGE_SIZE" env-default:"1000"`
	}

	Kafka struct {
		Enabled bool     `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
		Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
		Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"log-events"`
	}
)

const (
	ENV_PATH            = "infra/.env"
	DEFAULT_CONFIG_PATH = "infra/config.yaml"
)

func New() (*Config, error) {
	if err := godotenv.Load(ENV_PATH); err != nil {
		log.WithField("path", ENV_PATH).Info("Env file is not loaded, using process environment")
	}

	cfg := &Config{}

	pathToConfig, ok := os.LookupEnv("APP_CONFIG_PATH")
	if !ok || pathToConfig == "" {
		log.WithField("env_var", "APP_CONFIG_PATH").
			Info("Config path is not set, using default")
		pathToConfig = DEFAULT_CONFIG_PATH
	}

	if err := cleanenv.ReadConfig(pathToConfig, cfg); err != nil {
		return nil, errorsUtils.WrapPathErr(err)
	}

	if err := cleanenv.UpdateEnv(cfg); err != nil {
		return nil, errorsUtils.WrapPathErr(err)
	}

	return cfg, nil
}

// PageLimits is the pagination slice of the config handed to services.
func (c *Config) PageLimits() domain.PageLimits {
	limits := domain.PageLimits{
		Default: c.Pagination.DefaultPageSize,
		Max:     c.Pagination.MaxPageSize,
	}
	if limits.Max < 1 {
		limits.Max = domain.DefaultMaxPageSize
	}
	if limits.Default < 1 || limits.Default > limits.Max {
		limits.Default = min(domain.DefaultPageSize, limits.Max)
	}
	return limits
}
