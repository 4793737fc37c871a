// Package config предоставляет структуры и функции для парсинга и загрузки конфига.
//
// Конфиг читается из YAML-файла, путь к которому задаёт CONFIG_PATH; значения
// можно переопределить переменными окружения. Перед чтением подгружается .env,
// если он есть в рабочей директории.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"SUBSENSE_ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"SUBSENSE_STORAGE_DSN" env-required:"true"`
	MigrationsPath          string `yaml:"migrations_path" env:"SUBSENSE_MIGRATIONS_PATH" env-default:"./migrations"`
	Currency                string `yaml:"currency" env-default:"GBP"`
	HTTPServer              `yaml:"http_server"`
	GRPCServer              `yaml:"grpc_server"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitMQ                `yaml:"rabbitmq"`
	Identity                `yaml:"identity"`
	CORS                    `yaml:"cors"`
	RateLimit               `yaml:"rate_limit"`
	Cache                   `yaml:"cache"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP     string        `yaml:"addresshttp" env:"SUBSENSE_HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP     time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"15s"`
}

// GRPCServer структура для настройки gRPC-сервера проверки здоровья
type GRPCServer struct {
	AddressGRPC    string        `yaml:"addressgrpc" env:"SUBSENSE_GRPC_ADDRESS" env-default:":9090"`
	HealthInterval time.Duration `yaml:"health_interval" env-default:"10s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"SUBSENSE_REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"SUBSENSE_REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// RabbitMQ структура для настройки публикации событий. Пустой URL отключает публикацию.
type RabbitMQ struct {
	URL            string        `yaml:"url" env:"SUBSENSE_RABBITMQ_URL"`
	Exchange       string        `yaml:"exchange" env-default:"subscriptions"`
	ConnectRetries int           `yaml:"connect_retries" env-default:"5"`
	RetryDelay     time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// Identity структура для проверки токенов внешнего провайдера идентичности
type Identity struct {
	SecretKey        string        `yaml:"secret_key" env:"SUBSENSE_IDENTITY_SECRET" env-required:"true"`
	Issuer           string        `yaml:"issuer" env:"SUBSENSE_IDENTITY_ISSUER"`
	SessionCookie    string        `yaml:"session_cookie" env-default:"__session"`
	PlaceholderEmail string        `yaml:"placeholder_email" env-default:"user@example.com"`
	TokenTTL         time.Duration `yaml:"token_ttl" env-default:"1h"`
}

// CORS структура со списком разрешённых источников для фронтенда дашборда
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"SUBSENSE_CORS_ORIGINS" env-default:"http://localhost:3000"`
}

// RateLimit структура для настройки ограничения частоты запросов к API
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"5"`
	Burst int     `yaml:"burst" env-default:"10"`
}

// Cache структура с временем жизни кешированных записей
type Cache struct {
	ListTTL     time.Duration `yaml:"list_ttl" env-default:"5m"`
	IdentityTTL time.Duration `yaml:"identity_ttl" env-default:"1h"`
}

// ErrConfigPathNotSet возвращается, если переменная CONFIG_PATH не задана.
var ErrConfigPathNotSet = errors.New("CONFIG_PATH is not set")

// Load читает конфиг из файла по указанному пути и применяет переменные окружения.
func Load(configPath string) (*Config, error) {
	const op = "config.Load"
	if configPath == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrConfigPathNotSet)
	}
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("%s: file %s: %w", op, configPath, err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	_ = godotenv.Load()

	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// String возвращает конфиг в читаемом виде без секретов.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"MigrationsPath: %s\n"+
			"Currency: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"GRPCServer:\n"+
			"  Address: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"RabbitMQ:\n"+
			"  Enabled: %t\n"+
			"  Exchange: %s\n"+
			"Identity:\n"+
			"  Issuer: %s\n"+
			"CORS:\n"+
			"  AllowedOrigins: %v\n",
		c.Env,
		c.MigrationsPath,
		c.Currency,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.AddressGRPC,
		c.AddressRedis,
		c.DB,
		c.URL != "",
		c.Exchange,
		c.Issuer,
		c.AllowedOrigins,
	)
}
