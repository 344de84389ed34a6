package infra

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultBaseURL — последний кандидат в цепочке разрешения адреса бэкенда.
const DefaultBaseURL = "http://api:8000"

// Config — корневая структура конфигурации консоли.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Backend BackendConfig `mapstructure:"backend"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Session SessionConfig `mapstructure:"session"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logger  LoggerConfig  `mapstructure:"logger"`
}

// ServerConfig описывает настройки HTTP-сервера фасада.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr собирает host:port для http.Server
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// BackendConfig описывает подключение к роутеру инференса.
type BackendConfig struct {
	// Явный override (BACKEND_BASE_URL / AGENTICLABS_API_BASE_URL)
	BaseURL string `mapstructure:"base_url"`
	// Публичный дефолт (NEXT_PUBLIC_API_BASE_URL)
	PublicBaseURL string `mapstructure:"public_base_url"`

	Timeout time.Duration `mapstructure:"timeout"`
	AgentID string        `mapstructure:"agent_id"`

	// Настройки Circuit Breaker для вызовов бэкенда
	CBMaxRequests uint32        `mapstructure:"cb_max_requests"`
	CBInterval    time.Duration `mapstructure:"cb_interval"`
	CBTimeout     time.Duration `mapstructure:"cb_timeout"`
	CBMaxFailures uint32        `mapstructure:"cb_max_failures"`

	// Лимит на запуски из песочницы (runs в секунду)
	RunRateLimit float64 `mapstructure:"run_rate_limit"`
	RunRateBurst int     `mapstructure:"run_rate_burst"`

	// Стартовая проверка /health
	ProbeAttempts uint `mapstructure:"probe_attempts"`

	// Заполняется один раз в LoadConfig, дальше только читается
	ResolvedBaseURL string `mapstructure:"-"`
}

// RedisConfig описывает подключение к Redis (хранилище состояния сессий).
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SessionConfig — где хранится состояние представлений (сортировка, offset).
type SessionConfig struct {
	Store string        `mapstructure:"store"` // memory, redis
	TTL   time.Duration `mapstructure:"ttl"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoggerConfig настраивает поведение zap логгера.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// LoadConfig инициализирует конфигурацию, объединяя .env, файл и ENV.
// Вызывается один раз при старте процесса.
func LoadConfig() (*Config, error) {
	// 0. .env для локальной разработки, отсутствие файла не ошибка
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	v := viper.New()

	// 1. Настройка поиска файла
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	// 2. ENV: SERVER_PORT=9000 перекроет server.port
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Исторические имена переменных из UI-слоя
	if err := v.BindEnv("backend.base_url", "BACKEND_BASE_URL", "AGENTICLABS_API_BASE_URL"); err != nil {
		return nil, fmt.Errorf("bind backend.base_url: %w", err)
	}
	if err := v.BindEnv("backend.public_base_url", "BACKEND_PUBLIC_BASE_URL", "NEXT_PUBLIC_API_BASE_URL"); err != nil {
		return nil, fmt.Errorf("bind backend.public_base_url: %w", err)
	}

	// 3. Дефолты
	setDefaults(v)

	// 4. Чтение файла
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Если файла нет — работаем на ENV и дефолтах
	}

	// 5. Маппинг в структуру
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	// 6. Адрес бэкенда разрешается ровно один раз
	cfg.Backend.ResolvedBaseURL = ResolveBaseURL(cfg.Backend.BaseURL, cfg.Backend.PublicBaseURL, DefaultBaseURL)

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 35*time.Second)
	v.SetDefault("backend.timeout", 30*time.Second)
	v.SetDefault("backend.agent_id", "router-playground")
	v.SetDefault("backend.cb_max_requests", 3)
	v.SetDefault("backend.cb_interval", 5*time.Second)
	v.SetDefault("backend.cb_timeout", 30*time.Second)
	v.SetDefault("backend.cb_max_failures", 5)
	v.SetDefault("backend.run_rate_limit", 5.0)
	v.SetDefault("backend.run_rate_burst", 10)
	v.SetDefault("backend.probe_attempts", 5)
	v.SetDefault("session.store", "memory")
	v.SetDefault("session.ttl", 30*time.Minute)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("metrics.addr", ":9090")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
}

// ResolveBaseURL возвращает первого непустого кандидата без завершающего "/".
// Порядок: явный override, публичный дефолт, литерал.
func ResolveBaseURL(candidates ...string) string {
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return strings.TrimRight(c, "/")
		}
	}
	return DefaultBaseURL
}
