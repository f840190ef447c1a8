package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/smartclinic/booking-api/internal/model"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port" envconfig:"SERVER_PORT"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" envconfig:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host" envconfig:"DB_HOST"`
	Port     int    `mapstructure:"port" envconfig:"DB_PORT"`
	User     string `mapstructure:"user" envconfig:"DB_USER"`
	Password string `mapstructure:"password" envconfig:"DB_PASSWORD"`
	Name     string `mapstructure:"name" envconfig:"DB_NAME"`
	SSLMode  string `mapstructure:"sslmode" envconfig:"DB_SSLMODE"`
}

type JWTConfig struct {
	Secret   string        `mapstructure:"secret" envconfig:"JWT_SECRET"`
	Validity time.Duration `mapstructure:"validity" envconfig:"JWT_VALIDITY"`
}

// ScheduleConfig describes the daily slot grid. The grid is inclusive
// of both boundary hours.
type ScheduleConfig struct {
	DayStartHour int `mapstructure:"day_start_hour" envconfig:"SCHEDULE_DAY_START"`
	DayEndHour   int `mapstructure:"day_end_hour" envconfig:"SCHEDULE_DAY_END"`
	SlotMinutes  int `mapstructure:"slot_minutes" envconfig:"SCHEDULE_SLOT_MINUTES"`
}

// Grid materializes the daily slot grid in ascending order.
func (c ScheduleConfig) Grid() []model.Slot {
	interval := time.Duration(c.SlotMinutes) * time.Minute
	start := time.Date(0, 1, 1, c.DayStartHour, 0, 0, 0, time.UTC)
	end := time.Date(0, 1, 1, c.DayEndHour, 0, 0, 0, time.UTC)

	var grid []model.Slot
	for t := start; !t.After(end); t = t.Add(interval) {
		grid = append(grid, model.SlotOf(t))
	}
	return grid
}

type RedisConfig struct {
	URL     string `mapstructure:"url" envconfig:"REDIS_URL"`
	Enabled bool   `mapstructure:"enabled" envconfig:"REDIS_ENABLED"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" envconfig:"RATE_LIMIT_RPS"`
	Burst             int     `mapstructure:"burst" envconfig:"RATE_LIMIT_BURST"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host" envconfig:"SMTP_HOST"`
	Port     int    `mapstructure:"port" envconfig:"SMTP_PORT"`
	Username string `mapstructure:"username" envconfig:"SMTP_USERNAME"`
	Password string `mapstructure:"password" envconfig:"SMTP_PASSWORD"`
	From     string `mapstructure:"from" envconfig:"SMTP_FROM"`
	Enabled  bool   `mapstructure:"enabled" envconfig:"SMTP_ENABLED"`
}

// LoadConfig reads the optional yaml config file and then overlays
// environment variables on top of it.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "10s")
	viper.SetDefault("server.write_timeout", "10s")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.name", "clinic")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("jwt.validity", "168h")
	viper.SetDefault("schedule.day_start_hour", 9)
	viper.SetDefault("schedule.day_end_hour", 17)
	viper.SetDefault("schedule.slot_minutes", 60)
	viper.SetDefault("rate_limit.requests_per_second", 50.0)
	viper.SetDefault("rate_limit.burst", 100)
	viper.SetDefault("smtp.port", 587)

	var config Config
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("clinic", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required")
	}
	if c.JWT.Validity <= 0 {
		return fmt.Errorf("jwt validity must be positive")
	}
	if c.Schedule.DayStartHour > c.Schedule.DayEndHour {
		return fmt.Errorf("schedule day start must not be after day end")
	}
	if c.Schedule.SlotMinutes <= 0 {
		return fmt.Errorf("schedule slot interval must be positive")
	}
	return nil
}
