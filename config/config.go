package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Session  SessionConfig  `yaml:"session"`
	Booking  BookingConfig  `yaml:"booking"`
	Tickets  TicketsConfig  `yaml:"tickets"`
	Admin    AdminConfig    `yaml:"admin"`
}

type HTTPConfig struct {
	Address    string `yaml:"address"`
	SwaggerDir string `yaml:"swagger_dir"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type SessionConfig struct {
	Secret       string `yaml:"secret"`
	TTLHours     int    `yaml:"ttl_hours"`
	RememberDays int    `yaml:"remember_days"`
}

type BookingConfig struct {
	MaxWindowDays int `yaml:"max_window_days"`
	RefAttempts   int `yaml:"ref_attempts"`
}

type TicketsConfig struct {
	Dir string `yaml:"dir"`
}

type AdminAccount struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
}

type AdminConfig struct {
	Accounts []AdminAccount `yaml:"accounts"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// SECRET_KEY от окружения имеет приоритет, чтобы ключ подписи не жил в репозитории.
	if secret := os.Getenv("SECRET_KEY"); secret != "" {
		cfg.Session.Secret = secret
	}
	if cfg.Session.Secret == "" {
		return nil, fmt.Errorf("session secret is required (session.secret or SECRET_KEY)")
	}
	if cfg.Session.TTLHours == 0 {
		cfg.Session.TTLHours = 24
	}
	if cfg.Session.RememberDays == 0 {
		cfg.Session.RememberDays = 30
	}
	if cfg.Booking.MaxWindowDays == 0 {
		cfg.Booking.MaxWindowDays = 365
	}
	if cfg.Booking.RefAttempts == 0 {
		cfg.Booking.RefAttempts = 5
	}
	if cfg.Tickets.Dir == "" {
		cfg.Tickets.Dir = "tickets"
	}

	return &cfg, nil
}
