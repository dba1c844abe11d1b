package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Allocator     AllocatorConfig     `toml:"allocator"`
	Registry      RegistryConfig      `toml:"registry"`
	Notifications NotificationsConfig `toml:"notifications"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN возвращает строку подключения к PostgreSQL
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"` // debug | info | warn | error
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// AllocatorConfig настройки аллокатора бронирований
type AllocatorConfig struct {
	SerializableAttempts   int `toml:"serializable_attempts"`    // попытки транзакции при конфликте сериализации
	SlotGranularityMinutes int `toml:"slot_granularity_minutes"` // шаг генерации слотов
}

// RegistryConfig настройки реестра ресурсов
type RegistryConfig struct {
	ForceDeactivate bool `toml:"force_deactivate"` // политика деактивации при будущих бронированиях
}

// NotificationsConfig настройки доставки уведомлений
type NotificationsConfig struct {
	EmailGatewayURL     string `toml:"email_gateway_url"`
	EmailGatewayTimeout int    `toml:"email_gateway_timeout"` // секунды
	SMSGatewayURL       string `toml:"sms_gateway_url"`
	SMSGatewayTimeout   int    `toml:"sms_gateway_timeout"` // секунды
	DrainInterval       int    `toml:"drain_interval"`      // секунды
	BatchSize           int    `toml:"batch_size"`
	MaxAttempts         int    `toml:"max_attempts"`
}

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	return &cfg, nil
}
