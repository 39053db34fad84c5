package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Order    OrderConfig    `yaml:"order"`
	Payment  PaymentConfig  `yaml:"payment"`
	Split    SplitConfig    `yaml:"split"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Auth     AuthConfig     `yaml:"auth"`
}

// ServerConfig bounds request handling. WriteTimeout must outlast the payment
// gateway timeout or checkout responses are cut off mid-charge.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type OrderConfig struct {
	ReservationTxTimeout time.Duration `yaml:"reservationTxTimeout"`
	MaxRetryAttempts     int           `yaml:"maxRetryAttempts"`
	DefaultPageSize      int           `yaml:"defaultPageSize"`
	MaxPageSize          int           `yaml:"maxPageSize"`
}

type PaymentConfig struct {
	BaseURL             string        `yaml:"baseUrl"`
	SecretKey           string        `yaml:"secretKey"`
	Timeout             time.Duration `yaml:"timeout"`
	StatementDescriptor string        `yaml:"statementDescriptor"`
	DefaultCountry      string        `yaml:"defaultCountry"`
	PlaceholderPhone    string        `yaml:"placeholderPhone"`
}

// SplitConfig toggles revenue splitting. Recipients and percentages live in the
// payment_split_config table.
type SplitConfig struct {
	Enabled bool `yaml:"enabled"`
}

type RedisConfig struct {
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	StatusTTL time.Duration `yaml:"statusTtl"`
}

type KafkaConfig struct {
	Brokers string `yaml:"brokers"`
	Topic   string `yaml:"topic"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwtSecret"`
	AdminRole string `yaml:"adminRole"`
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("SERVER_READ_TIMEOUT", "10s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "45s")
	viper.SetDefault("SERVER_IDLE_TIMEOUT", "60s")
	viper.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "15s")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 3306)
	viper.SetDefault("DB_USER", "vitashop")
	viper.SetDefault("DB_PASSWORD", "secret")
	viper.SetDefault("DB_NAME", "vitashop")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("ORDER_RESERVATION_TX_TIMEOUT", "5s")
	viper.SetDefault("ORDER_MAX_RETRY_ATTEMPTS", 3)
	viper.SetDefault("ORDER_DEFAULT_PAGE_SIZE", 10)
	viper.SetDefault("ORDER_MAX_PAGE_SIZE", 100)
	viper.SetDefault("PAYMENT_BASE_URL", "https://api.pagar.me/core/v5")
	viper.SetDefault("PAYMENT_SECRET_KEY", "")
	viper.SetDefault("PAYMENT_TIMEOUT", "30s")
	viper.SetDefault("PAYMENT_STATEMENT_DESCRIPTOR", "VITASHOP")
	viper.SetDefault("PAYMENT_DEFAULT_COUNTRY", "BR")
	viper.SetDefault("PAYMENT_PLACEHOLDER_PHONE", "5511999999999")
	viper.SetDefault("SPLIT_ENABLED", false)
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_STATUS_TTL", "30s")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "order-events")
	viper.SetDefault("AUTH_JWT_SECRET", "")
	viper.SetDefault("AUTH_ADMIN_ROLE", "admin")

	durations := map[string]*time.Duration{}
	var readTimeout, writeTimeout, idleTimeout, shutdownTimeout time.Duration
	var connMaxLifetime, reservationTxTimeout, paymentTimeout, statusTTL time.Duration
	durations["SERVER_READ_TIMEOUT"] = &readTimeout
	durations["SERVER_WRITE_TIMEOUT"] = &writeTimeout
	durations["SERVER_IDLE_TIMEOUT"] = &idleTimeout
	durations["SERVER_SHUTDOWN_TIMEOUT"] = &shutdownTimeout
	durations["DB_CONN_MAX_LIFETIME"] = &connMaxLifetime
	durations["ORDER_RESERVATION_TX_TIMEOUT"] = &reservationTxTimeout
	durations["PAYMENT_TIMEOUT"] = &paymentTimeout
	durations["REDIS_STATUS_TTL"] = &statusTTL

	for key, target := range durations {
		d, err := time.ParseDuration(viper.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", key, err)
		}
		*target = d
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            viper.GetInt("SERVER_PORT"),
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			IdleTimeout:     idleTimeout,
			ShutdownTimeout: shutdownTimeout,
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Name:            viper.GetString("DB_NAME"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
		Order: OrderConfig{
			ReservationTxTimeout: reservationTxTimeout,
			MaxRetryAttempts:     viper.GetInt("ORDER_MAX_RETRY_ATTEMPTS"),
			DefaultPageSize:      viper.GetInt("ORDER_DEFAULT_PAGE_SIZE"),
			MaxPageSize:          viper.GetInt("ORDER_MAX_PAGE_SIZE"),
		},
		Payment: PaymentConfig{
			BaseURL:             viper.GetString("PAYMENT_BASE_URL"),
			SecretKey:           viper.GetString("PAYMENT_SECRET_KEY"),
			Timeout:             paymentTimeout,
			StatementDescriptor: viper.GetString("PAYMENT_STATEMENT_DESCRIPTOR"),
			DefaultCountry:      viper.GetString("PAYMENT_DEFAULT_COUNTRY"),
			PlaceholderPhone:    viper.GetString("PAYMENT_PLACEHOLDER_PHONE"),
		},
		Split: SplitConfig{
			Enabled: viper.GetBool("SPLIT_ENABLED"),
		},
		Redis: RedisConfig{
			Addr:      viper.GetString("REDIS_ADDR"),
			Password:  viper.GetString("REDIS_PASSWORD"),
			DB:        viper.GetInt("REDIS_DB"),
			StatusTTL: statusTTL,
		},
		Kafka: KafkaConfig{
			Brokers: viper.GetString("KAFKA_BROKERS"),
			Topic:   viper.GetString("KAFKA_TOPIC"),
		},
		Auth: AuthConfig{
			JWTSecret: viper.GetString("AUTH_JWT_SECRET"),
			AdminRole: viper.GetString("AUTH_ADMIN_ROLE"),
		},
	}

	return cfg, nil
}
