package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Gateway   GatewayConfig
	Printer   PrinterConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret             string
	ExpiryHours        time.Duration
	RefreshExpiryHours time.Duration
}

// GatewayConfig holds PhaJay payment gateway settings. The delays tune the
// simulated timing of demo QR generation and settlement so the flow behaves
// like the real gateway without network access.
type GatewayConfig struct {
	GenerateURL     string
	NotifyURL       string
	DemoDelay       time.Duration
	SettlementDelay time.Duration
	SuccessDelay    time.Duration
	RetryDelay      time.Duration
	RequestTimeout  time.Duration
}

type PrinterConfig struct {
	Type    string // "usb", "network", or "none"
	USBPath string
	Address string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "pos-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "sabaidee_pos")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Vientiane")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("JWT_REFRESH_EXPIRY_HOURS", 168)
	viper.SetDefault("PHAJAY_GENERATE_URL", "https://payment-gateway.phajay.co/v1/api/payment/generate-bcel-qr")
	viper.SetDefault("PHAJAY_NOTIFY_URL", "wss://payment-gateway.phajay.co/v1/api/payment/notify")
	viper.SetDefault("PHAJAY_DEMO_DELAY_MS", 1000)
	viper.SetDefault("PHAJAY_SETTLEMENT_DELAY_MS", 1000)
	viper.SetDefault("PHAJAY_SUCCESS_DELAY_MS", 1500)
	viper.SetDefault("PHAJAY_RETRY_DELAY_MS", 1000)
	viper.SetDefault("PHAJAY_REQUEST_TIMEOUT_MS", 10000)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_USB_PATH", "")
	viper.SetDefault("PRINTER_ADDRESS", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:             viper.GetString("JWT_SECRET"),
			ExpiryHours:        time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
			RefreshExpiryHours: time.Duration(viper.GetInt("JWT_REFRESH_EXPIRY_HOURS")) * time.Hour,
		},
		Gateway: GatewayConfig{
			GenerateURL:     viper.GetString("PHAJAY_GENERATE_URL"),
			NotifyURL:       viper.GetString("PHAJAY_NOTIFY_URL"),
			DemoDelay:       time.Duration(viper.GetInt("PHAJAY_DEMO_DELAY_MS")) * time.Millisecond,
			SettlementDelay: time.Duration(viper.GetInt("PHAJAY_SETTLEMENT_DELAY_MS")) * time.Millisecond,
			SuccessDelay:    time.Duration(viper.GetInt("PHAJAY_SUCCESS_DELAY_MS")) * time.Millisecond,
			RetryDelay:      time.Duration(viper.GetInt("PHAJAY_RETRY_DELAY_MS")) * time.Millisecond,
			RequestTimeout:  time.Duration(viper.GetInt("PHAJAY_REQUEST_TIMEOUT_MS")) * time.Millisecond,
		},
		Printer: PrinterConfig{
			Type:    viper.GetString("PRINTER_TYPE"),
			USBPath: viper.GetString("PRINTER_USB_PATH"),
			Address: viper.GetString("PRINTER_ADDRESS"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
