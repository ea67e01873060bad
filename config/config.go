package config

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"food-ordering-api/models"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	DBPath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CartTTL       time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	PaymentGatewayURL string
	PaymentKeyID      string
	PaymentKeySecret  string
	PaymentCurrency   string

	DeliveryFee decimal.Decimal
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded, using environment only")
	}

	return &Config{
		Port:     getEnv("PORT", "8080"),
		GinMode:  getEnv("GIN_MODE", ""),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBPath: getEnv("DB_PATH", "shop_ordering.db"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CartTTL:       getEnvDuration("CART_TTL", 7*24*time.Hour),

		JWTSecret: getEnv("JWT_SECRET", "shop_ordering_super_secret_2024"),
		JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),

		PaymentGatewayURL: getEnv("PAYMENT_GATEWAY_URL", "https://api.razorpay.com"),
		PaymentKeyID:      getEnv("PAYMENT_KEY_ID", ""),
		PaymentKeySecret:  getEnv("PAYMENT_KEY_SECRET", ""),
		PaymentCurrency:   getEnv("PAYMENT_CURRENCY", "INR"),

		DeliveryFee: getEnvDecimal("DELIVERY_FEE", decimal.RequireFromString("2.99")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return d
}

func getEnvDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	d, err := decimal.NewFromString(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return d
}

// NewLogger builds the JSON logger used across the service and installs it
// as the slog default.
func NewLogger(cfg *Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	l := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(l)
	return l
}

// OpenDB connects to the SQLite file at path and migrates every model.
func OpenDB(path string) (*gorm.DB, error) {
	return openDB(path, os.Stdout)
}

// gormLogger reports slow queries and failures. Lookups that find nothing
// are an expected outcome, not an error.
func gormLogger(w io.Writer) logger.Interface {
	return logger.New(log.New(w, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

func openDB(path string, logOut io.Writer) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormLogger(logOut),
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Shop{},
		&models.Category{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.ChatMessage{},
		&models.CustomerLocation{},
		&models.Payment{},
	)
	if err != nil {
		return nil, err
	}
	return db, nil
}
