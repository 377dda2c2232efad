package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	SMTP       SMTPConfig
	Referral   ReferralConfig
	Withdrawal WithdrawalConfig
	Monnify    MonnifyConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type ReferralConfig struct {
	// CommissionRate is the fraction of the subscription amount credited to
	// the referrer, in [0, 1].
	CommissionRate float64
	PageSizeMin    int
	PageSizeMax    int
	PageSizeDef    int
}

type WithdrawalConfig struct {
	MinAmount float64
	// MaxAmount of 0 means no upper bound.
	MaxAmount          float64
	SelectionBatchSize int
	EventsTopic        string
	RateLimit          int
	RateWindow         time.Duration
	ReconcileInterval  time.Duration
	ReconcileStuckAge  time.Duration
}

type MonnifyConfig struct {
	BaseURL             string
	APIKey              string
	SecretKey           string
	ContractCode        string
	SourceAccountNumber string
	Currency            string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "TaxPadi"),
		},
		Referral: ReferralConfig{
			CommissionRate: getEnvAsFloat("REFERRAL_COMMISSION_RATE", 0.10),
			PageSizeMin:    getEnvAsInt("PAGE_SIZE_MIN", 1),
			PageSizeMax:    getEnvAsInt("PAGE_SIZE_MAX", 100),
			PageSizeDef:    getEnvAsInt("PAGE_SIZE_DEFAULT", 20),
		},
		Withdrawal: WithdrawalConfig{
			MinAmount:          getEnvAsFloat("WITHDRAWAL_MIN_AMOUNT", 1000),
			MaxAmount:          getEnvAsFloat("WITHDRAWAL_MAX_AMOUNT", 0),
			SelectionBatchSize: getEnvAsInt("EARNING_SELECTION_BATCH_SIZE", 100),
			EventsTopic:        getEnv("WITHDRAWAL_EVENTS_TOPIC", "WITHDRAWAL_EVENTS"),
			RateLimit:          getEnvAsInt("WITHDRAWAL_RATE_LIMIT", 5),
			RateWindow:         getEnvAsDuration("WITHDRAWAL_RATE_WINDOW", time.Minute),
			ReconcileInterval:  getEnvAsDuration("RECONCILE_INTERVAL", 5*time.Minute),
			ReconcileStuckAge:  getEnvAsDuration("RECONCILE_STUCK_AFTER", 15*time.Minute),
		},
		Monnify: MonnifyConfig{
			BaseURL:             getEnv("MONNIFY_BASE_URL", "https://sandbox.monnify.com"),
			APIKey:              getEnv("MONNIFY_API_KEY", ""),
			SecretKey:           getEnv("MONNIFY_SECRET_KEY", ""),
			ContractCode:        getEnv("MONNIFY_CONTRACT_CODE", ""),
			SourceAccountNumber: getEnv("MONNIFY_SOURCE_ACCOUNT", ""),
			Currency:            getEnv("MONNIFY_CURRENCY", "NGN"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
