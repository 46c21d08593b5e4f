package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Telegram configuration
	TelegramToken string
	LogChannelID  int64 // Channel that receives operational notifications

	// Database configuration
	DatabaseURL string

	// Bot configuration (amounts in cents)
	SignupBonus      int64
	ReferralBonus    int64
	WithdrawalAmount int64
	WebsiteURL       string // Player-entry URL behind the Play button

	// Keepalive HTTP server
	HTTPAddr string

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	config := &Config{
		// Telegram
		TelegramToken: os.Getenv("BOT_TOKEN"),

		// Database
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Bot settings with defaults
		SignupBonus:      100, // $1 signup bonus
		ReferralBonus:    10,  // $0.10 per referred signup
		WithdrawalAmount: 100, // $1 per withdrawal
		WebsiteURL:       os.Getenv("WEBSITE_URL"),

		// Keepalive
		HTTPAddr: os.Getenv("HTTP_ADDR"),

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if bonus := os.Getenv("SIGNUP_BONUS"); bonus != "" {
		if parsedBonus, err := strconv.ParseInt(bonus, 10, 64); err == nil {
			config.SignupBonus = parsedBonus
		}
	}
	if bonus := os.Getenv("REFERRAL_BONUS"); bonus != "" {
		if parsedBonus, err := strconv.ParseInt(bonus, 10, 64); err == nil {
			config.ReferralBonus = parsedBonus
		}
	}
	if amount := os.Getenv("WITHDRAWAL_AMOUNT"); amount != "" {
		if parsedAmount, err := strconv.ParseInt(amount, 10, 64); err == nil {
			config.WithdrawalAmount = parsedAmount
		}
	}

	// Parse log channel ID
	if channelID := os.Getenv("LOG_CHANNEL_ID"); channelID != "" {
		id, err := strconv.ParseInt(channelID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_CHANNEL_ID: %w", err)
		}
		config.LogChannelID = id
	}

	if config.HTTPAddr == "" {
		config.HTTPAddr = ":10000"
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.TelegramToken == "" {
			return nil, fmt.Errorf("BOT_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
