package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"refbot/bot"
	"refbot/config"
	"refbot/database"
	"refbot/events"
	"refbot/repository"
	"refbot/service"
	"refbot/web"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting referral bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	ledgerService := service.NewLedgerService(uowFactory, service.Amounts{
		SignupBonus:      cfg.SignupBonus,
		ReferralBonus:    cfg.ReferralBonus,
		WithdrawalAmount: cfg.WithdrawalAmount,
	})

	// Initialize Telegram bot
	log.Println("Initializing Telegram bot...")
	botConfig := bot.Config{
		Token:            cfg.TelegramToken,
		LogChannelID:     cfg.LogChannelID,
		WebsiteURL:       cfg.WebsiteURL,
		SignupBonus:      cfg.SignupBonus,
		ReferralBonus:    cfg.ReferralBonus,
		WithdrawalAmount: cfg.WithdrawalAmount,
	}
	telegramBot, err := bot.New(botConfig, ledgerService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	go telegramBot.Start(ctx)

	// Start the keepalive endpoint
	keepalive := web.NewKeepaliveServer(cfg.HTTPAddr)
	go func() {
		log.Printf("Keepalive server listening on %s", cfg.HTTPAddr)
		if err := keepalive.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Keepalive server error: %v", err)
		}
	}()

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")
	telegramBot.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := keepalive.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down keepalive server: %v", err)
	}

	log.Println("Closing database connection...")
	db.Close()

	log.Println("Shutdown completed")
	return nil
}
