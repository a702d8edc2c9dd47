package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/abelzeko/water-advisor/internal/api"
	"github.com/abelzeko/water-advisor/internal/config"
	"github.com/abelzeko/water-advisor/internal/integration"
	"github.com/abelzeko/water-advisor/internal/logger"
	"github.com/abelzeko/water-advisor/internal/usecases"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Init(cfg.LogLevel)
	log := logger.WithComponent("bot")
	log.Info().Msg("starting Water Advisor bot")

	if cfg.TelegramBotToken == "" {
		log.Fatal().Msg("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	source := integration.NewMockSource(cfg.MockSeed, nil)
	useCase := usecases.NewAdvisoryUseCase(source, cfg.SnapshotTTL)

	telegramBot, err := api.NewTelegramBot(cfg.TelegramBotToken, useCase)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Telegram bot")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telegramBot.Start(ctx)
}
