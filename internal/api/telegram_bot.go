// Package api provides handlers for external APIs and interfaces
package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/abelzeko/water-advisor/internal/integration"
	"github.com/abelzeko/water-advisor/internal/logger"
	"github.com/abelzeko/water-advisor/internal/usecases"
)

const requestTimeout = 10 * time.Second

// TelegramBot handles interactions with the Telegram API
type TelegramBot struct {
	bot     *tgbotapi.BotAPI
	useCase *usecases.AdvisoryUseCase
	log     zerolog.Logger
}

// NewTelegramBot creates a new Telegram bot handler
func NewTelegramBot(botToken string, useCase *usecases.AdvisoryUseCase) (*TelegramBot, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &TelegramBot{
		bot:     bot,
		useCase: useCase,
		log:     logger.WithComponent("telegram_bot"),
	}, nil
}

// Start listens for Telegram messages until ctx is cancelled
func (t *TelegramBot) Start(ctx context.Context) {
	t.log.Info().Str("account", t.bot.Self.UserName).Msg("authorized on Telegram")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.bot.GetUpdatesChan(u)
	t.log.Info().Msg("bot is now listening for messages")

	for {
		select {
		case <-ctx.Done():
			t.bot.StopReceivingUpdates()
			t.log.Info().Msg("bot stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			t.log.Debug().
				Int64("chat_id", update.Message.Chat.ID).
				Str("text", update.Message.Text).
				Msg("received message")

			t.handleMessage(ctx, update)
		}
	}
}

// handleMessage processes a Telegram message update
func (t *TelegramBot) handleMessage(ctx context.Context, update tgbotapi.Update) {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, t.respond(ctx, update.Message))

	if _, err := t.bot.Send(msg); err != nil {
		t.log.Error().Err(err).Int64("chat_id", update.Message.Chat.ID).Msg("error sending message")
	}
}

// respond builds the reply text for a message
func (t *TelegramBot) respond(ctx context.Context, message *tgbotapi.Message) string {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	if !message.IsCommand() {
		return t.handleLocationCommand(ctx, strings.TrimSpace(message.Text))
	}

	switch message.Command() {
	case "start":
		return "Welcome to the Water Advisor! Use /locations to see the monitoring points or /help for more information."

	case "help":
		return "Available commands:\n" +
			"/start - Start the bot\n" +
			"/locations - Show the monitoring locations\n" +
			"/location [id] - Show the advisory for a location\n" +
			"/alerts - Show locations with active alerts\n" +
			"/help - Show this help message"

	case "locations":
		return t.handleLocationsCommand(ctx)

	case "location":
		return t.handleLocationCommand(ctx, strings.TrimSpace(message.CommandArguments()))

	case "alerts":
		return t.handleAlertsCommand(ctx)

	default:
		t.log.Debug().Str("command", message.Command()).Msg("unknown command")
		return "Unknown command. Use /help to see available commands."
	}
}

// handleLocationsCommand processes the /locations command
func (t *TelegramBot) handleLocationsCommand(ctx context.Context) string {
	locations, err := t.useCase.GetLocations(ctx)
	if err != nil {
		t.log.Error().Err(err).Msg("error fetching locations")
		return "Error fetching locations. Please try again later."
	}
	return t.useCase.FormatLocations(locations)
}

// handleLocationCommand processes the /location [id] command
func (t *TelegramBot) handleLocationCommand(ctx context.Context, id string) string {
	if id == "" {
		return "Please specify a location id. Example: /location outfall"
	}

	report, err := t.useCase.EvaluateLocation(ctx, id)
	if errors.Is(err, integration.ErrLocationNotFound) {
		return fmt.Sprintf("No location '%s'. Use /locations to see the available ones.", id)
	}
	if err != nil {
		t.log.Error().Err(err).Str("location", id).Msg("error evaluating location")
		return "Error fetching water-quality data. Please try again later."
	}
	return t.useCase.FormatReport(report)
}

// handleAlertsCommand processes the /alerts command
func (t *TelegramBot) handleAlertsCommand(ctx context.Context) string {
	reports, err := t.useCase.GetAlertingReports(ctx)
	if err != nil {
		t.log.Error().Err(err).Msg("error evaluating locations")
		return "Error fetching water-quality data. Please try again later."
	}
	if len(reports) == 0 {
		return "✅ No active alerts."
	}

	parts := make([]string, 0, len(reports))
	for _, r := range reports {
		parts = append(parts, t.useCase.FormatReport(r))
	}
	return strings.Join(parts, "\n\n")
}
