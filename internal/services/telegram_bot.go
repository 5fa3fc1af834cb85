package services

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier delivers short operational messages to the sales team.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, string) error { return nil }

// NoopNotifier is used when no chat integration is configured.
func NoopNotifier() Notifier { return noopNotifier{} }

type TelegramService struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramService connects to the Bot API (getMe) and posts to chatID.
func NewTelegramService(botToken string, chatID int64) (*TelegramService, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &TelegramService{bot: bot, chatID: chatID}, nil
}

// NewTelegramServiceWithClient is NewTelegramService against a custom endpoint,
// e.g. "http://127.0.0.1:8081/bot%s/%s".
func NewTelegramServiceWithClient(botToken, endpoint string, client tgbotapi.HTTPClient, chatID int64) (*TelegramService, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(botToken, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &TelegramService{bot: bot, chatID: chatID}, nil
}

func (t *TelegramService) SendMessage(chatID int64, text string) error {
	if t == nil || t.bot == nil || chatID == 0 {
		log.Printf("[tg][skip] bot or chatID empty (chatID=%d)", chatID)
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := t.bot.Send(msg); err != nil {
		log.Printf("[tg][send][err] chatID=%d: %v", chatID, err)
		return fmt.Errorf("telegram sendMessage failed: %w", err)
	}
	log.Printf("[tg][send] chatID=%d", chatID)
	return nil
}

func (t *TelegramService) Notify(_ context.Context, text string) error {
	return t.SendMessage(t.chatID, text)
}
