package services

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// AlertService posts operational notices to a Telegram channel. Delivery is
// best-effort: a failed alert is logged and forgotten.
type AlertService interface {
	NotifySignup(email string)
	NotifyPredictionFailure(ticker string, cause error)
}

type telegramAlertService struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramAlertService returns nil when no bot token is configured;
// callers nil-check before notifying.
func NewTelegramAlertService(botToken string, chatID int64) AlertService {
	if botToken == "" || chatID == 0 {
		return nil
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Printf("[alerts] telegram bot init failed, alerts disabled: %v", err)
		return nil
	}
	return &telegramAlertService{bot: bot, chatID: chatID}
}

func (s *telegramAlertService) NotifySignup(email string) {
	s.send(fmt.Sprintf("New registration: %s", email))
}

func (s *telegramAlertService) NotifyPredictionFailure(ticker string, cause error) {
	s.send(fmt.Sprintf("Prediction failed for %s: %v", ticker, cause))
}

func (s *telegramAlertService) send(text string) {
	if _, err := s.bot.Send(tgbotapi.NewMessage(s.chatID, text)); err != nil {
		log.Printf("[alerts] telegram send failed: %v", err)
	}
}
