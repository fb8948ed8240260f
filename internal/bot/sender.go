package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender adapts the Telegram client to the outbound-send capability the
// survey engine, admin console, and scheduler consume.
type Sender struct {
	api *tgbotapi.BotAPI
}

func NewSender(api *tgbotapi.BotAPI) *Sender {
	return &Sender{api: api}
}

func (s *Sender) SendMessage(chatID int64, text string) error {
	_, err := s.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (s *Sender) SendKeyboard(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	_, err := s.api.Send(msg)
	return err
}
