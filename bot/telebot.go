package bot

import (
	"errors"
	"fmt"
	"os"

	m "moodindex/internal/model"
	"moodindex/publish"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TeleBot struct {
	bot    sender
	chatId int64
	lg     zerolog.Logger
}

type TeleBotConfig struct {
	Token  string
	ChatId int64
}

func NewTeleBot(conf *TeleBotConfig) (*TeleBot, error) {
	if conf == nil || conf.Token == "" {
		return nil, errors.New("telegram token is empty")
	}

	bot, err := tgbotapi.NewBotAPI(conf.Token)
	if err != nil {
		return nil, err
	}

	return newTeleBot(bot, conf.ChatId), nil
}

func newTeleBot(s sender, chatId int64) *TeleBot {
	return &TeleBot{
		bot:    s,
		chatId: chatId,
		lg:     zerolog.New(os.Stdout).With().Str("Module", "TeleBot").Timestamp().Logger(),
	}
}

func (t TeleBot) SendMessage(msg string) error {
	if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatId, msg)); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	t.lg.Debug().Int64("chat", t.chatId).Msg("Message sent")
	return nil
}

// MoodMessage is the notification text for a freshly appended reading.
func MoodMessage(r m.Record) string {
	return fmt.Sprintf("[MMI] %s (%s)\n%s", publish.FormatValue(r.Value), r.Mood, m.ReadableTime(r.Timestamp))
}
