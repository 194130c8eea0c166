package bot

import (
	"errors"
	"testing"

	m "moodindex/internal/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type senderMock struct {
	sent []tgbotapi.Chattable
	err  error
}

func (s *senderMock) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if s.err != nil {
		return tgbotapi.Message{}, s.err
	}
	s.sent = append(s.sent, c)
	return tgbotapi.Message{}, nil
}

func TestSendMessage(t *testing.T) {

	mock := &senderMock{}
	tb := newTeleBot(mock, 42)

	require.NoError(t, tb.SendMessage("hello"))
	require.Len(t, mock.sent, 1)

	msg, ok := mock.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, "hello", msg.Text)

	mock.err = errors.New("network down")
	assert.Error(t, tb.SendMessage("again"))
}

func TestNewTeleBot(t *testing.T) {
	_, err := NewTeleBot(nil)
	assert.Error(t, err)

	_, err = NewTeleBot(&TeleBotConfig{})
	assert.Error(t, err)
}

func TestMoodMessage(t *testing.T) {
	r := m.Record{Timestamp: "2026-02-16T14:20:00.086Z", Value: 62.5, Mood: m.Greed}
	assert.Equal(t, "[MMI] 62.50 (Greed)\n2026-02-16 14:20 UTC", MoodMessage(r))
}
