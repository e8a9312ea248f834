package impl

import (
	"errors"
	"testing"

	"github.com/evkuzin/wxled/color"
	"github.com/evkuzin/wxled/weather_station"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.sent = append(s.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, s.err
}

func TestTelegramNotifier_Notify(t *testing.T) {
	sender := &fakeSender{}
	n := &TelegramNotifier{tg: sender, chatID: 42}

	err := n.Notify(weather_station.Observation{Condition: "Rain", Temperature: temp(50)}, color.Triple{R: 0, G: 0.4, B: 1})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	require.Equal(t, int64(42), sender.sent[0].ChatID)
	require.Equal(t, "Rain\nTemperature: 50°F\nLED: (0, 0.4, 1)\n", sender.sent[0].Text)
}

func TestTelegramNotifier_SendError(t *testing.T) {
	n := &TelegramNotifier{tg: &fakeSender{err: errors.New("forbidden")}, chatID: 42}

	require.Error(t, n.Notify(weather_station.Observation{Condition: "Fog"}, color.Off))
}
