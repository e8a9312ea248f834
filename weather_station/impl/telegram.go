package impl

import (
	"fmt"

	"github.com/evkuzin/wxled/color"
	"github.com/evkuzin/wxled/weather_station"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts condition changes to a chat.
type TelegramNotifier struct {
	tg     telegramSender
	chatID int64
}

func NewTelegramNotifier(key string, chatID int64, debug bool, logger *logrus.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(key)
	if err != nil {
		return nil, err
	}
	bot.Debug = debug
	logger.Infof("Telegram authorized on account %s", bot.Self.UserName)
	return &TelegramNotifier{tg: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) Notify(obs weather_station.Observation, c color.Triple) error {
	msgText := fmt.Sprintf("%s\nTemperature: %s\nLED: %s\n",
		obs.Condition,
		formatTemperature(obs.Temperature),
		c,
	)
	msg := tgbotapi.NewMessage(n.chatID, msgText)
	_, err := n.tg.Send(msg)
	return err
}
