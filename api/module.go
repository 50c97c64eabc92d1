package api

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

type Module interface {
	Load(bot *tgbotapi.BotAPI)

	Name() string
}
