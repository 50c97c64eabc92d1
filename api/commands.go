package api

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var registeredCommands = make(map[string]CommandFunc)
var pollAnswerHandlers = make([]PollAnswerFunc, 0)
var callbackHandlers = make(map[string]CallbackFunc)

type CommandFunc func(bot *tgbotapi.BotAPI, message *tgbotapi.Message, cmd string, args string)

type PollAnswerFunc func(bot *tgbotapi.BotAPI, answer *tgbotapi.PollAnswer)

type CallbackFunc func(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery)

func RegisterCommand(cmd string, commandFunc CommandFunc) {
	registeredCommands[strings.ToLower(cmd)] = commandFunc
}

func GetCommand(cmd string) CommandFunc {
	executor := registeredCommands[strings.ToLower(cmd)]
	if executor == nil {
		return registeredCommands[""]
	}
	return executor
}

func RegisterPollAnswerHandler(handler PollAnswerFunc) {
	pollAnswerHandlers = append(pollAnswerHandlers, handler)
}

func RegisterCallbackHandler(data string, handler CallbackFunc) {
	callbackHandlers[data] = handler
}

// Dispatch routes a single update from the long-poll loop to whichever
// handler claimed it. Unclaimed updates are dropped.
func Dispatch(bot *tgbotapi.BotAPI, update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.IsCommand():
		executor := GetCommand(update.Message.Command())
		if executor != nil {
			executor(bot, update.Message, update.Message.Command(), update.Message.CommandArguments())
		}
	case update.PollAnswer != nil:
		for _, handler := range pollAnswerHandlers {
			handler(bot, update.PollAnswer)
		}
	case update.CallbackQuery != nil:
		handler := callbackHandlers[update.CallbackQuery.Data]
		if handler != nil {
			handler(bot, update.CallbackQuery)
		}
	}
}
