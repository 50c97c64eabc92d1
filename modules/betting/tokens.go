package betting

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lunardini/totobot/ledger"
	"github.com/lunardini/totobot/logger"
)

func runTokensCommand(bot *tgbotapi.BotAPI, message *tgbotapi.Message, cmd string, args string) {
	chatId := message.Chat.ID

	group, err := openGroup(chatId)
	if err != nil {
		logger.Err().Println(err.Error())
		reply(bot, chatId, "Create a group first with /create")
		return
	}

	tokens, err := group.Tokens(message.From.ID)
	if errors.Is(err, ledger.ErrNotAMember) {
		msg := tgbotapi.NewMessage(chatId, "You are not a member yet")
		msg.ReplyMarkup = joinKeyboard
		if _, err = bot.Send(msg); err != nil {
			logger.Err().Printf("Cannot send message: %s", err.Error())
		}
		return
	}
	if err != nil {
		logger.Err().Println(err.Error())
		reply(bot, chatId, "Unable to read your balance")
		return
	}

	reply(bot, chatId, fmt.Sprintf("You have %d tokens left", tokens))
}

func runSuggestCommand(bot *tgbotapi.BotAPI, message *tgbotapi.Message, cmd string, args string) {
	chatId := message.Chat.ID

	group, err := openGroup(chatId)
	if err != nil {
		logger.Err().Println(err.Error())
		reply(bot, chatId, "Create a group first with /create")
		return
	}

	if strings.TrimSpace(args) == "" {
		reply(bot, chatId, "No suggestion received. Usage: /suggest <text>")
		return
	}

	if err = group.Suggest(args); err != nil {
		logger.Err().Println(err.Error())
		reply(bot, chatId, "Unable to save the suggestion")
		return
	}

	reply(bot, chatId, "Ok! Suggestion added")
}
