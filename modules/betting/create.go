package betting

import (
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lunardini/totobot/database"
	"github.com/lunardini/totobot/ledger"
	"github.com/lunardini/totobot/logger"
)

var joinKeyboard = tgbotapi.NewInlineKeyboardMarkup(
	tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Join", "join"),
	),
)

func runCreateCommand(bot *tgbotapi.BotAPI, message *tgbotapi.Message, cmd string, args string) {
	chatId := message.Chat.ID

	db, err := database.Create(chatId)
	if errors.Is(err, database.ErrGroupExists) {
		reply(bot, chatId, "This chat already has a betting group")
		return
	}
	if err != nil {
		logger.Err().Println(err.Error())
		reply(bot, chatId, "Unable to create the group")
		return
	}

	if _, err = ledger.Create(db, chatId, args); err != nil {
		logger.Err().Println(err.Error())
		reply(bot, chatId, "Unable to create the group")
		return
	}

	msg := tgbotapi.NewMessage(chatId, "Group created! Tap below to join.")
	msg.ReplyMarkup = joinKeyboard
	if _, err = bot.Send(msg); err != nil {
		logger.Err().Printf("Cannot send message: %s", err.Error())
	}
}

func runJoinCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery) {
	_, _ = bot.Request(tgbotapi.NewCallback(query.ID, ""))

	if query.Message == nil || query.From == nil {
		return
	}
	chatId := query.Message.Chat.ID

	group, err := openGroup(chatId)
	if err != nil {
		logger.Err().Println(err.Error())
		reply(bot, chatId, "Create a group first with /create")
		return
	}

	name := userName(query.From)

	created, err := group.Join(query.From.ID, name, defaultTokens)
	if err != nil {
		logger.Err().Println(err.Error())
		reply(bot, chatId, "Unable to join the group")
		return
	}

	if !created {
		reply(bot, chatId, name+" is already a member")
		return
	}

	reply(bot, chatId, fmt.Sprintf("Welcome %s! You start with %d tokens.", name, defaultTokens))
}
