package betting

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lunardini/totobot/ledger"
	"github.com/lunardini/totobot/logger"
)

func runBetCommand(bot *tgbotapi.BotAPI, message *tgbotapi.Message, cmd string, args string) {
	chatId := message.Chat.ID

	pollMessage := message.ReplyToMessage
	if pollMessage == nil {
		reply(bot, chatId, "Reply to a poll to place your bet")
		return
	}

	group, err := openGroup(chatId)
	if err != nil {
		logger.Err().Println(err.Error())
		reply(bot, chatId, "Create a group first with /create")
		return
	}

	amount, ok := parseAmount(bot, message, group, args)
	if !ok {
		return
	}

	remaining, err := group.PlaceBet(message.From.ID, pollMessage.MessageID, amount)
	switch {
	case errors.Is(err, ledger.ErrNotAMember):
		msg := tgbotapi.NewMessage(chatId, "Join the group before betting")
		msg.ReplyMarkup = joinKeyboard
		if _, err = bot.Send(msg); err != nil {
			logger.Err().Printf("Cannot send message: %s", err.Error())
		}
	case errors.Is(err, ledger.ErrNoSuchPoll):
		reply(bot, chatId, "That message is not a poll I know about")
	case errors.Is(err, ledger.ErrInsufficientFunds):
		reply(bot, chatId, "You do not have enough tokens for that bet")
	case errors.Is(err, ledger.ErrDuplicateBet):
		reply(bot, chatId, "You already placed a bet on this poll!")
	case err != nil:
		logger.Err().Println(err.Error())
		reply(bot, chatId, "Unable to place the bet")
	default:
		reply(bot, chatId, fmt.Sprintf(
			"Bet placed!\nNow answer the poll with the option you believe correct.\nYou have %d tokens left.",
			remaining))
	}
}

func parseAmount(bot *tgbotapi.BotAPI, message *tgbotapi.Message, group *ledger.Group, args string) (int, bool) {
	raw := strings.TrimSpace(args)

	if raw == "all-in" {
		amount, err := group.AllIn(message.From.ID)
		if err != nil {
			logger.Err().Println(err.Error())
			reply(bot, message.Chat.ID, "Unable to read your balance")
			return 0, false
		}
		if amount == 0 {
			reply(bot, message.Chat.ID, "You have no tokens left to go all-in with")
			return 0, false
		}
		return amount, true
	}

	amount, err := strconv.Atoi(raw)
	if err != nil {
		reply(bot, message.Chat.ID, "Usage: /bet <amount|\"all-in\">")
		return 0, false
	}
	if amount <= 0 {
		reply(bot, message.Chat.ID, "The amount must be a positive number")
		return 0, false
	}

	return amount, true
}
