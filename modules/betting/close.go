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

func runCloseCommand(bot *tgbotapi.BotAPI, message *tgbotapi.Message, cmd string, args string) {
	chatId := message.Chat.ID

	pollMessage := message.ReplyToMessage
	if pollMessage == nil || pollMessage.Poll == nil {
		reply(bot, chatId, "Reply to the poll you want to close")
		return
	}

	correctIndex, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil {
		reply(bot, chatId, "Usage: /close <option number>")
		return
	}

	group, err := openGroup(chatId)
	if err != nil {
		logger.Err().Println(err.Error())
		reply(bot, chatId, "Create a group first with /create")
		return
	}

	tgPollId := pollMessage.Poll.ID

	poll, err := group.GetPoll(tgPollId)
	if errors.Is(err, ledger.ErrNoSuchPoll) {
		reply(bot, chatId, "That poll is not on my books")
		return
	}
	if err != nil {
		logger.Err().Println(err.Error())
		reply(bot, chatId, "Unable to close the poll")
		return
	}

	// Stop the poll on the Telegram side first so no answers race the
	// settlement. A poll that was already stopped just logs.
	if _, err = bot.StopPoll(tgbotapi.NewStopPoll(chatId, pollMessage.MessageID)); err != nil {
		logger.Err().Printf("Cannot stop poll: %s", err.Error())
	}

	results, status, err := group.ClosePoll(tgPollId, correctIndex)
	if err != nil {
		logger.Err().Println(err.Error())
		reply(bot, chatId, "Unable to settle the poll")
		return
	}

	switch status {
	case ledger.SettleNoBets:
		reply(bot, chatId, fmt.Sprintf("\"%s\" closed with no bets to settle", poll.Text))
	case ledger.SettleNothingToWin:
		reply(bot, chatId, fmt.Sprintf("\"%s\" closed, but nobody backed a losing option so no tokens move", poll.Text))
	default:
		lines := make([]string, 0, len(results)+1)
		lines = append(lines, fmt.Sprintf("\"%s\" is settled:", poll.Text))
		for _, res := range results {
			if res.Win >= 0 {
				lines = append(lines, fmt.Sprintf("%s won %d tokens (%d left)", res.MemberName, res.Win, res.Tokens))
			} else {
				lines = append(lines, fmt.Sprintf("%s lost %d tokens (%d left)", res.MemberName, -res.Win, res.Tokens))
			}
		}
		reply(bot, chatId, strings.Join(lines, "\n"))
	}
}
