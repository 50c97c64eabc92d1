package betting

import (
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lunardini/totobot/ledger"
	"github.com/lunardini/totobot/logger"
	"github.com/lunardini/totobot/pollindex"
)

// runPollAnswer routes a poll answer to the owning group's ledger. Answers
// for polls we never issued are noise from other chats and get dropped.
func runPollAnswer(bot *tgbotapi.BotAPI, answer *tgbotapi.PollAnswer) {
	if len(answer.OptionIDs) == 0 {
		// vote retracted
		return
	}

	chatId, err := index.Lookup(answer.PollID)
	if errors.Is(err, pollindex.ErrUnknownPoll) {
		logger.Debug().Printf("Received poll id %q with no corresponding group, ignoring", answer.PollID)
		return
	}
	if err != nil {
		logger.Err().Println(err.Error())
		return
	}

	group, err := openGroup(chatId)
	if err != nil {
		logger.Err().Println(err.Error())
		return
	}

	err = group.SelectOption(answer.User.ID, answer.PollID, answer.OptionIDs[0])
	if errors.Is(err, ledger.ErrNoOpenBet) {
		reply(bot, chatId, fmt.Sprintf("%s, place a bet before picking an option", userName(&answer.User)))
		return
	}
	if err != nil {
		logger.Err().Println(err.Error())
	}
}
