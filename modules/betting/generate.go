package betting

import (
	"context"
	"math/rand"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lunardini/totobot/ledger"
	"github.com/lunardini/totobot/logger"
)

func runGenerateCommand(bot *tgbotapi.BotAPI, message *tgbotapi.Message, cmd string, args string) {
	chatId := message.Chat.ID

	group, err := openGroup(chatId)
	if err != nil {
		logger.Err().Println(err.Error())
		reply(bot, chatId, "Create a group first with /create")
		return
	}

	suggestion := strings.TrimSpace(args)
	if suggestion == "" {
		suggestions, err := group.Suggestions()
		if err != nil {
			logger.Err().Println(err.Error())
			reply(bot, chatId, "Unable to read the suggestions")
			return
		}
		if len(suggestions) == 0 {
			reply(bot, chatId, "No suggestions yet. Add one with /suggest")
			return
		}
		suggestion = suggestions[rand.Intn(len(suggestions))]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	generated, err := gen.Generate(ctx, suggestion)
	if err != nil {
		logger.Err().Println(err.Error())
		reply(bot, chatId, "Unable to generate a poll right now")
		return
	}

	options := make([]string, len(generated.Options))
	drafts := make([]ledger.PollOptionDraft, len(generated.Options))
	for i, o := range generated.Options {
		options[i] = o.Text
		drafts[i] = ledger.PollOptionDraft{Text: o.Text, Rating: o.Rating}
	}

	pollCfg := tgbotapi.NewPoll(chatId, generated.Text, options...)
	pollCfg.IsAnonymous = false

	sent, err := bot.Send(pollCfg)
	if err != nil || sent.Poll == nil {
		if err != nil {
			logger.Err().Printf("Cannot send poll: %s", err.Error())
		}
		reply(bot, chatId, "Unable to send the poll")
		return
	}

	if _, err = group.RecordPoll(generated.Text, drafts, sent.Poll.ID, sent.MessageID); err != nil {
		logger.Err().Println(err.Error())
		reply(bot, chatId, "Unable to record the poll")
		return
	}

	if err = index.Store(sent.Poll.ID, chatId); err != nil {
		logger.Err().Println(err.Error())
	}
}
