package betting

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lunardini/totobot/api"
	"github.com/lunardini/totobot/api/env"
	"github.com/lunardini/totobot/database"
	"github.com/lunardini/totobot/generator"
	"github.com/lunardini/totobot/ledger"
	"github.com/lunardini/totobot/logger"
	"github.com/lunardini/totobot/pollindex"
)

type Module struct {
	api.Module
}

var index *pollindex.Index
var gen *generator.Generator
var defaultTokens int

func (*Module) Load(bot *tgbotapi.BotAPI) {
	indexDb, err := database.Index()
	if err != nil {
		logger.Err().Println(err.Error())
		return
	}

	index, err = pollindex.New(indexDb)
	if err != nil {
		logger.Err().Println(err.Error())
		return
	}

	gen = generator.New(generator.Config{
		Key:   env.Get("openai.key"),
		URL:   env.Get("openai.url"),
		Model: env.Get("openai.model"),
	})

	defaultTokens = env.GetIntOr("default.tokens", ledger.DefaultTokens)

	api.RegisterCommand("help", runHelpCommand)
	api.RegisterCommand("create", runCreateCommand)
	api.RegisterCommand("suggest", runSuggestCommand)
	api.RegisterCommand("tokens", runTokensCommand)
	api.RegisterCommand("bet", runBetCommand)
	api.RegisterCommand("generate", runGenerateCommand)
	api.RegisterCommand("close", runCloseCommand)

	api.RegisterCallbackHandler("join", runJoinCallback)
	api.RegisterPollAnswerHandler(runPollAnswer)
}

func (Module) Name() string {
	return "betting"
}

var commandHelp = [][2]string{
	{"help", "Print this list"},
	{"create", "Set up a betting group for this chat"},
	{"suggest", "<text> Add a poll suggestion"},
	{"tokens", "Show how many tokens you have left"},
	{"generate", "<suggestion (optional)> Generate a new poll"},
	{"bet", "<amount|\"all-in\"> Place a bet, replying to a poll"},
	{"close", "<option number> Close a poll, replying to it"},
}

func runHelpCommand(bot *tgbotapi.BotAPI, message *tgbotapi.Message, cmd string, args string) {
	lines := make([]string, len(commandHelp))
	for i, c := range commandHelp {
		lines[i] = "/" + c[0] + " " + c[1]
	}
	reply(bot, message.Chat.ID, strings.Join(lines, "\n"))
}

func openGroup(chatId int64) (*ledger.Group, error) {
	db, err := database.Get(chatId)
	if err != nil {
		return nil, err
	}
	return ledger.Open(db)
}

func reply(bot *tgbotapi.BotAPI, chatId int64, text string) {
	_, err := bot.Send(tgbotapi.NewMessage(chatId, text))
	if err != nil {
		logger.Err().Printf("Cannot send message: %s", err.Error())
	}
}

func userName(user *tgbotapi.User) string {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		name = user.UserName
	}
	return name
}
