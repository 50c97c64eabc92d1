package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/viper"

	"github.com/lunardini/totobot/api"
	"github.com/lunardini/totobot/database"
	"github.com/lunardini/totobot/logger"
	"github.com/lunardini/totobot/modules"
)

func main() {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	token := viper.GetString("bot_token")
	if token == "" {
		logger.Err().Print("BOT_TOKEN must be set in the environment to run this process")
		return
	}

	defer func() {
		err := logger.Close()
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Error closing logger: %s", err.Error())
		}
	}()

	defer database.Close()

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Err().Print(err.Error())
		os.Exit(1)
	}

	mods := os.Args[1:]
	if len(mods) == 0 {
		mods = []string{"all"}
	}
	modules.Load(bot, mods)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updateConfig.AllowedUpdates = []string{"message", "poll_answer", "callback_query"}

	updates := bot.GetUpdatesChan(updateConfig)
	go func() {
		for update := range updates {
			api.Dispatch(bot, update)
		}
	}()

	// Wait for a CTRL-C
	fmt.Println(`Now running. Press CTRL-C to exit.`)
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
	fmt.Println("Shutting down")

	bot.StopReceivingUpdates()
}
