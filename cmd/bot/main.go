package main

import (
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/roomvoice/feedback_backend/apiclient"
	"github.com/roomvoice/feedback_backend/bot"
	"github.com/roomvoice/feedback_backend/utils"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables")
	}

	if os.Getenv("APP_ENV") == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	botToken := os.Getenv("BOT_TOKEN")
	apiBase := os.Getenv("API_BASE")
	formURL := os.Getenv("FORM_URL")
	if botToken == "" || apiBase == "" {
		logrus.Fatal("BOT_TOKEN and API_BASE must be set")
	}

	serviceToken, err := utils.GenerateServiceToken()
	if err != nil {
		logrus.Fatalf("Failed to mint service token: %v", err)
	}

	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		logrus.Fatalf("Failed to connect to Telegram: %v", err)
	}
	logrus.Infof("Authorized as @%s", api.Self.UserName)

	client := apiclient.New(apiBase, serviceToken)
	b := bot.New(api, client, bot.NewMemorySessionStore(), formURL)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30

	logrus.Info("Bot started, polling for updates")
	b.Run(api.GetUpdatesChan(updateConfig))
}
