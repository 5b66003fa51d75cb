package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"presence_report_bot/internal/app"
	"presence_report_bot/internal/domain/chat"
	"presence_report_bot/internal/domain/member"
	"presence_report_bot/internal/infra/config"
	idb "presence_report_bot/internal/infra/database"
	"presence_report_bot/internal/infra/logger"
	"presence_report_bot/internal/infra/scheduler"
	islack "presence_report_bot/internal/infra/slack"
	"presence_report_bot/internal/infra/telegram"
	"presence_report_bot/internal/infra/upstream"

	"github.com/slack-go/slack"
	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	mainLogger := logger.Component("main")
	mainLogger.Infof("Configuration loaded. Backend: %s, Environment: %s, Timezone: %s", cfg.ChatBackend, cfg.Environment, cfg.Location)

	// The member cache is optional; without it a directory outage fails the fetch.
	var memberCache member.Repository
	if cfg.DatabaseURL != "" {
		db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			mainLogger.Fatalf("Could not connect to database: %v", err)
		}
		defer db.Close()
		memberCache = idb.NewPostgresMemberRepository(db)
		mainLogger.Info("Member cache enabled.")
	}

	upstreamClient := upstream.NewClient(cfg.AttendanceAPIURL, cfg.HTTPTimeout)
	fetcher := upstream.NewFetcher(upstreamClient, memberCache, logger.Component("upstream"))
	reportService := app.NewReportService(fetcher, cfg.Location, logger.Component("reports"))

	var (
		notifier chat.Notifier
		bot      *telebot.Bot
	)
	switch cfg.ChatBackend {
	case config.BackendTelegram:
		telegramLogger := logger.Component("telegram")
		pref := telebot.Settings{
			Token:  cfg.TelegramToken,
			Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
			OnError: func(err error, c telebot.Context) { // Global error handler
				entry := telegramLogger.WithError(err)
				if c != nil && c.Chat() != nil {
					entry = entry.WithField("chat_id", c.Chat().ID)
				}
				entry.Error("Telebot error")
			},
		}
		bot, err = telebot.NewBot(pref)
		if err != nil {
			mainLogger.Fatalf("Could not create Telegram bot: %v", err)
		}
		notifier = telegram.NewTelebotAdapter(bot, cfg.ReportChatID)
		telegram.RegisterBotCommands(bot, reportService, notifier, telegramLogger)
		mainLogger.Info("Telegram command handlers registered.")
	case config.BackendSlack:
		slackClient := slack.New(cfg.SlackBotToken, slack.OptionHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))
		notifier = islack.NewNotifier(slackClient, cfg.SlackChannelID)
		mainLogger.Info("Slack notifier initialized; on-demand commands are Telegram only.")
	}

	reportScheduler, err := scheduler.NewReportScheduler(
		reportService,
		notifier,
		cfg.Location,
		cfg.CronSpecPost,
		cfg.CronSpecEdit,
		cfg.CatchUpWindow,
		logger.Component("scheduler"),
	)
	if err != nil {
		mainLogger.Fatalf("Could not create report scheduler: %v", err)
	}
	reportScheduler.Start()

	if bot != nil {
		go bot.Start()
	}
	mainLogger.Info("Application setup complete. Bot and Scheduler are running.")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	mainLogger.Info("Shutting down application...")
	reportScheduler.Stop()
	if bot != nil {
		bot.Stop()
	}
	mainLogger.Info("Application shut down gracefully.")
}
