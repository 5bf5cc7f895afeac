package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Roma7-7-7/vocab-api/internal/config"
	"github.com/Roma7-7-7/vocab-api/internal/dal"
	sqlrepo "github.com/Roma7-7-7/vocab-api/internal/dal/sql"
	"github.com/Roma7-7-7/vocab-api/internal/schedule"
	"github.com/Roma7-7-7/vocab-api/internal/service"
	"github.com/Roma7-7-7/vocab-api/internal/telegram"
)

var (
	// Version is set via -ldflags at build time
	Version = "dev" //nolint:gochecknoglobals // must be global to be replaced at build time
	// BuildTime is set via -ldflags at build time
	BuildTime = "unknown" //nolint:gochecknoglobals // must be global to be replaced at build time
)

const (
	exitCodeOK int = iota
	exitCodeConfigParse
	exitCodeDBConnect
	exitCodeDependencies
	exitCodeBotCreate
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	go func() {
		<-sigs
		cancel()
	}()
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	if err := config.LoadDotEnv(); err != nil {
		slog.ErrorContext(ctx, "failed to load .env", "error", err) //nolint:sloglint // app logger is not configured yet
		return exitCodeConfigParse
	}

	conf, err := config.GetBot(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get config", "error", err) //nolint:sloglint // app logger is not configured yet
		return exitCodeConfigParse
	}

	log := mustLogger(conf.Dev)
	loc := conf.Schedule.MustTimeLocation()

	log.InfoContext(ctx, "starting bot",
		"version", Version,
		"build_time", BuildTime,
		"config", loggableConfig(conf),
		"current_time_in_location", time.Now().In(loc),
	)
	defer log.InfoContext(ctx, "bot is stopped")

	dbType, err := dal.ParseDBType(conf.DB.Driver)
	if err != nil {
		log.ErrorContext(ctx, "failed to parse db driver", "error", err)
		return exitCodeConfigParse
	}
	db, err := dal.Open(ctx, dbType, conf.DB.URL)
	if err != nil {
		log.ErrorContext(ctx, "failed to open database", "error", err)
		return exitCodeDBConnect
	}
	defer db.Close()

	dictionary, err := service.NewDictionaryService(sqlrepo.NewRepository(db, dbType, log), service.DictionaryCacheConfig{
		MaxEntries: conf.Dictionary.Cache.MaxEntries,
		TTL:        conf.Dictionary.Cache.TTL,
	}, log)
	if err != nil {
		log.ErrorContext(ctx, "failed to create dictionary service", "error", err)
		return exitCodeDependencies
	}
	defer dictionary.Close()

	bot, err := telegram.NewBot(conf.TelegramToken, dictionary, log, telegram.Recover(log), telegram.LogErrors(log), telegram.AllowedChats(conf.AllowedChatIDs))
	if err != nil {
		log.ErrorContext(ctx, "failed to create bot", "error", err)
		return exitCodeBotCreate
	}

	go schedule.StartWordOfTheDaySchedule(ctx, schedule.WordOfTheDayConfig{
		ChatIDs:  conf.AllowedChatIDs,
		Interval: conf.Schedule.PublishInterval,
		HourFrom: conf.Schedule.HourFrom,
		HourTo:   conf.Schedule.HourTo,
		Location: loc,
	}, bot, log)

	bot.Start(ctx)

	return exitCodeOK
}

func mustLogger(dev bool) *slog.Logger {
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	if dev {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}
	return slog.New(handler)
}

func loggableConfig(conf *config.Bot) map[string]any {
	return map[string]any{
		"dev":              conf.Dev,
		"allowed-chat-ids": conf.AllowedChatIDs,
		"db-driver":        conf.DB.Driver,
		"word-of-the-day-schedule": map[string]any{
			"publish-interval": fmt.Sprintf("%v", conf.Schedule.PublishInterval),
			"hour-from":        conf.Schedule.HourFrom,
			"hour-to":          conf.Schedule.HourTo,
			"location":         conf.Schedule.Location,
		},
	}
}
