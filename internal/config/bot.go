package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	botParamTelegramToken  = "/vocab-api/prod/telegram-token" //nolint:gosec // parameter name
	botParamAllowedChatIDs = "/vocab-api/prod/allowed-chat-ids"
	botParamDBURL          = "/vocab-api/prod/db-url"
)

type (
	WordOfTheDaySchedule struct {
		PublishInterval time.Duration `envconfig:"PUBLISH_INTERVAL" default:"1h"`
		HourFrom        int           `envconfig:"HOUR_FROM" default:"9"`
		HourTo          int           `envconfig:"HOUR_TO" default:"21"`
		Location        string        `envconfig:"LOCATION" default:"Europe/Kyiv"`
	}

	Bot struct {
		Dev            bool    `default:"false"`
		TelegramToken  string  `envconfig:"TELEGRAM_TOKEN"`
		AllowedChatIDs []int64 `envconfig:"ALLOWED_CHAT_IDS"`
		DB             DB
		Dictionary     Dictionary
		Schedule       WordOfTheDaySchedule
	}
)

func (s WordOfTheDaySchedule) TimeLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Location)
	if err != nil {
		return nil, fmt.Errorf("load location: %w", err)
	}
	return loc, nil
}

func (s WordOfTheDaySchedule) MustTimeLocation() *time.Location {
	loc, err := s.TimeLocation()
	if err != nil {
		panic(fmt.Sprintf("failed to load location %s: %v", s.Location, err))
	}
	return loc
}

func GetBot(ctx context.Context) (*Bot, error) {
	res := &Bot{}
	if err := envconfig.Process("BOT", res); err != nil {
		return nil, fmt.Errorf("parse bot environment: %w", err)
	}

	if !res.Dev {
		if err := setBotProdConfig(ctx, res); err != nil {
			return nil, fmt.Errorf("set bot prod config: %w", err)
		}
	}

	return validateBot(res)
}

func validateBot(conf *Bot) (*Bot, error) {
	errs := make([]string, 0, 10) //nolint:mnd // 10 is a reasonable default value
	if conf.TelegramToken == "" {
		errs = append(errs, "telegram token is required")
	}
	if len(conf.AllowedChatIDs) == 0 {
		errs = append(errs, "at least one allowed chat id is required")
	}
	if _, err := parseDBDriver(conf.DB.Driver); err != nil {
		errs = append(errs, err.Error())
	}
	if conf.DB.URL == "" {
		errs = append(errs, "db url is required")
	}
	if conf.Schedule.PublishInterval <= 0 {
		errs = append(errs, "publish interval is required")
	}
	if conf.Schedule.HourFrom < 0 || conf.Schedule.HourFrom > 23 {
		errs = append(errs, fmt.Sprintf("hour from %d must be in range 0-23", conf.Schedule.HourFrom))
	}
	if conf.Schedule.HourTo < 0 || conf.Schedule.HourTo > 23 {
		errs = append(errs, fmt.Sprintf("hour to %d must be in range 0-23", conf.Schedule.HourTo))
	}
	if conf.Schedule.HourFrom >= conf.Schedule.HourTo {
		errs = append(errs, fmt.Sprintf("hour from %d must be less than hour to %d", conf.Schedule.HourFrom, conf.Schedule.HourTo))
	}
	if _, err := conf.Schedule.TimeLocation(); err != nil {
		errs = append(errs, fmt.Sprintf("invalid timezone: %s", err))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid config: %s", strings.Join(errs, ", "))
	}

	return conf, nil
}

func setBotProdConfig(ctx context.Context, target *Bot) error {
	parameters, err := FetchAWSParams(ctx, botParamTelegramToken, botParamAllowedChatIDs, botParamDBURL)
	if err != nil {
		return fmt.Errorf("get parameters: %w", err)
	}

	for name, value := range parameters {
		switch name {
		case botParamTelegramToken:
			target.TelegramToken = value
		case botParamAllowedChatIDs:
			target.AllowedChatIDs, err = parseChatIDs(value)
			if err != nil {
				return err
			}
		case botParamDBURL:
			target.DB.URL = value
		}
	}

	return nil
}
