package schedule

import (
	"context"
	"log/slog"
	"time"
)

const (
	publishTimeout = 1 * time.Minute
)

type (
	Publisher interface {
		SendWordOfTheDay(ctx context.Context, chatID int64) error
	}

	WordOfTheDayConfig struct {
		ChatIDs  []int64
		Interval time.Duration
		HourFrom int
		HourTo   int
		Location *time.Location
	}
)

// StartWordOfTheDaySchedule publishes a word to every chat each interval while the local hour is within
// [HourFrom, HourTo]. It blocks until ctx is done.
func StartWordOfTheDaySchedule(ctx context.Context, conf WordOfTheDayConfig, p Publisher, log *slog.Logger) {
	loc := conf.Location
	if loc == nil {
		loc = time.UTC
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(conf.Interval):
			if !inWindow(time.Now().In(loc), conf.HourFrom, conf.HourTo) {
				continue
			}
		}

		for _, chatID := range conf.ChatIDs {
			pCtx, cancel := context.WithTimeout(ctx, publishTimeout)
			if err := p.SendWordOfTheDay(pCtx, chatID); err != nil {
				log.ErrorContext(ctx, "failed to send word of the day", "error", err, "chat_id", chatID)
			}
			cancel()
		}
	}
}

func inWindow(t time.Time, hourFrom, hourTo int) bool {
	h := t.Hour()
	return h >= hourFrom && h <= hourTo
}
