package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	tb "gopkg.in/telebot.v3"

	"github.com/Roma7-7-7/vocab-api/internal/dal"
	"github.com/Roma7-7-7/vocab-api/internal/service"
)

const (
	commandStart  = "/start"
	commandRandom = "/random"
	commandDefine = "/define"

	somethingWentWrongMsg = "something went wrong"

	processTimeout = 10 * time.Second
)

var entryTemplate = template.Must(template.New("entry").
	Parse(`{{.Word}}{{if .PartOfSpeech}} ({{.PartOfSpeech}}){{end}}
{{.ShortDefinition}}
{{- if .Category}}
Category: {{.Category}}
{{- end}}`))

type (
	Dictionary interface {
		RandomWord(ctx context.Context) (*dal.DictionaryEntry, error)
		Definition(ctx context.Context, word string) (*dal.DictionaryEntry, error)
	}

	Bot struct {
		bot        *tb.Bot
		dictionary Dictionary

		middlewares []tb.MiddlewareFunc

		log *slog.Logger
	}
)

func NewBot(token string, dictionary Dictionary, log *slog.Logger, middlewares ...tb.MiddlewareFunc) (*Bot, error) {
	b, err := tb.NewBot(tb.Settings{
		Token: token,
		Poller: &tb.LongPoller{
			Timeout: 1 * time.Minute,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &Bot{
		bot:         b,
		dictionary:  dictionary,
		middlewares: middlewares,
		log:         log,
	}, nil
}

// Start blocks until ctx is done.
func (b *Bot) Start(ctx context.Context) {
	b.bot.Handle(commandStart, b.HandleStart, b.middlewares...)
	b.bot.Handle(commandRandom, b.HandleRandom, b.middlewares...)
	b.bot.Handle(commandDefine, b.HandleDefine, b.middlewares...)

	go func() {
		<-ctx.Done()
		b.bot.Stop()
	}()

	b.bot.Start()
}

func (b *Bot) HandleStart(m tb.Context) error {
	return m.Reply("Hello, I'm a dictionary bot. Use /random for a random word or /define <word> to look a word up.")
}

func (b *Bot) HandleRandom(m tb.Context) error {
	ctx, cancel := processCtx()
	defer cancel()

	entry, err := b.dictionary.RandomWord(ctx)
	if err != nil {
		return b.replyError(ctx, m, err)
	}

	return m.Reply(FormatEntry(*entry))
}

func (b *Bot) HandleDefine(m tb.Context) error {
	ctx, cancel := processCtx()
	defer cancel()

	word := strings.TrimSpace(m.Message().Payload)
	if word == "" {
		return m.Reply("wrong message format, it should be like: /define word")
	}

	entry, err := b.dictionary.Definition(ctx, word)
	if err != nil {
		return b.replyError(ctx, m, err)
	}

	return m.Reply(FormatEntry(*entry))
}

// SendWordOfTheDay publishes a random dictionary word to the chat.
func (b *Bot) SendWordOfTheDay(ctx context.Context, chatID int64) error {
	entry, err := b.dictionary.RandomWord(ctx)
	if err != nil {
		return fmt.Errorf("get random word: %w", err)
	}

	if _, err = b.bot.Send(tb.ChatID(chatID), "Word of the day:\n"+FormatEntry(*entry)); err != nil {
		return fmt.Errorf("send word of the day: %w", err)
	}
	return nil
}

func (b *Bot) replyError(ctx context.Context, m tb.Context, err error) error {
	var sErr *service.Error
	if errors.As(err, &sErr) && (sErr.Kind == service.KindNotFound || sErr.Kind == service.KindValidation) {
		return m.Reply(sErr.Message)
	}

	b.log.ErrorContext(ctx, "failed to process command", "error", err)
	return m.Reply(somethingWentWrongMsg)
}

func FormatEntry(entry dal.DictionaryEntry) string {
	var buf bytes.Buffer
	if err := entryTemplate.Execute(&buf, entry); err != nil {
		return entry.Word + "\n" + entry.ShortDefinition
	}
	return buf.String()
}

func processCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), processTimeout)
}
