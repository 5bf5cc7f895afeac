package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/Roma7-7-7/vocab-api/internal/dal"
	sqlrepo "github.com/Roma7-7-7/vocab-api/internal/dal/sql"
	"github.com/Roma7-7-7/vocab-api/internal/data"
	"github.com/Roma7-7-7/vocab-api/internal/service"
)

const (
	exitCodeOK int = iota
	exitCodeInvalidArgs
	exitCodeDBConnect
	exitCodeOpenSource
	exitCodeImport
)

var (
	source   string //nolint:gochecknoglobals // command line flag
	dbDriver string //nolint:gochecknoglobals // command line flag
	dbURL    string //nolint:gochecknoglobals // command line flag
	timeout  time.Duration //nolint:gochecknoglobals // command line flag
)

func main() {
	flag.StringVar(&source, "source", "", "source file with word:short definition[:part of speech[:category]] lines")
	flag.StringVar(&dbDriver, "db-driver", string(dal.DBTypeSQLite), "database driver: sqlite or postgres")
	flag.StringVar(&dbURL, "db-url", "", "database URL")
	flag.DurationVar(&timeout, "timeout", 5*time.Minute, "import timeout") //nolint:mnd // default timeout
	flag.Parse()

	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	dbType, err := validate()
	if err != nil {
		log.ErrorContext(ctx, "invalid arguments", "error", err)
		flag.Usage()
		return exitCodeInvalidArgs
	}

	db, err := dal.Open(ctx, dbType, dbURL)
	if err != nil {
		log.ErrorContext(ctx, "failed to open database", "error", err)
		return exitCodeDBConnect
	}
	defer db.Close()

	dictionary, err := service.NewDictionaryService(sqlrepo.NewRepository(db, dbType, log), service.DictionaryCacheConfig{}, log)
	if err != nil {
		log.ErrorContext(ctx, "failed to create dictionary service", "error", err)
		return exitCodeImport
	}
	defer dictionary.Close()

	f, err := os.Open(source)
	if err != nil {
		log.ErrorContext(ctx, "failed to open source file", "error", err)
		return exitCodeOpenSource
	}

	lines := make(chan data.Line)
	parseErr := make(chan error, 1)
	go func() {
		parseErr <- data.Parse(ctx, f, lines)
	}()

	imported, failed := 0, 0
	for line := range lines {
		_, err = dictionary.AddWord(ctx, dal.DictionaryEntry{
			Word:            line.Word,
			ShortDefinition: line.ShortDefinition,
			PartOfSpeech:    line.PartOfSpeech,
			Category:        line.Category,
		})
		if err != nil {
			log.ErrorContext(ctx, "failed to import word", "word", line.Word, "error", err)
			failed++
			continue
		}
		imported++
	}

	code := exitCodeOK
	if err = <-parseErr; err != nil {
		var pErr *data.ParsingError
		if errors.As(err, &pErr) {
			log.WarnContext(ctx, "skipped invalid lines", "lines", pErr.InvalidLines)
		} else {
			log.ErrorContext(ctx, "failed to read source file", "error", err)
			code = exitCodeImport
		}
	}
	if failed > 0 || ctx.Err() != nil {
		code = exitCodeImport
	}

	log.InfoContext(ctx, "import finished", "imported", imported, "failed", failed)
	return code
}

func validate() (dal.DBType, error) {
	if source == "" {
		return "", errors.New("source file is required")
	}
	if dbURL == "" {
		return "", errors.New("database URL is required")
	}
	return dal.ParseDBType(dbDriver) //nolint:wrapcheck // message is self-explanatory
}
