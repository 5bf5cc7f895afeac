package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Roma7-7-7/vocab-api/internal/api"
	"github.com/Roma7-7-7/vocab-api/internal/config"
	"github.com/Roma7-7-7/vocab-api/internal/dal"
	sqlrepo "github.com/Roma7-7-7/vocab-api/internal/dal/sql"
	"github.com/Roma7-7-7/vocab-api/internal/google"
	"github.com/Roma7-7-7/vocab-api/internal/service"
	"github.com/Roma7-7-7/vocab-api/pkg/cache"
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
	exitCodeStateStore
	exitCodeDependencies
	exitCodeServerStart
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
		slog.ErrorContext(ctx, "failed to load .env", "error", err) //nolint:sloglint // ignore
		return exitCodeConfigParse
	}

	conf, err := config.NewAPI(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get config", "error", err) //nolint:sloglint // ignore
		return exitCodeConfigParse
	}
	conf.BuildInfo.Version = Version
	conf.BuildInfo.BuildTime = BuildTime
	log := mustLogger(conf.Dev)

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

	store, closeStore, err := stateStore(ctx, conf.StateStore, log)
	if err != nil {
		log.ErrorContext(ctx, "failed to create state store", "error", err)
		return exitCodeStateStore
	}
	defer closeStore()

	repo := sqlrepo.NewRepository(db, dbType, log)
	googleClient := google.NewClient(ctx, google.Config{
		ClientID:     conf.Google.WebClientID,
		ClientSecret: conf.Google.WebClientSecret,
		RedirectURI:  conf.Google.RedirectURI,
		AuthURL:      conf.Google.AuthURL,
		TokenURL:     conf.Google.TokenURL,
		JWKSURL:      conf.Google.JWKSURL,
	}, log)

	authService := service.NewAuthService(repo, googleClient, conf.Google.ClientIDs, log)
	dictionaryService, err := service.NewDictionaryService(repo, service.DictionaryCacheConfig{
		MaxEntries: conf.Dictionary.Cache.MaxEntries,
		TTL:        conf.Dictionary.Cache.TTL,
	}, log)
	if err != nil {
		log.ErrorContext(ctx, "failed to create dictionary service", "error", err)
		return exitCodeDependencies
	}
	defer dictionaryService.Close()

	router := api.NewRouter(ctx, conf, api.Dependencies{
		Auth: authService,
		Relay: service.NewRelay(store, googleClient, authService, service.RelayConfig{
			WebClientID:     conf.Google.WebClientID,
			StateTTL:        conf.Google.StateTTL,
			ResultRetention: conf.Google.ResultRetention,
			ExchangeTimeout: conf.Google.ExchangeTimeout,
		}, log),
		Vocab:      service.NewVocabService(repo, log),
		Dictionary: dictionaryService,
		Logger:     log,
	})
	log.InfoContext(ctx, "starting api server",
		"version", Version,
		"build_time", BuildTime,
		"address", conf.Server.Addr,
		"db_driver", conf.DB.Driver,
		"state_store", conf.StateStore.Backend,
	)

	server := &http.Server{
		ReadHeaderTimeout: conf.Server.ReadHeaderTimeout,
		Addr:              conf.Server.Addr,
		Handler:           router,
	}

	go func() {
		<-ctx.Done()
		cCtx, cCancel := context.WithTimeout(context.Background(), 15*time.Second) //nolint:mnd // ignore mnd
		defer cCancel()

		if sErr := server.Shutdown(cCtx); sErr != nil {
			log.ErrorContext(cCtx, "failed to shutdown api server", "error", sErr)
		}
	}()

	if err = server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorContext(ctx, "failed to start api server", "error", err)
		return exitCodeServerStart
	}

	log.InfoContext(ctx, "api server is stopped")

	return exitCodeOK
}

func stateStore(ctx context.Context, conf config.StateStore, log *slog.Logger) (service.StateStore, func(), error) {
	if conf.Backend == config.StateStoreRedis {
		store := cache.NewRedis(cache.RedisConfig{
			Addr:     conf.RedisAddr,
			Password: conf.RedisPassword,
			DB:       conf.RedisDB,
			Prefix:   "vocab-api:",
		})
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.ErrorContext(ctx, "failed to close redis client", "error", err)
			}
		}, nil
	}

	store := cache.NewInMemory()
	go store.StartSweeper(ctx, conf.SweepInterval, log)
	return store, func() {}, nil
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
