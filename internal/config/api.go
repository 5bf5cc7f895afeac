package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	StateStoreMemory = "memory"
	StateStoreRedis  = "redis"

	apiParamJWTSecret          = "/vocab-api/prod/jwt-secret"
	apiParamGoogleClientSecret = "/vocab-api/prod/google-web-client-secret" //nolint:gosec // parameter name
	apiParamDBURL              = "/vocab-api/prod/db-url"
)

type (
	DB struct {
		Driver string `envconfig:"DRIVER" default:"sqlite"`
		URL    string `envconfig:"URL"`
	}

	CORS struct {
		AllowOrigins []string `envconfig:"ALLOW_ORIGINS" required:"true"`
	}

	JWT struct {
		Issuer   string   `envconfig:"ISSUER" default:"vocab-api"`
		Audience []string `envconfig:"AUDIENCE" default:"vocab-app"`
		Secret   string   `envconfig:"SECRET"`
	}

	Cookie struct {
		Path            string        `envconfig:"CPATH" default:"/"` // not using PATH here because it may conflict with os.Path
		Domain          string        `envconfig:"DOMAIN" default:""`
		AccessExpiresIn time.Duration `envconfig:"ACCESS_EXPIRES_IN" default:"24h"`
	}

	HTTP struct {
		ProcessTimeout time.Duration `envconfig:"PROCESS_TIMEOUT" default:"10s"`
		RateLimit      float64       `envconfig:"RATE_LIMIT" default:"25"`
		CORS           CORS
		Cookie         Cookie
		JWT            JWT
	}

	Server struct {
		ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"10s"`
		Addr              string        `envconfig:"ADDR" default:":8080"`
	}

	Google struct {
		ClientIDs       []string      `envconfig:"CLIENT_IDS"`
		WebClientID     string        `envconfig:"WEB_CLIENT_ID"`
		WebClientSecret string        `envconfig:"WEB_CLIENT_SECRET"`
		RedirectURI     string        `envconfig:"REDIRECT_URI"`
		AuthURL         string        `envconfig:"AUTH_URL"`
		TokenURL        string        `envconfig:"TOKEN_URL"`
		JWKSURL         string        `envconfig:"JWKS_URL"`
		ExchangeTimeout time.Duration `envconfig:"EXCHANGE_TIMEOUT" default:"10s"`
		StateTTL        time.Duration `envconfig:"STATE_TTL" default:"5m"`
		ResultRetention time.Duration `envconfig:"RESULT_RETENTION" default:"15m"`
	}

	StateStore struct {
		Backend       string        `envconfig:"BACKEND" default:"memory"`
		RedisAddr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
		RedisPassword string        `envconfig:"REDIS_PASSWORD"`
		RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
		SweepInterval time.Duration `envconfig:"SWEEP_INTERVAL" default:"1m"`
	}

	DictionaryCache struct {
		MaxEntries int64         `envconfig:"MAX_ENTRIES" default:"10000"`
		TTL        time.Duration `envconfig:"TTL" default:"1h"`
	}

	Dictionary struct {
		Cache DictionaryCache
	}

	BuildInfo struct {
		Version   string `ignored:"true"`
		BuildTime string `ignored:"true"`
	}

	API struct {
		Dev        bool `envconfig:"DEV" default:"false"`
		DB         DB
		HTTP       HTTP
		Server     Server
		Google     Google
		StateStore StateStore `envconfig:"STATE_STORE"`
		Dictionary Dictionary
		BuildInfo  BuildInfo
	}
)

func NewAPI(ctx context.Context) (*API, error) {
	res := &API{}
	if err := envconfig.Process("API", res); err != nil {
		return nil, fmt.Errorf("parse api environment: %w", err)
	}

	if !res.Dev {
		if err := setAPIProdConfig(ctx, res); err != nil {
			return nil, fmt.Errorf("set api prod config: %w", err)
		}
	}

	return validateAPI(res)
}

func validateAPI(conf *API) (*API, error) {
	errs := make([]string, 0, 10) //nolint:mnd // 10 is a reasonable default value
	if _, err := parseDBDriver(conf.DB.Driver); err != nil {
		errs = append(errs, err.Error())
	}
	if conf.DB.URL == "" {
		errs = append(errs, "db url is required")
	}
	if conf.HTTP.JWT.Secret == "" {
		errs = append(errs, "jwt secret is required")
	}
	if conf.StateStore.Backend != StateStoreMemory && conf.StateStore.Backend != StateStoreRedis {
		errs = append(errs, fmt.Sprintf("unsupported state store backend %q", conf.StateStore.Backend))
	}
	if conf.Google.StateTTL <= 0 {
		errs = append(errs, "google state ttl must be positive")
	}
	if conf.Google.ResultRetention < conf.Google.StateTTL {
		errs = append(errs, "google result retention must not be shorter than state ttl")
	}
	if conf.Google.ExchangeTimeout <= 0 {
		errs = append(errs, "google exchange timeout must be positive")
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid config: %s", strings.Join(errs, ", "))
	}

	return conf, nil
}

func setAPIProdConfig(ctx context.Context, target *API) error {
	parameters, err := FetchAWSParams(ctx, apiParamJWTSecret, apiParamGoogleClientSecret, apiParamDBURL)
	if err != nil {
		return fmt.Errorf("get parameters: %w", err)
	}

	for name, value := range parameters {
		switch name {
		case apiParamJWTSecret:
			target.HTTP.JWT.Secret = value
		case apiParamGoogleClientSecret:
			target.Google.WebClientSecret = value
		case apiParamDBURL:
			target.DB.URL = value
		}
	}

	return nil
}
