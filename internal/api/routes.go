package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/Roma7-7-7/vocab-api/internal/config"
)

type Dependencies struct {
	Auth       AuthService
	Relay      RelayService
	Vocab      VocabService
	Dictionary DictionaryService
	Logger     *slog.Logger
}

func NewRouter(ctx context.Context, conf *config.API, deps Dependencies) http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewRequestValidator()

	e.Use(middleware.RequestID())
	e.Use(loggingMiddleware(ctx, deps.Logger))
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(conf.HTTP.RateLimit))))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     conf.HTTP.CORS.AllowOrigins,
		AllowCredentials: true,
	}))
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: conf.HTTP.ProcessTimeout,
	}))
	e.Use(middleware.Secure())

	e.HTTPErrorHandler = HTTPErrorHandler(deps.Logger)

	jwtProcessor := NewJWTProcessor(conf.HTTP.JWT, conf.HTTP.Cookie.AccessExpiresIn)
	cookiesProcessor := NewCookiesProcessor(conf.HTTP.Cookie)
	authMiddleware := AuthMiddleware(cookiesProcessor, jwtProcessor, deps.Logger)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"status":  "ok",
			"version": conf.BuildInfo.Version,
		})
	})

	auth := NewAuthHandler(deps.Auth, jwtProcessor, cookiesProcessor, deps.Logger)
	oauth := NewOAuthHandler(deps.Relay, deps.Logger)
	authGroup := e.Group("/auth")
	authGroup.POST("/register", auth.Register)
	authGroup.POST("/login", auth.Login)
	authGroup.POST("/forgot-password", auth.ForgotPassword)
	authGroup.POST("/verify-security", auth.VerifySecurity)
	authGroup.POST("/reset-password", auth.ResetPassword)
	authGroup.POST("/google", auth.Google)
	authGroup.GET("/google/web/start", oauth.Start)
	authGroup.GET("/google/web/callback", oauth.Callback)
	authGroup.GET("/google/web/status", oauth.Status)
	authGroup.POST("/logout", auth.LogOut)
	authGroup.GET("/info", auth.Info, authMiddleware)

	vocab := NewVocabHandler(deps.Vocab, deps.Logger)
	vocabGroup := e.Group("/vocab")
	vocabGroup.GET("/lists", vocab.GetAllLists)
	vocabGroup.GET("/lists/excluding-history", vocab.GetListsExcludingHistory)
	vocabGroup.POST("/lists", vocab.CreateList)
	vocabGroup.GET("/words", vocab.GetWordsInList)
	vocabGroup.POST("/words", vocab.AddWordToList)
	vocabGroup.PUT("/words/:id", vocab.UpdateWord)
	vocabGroup.DELETE("/words/:id", vocab.DeleteWord)

	dictionary := NewDictionaryHandler(deps.Dictionary, deps.Logger)
	dictionaryGroup := e.Group("/dictionary")
	dictionaryGroup.GET("/random", dictionary.Random)
	dictionaryGroup.GET("/:word", dictionary.Definition)
	dictionaryGroup.POST("", dictionary.AddWord)

	return e
}

func loggingMiddleware(ctx context.Context, log *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true, // forwards error to the global error handler, so it can decide appropriate status code
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error == nil {
				log.LogAttrs(ctx, slog.LevelInfo, "REQUEST",
					slog.String("method", v.Method),
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.String("request_id", v.RequestID),
				)
			} else {
				log.LogAttrs(ctx, slog.LevelError, "REQUEST_ERROR",
					slog.String("method", v.Method),
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.String("request_id", v.RequestID),
					slog.String("err", v.Error.Error()),
				)
			}
			return nil
		},
	})
}
