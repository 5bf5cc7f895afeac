package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Roma7-7-7/vocab-api/internal/service"
)

type (
	RelayService interface {
		Start(ctx context.Context, state string) (service.StartResult, error)
		Callback(ctx context.Context, code, state string) string
		Status(ctx context.Context, state string) (service.RelayResult, error)
	}

	OAuthHandler struct {
		relay RelayService

		log *slog.Logger
	}

	startQuery struct {
		State string `query:"state"`
	}

	callbackQuery struct {
		Code  string `query:"code"`
		State string `query:"state"`
	}

	statusQuery struct {
		State string `query:"state" validate:"required"`
	}
)

func NewOAuthHandler(relay RelayService, log *slog.Logger) *OAuthHandler {
	return &OAuthHandler{
		relay: relay,
		log:   log,
	}
}

func (h *OAuthHandler) Start(c echo.Context) error {
	var q startQuery
	if err := c.Bind(&q); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	res, err := h.relay.Start(c.Request().Context(), q.State)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"authUrl": res.AuthURL,
		"state":   res.State,
	})
}

// Callback is opened by the browser after the provider redirect and never reveals the outcome.
func (h *OAuthHandler) Callback(c echo.Context) error {
	var q callbackQuery
	if err := c.Bind(&q); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to bind request", "error", err)
		return c.String(http.StatusOK, service.CallbackMessage)
	}

	return c.String(http.StatusOK, h.relay.Callback(c.Request().Context(), q.Code, q.State))
}

// Status never issues a session: any holder of the state token may poll it.
func (h *OAuthHandler) Status(c echo.Context) error {
	var q statusQuery
	if err := c.Bind(&q); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	if err := c.Validate(&q); err != nil {
		return err
	}

	res, err := h.relay.Status(c.Request().Context(), q.State)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, res)
}
