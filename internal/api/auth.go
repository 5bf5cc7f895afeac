package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	appctx "github.com/Roma7-7-7/vocab-api/internal/context"
	"github.com/Roma7-7-7/vocab-api/internal/service"
)

type (
	AuthService interface {
		Register(ctx context.Context, in service.RegisterInput) (string, error)
		Login(ctx context.Context, email, password string) (string, error)
		ForgotPassword(ctx context.Context, email string) (string, error)
		VerifySecurity(ctx context.Context, email, answer string) error
		ResetPassword(ctx context.Context, email, newPassword string) error
		LoginWithIDToken(ctx context.Context, idToken string) (string, error)
	}

	AuthHandler struct {
		auth             AuthService
		jwtProcessor     *JWTProcessor
		cookiesProcessor *CookiesProcessor

		log *slog.Logger
	}

	registerRequest struct {
		Email            string `json:"email"`
		Password         string `json:"password"`
		SecurityQuestion string `json:"securityQuestion"`
		SecurityAnswer   string `json:"securityAnswer"`
	}

	loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	forgotPasswordRequest struct {
		Email string `json:"email"`
	}

	verifySecurityRequest struct {
		Email          string `json:"email"`
		SecurityAnswer string `json:"securityAnswer"`
	}

	resetPasswordRequest struct {
		Email       string `json:"email"`
		NewPassword string `json:"newPassword"`
	}

	googleLoginRequest struct {
		IDToken string `json:"idToken"`
	}
)

func NewAuthHandler(auth AuthService, jwtProcessor *JWTProcessor, cookiesProcessor *CookiesProcessor, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:             auth,
		jwtProcessor:     jwtProcessor,
		cookiesProcessor: cookiesProcessor,

		log: log,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	userID, err := h.auth.Register(c.Request().Context(), service.RegisterInput{
		Email:            req.Email,
		Password:         req.Password,
		SecurityQuestion: req.SecurityQuestion,
		SecurityAnswer:   req.SecurityAnswer,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Sign Up Successful",
		"userId":  userID,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	userID, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return h.loggedIn(c, userID)
}

func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	question, err := h.auth.ForgotPassword(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"securityQuestion": question})
}

func (h *AuthHandler) VerifySecurity(c echo.Context) error {
	var req verifySecurityRequest
	if err := c.Bind(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	if err := h.auth.VerifySecurity(c.Request().Context(), req.Email, req.SecurityAnswer); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Security answer verified"})
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	if err := h.auth.ResetPassword(c.Request().Context(), req.Email, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Your password has been reset"})
}

func (h *AuthHandler) Google(c echo.Context) error {
	var req googleLoginRequest
	if err := c.Bind(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	userID, err := h.auth.LoginWithIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		return err
	}

	return h.loggedIn(c, userID)
}

func (h *AuthHandler) Info(c echo.Context) error {
	userID := appctx.MustUserIDFromContext(c.Request().Context())
	return c.JSON(http.StatusOK, echo.Map{
		"userId": userID,
	})
}

func (h *AuthHandler) LogOut(c echo.Context) error {
	c.SetCookie(h.cookiesProcessor.ExpireAccessTokenCookie())
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out"})
}

func (h *AuthHandler) loggedIn(c echo.Context, userID string) error {
	if err := h.setSession(c, userID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"userId":  userID,
	})
}

func (h *AuthHandler) setSession(c echo.Context, userID string) error {
	token, err := h.jwtProcessor.ToAccessToken(userID)
	if err != nil {
		return service.InternalError("Login failed", err)
	}
	c.SetCookie(h.cookiesProcessor.NewAccessTokenCookie(token))
	return nil
}
