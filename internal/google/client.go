package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/Roma7-7-7/vocab-api/internal/service"
)

const (
	DefaultAuthURL  = "https://accounts.google.com/o/oauth2/v2/auth"
	DefaultTokenURL = "https://oauth2.googleapis.com/token" //nolint:gosec // not a credential
	DefaultJWKSURL  = "https://www.googleapis.com/oauth2/v3/certs"

	defaultHTTPTimeout = 10 * time.Second
)

var (
	issuers = []string{"https://accounts.google.com", "accounts.google.com"}

	ErrAudienceMismatch = errors.New("id token audience is not allowed")
	ErrIssuerMismatch   = errors.New("id token issuer is not allowed")
)

type (
	Config struct {
		ClientID     string
		ClientSecret string
		RedirectURI  string
		AuthURL      string
		TokenURL     string
		JWKSURL      string
	}

	// Client exchanges authorization codes with Google and verifies the identity tokens it issues.
	Client struct {
		oauth      *oauth2.Config
		verifier   *oidc.IDTokenVerifier
		httpClient *http.Client

		log *slog.Logger
	}

	Option func(*options)

	options struct {
		keySet     oidc.KeySet
		httpClient *http.Client
		now        func() time.Time
	}

	claims struct {
		Email         string `json:"email"`
		EmailVerified any    `json:"email_verified"`
	}
)

// WithKeySet replaces the remote JWKS with a fixed key set.
func WithKeySet(ks oidc.KeySet) Option {
	return func(o *options) {
		o.keySet = ks
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func NewClient(ctx context.Context, conf Config, log *slog.Logger, opts ...Option) *Client {
	o := &options{
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(o)
	}

	authURL, tokenURL, jwksURL := conf.AuthURL, conf.TokenURL, conf.JWKSURL
	if authURL == "" {
		authURL = DefaultAuthURL
	}
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	if jwksURL == "" {
		jwksURL = DefaultJWKSURL
	}

	keySet := o.keySet
	if keySet == nil {
		keySet = oidc.NewRemoteKeySet(oidc.ClientContext(ctx, o.httpClient), jwksURL)
	}

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     conf.ClientID,
			ClientSecret: conf.ClientSecret,
			RedirectURL:  conf.RedirectURI,
			Scopes:       []string{oidc.ScopeOpenID, "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		verifier: oidc.NewVerifier(issuers[0], keySet, &oidc.Config{
			SkipClientIDCheck: true,
			SkipIssuerCheck:   true,
			Now:               o.now,
		}),
		httpClient: o.httpClient,
		log:        log,
	}
}

func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Exchange trades the authorization code for the raw id_token of the response.
func (c *Client) Exchange(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange code: %w", err)
	}

	raw, ok := tok.Extra("id_token").(string)
	if !ok || raw == "" {
		return "", service.ErrNoIDToken
	}
	return raw, nil
}

// Verify checks the signature, expiry, issuer and audience of rawIDToken.
// The token audience must contain at least one of audiences.
func (c *Client) Verify(ctx context.Context, rawIDToken string, audiences []string) (service.Identity, error) {
	token, err := c.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return service.Identity{}, fmt.Errorf("verify id token: %w", err)
	}
	if !slices.Contains(issuers, token.Issuer) {
		return service.Identity{}, fmt.Errorf("%w: %s", ErrIssuerMismatch, token.Issuer)
	}
	if !containsAny(token.Audience, audiences) {
		return service.Identity{}, ErrAudienceMismatch
	}

	var cl claims
	if err = token.Claims(&cl); err != nil {
		return service.Identity{}, fmt.Errorf("parse id token claims: %w", err)
	}

	c.log.DebugContext(ctx, "id token verified", "subject", token.Subject)
	return service.Identity{
		Subject:       token.Subject,
		Email:         cl.Email,
		EmailVerified: verified(cl.EmailVerified),
	}, nil
}

// Google sends email_verified either as a boolean or as a string.
func verified(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val == "true"
	default:
		return false
	}
}

func containsAny(values, allowed []string) bool {
	for _, v := range values {
		if v != "" && slices.Contains(allowed, v) {
			return true
		}
	}
	return false
}
