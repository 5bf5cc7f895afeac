package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusError   = "error"

	ErrCodeStateExpired   = "state_expired"
	ErrCodeNoIDToken      = "no_id_token"
	ErrCodeInvalidToken   = "invalid_token"
	ErrCodeExchangeFailed = "exchange_failed"
	ErrCodeParseFailed    = "parse_failed"

	// CallbackMessage is shown to the browser for every callback outcome.
	CallbackMessage = "You may close this window."

	stateKeyPrefix = "oauth_state:"
)

// ErrNoIDToken is returned by IdentityProvider.Exchange when the token response has no id_token.
var ErrNoIDToken = errors.New("token response has no id_token")

type (
	StateStore interface {
		Get(ctx context.Context, key string) (string, bool, error)
		Set(ctx context.Context, key, value string, ttl time.Duration) error
		Delete(ctx context.Context, key string) error
	}

	IdentityProvider interface {
		IdentityVerifier
		AuthCodeURL(state string) string
		// Exchange trades an authorization code for a raw identity token.
		Exchange(ctx context.Context, code string) (string, error)
	}

	UserResolver interface {
		FindOrCreateUser(ctx context.Context, email string) (string, error)
	}

	RelayConfig struct {
		WebClientID     string
		StateTTL        time.Duration
		ResultRetention time.Duration
		ExchangeTimeout time.Duration
	}

	// Relay correlates a browser based authorization code flow with a client polling for its outcome.
	Relay struct {
		store    StateStore
		provider IdentityProvider
		users    UserResolver
		conf     RelayConfig
		now      func() time.Time

		log *slog.Logger
	}

	StartResult struct {
		AuthURL string
		State   string
	}

	RelayResult struct {
		Status string `json:"status"`
		UserID string `json:"userId,omitempty"`
		Error  string `json:"error,omitempty"`
	}

	stateRecord struct {
		ExpiresAt time.Time    `json:"expiresAt"`
		Result    *RelayResult `json:"result,omitempty"`
	}
)

func NewRelay(store StateStore, provider IdentityProvider, users UserResolver, conf RelayConfig, log *slog.Logger) *Relay {
	return &Relay{
		store:    store,
		provider: provider,
		users:    users,
		conf:     conf,
		now:      time.Now,
		log:      log,
	}
}

// Start issues the state token, a new one unless state is provided, and returns the provider authorization URL.
// Any previous outcome recorded for a reused token is discarded.
func (r *Relay) Start(ctx context.Context, state string) (StartResult, error) {
	if state == "" {
		state = uuid.NewString()
	} else if err := r.store.Delete(ctx, stateKeyPrefix+state); err != nil {
		return StartResult{}, InternalError("Failed to start Google login", err)
	}

	rec := stateRecord{ExpiresAt: r.now().Add(r.conf.StateTTL)}
	if err := r.save(ctx, state, rec); err != nil {
		return StartResult{}, InternalError("Failed to start Google login", err)
	}

	r.log.DebugContext(ctx, "google web login started", "state", state)
	return StartResult{
		AuthURL: r.provider.AuthCodeURL(state),
		State:   state,
	}, nil
}

// Callback resolves the flow identified by state. The outcome is only available through Status.
func (r *Relay) Callback(ctx context.Context, code, state string) string {
	if state == "" {
		r.log.WarnContext(ctx, "google web callback without state")
		return CallbackMessage
	}

	rec, ok, err := r.load(ctx, state)
	if err != nil {
		r.log.ErrorContext(ctx, "failed to load oauth state", "state", state, "error", err)
		return CallbackMessage
	}
	if !ok || r.expired(rec) {
		r.log.WarnContext(ctx, "oauth state expired or unknown", "state", state)
		r.resolve(ctx, state, rec, RelayResult{Status: StatusError, Error: ErrCodeStateExpired})
		return CallbackMessage
	}

	r.resolve(ctx, state, rec, r.authenticate(ctx, code, rec))
	return CallbackMessage
}

// Status returns the recorded outcome for state. Unknown tokens are reported as pending.
func (r *Relay) Status(ctx context.Context, state string) (RelayResult, error) {
	raw, ok, err := r.store.Get(ctx, stateKeyPrefix+state)
	if err != nil {
		return RelayResult{}, InternalError("Failed to fetch login status", err)
	}
	if !ok {
		return RelayResult{Status: StatusPending}, nil
	}

	var rec stateRecord
	if err = json.Unmarshal([]byte(raw), &rec); err != nil {
		r.log.ErrorContext(ctx, "failed to parse oauth state", "state", state, "error", err)
		return RelayResult{Status: StatusError, Error: ErrCodeParseFailed}, nil
	}
	if rec.Result == nil {
		return RelayResult{Status: StatusPending}, nil
	}

	return *rec.Result, nil
}

func (r *Relay) authenticate(ctx context.Context, code string, rec stateRecord) RelayResult {
	ctx, cancel := context.WithTimeout(ctx, r.conf.ExchangeTimeout)
	defer cancel()

	rawIDToken, err := r.provider.Exchange(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNoIDToken) {
			r.log.WarnContext(ctx, "token response did not include id_token")
			return RelayResult{Status: StatusError, Error: ErrCodeNoIDToken}
		}
		r.log.ErrorContext(ctx, "failed to exchange authorization code", "error", err)
		return RelayResult{Status: StatusError, Error: ErrCodeExchangeFailed}
	}
	if rawIDToken == "" {
		return RelayResult{Status: StatusError, Error: ErrCodeNoIDToken}
	}

	identity, err := r.provider.Verify(ctx, rawIDToken, []string{r.conf.WebClientID})
	if err != nil || identity.Email == "" {
		r.log.WarnContext(ctx, "id token verification failed", "error", err)
		return RelayResult{Status: StatusError, Error: ErrCodeInvalidToken}
	}

	// the exchange may outlive the state, a late flow must not sign anyone in
	if r.expired(rec) {
		return RelayResult{Status: StatusError, Error: ErrCodeStateExpired}
	}

	userID, err := r.users.FindOrCreateUser(ctx, identity.Email)
	if err != nil {
		r.log.ErrorContext(ctx, "failed to resolve user", "error", err)
		return RelayResult{Status: StatusError, Error: ErrCodeExchangeFailed}
	}

	r.log.InfoContext(ctx, "google web login succeeded", "user_id", userID)
	return RelayResult{Status: StatusSuccess, UserID: userID}
}

func (r *Relay) resolve(ctx context.Context, state string, rec stateRecord, res RelayResult) {
	rec.Result = &res
	if err := r.save(ctx, state, rec); err != nil {
		r.log.ErrorContext(ctx, "failed to record oauth result", "state", state, "error", err)
	}
}

func (r *Relay) expired(rec stateRecord) bool {
	return rec.ExpiresAt.IsZero() || r.now().After(rec.ExpiresAt)
}

func (r *Relay) load(ctx context.Context, state string) (stateRecord, bool, error) {
	raw, ok, err := r.store.Get(ctx, stateKeyPrefix+state)
	if err != nil || !ok {
		return stateRecord{}, false, err
	}

	var rec stateRecord
	if err = json.Unmarshal([]byte(raw), &rec); err != nil {
		return stateRecord{}, false, fmt.Errorf("unmarshal oauth state: %w", err)
	}
	return rec, true, nil
}

func (r *Relay) save(ctx context.Context, state string, rec stateRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal oauth state: %w", err)
	}

	ttl := max(r.conf.ResultRetention, r.conf.StateTTL)
	if err = r.store.Set(ctx, stateKeyPrefix+state, string(data), ttl); err != nil {
		return fmt.Errorf("save oauth state: %w", err)
	}
	return nil
}
