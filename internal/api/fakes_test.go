package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Roma7-7-7/vocab-api/internal/config"
	"github.com/Roma7-7-7/vocab-api/internal/dal"
	"github.com/Roma7-7-7/vocab-api/internal/service"
)

type fakeAuth struct {
	registerFunc         func(ctx context.Context, in service.RegisterInput) (string, error)
	loginFunc            func(ctx context.Context, email, password string) (string, error)
	forgotPasswordFunc   func(ctx context.Context, email string) (string, error)
	verifySecurityFunc   func(ctx context.Context, email, answer string) error
	resetPasswordFunc    func(ctx context.Context, email, newPassword string) error
	loginWithIDTokenFunc func(ctx context.Context, idToken string) (string, error)
}

func (f *fakeAuth) Register(ctx context.Context, in service.RegisterInput) (string, error) {
	return f.registerFunc(ctx, in)
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (string, error) {
	return f.loginFunc(ctx, email, password)
}

func (f *fakeAuth) ForgotPassword(ctx context.Context, email string) (string, error) {
	return f.forgotPasswordFunc(ctx, email)
}

func (f *fakeAuth) VerifySecurity(ctx context.Context, email, answer string) error {
	return f.verifySecurityFunc(ctx, email, answer)
}

func (f *fakeAuth) ResetPassword(ctx context.Context, email, newPassword string) error {
	return f.resetPasswordFunc(ctx, email, newPassword)
}

func (f *fakeAuth) LoginWithIDToken(ctx context.Context, idToken string) (string, error) {
	return f.loginWithIDTokenFunc(ctx, idToken)
}

type fakeRelay struct {
	startFunc    func(ctx context.Context, state string) (service.StartResult, error)
	callbackFunc func(ctx context.Context, code, state string) string
	statusFunc   func(ctx context.Context, state string) (service.RelayResult, error)
}

func (f *fakeRelay) Start(ctx context.Context, state string) (service.StartResult, error) {
	return f.startFunc(ctx, state)
}

func (f *fakeRelay) Callback(ctx context.Context, code, state string) string {
	return f.callbackFunc(ctx, code, state)
}

func (f *fakeRelay) Status(ctx context.Context, state string) (service.RelayResult, error) {
	return f.statusFunc(ctx, state)
}

type fakeVocab struct {
	getAllListsFunc              func(ctx context.Context, userID string) ([]dal.VocabList, error)
	getListsExcludingHistoryFunc func(ctx context.Context, userID string) (service.ListsOverview, error)
	createListFunc               func(ctx context.Context, userID, name string) (*dal.VocabList, error)
	getWordsInListFunc           func(ctx context.Context, userID, listID string) (service.ListWords, error)
	addWordToListFunc            func(ctx context.Context, word dal.WordInList) (*dal.WordInList, error)
	updateWordFunc               func(ctx context.Context, wordID string, patch service.WordPatch) (*dal.WordInList, error)
	deleteWordFunc               func(ctx context.Context, wordID string) error
}

func (f *fakeVocab) GetAllLists(ctx context.Context, userID string) ([]dal.VocabList, error) {
	return f.getAllListsFunc(ctx, userID)
}

func (f *fakeVocab) GetListsExcludingHistory(ctx context.Context, userID string) (service.ListsOverview, error) {
	return f.getListsExcludingHistoryFunc(ctx, userID)
}

func (f *fakeVocab) CreateList(ctx context.Context, userID, name string) (*dal.VocabList, error) {
	return f.createListFunc(ctx, userID, name)
}

func (f *fakeVocab) GetWordsInList(ctx context.Context, userID, listID string) (service.ListWords, error) {
	return f.getWordsInListFunc(ctx, userID, listID)
}

func (f *fakeVocab) AddWordToList(ctx context.Context, word dal.WordInList) (*dal.WordInList, error) {
	return f.addWordToListFunc(ctx, word)
}

func (f *fakeVocab) UpdateWord(ctx context.Context, wordID string, patch service.WordPatch) (*dal.WordInList, error) {
	return f.updateWordFunc(ctx, wordID, patch)
}

func (f *fakeVocab) DeleteWord(ctx context.Context, wordID string) error {
	return f.deleteWordFunc(ctx, wordID)
}

type fakeDictionary struct {
	randomWordFunc func(ctx context.Context) (*dal.DictionaryEntry, error)
	definitionFunc func(ctx context.Context, word string) (*dal.DictionaryEntry, error)
	addWordFunc    func(ctx context.Context, entry dal.DictionaryEntry) (*dal.DictionaryEntry, error)
}

func (f *fakeDictionary) RandomWord(ctx context.Context) (*dal.DictionaryEntry, error) {
	return f.randomWordFunc(ctx)
}

func (f *fakeDictionary) Definition(ctx context.Context, word string) (*dal.DictionaryEntry, error) {
	return f.definitionFunc(ctx, word)
}

func (f *fakeDictionary) AddWord(ctx context.Context, entry dal.DictionaryEntry) (*dal.DictionaryEntry, error) {
	return f.addWordFunc(ctx, entry)
}

func testConfig() *config.API {
	return &config.API{
		Dev: true,
		HTTP: config.HTTP{
			ProcessTimeout: 5 * time.Second,
			RateLimit:      1000,
			CORS:           config.CORS{AllowOrigins: []string{"http://localhost:3000"}},
			Cookie:         config.Cookie{Path: "/", AccessExpiresIn: time.Hour},
			JWT:            config.JWT{Issuer: "vocab-api", Audience: []string{"vocab-app"}, Secret: "test-secret"},
		},
		BuildInfo: config.BuildInfo{Version: "test"},
	}
}

type testServer struct {
	handler    http.Handler
	auth       *fakeAuth
	relay      *fakeRelay
	vocab      *fakeVocab
	dictionary *fakeDictionary
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	s := &testServer{
		auth:       &fakeAuth{},
		relay:      &fakeRelay{},
		vocab:      &fakeVocab{},
		dictionary: &fakeDictionary{},
	}
	s.handler = NewRouter(context.Background(), testConfig(), Dependencies{
		Auth:       s.auth,
		Relay:      s.relay,
		Vocab:      s.vocab,
		Dictionary: s.dictionary,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return s
}

func (s *testServer) do(method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func accessCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == accessCookieName {
			return c
		}
	}
	return nil
}
