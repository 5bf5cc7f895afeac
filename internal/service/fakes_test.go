package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/Roma7-7-7/vocab-api/internal/dal"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRepo fails the test with a panic when a method without a func is called.
type fakeRepo struct {
	findUserByEmailFunc    func(ctx context.Context, email string) (*dal.User, error)
	existsUserByEmailFunc  func(ctx context.Context, email string) (bool, error)
	insertUserFunc         func(ctx context.Context, user *dal.User) error
	updateUserPasswordFunc func(ctx context.Context, userID, passwordHash string) error

	findListsFunc       func(ctx context.Context, userID string) ([]dal.VocabList, error)
	findHistoryListFunc func(ctx context.Context, userID string) (*dal.VocabList, error)
	findListFunc        func(ctx context.Context, userID, listID string) (*dal.VocabList, error)
	insertListFunc      func(ctx context.Context, list *dal.VocabList) error

	findWordsInListFunc func(ctx context.Context, userID, listID string) ([]dal.WordInList, error)
	findWordInListFunc  func(ctx context.Context, userID, listID, word string) (*dal.WordInList, error)
	findWordFunc        func(ctx context.Context, wordID string) (*dal.WordInList, error)
	insertWordFunc      func(ctx context.Context, word *dal.WordInList) error
	updateWordFunc      func(ctx context.Context, word dal.WordInList) error
	deleteWordFunc      func(ctx context.Context, wordID string) error

	findDictionaryEntryFunc       func(ctx context.Context, word string) (*dal.DictionaryEntry, error)
	findRandomDictionaryEntryFunc func(ctx context.Context) (*dal.DictionaryEntry, error)
	upsertDictionaryEntryFunc     func(ctx context.Context, entry *dal.DictionaryEntry) error
}

func unexpected(method string) {
	panic("unexpected call to " + method)
}

func (f *fakeRepo) Transact(_ context.Context, txFunc func(r dal.Repository) error) error {
	return txFunc(f)
}

func (f *fakeRepo) FindUserByEmail(ctx context.Context, email string) (*dal.User, error) {
	if f.findUserByEmailFunc == nil {
		unexpected("FindUserByEmail")
	}
	return f.findUserByEmailFunc(ctx, email)
}

func (f *fakeRepo) ExistsUserByEmail(ctx context.Context, email string) (bool, error) {
	if f.existsUserByEmailFunc == nil {
		unexpected("ExistsUserByEmail")
	}
	return f.existsUserByEmailFunc(ctx, email)
}

func (f *fakeRepo) InsertUser(ctx context.Context, user *dal.User) error {
	if f.insertUserFunc == nil {
		unexpected("InsertUser")
	}
	return f.insertUserFunc(ctx, user)
}

func (f *fakeRepo) UpdateUserPassword(ctx context.Context, userID, passwordHash string) error {
	if f.updateUserPasswordFunc == nil {
		unexpected("UpdateUserPassword")
	}
	return f.updateUserPasswordFunc(ctx, userID, passwordHash)
}

func (f *fakeRepo) FindLists(ctx context.Context, userID string) ([]dal.VocabList, error) {
	if f.findListsFunc == nil {
		unexpected("FindLists")
	}
	return f.findListsFunc(ctx, userID)
}

func (f *fakeRepo) FindHistoryList(ctx context.Context, userID string) (*dal.VocabList, error) {
	if f.findHistoryListFunc == nil {
		unexpected("FindHistoryList")
	}
	return f.findHistoryListFunc(ctx, userID)
}

func (f *fakeRepo) FindList(ctx context.Context, userID, listID string) (*dal.VocabList, error) {
	if f.findListFunc == nil {
		unexpected("FindList")
	}
	return f.findListFunc(ctx, userID, listID)
}

func (f *fakeRepo) InsertList(ctx context.Context, list *dal.VocabList) error {
	if f.insertListFunc == nil {
		unexpected("InsertList")
	}
	return f.insertListFunc(ctx, list)
}

func (f *fakeRepo) FindWordsInList(ctx context.Context, userID, listID string) ([]dal.WordInList, error) {
	if f.findWordsInListFunc == nil {
		unexpected("FindWordsInList")
	}
	return f.findWordsInListFunc(ctx, userID, listID)
}

func (f *fakeRepo) FindWordInList(ctx context.Context, userID, listID, word string) (*dal.WordInList, error) {
	if f.findWordInListFunc == nil {
		unexpected("FindWordInList")
	}
	return f.findWordInListFunc(ctx, userID, listID, word)
}

func (f *fakeRepo) FindWord(ctx context.Context, wordID string) (*dal.WordInList, error) {
	if f.findWordFunc == nil {
		unexpected("FindWord")
	}
	return f.findWordFunc(ctx, wordID)
}

func (f *fakeRepo) InsertWord(ctx context.Context, word *dal.WordInList) error {
	if f.insertWordFunc == nil {
		unexpected("InsertWord")
	}
	return f.insertWordFunc(ctx, word)
}

func (f *fakeRepo) UpdateWord(ctx context.Context, word dal.WordInList) error {
	if f.updateWordFunc == nil {
		unexpected("UpdateWord")
	}
	return f.updateWordFunc(ctx, word)
}

func (f *fakeRepo) DeleteWord(ctx context.Context, wordID string) error {
	if f.deleteWordFunc == nil {
		unexpected("DeleteWord")
	}
	return f.deleteWordFunc(ctx, wordID)
}

func (f *fakeRepo) FindDictionaryEntry(ctx context.Context, word string) (*dal.DictionaryEntry, error) {
	if f.findDictionaryEntryFunc == nil {
		unexpected("FindDictionaryEntry")
	}
	return f.findDictionaryEntryFunc(ctx, word)
}

func (f *fakeRepo) FindRandomDictionaryEntry(ctx context.Context) (*dal.DictionaryEntry, error) {
	if f.findRandomDictionaryEntryFunc == nil {
		unexpected("FindRandomDictionaryEntry")
	}
	return f.findRandomDictionaryEntryFunc(ctx)
}

func (f *fakeRepo) UpsertDictionaryEntry(ctx context.Context, entry *dal.DictionaryEntry) error {
	if f.upsertDictionaryEntryFunc == nil {
		unexpected("UpsertDictionaryEntry")
	}
	return f.upsertDictionaryEntryFunc(ctx, entry)
}

type fakeProvider struct {
	authCodeURLFunc func(state string) string
	exchangeFunc    func(ctx context.Context, code string) (string, error)
	verifyFunc      func(ctx context.Context, rawIDToken string, audiences []string) (Identity, error)
}

func (f *fakeProvider) AuthCodeURL(state string) string {
	if f.authCodeURLFunc == nil {
		return "https://accounts.example.com/auth?state=" + state
	}
	return f.authCodeURLFunc(state)
}

func (f *fakeProvider) Exchange(ctx context.Context, code string) (string, error) {
	if f.exchangeFunc == nil {
		unexpected("Exchange")
	}
	return f.exchangeFunc(ctx, code)
}

func (f *fakeProvider) Verify(ctx context.Context, rawIDToken string, audiences []string) (Identity, error) {
	if f.verifyFunc == nil {
		unexpected("Verify")
	}
	return f.verifyFunc(ctx, rawIDToken, audiences)
}

type fakeUsers struct {
	findOrCreateUserFunc func(ctx context.Context, email string) (string, error)
}

func (f *fakeUsers) FindOrCreateUser(ctx context.Context, email string) (string, error) {
	if f.findOrCreateUserFunc == nil {
		unexpected("FindOrCreateUser")
	}
	return f.findOrCreateUserFunc(ctx, email)
}

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time {
	return c.now
}
