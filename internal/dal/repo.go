package dal

import (
	"context"
	"errors"
)

const (
	DBTypeSQLite   DBType = "sqlite"
	DBTypePostgres DBType = "postgres"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

type (
	DBType string

	UsersRepository interface {
		FindUserByEmail(ctx context.Context, email string) (*User, error)
		ExistsUserByEmail(ctx context.Context, email string) (bool, error)
		// InsertUser returns ErrDuplicate when the email is taken.
		InsertUser(ctx context.Context, user *User) error
		UpdateUserPassword(ctx context.Context, userID, passwordHash string) error
	}

	VocabListsRepository interface {
		FindLists(ctx context.Context, userID string) ([]VocabList, error)
		// FindHistoryList returns the list flagged as history or, when none is flagged,
		// the earliest created one.
		FindHistoryList(ctx context.Context, userID string) (*VocabList, error)
		FindList(ctx context.Context, userID, listID string) (*VocabList, error)
		InsertList(ctx context.Context, list *VocabList) error
	}

	WordsRepository interface {
		FindWordsInList(ctx context.Context, userID, listID string) ([]WordInList, error)
		FindWordInList(ctx context.Context, userID, listID, word string) (*WordInList, error)
		FindWord(ctx context.Context, wordID string) (*WordInList, error)
		InsertWord(ctx context.Context, word *WordInList) error
		UpdateWord(ctx context.Context, word WordInList) error
		DeleteWord(ctx context.Context, wordID string) error
	}

	DictionaryRepository interface {
		FindDictionaryEntry(ctx context.Context, word string) (*DictionaryEntry, error)
		FindRandomDictionaryEntry(ctx context.Context) (*DictionaryEntry, error)
		// UpsertDictionaryEntry inserts the entry or updates the existing one with the same word.
		// entry.ID is set to the stored id.
		UpsertDictionaryEntry(ctx context.Context, entry *DictionaryEntry) error
	}

	Repository interface {
		Transact(ctx context.Context, txFunc func(r Repository) error) error
		UsersRepository
		VocabListsRepository
		WordsRepository
		DictionaryRepository
	}
)

func ParseDBType(s string) (DBType, error) {
	switch DBType(s) {
	case DBTypeSQLite, DBTypePostgres:
		return DBType(s), nil
	default:
		return "", errors.New("unsupported db type: " + s)
	}
}

// DriverName returns the database/sql driver registered for the db type.
func (t DBType) DriverName() string {
	if t == DBTypePostgres {
		return "pgx"
	}
	return "sqlite"
}
