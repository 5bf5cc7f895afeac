package dal

import (
	"github.com/Masterminds/squirrel"
)

var (
	userColumns       = []string{"id", "email", "password_hash", "security_question", "security_answer", "created_at"}
	dictionaryColumns = []string{"id", "word", "short_definition", "category", "part_of_speech"}
	listColumns       = []string{"id", "user_id", "list_name", "is_history", "created_at"}
	wordColumns       = []string{"id", "user_id", "list_id", "word", "definition", "categories", "created_at"}
)

// Queries builds statements with the placeholder format of the target database.
type Queries struct {
	qb squirrel.StatementBuilderType
}

func NewQueries(dbType DBType) *Queries {
	var format squirrel.PlaceholderFormat = squirrel.Question
	if dbType == DBTypePostgres {
		format = squirrel.Dollar
	}
	return &Queries{qb: squirrel.StatementBuilder.PlaceholderFormat(format)}
}

func (q *Queries) FindUserByEmailQuery(email string) squirrel.Sqlizer {
	return q.qb.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"email": email})
}

func (q *Queries) CountUsersByEmailQuery(email string) squirrel.Sqlizer {
	return q.qb.Select("COUNT(*)").
		From("users").
		Where(squirrel.Eq{"email": email})
}

func (q *Queries) InsertUserQuery(u User) squirrel.Sqlizer {
	return q.qb.Insert("users").
		Columns(userColumns...).
		Values(u.ID, u.Email, u.PasswordHash, u.SecurityQuestion, u.SecurityAnswer, u.CreatedAt)
}

func (q *Queries) UpdateUserPasswordQuery(userID, passwordHash string) squirrel.Sqlizer {
	return q.qb.Update("users").
		Set("password_hash", passwordHash).
		Where(squirrel.Eq{"id": userID})
}

func (q *Queries) FindDictionaryEntryQuery(word string) squirrel.Sqlizer {
	return q.qb.Select(dictionaryColumns...).
		From("dictionary_entries").
		Where(squirrel.Eq{"word": word})
}

func (q *Queries) FindRandomDictionaryEntryQuery() squirrel.Sqlizer {
	return q.qb.Select(dictionaryColumns...).
		From("dictionary_entries").
		OrderBy("RANDOM()").
		Limit(1)
}

// UpsertDictionaryEntryQuery returns the id of the stored row.
func (q *Queries) UpsertDictionaryEntryQuery(e DictionaryEntry) squirrel.Sqlizer {
	return q.qb.Insert("dictionary_entries").
		Columns(dictionaryColumns...).
		Values(e.ID, e.Word, e.ShortDefinition, e.Category, e.PartOfSpeech).
		Suffix("ON CONFLICT (word) DO UPDATE SET short_definition = EXCLUDED.short_definition, category = EXCLUDED.category, part_of_speech = EXCLUDED.part_of_speech").
		Suffix("RETURNING id")
}

func (q *Queries) FindListsQuery(userID string) squirrel.Sqlizer {
	return q.qb.Select(listColumns...).
		From("vocab_lists").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at", "id")
}

func (q *Queries) FindHistoryListQuery(userID string) squirrel.Sqlizer {
	return q.qb.Select(listColumns...).
		From("vocab_lists").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("is_history DESC", "created_at", "id").
		Limit(1)
}

func (q *Queries) FindListQuery(userID, listID string) squirrel.Sqlizer {
	return q.qb.Select(listColumns...).
		From("vocab_lists").
		Where(squirrel.Eq{"id": listID, "user_id": userID})
}

func (q *Queries) InsertListQuery(l VocabList) squirrel.Sqlizer {
	return q.qb.Insert("vocab_lists").
		Columns(listColumns...).
		Values(l.ID, l.UserID, l.Name, l.IsHistory, l.CreatedAt)
}

func (q *Queries) FindWordsInListQuery(userID, listID string) squirrel.Sqlizer {
	return q.qb.Select(wordColumns...).
		From("words_in_lists").
		Where(squirrel.Eq{"user_id": userID, "list_id": listID}).
		OrderBy("created_at", "id")
}

func (q *Queries) FindWordInListQuery(userID, listID, word string) squirrel.Sqlizer {
	return q.qb.Select(wordColumns...).
		From("words_in_lists").
		Where(squirrel.Eq{"user_id": userID, "list_id": listID, "word": word}).
		Limit(1)
}

func (q *Queries) FindWordQuery(wordID string) squirrel.Sqlizer {
	return q.qb.Select(wordColumns...).
		From("words_in_lists").
		Where(squirrel.Eq{"id": wordID})
}

func (q *Queries) InsertWordQuery(w WordInList) squirrel.Sqlizer {
	return q.qb.Insert("words_in_lists").
		Columns(wordColumns...).
		Values(w.ID, w.UserID, w.ListID, w.Word, w.Definition, w.Categories, w.CreatedAt)
}

func (q *Queries) UpdateWordQuery(w WordInList) squirrel.Sqlizer {
	return q.qb.Update("words_in_lists").
		Set("word", w.Word).
		Set("definition", w.Definition).
		Set("categories", w.Categories).
		Where(squirrel.Eq{"id": w.ID})
}

func (q *Queries) DeleteWordQuery(wordID string) squirrel.Sqlizer {
	return q.qb.Delete("words_in_lists").
		Where(squirrel.Eq{"id": wordID})
}
