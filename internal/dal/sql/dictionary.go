package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Roma7-7-7/vocab-api/internal/dal"
)

func (r *Repository) FindDictionaryEntry(ctx context.Context, word string) (*dal.DictionaryEntry, error) {
	sqlQuery, args, err := r.queries.FindDictionaryEntryQuery(word).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	e, err := hydrateDictionaryEntry(r.client.QueryRowContext(ctx, sqlQuery, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dal.ErrNotFound
		}
		return nil, fmt.Errorf("find dictionary entry: %w", err)
	}

	return e, nil
}

func (r *Repository) FindRandomDictionaryEntry(ctx context.Context) (*dal.DictionaryEntry, error) {
	sqlQuery, args, err := r.queries.FindRandomDictionaryEntryQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	e, err := hydrateDictionaryEntry(r.client.QueryRowContext(ctx, sqlQuery, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dal.ErrNotFound
		}
		return nil, fmt.Errorf("get random dictionary entry: %w", err)
	}

	return e, nil
}

func (r *Repository) UpsertDictionaryEntry(ctx context.Context, entry *dal.DictionaryEntry) error {
	if entry.Word == "" {
		return errors.New("word is required")
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	sqlQuery, args, err := r.queries.UpsertDictionaryEntryQuery(*entry).ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	if err = r.client.QueryRowContext(ctx, sqlQuery, args...).Scan(&entry.ID); err != nil {
		return fmt.Errorf("upsert dictionary entry: %w", err)
	}

	return nil
}

func hydrateDictionaryEntry(row scanner) (*dal.DictionaryEntry, error) {
	var e dal.DictionaryEntry
	if err := row.Scan(&e.ID, &e.Word, &e.ShortDefinition, &e.Category, &e.PartOfSpeech); err != nil {
		return nil, err
	}
	return &e, nil
}
