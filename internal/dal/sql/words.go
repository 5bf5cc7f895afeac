package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/Roma7-7-7/vocab-api/internal/dal"
)

func (r *Repository) FindWordsInList(ctx context.Context, userID, listID string) ([]dal.WordInList, error) {
	sqlQuery, args, err := r.queries.FindWordsInListQuery(userID, listID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	rows, err := r.client.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("find words: %w", err)
	}
	defer rows.Close()

	res := make([]dal.WordInList, 0, 20) //nolint:mnd // expected capacity
	for rows.Next() {
		w, err := hydrateWord(rows) //nolint:govet // ignore shadow declaration
		if err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		res = append(res, *w)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate words: %w", rows.Err())
	}

	return res, nil
}

func (r *Repository) FindWordInList(ctx context.Context, userID, listID, word string) (*dal.WordInList, error) {
	return r.findWord(ctx, r.queries.FindWordInListQuery(userID, listID, word))
}

func (r *Repository) FindWord(ctx context.Context, wordID string) (*dal.WordInList, error) {
	return r.findWord(ctx, r.queries.FindWordQuery(wordID))
}

func (r *Repository) InsertWord(ctx context.Context, word *dal.WordInList) error {
	if word.UserID == "" || word.ListID == "" {
		return errors.New("user id and list id are required")
	}
	if word.ID == "" {
		word.ID = uuid.NewString()
	}
	if word.CreatedAt.IsZero() {
		word.CreatedAt = time.Now().UTC()
	}

	sqlQuery, args, err := r.queries.InsertWordQuery(*word).ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	if _, err = r.client.ExecContext(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("insert word: %w", err)
	}

	return nil
}

func (r *Repository) UpdateWord(ctx context.Context, word dal.WordInList) error {
	sqlQuery, args, err := r.queries.UpdateWordQuery(word).ToSql()
	if err != nil {
		return fmt.Errorf("build update query: %w", err)
	}

	res, err := r.client.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return fmt.Errorf("update word: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 { //nolint:govet // ignore shadow declaration
		return dal.ErrNotFound
	}

	return nil
}

func (r *Repository) DeleteWord(ctx context.Context, wordID string) error {
	sqlQuery, args, err := r.queries.DeleteWordQuery(wordID).ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	if _, err = r.client.ExecContext(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("delete word: %w", err)
	}

	return nil
}

func (r *Repository) findWord(ctx context.Context, query squirrel.Sqlizer) (*dal.WordInList, error) {
	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	w, err := hydrateWord(r.client.QueryRowContext(ctx, sqlQuery, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dal.ErrNotFound
		}
		return nil, fmt.Errorf("find word: %w", err)
	}

	return w, nil
}

func hydrateWord(row scanner) (*dal.WordInList, error) {
	var w dal.WordInList
	if err := row.Scan(&w.ID, &w.UserID, &w.ListID, &w.Word, &w.Definition, &w.Categories, &w.CreatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}
