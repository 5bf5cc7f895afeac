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

func (r *Repository) FindLists(ctx context.Context, userID string) ([]dal.VocabList, error) {
	sqlQuery, args, err := r.queries.FindListsQuery(userID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	rows, err := r.client.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("find lists: %w", err)
	}
	defer rows.Close()

	res := make([]dal.VocabList, 0, 10) //nolint:mnd // expected capacity
	for rows.Next() {
		l, err := hydrateList(rows) //nolint:govet // ignore shadow declaration
		if err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		res = append(res, *l)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate lists: %w", rows.Err())
	}

	return res, nil
}

func (r *Repository) FindHistoryList(ctx context.Context, userID string) (*dal.VocabList, error) {
	return r.findList(ctx, r.queries.FindHistoryListQuery(userID), "find history list")
}

func (r *Repository) FindList(ctx context.Context, userID, listID string) (*dal.VocabList, error) {
	return r.findList(ctx, r.queries.FindListQuery(userID, listID), "find list")
}

func (r *Repository) InsertList(ctx context.Context, list *dal.VocabList) error {
	if list.UserID == "" {
		return errors.New("user id is required")
	}
	if list.ID == "" {
		list.ID = uuid.NewString()
	}
	if list.CreatedAt.IsZero() {
		list.CreatedAt = time.Now().UTC()
	}

	sqlQuery, args, err := r.queries.InsertListQuery(*list).ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	if _, err = r.client.ExecContext(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("insert list: %w", err)
	}

	return nil
}

func (r *Repository) findList(ctx context.Context, query squirrel.Sqlizer, op string) (*dal.VocabList, error) {
	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	l, err := hydrateList(r.client.QueryRowContext(ctx, sqlQuery, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dal.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return l, nil
}

func hydrateList(row scanner) (*dal.VocabList, error) {
	var l dal.VocabList
	if err := row.Scan(&l.ID, &l.UserID, &l.Name, &l.IsHistory, &l.CreatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}
