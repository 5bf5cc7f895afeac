package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Roma7-7-7/vocab-api/internal/dal"
)

func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*dal.User, error) {
	query := r.queries.FindUserByEmailQuery(email)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	var u dal.User
	err = r.client.QueryRowContext(ctx, sqlQuery, args...).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.SecurityQuestion, &u.SecurityAnswer, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dal.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &u, nil
}

func (r *Repository) ExistsUserByEmail(ctx context.Context, email string) (bool, error) {
	query := r.queries.CountUsersByEmailQuery(email)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("build count query: %w", err)
	}

	var count int
	if err = r.client.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}

	return count > 0, nil
}

func (r *Repository) InsertUser(ctx context.Context, user *dal.User) error {
	if user.Email == "" {
		return errors.New("email is required")
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	sqlQuery, args, err := r.queries.InsertUserQuery(*user).ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	if _, err = r.client.ExecContext(ctx, sqlQuery, args...); err != nil {
		if isUniqueViolation(err) {
			return dal.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *Repository) UpdateUserPassword(ctx context.Context, userID, passwordHash string) error {
	sqlQuery, args, err := r.queries.UpdateUserPasswordQuery(userID, passwordHash).ToSql()
	if err != nil {
		return fmt.Errorf("build update query: %w", err)
	}

	res, err := r.client.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 { //nolint:govet // ignore shadow declaration
		return dal.ErrNotFound
	}

	return nil
}
