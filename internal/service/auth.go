package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Roma7-7-7/vocab-api/internal/dal"
)

const HistoryListName = "Vocab Word History"

type (
	Identity struct {
		Subject       string
		Email         string
		EmailVerified bool
	}

	IdentityVerifier interface {
		// Verify checks the token signature, expiry and that its audience is one of audiences.
		Verify(ctx context.Context, rawIDToken string, audiences []string) (Identity, error)
	}

	RegisterInput struct {
		Email            string
		Password         string
		SecurityQuestion string
		SecurityAnswer   string
	}

	AuthService struct {
		repo      dal.Repository
		verifier  IdentityVerifier
		clientIDs []string
		hashCost  int

		log *slog.Logger
	}

	AuthOption func(*AuthService)
)

func WithHashCost(cost int) AuthOption {
	return func(s *AuthService) {
		s.hashCost = cost
	}
}

func NewAuthService(repo dal.Repository, verifier IdentityVerifier, clientIDs []string, log *slog.Logger, opts ...AuthOption) *AuthService {
	res := &AuthService{
		repo:      repo,
		verifier:  verifier,
		clientIDs: clientIDs,
		hashCost:  bcrypt.DefaultCost,
		log:       log,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, error) {
	if in.Email == "" || in.Password == "" || in.SecurityQuestion == "" || in.SecurityAnswer == "" {
		return "", ValidationError("All fields are required")
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return "", err
	}

	user := &dal.User{
		Email:            in.Email,
		PasswordHash:     hash,
		SecurityQuestion: in.SecurityQuestion,
		SecurityAnswer:   in.SecurityAnswer,
	}
	err = s.repo.Transact(ctx, func(r dal.Repository) error {
		exists, err := r.ExistsUserByEmail(ctx, in.Email) //nolint:govet // ignore shadow declaration
		if err != nil {
			return fmt.Errorf("check user exists: %w", err)
		}
		if exists {
			return ConflictError("This email is already registered")
		}

		if err = r.InsertUser(ctx, user); err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		return provisionHistoryList(ctx, r, user.ID)
	})
	if err != nil {
		if errors.Is(err, dal.ErrDuplicate) {
			return "", ConflictError("This email is already registered")
		}
		if KindOf(err) == KindConflict {
			return "", err
		}
		return "", InternalError("Registration failed", err)
	}

	s.log.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user.ID, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, dal.ErrNotFound) {
			return "", NotFoundError("User not found")
		}
		return "", InternalError("Login failed", err)
	}

	if user.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", AuthError("Incorrect password")
	}

	return user.ID, nil
}

// ForgotPassword returns the security question of the account.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, dal.ErrNotFound) {
			return "", NotFoundError("No account found with this email")
		}
		return "", InternalError("Failed to fetch security question", err)
	}

	return user.SecurityQuestion, nil
}

// VerifySecurity compares answer with the stored one as is, without any normalization.
func (s *AuthService) VerifySecurity(ctx context.Context, email, answer string) error {
	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, dal.ErrNotFound) {
			return AuthError("Incorrect answer")
		}
		return InternalError("Failed to verify security answer", err)
	}

	if user.SecurityAnswer == "" || user.SecurityAnswer != answer {
		return AuthError("Incorrect answer")
	}

	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if newPassword == "" {
		return ValidationError("Password cannot be empty")
	}

	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, dal.ErrNotFound) {
			return NotFoundError("User not found")
		}
		return InternalError("Failed to reset password", err)
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return err
	}

	if err = s.repo.UpdateUserPassword(ctx, user.ID, hash); err != nil {
		if errors.Is(err, dal.ErrNotFound) {
			return NotFoundError("User not found")
		}
		return InternalError("Failed to reset password", err)
	}

	s.log.InfoContext(ctx, "password reset", "user_id", user.ID)
	return nil
}

// LoginWithIDToken verifies a Google identity token issued for one of the configured client ids.
func (s *AuthService) LoginWithIDToken(ctx context.Context, idToken string) (string, error) {
	if strings.TrimSpace(idToken) == "" {
		return "", ValidationError("idToken is required")
	}

	identity, err := s.verifier.Verify(ctx, idToken, s.clientIDs)
	if err != nil {
		s.log.DebugContext(ctx, "failed to verify id token", "error", err)
		return "", AuthError("Invalid ID token")
	}
	if identity.Email == "" || !identity.EmailVerified {
		return "", AuthError("Unverified Google account")
	}

	userID, err := s.FindOrCreateUser(ctx, identity.Email)
	if err != nil {
		return "", InternalError("Google login failed", err)
	}

	return userID, nil
}

// FindOrCreateUser returns the id of the user with email, creating an account without password if needed.
func (s *AuthService) FindOrCreateUser(ctx context.Context, email string) (string, error) {
	userID, err := s.findOrCreateUser(ctx, email)
	if !errors.Is(err, dal.ErrDuplicate) {
		return userID, err
	}

	// a concurrent login created the user after the lookup
	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}
	return user.ID, nil
}

func (s *AuthService) findOrCreateUser(ctx context.Context, email string) (string, error) {
	var userID string
	err := s.repo.Transact(ctx, func(r dal.Repository) error {
		user, err := r.FindUserByEmail(ctx, email)
		if err == nil {
			userID = user.ID
			return nil
		}
		if !errors.Is(err, dal.ErrNotFound) {
			return fmt.Errorf("find user: %w", err)
		}

		user = &dal.User{Email: email}
		if err = r.InsertUser(ctx, user); err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		userID = user.ID
		s.log.InfoContext(ctx, "user created from google account", "user_id", user.ID)
		return provisionHistoryList(ctx, r, user.ID)
	})
	if err != nil {
		return "", err
	}

	return userID, nil
}

func (s *AuthService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ValidationError("Password is too long")
		}
		return "", InternalError("Failed to hash password", err)
	}
	return string(hash), nil
}

func provisionHistoryList(ctx context.Context, r dal.Repository, userID string) error {
	err := r.InsertList(ctx, &dal.VocabList{
		UserID:    userID,
		Name:      HistoryListName,
		IsHistory: true,
	})
	if err != nil {
		return fmt.Errorf("insert history list: %w", err)
	}
	return nil
}
