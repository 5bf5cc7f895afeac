package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Roma7-7-7/vocab-api/internal/dal"
)

type fakeVerifier struct {
	verifyFunc func(ctx context.Context, rawIDToken string, audiences []string) (Identity, error)
}

func (f *fakeVerifier) Verify(ctx context.Context, rawIDToken string, audiences []string) (Identity, error) {
	if f.verifyFunc == nil {
		unexpected("Verify")
	}
	return f.verifyFunc(ctx, rawIDToken, audiences)
}

func newAuthService(repo *fakeRepo, verifier *fakeVerifier) *AuthService {
	if verifier == nil {
		verifier = &fakeVerifier{}
	}
	return NewAuthService(repo, verifier, []string{"android-client", "web-client"}, discardLogger(), WithHashCost(bcrypt.MinCost))
}

func testUser(t *testing.T) *dal.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	return &dal.User{
		ID:               "user123",
		Email:            "test@example.com",
		PasswordHash:     string(hash),
		SecurityQuestion: "What is your pet's name?",
		SecurityAnswer:   "Fluffy",
	}
}

func assertKind(t *testing.T, err error, kind Kind, msg string) {
	t.Helper()
	require.Error(t, err)
	var sErr *Error
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, kind, sErr.Kind)
	assert.Equal(t, msg, sErr.Message)
}

func TestAuthService_Register(t *testing.T) {
	var (
		savedUser *dal.User
		savedList *dal.VocabList
	)
	repo := &fakeRepo{
		existsUserByEmailFunc: func(_ context.Context, email string) (bool, error) {
			assert.Equal(t, "newuser@example.com", email)
			return false, nil
		},
		insertUserFunc: func(_ context.Context, user *dal.User) error {
			user.ID = "newUserId"
			savedUser = user
			return nil
		},
		insertListFunc: func(_ context.Context, list *dal.VocabList) error {
			savedList = list
			return nil
		},
	}

	userID, err := newAuthService(repo, nil).Register(context.Background(), RegisterInput{
		Email:            "newuser@example.com",
		Password:         "password123",
		SecurityQuestion: "What is your pet's name?",
		SecurityAnswer:   "Fluffy",
	})
	require.NoError(t, err)
	assert.Equal(t, "newUserId", userID)

	require.NotNil(t, savedUser)
	assert.NotEqual(t, "password123", savedUser.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(savedUser.PasswordHash), []byte("password123")))

	require.NotNil(t, savedList)
	assert.Equal(t, "newUserId", savedList.UserID)
	assert.Equal(t, HistoryListName, savedList.Name)
	assert.True(t, savedList.IsHistory)
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	full := RegisterInput{Email: "a@example.com", Password: "p", SecurityQuestion: "q", SecurityAnswer: "a"}
	inputs := map[string]func(in RegisterInput) RegisterInput{
		"email":    func(in RegisterInput) RegisterInput { in.Email = ""; return in },
		"password": func(in RegisterInput) RegisterInput { in.Password = ""; return in },
		"question": func(in RegisterInput) RegisterInput { in.SecurityQuestion = ""; return in },
		"answer":   func(in RegisterInput) RegisterInput { in.SecurityAnswer = ""; return in },
	}

	for name, mutate := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := newAuthService(&fakeRepo{}, nil).Register(context.Background(), mutate(full))
			assertKind(t, err, KindValidation, "All fields are required")
		})
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := &fakeRepo{
		existsUserByEmailFunc: func(context.Context, string) (bool, error) {
			return true, nil
		},
	}

	_, err := newAuthService(repo, nil).Register(context.Background(), RegisterInput{
		Email: "existing@example.com", Password: "password123", SecurityQuestion: "Question?", SecurityAnswer: "Answer",
	})
	assertKind(t, err, KindConflict, "This email is already registered")
}

func TestAuthService_Register_ConcurrentDuplicate(t *testing.T) {
	repo := &fakeRepo{
		existsUserByEmailFunc: func(context.Context, string) (bool, error) {
			return false, nil
		},
		insertUserFunc: func(context.Context, *dal.User) error {
			return dal.ErrDuplicate
		},
	}

	_, err := newAuthService(repo, nil).Register(context.Background(), RegisterInput{
		Email: "existing@example.com", Password: "password123", SecurityQuestion: "Question?", SecurityAnswer: "Answer",
	})
	assertKind(t, err, KindConflict, "This email is already registered")
}

func TestAuthService_Register_StoreFailure(t *testing.T) {
	repo := &fakeRepo{
		existsUserByEmailFunc: func(context.Context, string) (bool, error) {
			return false, errors.New("db down")
		},
	}

	_, err := newAuthService(repo, nil).Register(context.Background(), RegisterInput{
		Email: "a@example.com", Password: "p", SecurityQuestion: "q", SecurityAnswer: "a",
	})
	assertKind(t, err, KindInternal, "Registration failed")
}

func TestAuthService_Login(t *testing.T) {
	user := testUser(t)
	repo := &fakeRepo{
		findUserByEmailFunc: func(_ context.Context, email string) (*dal.User, error) {
			if email == user.Email {
				return user, nil
			}
			return nil, dal.ErrNotFound
		},
	}
	svc := newAuthService(repo, nil)

	userID, err := svc.Login(context.Background(), "test@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "user123", userID)

	_, err = svc.Login(context.Background(), "test@example.com", "wrongpassword")
	assertKind(t, err, KindAuth, "Incorrect password")

	_, err = svc.Login(context.Background(), "nonexistent@example.com", "password123")
	assertKind(t, err, KindNotFound, "User not found")
}

func TestAuthService_Login_OAuthOnlyAccount(t *testing.T) {
	repo := &fakeRepo{
		findUserByEmailFunc: func(context.Context, string) (*dal.User, error) {
			return &dal.User{ID: "google-user", Email: "g@example.com"}, nil
		},
	}

	_, err := newAuthService(repo, nil).Login(context.Background(), "g@example.com", "")
	assertKind(t, err, KindAuth, "Incorrect password")
}

func TestAuthService_ForgotPassword(t *testing.T) {
	user := testUser(t)
	repo := &fakeRepo{
		findUserByEmailFunc: func(_ context.Context, email string) (*dal.User, error) {
			if email == user.Email {
				return user, nil
			}
			return nil, dal.ErrNotFound
		},
	}
	svc := newAuthService(repo, nil)

	question, err := svc.ForgotPassword(context.Background(), "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, "What is your pet's name?", question)

	_, err = svc.ForgotPassword(context.Background(), "nonexistent@example.com")
	assertKind(t, err, KindNotFound, "No account found with this email")
}

func TestAuthService_VerifySecurity(t *testing.T) {
	user := testUser(t)
	repo := &fakeRepo{
		findUserByEmailFunc: func(_ context.Context, email string) (*dal.User, error) {
			if email == user.Email {
				return user, nil
			}
			return nil, dal.ErrNotFound
		},
	}
	svc := newAuthService(repo, nil)

	require.NoError(t, svc.VerifySecurity(context.Background(), "test@example.com", "Fluffy"))
	assertKind(t, svc.VerifySecurity(context.Background(), "test@example.com", "WrongAnswer"), KindAuth, "Incorrect answer")
	assertKind(t, svc.VerifySecurity(context.Background(), "test@example.com", "fluffy"), KindAuth, "Incorrect answer")
	assertKind(t, svc.VerifySecurity(context.Background(), "nobody@example.com", "Fluffy"), KindAuth, "Incorrect answer")
}

func TestAuthService_ResetPassword(t *testing.T) {
	user := testUser(t)
	var updatedHash string
	repo := &fakeRepo{
		findUserByEmailFunc: func(_ context.Context, email string) (*dal.User, error) {
			if email == user.Email {
				return user, nil
			}
			return nil, dal.ErrNotFound
		},
		updateUserPasswordFunc: func(_ context.Context, userID, hash string) error {
			assert.Equal(t, "user123", userID)
			updatedHash = hash
			return nil
		},
	}
	svc := newAuthService(repo, nil)

	require.NoError(t, svc.ResetPassword(context.Background(), "test@example.com", "newPassword123"))
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(updatedHash), []byte("newPassword123")))

	assertKind(t, svc.ResetPassword(context.Background(), "test@example.com", ""), KindValidation, "Password cannot be empty")
	assertKind(t, svc.ResetPassword(context.Background(), "nonexistent@example.com", "newPassword123"), KindNotFound, "User not found")
}

func TestAuthService_LoginWithIDToken(t *testing.T) {
	var created *dal.User
	repo := &fakeRepo{
		findUserByEmailFunc: func(context.Context, string) (*dal.User, error) {
			return nil, dal.ErrNotFound
		},
		insertUserFunc: func(_ context.Context, user *dal.User) error {
			user.ID = "google-user"
			created = user
			return nil
		},
		insertListFunc: func(_ context.Context, list *dal.VocabList) error {
			assert.True(t, list.IsHistory)
			return nil
		},
	}
	verifier := &fakeVerifier{
		verifyFunc: func(_ context.Context, raw string, audiences []string) (Identity, error) {
			assert.Equal(t, "token", raw)
			assert.Equal(t, []string{"android-client", "web-client"}, audiences)
			return Identity{Email: "g@example.com", EmailVerified: true}, nil
		},
	}

	userID, err := newAuthService(repo, verifier).LoginWithIDToken(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, "google-user", userID)
	require.NotNil(t, created)
	assert.Equal(t, "g@example.com", created.Email)
	assert.Empty(t, created.PasswordHash)
}

func TestAuthService_LoginWithIDToken_ExistingUser(t *testing.T) {
	repo := &fakeRepo{
		findUserByEmailFunc: func(context.Context, string) (*dal.User, error) {
			return &dal.User{ID: "existing", Email: "g@example.com"}, nil
		},
	}
	verifier := &fakeVerifier{
		verifyFunc: func(context.Context, string, []string) (Identity, error) {
			return Identity{Email: "g@example.com", EmailVerified: true}, nil
		},
	}

	userID, err := newAuthService(repo, verifier).LoginWithIDToken(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, "existing", userID)
}

func TestAuthService_FindOrCreateUser_ConcurrentCreate(t *testing.T) {
	lookups := 0
	repo := &fakeRepo{
		findUserByEmailFunc: func(context.Context, string) (*dal.User, error) {
			lookups++
			if lookups == 1 {
				return nil, dal.ErrNotFound
			}
			return &dal.User{ID: "created-elsewhere", Email: "g@example.com"}, nil
		},
		insertUserFunc: func(context.Context, *dal.User) error {
			return dal.ErrDuplicate
		},
	}

	userID, err := newAuthService(repo, nil).FindOrCreateUser(context.Background(), "g@example.com")
	require.NoError(t, err)
	assert.Equal(t, "created-elsewhere", userID)
	assert.Equal(t, 2, lookups)
}

func TestAuthService_LoginWithIDToken_Failures(t *testing.T) {
	svc := newAuthService(&fakeRepo{}, &fakeVerifier{
		verifyFunc: func(_ context.Context, raw string, _ []string) (Identity, error) {
			switch raw {
			case "unverified":
				return Identity{Email: "g@example.com"}, nil
			case "no-email":
				return Identity{EmailVerified: true}, nil
			default:
				return Identity{}, errors.New("invalid signature")
			}
		},
	})

	_, err := svc.LoginWithIDToken(context.Background(), "")
	assertKind(t, err, KindValidation, "idToken is required")

	_, err = svc.LoginWithIDToken(context.Background(), "forged")
	assertKind(t, err, KindAuth, "Invalid ID token")

	_, err = svc.LoginWithIDToken(context.Background(), "unverified")
	assertKind(t, err, KindAuth, "Unverified Google account")

	_, err = svc.LoginWithIDToken(context.Background(), "no-email")
	assertKind(t, err, KindAuth, "Unverified Google account")
}
