package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"auth_backend/internal/feature/auth/domain/entity"
)

// mockUserRepository is a mock implementation of the UserRepository interface.
// It simulates database operations during testing.
type mockUserRepository struct {
	CreateFunc      func(ctx context.Context, user *entity.User) error
	FindByEmailFunc func(ctx context.Context, email string) (*entity.User, error)
	FindByIDFunc    func(ctx context.Context, id uint) (*entity.User, error)
}

// Create is the mock implementation of the Create method.
func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	user.ID = 1 // Default: simulate the database assigning an ID
	return nil
}

// FindByEmail is the mock implementation of the FindByEmail method.
func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, ErrUserNotFound
}

// FindByID is the mock implementation of the FindByID method.
func (m *mockUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrUserNotFound
}

// mockTokenIssuer is a mock implementation of the TokenIssuer interface.
type mockTokenIssuer struct {
	GenerateTokenFunc func(userID uint, name, email string) (string, error)
}

// GenerateToken is the mock implementation of the GenerateToken method.
func (m *mockTokenIssuer) GenerateToken(userID uint, name, email string) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(userID, name, email)
	}
	return "mock-jwt-token", nil
}

func TestAuthUsecase_Signup(t *testing.T) {
	t.Run("successful signup hashes the password", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				// Verify that the stored password is never the plaintext
				if user.Password == "" || user.Password == "secret1" {
					t.Errorf("password is not hashed")
				}
				// Verify that it's a valid bcrypt hash of the original
				if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret1")); err != nil {
					t.Errorf("invalid bcrypt hash: %v", err)
				}
				user.ID = 10
				return nil
			},
		}
		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{})

		user, token, err := uc.Signup(context.Background(), "Ada Lovelace", "ADA@x.com", "secret1")

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.Email != "ada@x.com" {
			t.Errorf("expected lowercased email %q, got %q", "ada@x.com", user.Email)
		}
		if user.FullName != "Ada Lovelace" {
			t.Errorf("expected full name %q, got %q", "Ada Lovelace", user.FullName)
		}
		if token != "mock-jwt-token" {
			t.Errorf("expected issued token, got %q", token)
		}
	})

	t.Run("trims whitespace before validating", func(t *testing.T) {
		mockRepo := &mockUserRepository{}
		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{})

		user, _, err := uc.Signup(context.Background(), "  Ada Lovelace  ", "  ADA@x.com ", "secret1")

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.FullName != "Ada Lovelace" {
			t.Errorf("expected trimmed full name, got %q", user.FullName)
		}
		if user.Email != "ada@x.com" {
			t.Errorf("expected normalized email, got %q", user.Email)
		}
	})

	t.Run("long passwords are hashed from their first 72 bytes", func(t *testing.T) {
		// bcryptは先頭72バイトのみを処理するため、73〜100文字のパスワードも
		// エラーにならず登録できる
		longPassword := strings.Repeat("a", 100)

		var stored *entity.User
		mockRepo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				stored = user
				user.ID = 1
				return nil
			},
		}
		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{})

		_, _, err := uc.Signup(context.Background(), "Ada Lovelace", "ada@x.com", longPassword)

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stored == nil {
			t.Fatal("user was not persisted")
		}
		if !VerifyPassword(stored, longPassword) {
			t.Error("expected original long password to verify")
		}
		// 先頭72バイトが一致すれば検証は通る（それ以降はハッシュに寄与しない）
		if !VerifyPassword(stored, strings.Repeat("a", 72)) {
			t.Error("expected the first 72 bytes to determine the hash")
		}
		if VerifyPassword(stored, strings.Repeat("a", 71)) {
			t.Error("expected a shorter password to fail")
		}
	})

	t.Run("multibyte name within limits is accepted", func(t *testing.T) {
		// 40文字（120バイト）: 文字数で数えるため上限100文字に収まる
		name := strings.Repeat("山", 40)

		uc := NewAuthUsecase(&mockUserRepository{}, &mockTokenIssuer{})

		user, _, err := uc.Signup(context.Background(), name, "ada@x.com", "secret1")

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.FullName != name {
			t.Errorf("expected full name %q, got %q", name, user.FullName)
		}
	})

	t.Run("token is issued only after the user is persisted", func(t *testing.T) {
		created := false
		mockRepo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				created = true
				user.ID = 5
				return nil
			},
		}
		issuer := &mockTokenIssuer{
			GenerateTokenFunc: func(userID uint, name, email string) (string, error) {
				if !created {
					t.Error("token issued before the user was persisted")
				}
				if userID != 5 {
					t.Errorf("expected persisted user id 5, got %d", userID)
				}
				return "tok", nil
			},
		}
		uc := NewAuthUsecase(mockRepo, issuer)

		if _, _, err := uc.Signup(context.Background(), "Ada Lovelace", "ada@x.com", "secret1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("validation failures", func(t *testing.T) {
		tests := []struct {
			name            string
			fullName        string
			email           string
			password        string
			expectedMessage string
		}{
			{"empty full name", "", "ada@x.com", "secret1", "Full name is required"},
			{"whitespace-only full name", "   ", "ada@x.com", "secret1", "Full name is required"},
			{"short full name", "Al", "ada@x.com", "secret1", "Full name must be at least 3 characters"},
			{"short multibyte full name", "Ål", "ada@x.com", "secret1", "Full name must be at least 3 characters"},
			{"long full name", strings.Repeat("a", 101), "ada@x.com", "secret1", "Full name must be at most 100 characters"},
			{"long multibyte full name", strings.Repeat("山", 101), "ada@x.com", "secret1", "Full name must be at most 100 characters"},
			{"empty email", "Ada Lovelace", "", "secret1", "Email is required"},
			{"invalid email", "Ada Lovelace", "not-an-email", "secret1", "Please enter a valid email address"},
			{"missing tld", "Ada Lovelace", "ada@x", "secret1", "Please enter a valid email address"},
			{"empty password", "Ada Lovelace", "ada@x.com", "", "Password is required"},
			{"short password", "Ada Lovelace", "ada@x.com", "12345", "Password must be at least 6 characters"},
			{"short multibyte password", "Ada Lovelace", "ada@x.com", "パスワド", "Password must be at least 6 characters"},
			{"long password", "Ada Lovelace", "ada@x.com", strings.Repeat("a", 101), "Password must be at most 100 characters"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				mockRepo := &mockUserRepository{
					CreateFunc: func(ctx context.Context, user *entity.User) error {
						t.Error("Create must not be called for invalid input")
						return nil
					},
				}
				uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{})

				_, _, err := uc.Signup(context.Background(), tt.fullName, tt.email, tt.password)

				var validationErr *ValidationError
				if !errors.As(err, &validationErr) {
					t.Fatalf("expected *ValidationError, got %v", err)
				}
				if validationErr.Message != tt.expectedMessage {
					t.Errorf("expected message %q, got %q", tt.expectedMessage, validationErr.Message)
				}
			})
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				return ErrEmailAlreadyExists
			},
		}
		issuer := &mockTokenIssuer{
			GenerateTokenFunc: func(userID uint, name, email string) (string, error) {
				t.Error("no token must be issued when Create fails")
				return "", nil
			},
		}
		uc := NewAuthUsecase(mockRepo, issuer)

		_, _, err := uc.Signup(context.Background(), "Ada Lovelace", "ada@x.com", "secret1")

		if !errors.Is(err, ErrEmailAlreadyExists) {
			t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
		}
	})

	t.Run("token generation failure", func(t *testing.T) {
		issuer := &mockTokenIssuer{
			GenerateTokenFunc: func(userID uint, name, email string) (string, error) {
				return "", errors.New("signing failed")
			},
		}
		uc := NewAuthUsecase(&mockUserRepository{}, issuer)

		_, _, err := uc.Signup(context.Background(), "Ada Lovelace", "ada@x.com", "secret1")

		if err == nil {
			t.Fatal("expected error from token generation")
		}
	})
}

func TestAuthUsecase_Login(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}
	stored := &entity.User{ID: 3, FullName: "Ada Lovelace", Email: "ada@x.com", Password: string(hashed)}

	t.Run("successful login", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				if email != "ada@x.com" {
					t.Errorf("expected normalized email lookup, got %q", email)
				}
				return stored, nil
			},
		}
		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{})

		user, token, err := uc.Login(context.Background(), "ADA@x.com", "secret1")

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.ID != 3 {
			t.Errorf("expected user id 3, got %d", user.ID)
		}
		if token != "mock-jwt-token" {
			t.Errorf("expected issued token, got %q", token)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				return nil, ErrUserNotFound
			},
		}
		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{})

		_, _, err := uc.Login(context.Background(), "nobody@x.com", "secret1")

		// Unknown email and wrong password are distinct outcomes
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				return stored, nil
			},
		}
		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{})

		_, _, err := uc.Login(context.Background(), "ada@x.com", "wrong-password")

		if !errors.Is(err, ErrInvalidPassword) {
			t.Errorf("expected ErrInvalidPassword, got %v", err)
		}
	})

	t.Run("token generation failure", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				return stored, nil
			},
		}
		issuer := &mockTokenIssuer{
			GenerateTokenFunc: func(userID uint, name, email string) (string, error) {
				return "", errors.New("signing failed")
			},
		}
		uc := NewAuthUsecase(mockRepo, issuer)

		_, _, err := uc.Login(context.Background(), "ada@x.com", "secret1")

		if err == nil {
			t.Fatal("expected error from token generation")
		}
	})
}

func TestVerifyPassword(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}
	user := &entity.User{Password: string(hashed)}

	if !VerifyPassword(user, "secret1") {
		t.Error("expected original plaintext to verify")
	}
	if VerifyPassword(user, "secret2") {
		t.Error("expected wrong password to fail")
	}
	if VerifyPassword(user, "") {
		t.Error("expected empty password to fail")
	}
}
