// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"auth_backend/internal/feature/auth/domain/entity"

	"golang.org/x/crypto/bcrypt"
)

const (
	// minFullNameLength / maxFullNameLength はフルネームの文字数制約を定義します。
	minFullNameLength = 3
	maxFullNameLength = 100

	// minPasswordLength / maxPasswordLength はパスワードの文字数制約を定義します。
	minPasswordLength = 6
	maxPasswordLength = 100

	// maxPasswordBytes はbcryptに渡すパスワードの最大バイト数です。
	// bcryptは先頭72バイトのみを処理します。
	maxPasswordBytes = 72
)

// emailPattern はメールアドレスの形式チェックに使用する正規表現です。
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// TokenIssuer は署名済みトークン生成のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type TokenIssuer interface {
	// GenerateToken は指定されたユーザーの署名済みトークンを生成します。
	GenerateToken(userID uint, name, email string) (string, error)
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users  UserRepository
	tokens TokenIssuer
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, tokens TokenIssuer) *authUsecase {
	return &authUsecase{
		users:  users,
		tokens: tokens,
	}
}

// NormalizeEmail はメールアドレスを正規化します（前後の空白を除去し小文字化）。
// ストレージのユニーク制約が大文字小文字を区別しないよう、保存前と検索前の両方で適用します。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateFullName はフルネームが文字数制約を満たしているかチェックします。
// 制約はバイト数ではなく文字数（rune数）で判定します。
func validateFullName(fullName string) error {
	switch n := utf8.RuneCountInString(fullName); {
	case fullName == "":
		return &ValidationError{Field: "fullName", Message: "Full name is required"}
	case n < minFullNameLength:
		return &ValidationError{Field: "fullName", Message: "Full name must be at least 3 characters"}
	case n > maxFullNameLength:
		return &ValidationError{Field: "fullName", Message: "Full name must be at most 100 characters"}
	}
	return nil
}

// validateEmail はメールアドレスの形式をチェックします。
func validateEmail(email string) error {
	switch {
	case email == "":
		return &ValidationError{Field: "email", Message: "Email is required"}
	case !emailPattern.MatchString(email):
		return &ValidationError{Field: "email", Message: "Please enter a valid email address"}
	}
	return nil
}

// validatePassword はパスワードが文字数制約を満たしているかチェックします。
// 制約はバイト数ではなく文字数（rune数）で判定します。
func validatePassword(password string) error {
	switch n := utf8.RuneCountInString(password); {
	case password == "":
		return &ValidationError{Field: "password", Message: "Password is required"}
	case n < minPasswordLength:
		return &ValidationError{Field: "password", Message: "Password must be at least 6 characters"}
	case n > maxPasswordLength:
		return &ValidationError{Field: "password", Message: "Password must be at most 100 characters"}
	}
	return nil
}

// bcryptInput はパスワードをbcryptが処理する先頭72バイトに切り詰めます。
// x/cryptoのbcryptは72バイト超の入力をエラーにするため、ハッシュ生成と
// 検証の両方に同じ切り詰めを適用します。73バイト以降はハッシュに寄与しません。
func bcryptInput(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// VerifyPassword は平文パスワードが保存済みハッシュと一致するかを検証します。
// bcryptの比較は一定時間で行われるため、タイミングでハッシュ構造が漏れることはありません。
func VerifyPassword(user *entity.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), bcryptInput(password)) == nil
}

// Signup はハッシュ化されたパスワードで新規ユーザーを登録し、トークンを発行します。
// 永続化の完了を待ってからトークンを発行します。入力値が制約に違反する場合は
// *ValidationError、メールアドレスが登録済みの場合はErrEmailAlreadyExistsを返します。
func (u *authUsecase) Signup(ctx context.Context, fullName, email, password string) (*entity.User, string, error) {
	fullName = strings.TrimSpace(fullName)
	email = NormalizeEmail(email)
	password = strings.TrimSpace(password)

	if err := validateFullName(fullName); err != nil {
		return nil, "", err
	}
	if err := validateEmail(email); err != nil {
		return nil, "", err
	}
	if err := validatePassword(password); err != nil {
		return nil, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword(bcryptInput(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{FullName: fullName, Email: email, Password: string(hashed)}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := u.tokens.GenerateToken(user.ID, user.FullName, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// Login はユーザーを認証し、成功時にユーザーと署名済みトークンを返します。
// ユーザー未検出（ErrUserNotFound）とパスワード不一致（ErrInvalidPassword）は
// 区別して返します。APIがそれぞれ別のメッセージを返す仕様のためです。
func (u *authUsecase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	user, err := u.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, "", err
	}

	if !VerifyPassword(user, password) {
		return nil, "", ErrInvalidPassword
	}

	token, err := u.tokens.GenerateToken(user.ID, user.FullName, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}
