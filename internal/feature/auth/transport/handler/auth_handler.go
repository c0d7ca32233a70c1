// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"auth_backend/internal/feature/auth/domain/entity"
	"auth_backend/internal/feature/auth/transport/http/dto"
	"auth_backend/internal/feature/auth/usecase"
	jwtmw "auth_backend/internal/platform/jwt"
)

// tokenCookieMaxAge はトークンクッキーの有効期間（秒）です。トークン自体の有効期限と一致させます。
const tokenCookieMaxAge = 24 * 60 * 60

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Signup は新規ユーザーを登録し、ユーザーと署名済みトークンを返します。
	Signup(ctx context.Context, fullName, email, password string) (*entity.User, string, error)
	// Login はユーザーを認証し、ユーザーと署名済みトークンを返します。
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
// AuthUsecaseインターフェースに依存し、JSONリクエスト/レスポンスを処理します。
type AuthHandler struct {
	auth AuthUsecase

	// secureCookies は本番モードでのみtrueになり、クッキーのSecure属性を制御します。
	secureCookies bool
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からAuthUsecaseを注入します。
func NewAuthHandler(auth AuthUsecase, secureCookies bool) *AuthHandler {
	return &AuthHandler{auth: auth, secureCookies: secureCookies}
}

// setTokenCookie はトークンをhttpOnly・SameSite=Strictのクッキーとして設定します。
func (h *AuthHandler) setTokenCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(jwtmw.CookieName, token, tokenCookieMaxAge, "/", "", h.secureCookies, true)
}

// clearTokenCookie はトークンクッキーを削除します。
func (h *AuthHandler) clearTokenCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(jwtmw.CookieName, "", -1, "/", "", h.secureCookies, true)
}

// userPayload はレスポンス用の公開ユーザー情報を構築します。
func userPayload(u *entity.User) dto.UserPayload {
	return dto.UserPayload{ID: u.ID, FullName: u.FullName, Email: u.Email}
}

// Signup はユーザー登録APIエンドポイントを処理します。
// - リクエストJSONをSignupReqにバインド
// - バリデーションエラー時は400を返却
// - メールアドレス重複時は400を返却
// - 成功時はトークンクッキーを設定し201を返却
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup request binding failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body"})
		return
	}

	user, token, err := h.auth.Signup(c.Request.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		var validationErr *usecase.ValidationError
		switch {
		case errors.As(err, &validationErr):
			slog.Warn("signup validation failed", "field", validationErr.Field, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: validationErr.Message})
		case errors.Is(err, usecase.ErrEmailAlreadyExists):
			slog.Warn("signup with duplicate email", "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Email already registered."})
		default:
			slog.Error("signup failed", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Error registering user", Error: err.Error()})
		}
		return
	}

	slog.Info("user signup successful", "email", user.Email, "remote_addr", c.ClientIP())
	h.setTokenCookie(c, token)
	c.JSON(http.StatusCreated, dto.AuthResponse{
		Message: "User created successfully",
		User:    userPayload(user),
		Token:   token,
	})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// ユーザー未検出とパスワード不一致は別メッセージで返します。
// 成功時はsignupと同じ201を返します（200ではない点は既存APIとの互換動作）。
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login request binding failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body"})
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			slog.Warn("login with unknown email", "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "No user exist with this email."})
		case errors.Is(err, usecase.ErrInvalidPassword):
			slog.Warn("login with invalid password", "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid password."})
		default:
			slog.Error("login failed", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Error logging in", Error: err.Error()})
		}
		return
	}

	slog.Info("user login successful", "email", user.Email, "remote_addr", c.ClientIP())
	h.setTokenCookie(c, token)
	c.JSON(http.StatusCreated, dto.AuthResponse{
		Message: "Logged in successfully",
		User:    userPayload(user),
		Token:   token,
	})
}

// Logout はトークンクッキーを削除します。
// トークンはサーバー側に保存されないため、サーバー側の状態変更はありません。
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearTokenCookie(c)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}

// Me は認証済みユーザーのプロフィールを返します。
// AuthRequiredミドルウェアの後段で実行される前提ですが、
// ユーザーがコンテキストに存在しない場合も401でガードします。
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Not authorized"})
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{
		Success: true,
		Data: dto.ProfileData{
			ID:        user.ID,
			FullName:  user.FullName,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
			UpdatedAt: user.UpdatedAt,
		},
	})
}
