package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "auth_backend/internal/feature/auth/transport/handler"
	"auth_backend/internal/platform/http/handler"
	jwtmw "auth_backend/internal/platform/jwt"
)

// NewRouter はアプリケーションのルートテーブルを構築します。
func NewRouter(authHandler *authhandler.AuthHandler, verifier jwtmw.TokenVerifier, users jwtmw.UserResolver) *gin.Engine {
	r := gin.Default()

	// CORS追加
	r.Use(cors.Default())

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	// 新規ユーザー登録
	r.POST("/signup", authHandler.Signup)
	// ログイン（トークン発行）
	r.POST("/login", authHandler.Login)
	// ログアウト（クッキー削除のみ）
	r.POST("/logout", authHandler.Logout)

	// 認証必須のルート
	// r.Group("/") でルートグループを作成
	auth := r.Group("/")
	// jwtmw.AuthRequired() ミドルウェアを適用
	// → リクエストのクッキーに有効なトークンが必要になる
	auth.Use(jwtmw.AuthRequired(verifier, users))
	{
		auth.GET("/me", authHandler.Me)
	}

	return r
}
