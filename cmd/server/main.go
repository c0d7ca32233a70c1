package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"auth_backend/internal/app/router"
	authadapters "auth_backend/internal/feature/auth/adapters"
	authhandler "auth_backend/internal/feature/auth/transport/handler"
	authusecase "auth_backend/internal/feature/auth/usecase"
	"auth_backend/internal/platform/cache"
	platformdb "auth_backend/internal/platform/db"
	jwtmw "auth_backend/internal/platform/jwt"
	platformredis "auth_backend/internal/platform/redis"
)

// tokenExpiration はトークンの有効期限です。クッキーのmax-ageと一致させます。
const tokenExpiration = 24 * time.Hour

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	// db
	db := platformdb.OpenDB()

	// Redis（未接続でもキャッシュなしで稼働継続）
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// トークンサービス
	// JWT_SECRET未設定は構成エラーのため起動を中止する
	generator, err := jwtmw.NewGenerator(os.Getenv("JWT_SECRET"), tokenExpiration)
	if err != nil {
		log.Fatalf("[FATAL] %v. Set JWT_SECRET before starting the server.", err)
	}

	// Repository
	userRepo := authadapters.NewUserMySQL(db)

	// Redisキャッシュでラップ（ミドルウェアのFindByIDがホットパス）
	cachedUserRepo := cache.NewCachingUserRepository(rdb, 5*time.Minute, userRepo, "users")

	// Usecase
	authUC := authusecase.NewAuthUsecase(cachedUserRepo, generator)

	// Handler
	// クッキーのSecure属性は本番モードのみ有効
	isProd := os.Getenv("IS_PROD") == "production"
	authH := authhandler.NewAuthHandler(authUC, isProd)

	// ルータ生成
	router := router.NewRouter(authH, generator, cachedUserRepo)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := router.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
