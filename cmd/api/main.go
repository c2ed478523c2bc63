package main

import (
	"context"
	"time"

	"app/internal/audit"
	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/queue"
	"app/internal/server"
	auth "app/internal/usecase/auth_usecase"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

// メール配送の代わりにログへ落とすdispatcher。
// 本物のメール基盤が付くまでのプレースホルダ。
type logDispatcher struct {
	logger *zap.Logger
}

func (d *logDispatcher) Dispatch(email string, token string) error {
	//平文トークンはログに残さない
	d.logger.Info("password reset token issued", zap.String("email", email))
	return nil
}

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg.GoEnv)
	defer func() { _ = logger.Sync() }()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.PasswordResetToken{},
		&model.AuditLog{},
	); err != nil {
		logger.Fatal("db migrate failed", zap.Error(err))
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenRepository(gormDB)
	resetRepo := infraRepo.NewPasswordResetTokenRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//bcrypt（会員登録・リセット：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	verifier := auth.NewBcryptPasswordVerifier()

	//JWT issuer（secret長はconfig.Loadで検証済み）
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)

	//ロックアウト
	lockout := auth.NewLockoutPolicy(cfg.MaxLoginAttempts, cfg.LockoutDuration)

	//監査イベントのキュー発行（RabbitMQが設定されていれば）
	var publisher audit.Publisher
	if cfg.RabbitMQURL != "" {
		publisher = queue.NewAuditPublisher(cfg.RabbitMQURL)
	}
	recorder := audit.NewRecorder(auditRepo, publisher, idGen, logger)

	//レートリミット用Redis（設定されていれば）
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}

	//Service生成
	svc := auth.NewAuthService(
		userRepo, rtRepo, resetRepo,
		hasher, verifier, issuer, lockout,
		idGen, clock, recorder,
		&logDispatcher{logger: logger},
		logger,
		cfg.RefreshTokenTTL, cfg.ResetTokenTTL,
	)

	//Handler生成
	authH := handler.NewAuthHandler(svc)

	//期限切れトークンの定期削除（リクエスト経路の外）
	go purgeLoop(context.Background(), svc, cfg.PurgeInterval, logger)

	//Server起動
	e := server.New(cfg, authH, issuer, rdb, logger)

	addr := ":" + cfg.Port
	logger.Info("auth service listening", zap.String("addr", addr))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// dev/prodでzapの設定を切り替える
func newLogger(env string) *zap.Logger {
	if env == "prod" {
		logger, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		return logger
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return logger
}

// purgeLoopは一定間隔で期限切れトークンを掃除する。
func purgeLoop(ctx context.Context, svc *auth.AuthService, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refreshDeleted, resetDeleted, err := svc.PurgeExpiredTokens(ctx)
			if err != nil {
				logger.Warn("token purge failed", zap.Error(err))
				continue
			}
			if refreshDeleted > 0 || resetDeleted > 0 {
				logger.Info("expired tokens purged",
					zap.Int64("refresh_tokens", refreshDeleted),
					zap.Int64("reset_tokens", resetDeleted),
				)
			}
		}
	}
}
