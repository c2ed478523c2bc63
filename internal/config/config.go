package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// JWT_SECRETの最低バイト数。短いと起動失敗にする。
const minJWTSecretLen = 32

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL      string // DATABASE_URL（あれば最優先）
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string // sslmode（disable）

	JWTSecret string // JWT署名シークレット（32バイト以上）

	// アクセス7日・リフレッシュ30日は意図的な非対称。
	// アクセストークンは失効手段が無いので、logout後も自分の期限までは有効。
	AccessTokenTTL  time.Duration // アクセストークン有効期限（デフォルト168h）
	RefreshTokenTTL time.Duration // リフレッシュトークン有効期限（デフォルト720h）
	ResetTokenTTL   time.Duration // パスワードリセットトークン有効期限（デフォルト1h）

	BcryptCost int // bcryptコスト（デフォルト12）

	MaxLoginAttempts int           // ログイン失敗の上限（デフォルト5）
	LockoutDuration  time.Duration // ロック時間（デフォルト15m）

	PurgeInterval time.Duration // 期限切れトークン削除の間隔（デフォルト1h）

	RedisAddr     string // レートリミット用Redis（空なら無効）
	RedisPassword string
	RedisDB       int

	RateLimit RateLimitConfig // 認証エンドポイントのレートリミット

	RabbitMQURL string // 監査イベント発行用（空なら無効）

	GoEnv string // dev/prod
}

// RateLimitConfigはトークンバケットの設定。
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int           // バケット容量
	RefillTokens   int           // 1回に補充するトークン数
	RefillInterval time.Duration // 補充間隔
	TTL            time.Duration // Redisキーの寿命
}

// Loadは環境変数から設定を作る
func Load() (Config, error) {
	cfg := Config{
		Port: getenv("PORT", "8080"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "app"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		RabbitMQURL: os.Getenv("RABBITMQ_URL"),

		GoEnv: getenv("GO_ENV", "dev"),
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < minJWTSecretLen {
		return Config{}, fmt.Errorf("JWT_SECRET must be at least %d bytes", minJWTSecretLen)
	}

	var err error

	if cfg.PostgresPort, err = atoiEnv("POSTGRES_PORT", 5432); err != nil {
		return Config{}, err
	}
	if cfg.RedisDB, err = atoiEnv("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.BcryptCost, err = atoiEnv("BCRYPT_COST", 12); err != nil {
		return Config{}, err
	}
	if cfg.MaxLoginAttempts, err = atoiEnv("MAX_LOGIN_ATTEMPTS", 5); err != nil {
		return Config{}, err
	}
	if cfg.MaxLoginAttempts <= 0 {
		return Config{}, fmt.Errorf("MAX_LOGIN_ATTEMPTS must be positive")
	}

	if cfg.AccessTokenTTL, err = durationEnv("ACCESS_TOKEN_TTL", 168*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.RefreshTokenTTL, err = durationEnv("REFRESH_TOKEN_TTL", 720*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.ResetTokenTTL, err = durationEnv("RESET_TOKEN_TTL", time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.LockoutDuration, err = durationEnv("LOCKOUT_DURATION", 15*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.PurgeInterval, err = durationEnv("PURGE_INTERVAL", time.Hour); err != nil {
		return Config{}, err
	}

	//レートリミット（Redisが無ければ無効のまま）
	rl := RateLimitConfig{Enabled: cfg.RedisAddr != ""}
	if rl.Capacity, err = atoiEnv("RATE_LIMIT_CAPACITY", 20); err != nil {
		return Config{}, err
	}
	if rl.RefillTokens, err = atoiEnv("RATE_LIMIT_REFILL_TOKENS", 10); err != nil {
		return Config{}, err
	}
	if rl.RefillInterval, err = durationEnv("RATE_LIMIT_REFILL_INTERVAL", time.Minute); err != nil {
		return Config{}, err
	}
	if rl.TTL, err = durationEnv("RATE_LIMIT_TTL", 10*time.Minute); err != nil {
		return Config{}, err
	}
	cfg.RateLimit = rl

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration (e.g. 15m, 168h): %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
