package auth

import (
	"context"
	"time"

	"app/internal/audit"
	"app/internal/domain/model"
	"app/internal/repository"

	"go.uber.org/zap"
)

// 監査イベントを記録する約束。失敗してもエラーを返さない。
type AuditRecorder interface {
	Record(ctx context.Context, e audit.Event)
}

// リクエスト元の情報。監査ログに残す。
type RequestMeta struct {
	IP        string
	UserAgent string
}

// API返却用のユーザー表現。password_hashは絶対に出さない。
type UserDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// access+refreshのペア。expires_inは秒で、アクセストークンのTTL。
// refresh tokenの寿命とは独立した値なので注意。
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// register/loginの返却形。
type AuthResult struct {
	User  UserDTO   `json:"user"`
	Token TokenPair `json:"token"`
}

// AuthServiceが登録・ログイン・リフレッシュ・ログアウト・リセットを束ねる。
type AuthService struct {
	users      repository.UserRepository
	rtRepo     repository.RefreshTokenRepository
	resetRepo  repository.PasswordResetTokenRepository
	hasher     PasswordHasher
	verifier   PasswordVerifier
	issuer     AccessTokenIssuer
	lockout    *LockoutPolicy
	idGen      IDGenerator
	clock      Clock
	recorder   AuditRecorder
	dispatcher ResetTokenDispatcher
	logger     *zap.Logger

	refreshTTL time.Duration
	resetTTL   time.Duration
}

// DI
func NewAuthService(
	users repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	resetRepo repository.PasswordResetTokenRepository,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	lockout *LockoutPolicy,
	idGen IDGenerator,
	clock Clock,
	recorder AuditRecorder,
	dispatcher ResetTokenDispatcher,
	logger *zap.Logger,
	refreshTTL time.Duration,
	resetTTL time.Duration,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      users,
		rtRepo:     rtRepo,
		resetRepo:  resetRepo,
		hasher:     hasher,
		verifier:   verifier,
		issuer:     issuer,
		lockout:    lockout,
		idGen:      idGen,
		clock:      clock,
		recorder:   recorder,
		dispatcher: dispatcher,
		logger:     logger,
		refreshTTL: refreshTTL,
		resetTTL:   resetTTL,
	}
}

// access+refreshのペアを発行する。
// refreshは毎回独立に1行作る（1ユーザー複数セッションを許す）。
func (s *AuthService) issueTokenPair(ctx context.Context, user *model.User, now time.Time) (TokenPair, error) {
	var pair TokenPair

	accessToken, accessExp, err := s.issuer.Issue(user.ID, user.Email, user.Role, now)
	if err != nil {
		return pair, err
	}

	//refresh token発行（DBにはhash保存）
	refreshPlain, refreshHash, err := newRandomTokenAndHash()
	if err != nil {
		return pair, err
	}

	rt := &model.RefreshToken{
		ID:        s.idGen.NewID(),
		UserID:    user.ID,
		TokenHash: refreshHash,
		ExpiresAt: now.Add(s.refreshTTL),
		RevokedAt: nil,
		CreatedAt: now,
	}

	if err := s.rtRepo.Create(ctx, rt); err != nil {
		return pair, err
	}

	pair.AccessToken = accessToken
	pair.RefreshToken = refreshPlain
	pair.ExpiresIn = int(accessExp.Sub(now).Seconds())
	return pair, nil
}

// model.UserをAPI返却用DTOに変換。
func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// 監査イベントの共通組み立て。
func (s *AuthService) audit(ctx context.Context, action model.AuditAction, userID *string, meta RequestMeta, metadata map[string]string) {
	if s.recorder == nil {
		return
	}
	s.recorder.Record(ctx, audit.Event{
		UserID:     userID,
		Action:     action,
		IP:         meta.IP,
		UserAgent:  meta.UserAgent,
		Metadata:   metadata,
		OccurredAt: s.clock.Now(),
	})
}
