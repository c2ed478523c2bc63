package auth

import (
	"errors"
	"time"

	"app/internal/domain/model"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// アクセストークンの期限切れ（401だがメッセージは分ける）
	ErrTokenExpired = errors.New("access token expired")
	// 署名不正・構造不正
	ErrTokenMalformed = errors.New("access token malformed")
)

// 検証済みアクセストークンから取り出すclaims。
type AccessClaims struct {
	UserID string
	Email  string
	Role   model.Role
}

// JWTを発行・検証する約束
type AccessTokenIssuer interface {
	Issue(userID string, email string, role model.Role, now time.Time) (token string, expiresAt time.Time, err error)
	Verify(token string, now time.Time) (*AccessClaims, error)
}

// HS256のJWT発行器。
type JWTIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

// DI。secretの長さはconfig.Loadで起動時に検証済み。
func NewJWTIssuer(secret string, accessTTL time.Duration) *JWTIssuer {
	return &JWTIssuer{
		secret:    []byte(secret),
		accessTTL: accessTTL,
	}
}

// アクセストークンを発行する。claimsはuserId/email/role＋iat/exp。
func (i *JWTIssuer) Issue(userID string, email string, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  string(role),
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// アクセストークンを検証してclaimsを返す。
// 期限切れはErrTokenExpired、それ以外の不正はErrTokenMalformedに寄せる。
func (i *JWTIssuer) Verify(raw string, now time.Time) (*AccessClaims, error) {
	token, err := jwt.Parse(raw,
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return i.secret, nil
		},
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}
	if token == nil || !token.Valid {
		return nil, ErrTokenMalformed
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenMalformed
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return nil, ErrTokenMalformed
	}

	return &AccessClaims{
		UserID: sub,
		Email:  email,
		Role:   model.Role(role),
	}, nil
}
