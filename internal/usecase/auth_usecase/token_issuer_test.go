package auth

import (
	"testing"
	"time"

	"app/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func TestJWTIssuer_RoundTrip(t *testing.T) {
	issuer := NewJWTIssuer(testSecret, 15*time.Minute)

	token, expiresAt, err := issuer.Issue("u1", "alice@example.com", model.RoleUser, testNow)
	assert.NoError(t, err)
	assert.Equal(t, testNow.Add(15*time.Minute), expiresAt)

	claims, err := issuer.Verify(token, testNow.Add(time.Minute))
	assert.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, model.RoleUser, claims.Role)
}

func TestJWTIssuer_Expired(t *testing.T) {
	issuer := NewJWTIssuer(testSecret, 15*time.Minute)

	token, _, err := issuer.Issue("u1", "alice@example.com", model.RoleUser, testNow)
	assert.NoError(t, err)

	//期限ちょうどを越えた瞬間からexpired
	_, err = issuer.Verify(token, testNow.Add(16*time.Minute))
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWTIssuer_WrongSecret(t *testing.T) {
	issuer := NewJWTIssuer(testSecret, 15*time.Minute)
	other := NewJWTIssuer("another-secret-another-secret-32", 15*time.Minute)

	token, _, err := other.Issue("u1", "alice@example.com", model.RoleUser, testNow)
	assert.NoError(t, err)

	_, err = issuer.Verify(token, testNow)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestJWTIssuer_Garbage(t *testing.T) {
	issuer := NewJWTIssuer(testSecret, 15*time.Minute)

	for _, raw := range []string{"", "not-a-jwt", "aaa.bbb.ccc"} {
		_, err := issuer.Verify(raw, testNow)
		assert.ErrorIs(t, err, ErrTokenMalformed, "raw=%q", raw)
	}
}

// 署名無し（alg=none）のトークンを受け付けないこと。
func TestJWTIssuer_RejectsUnsignedToken(t *testing.T) {
	issuer := NewJWTIssuer(testSecret, 15*time.Minute)

	// header {"alg":"none","typ":"JWT"} + 適当なpayload
	unsigned := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJzdWIiOiJ1MSJ9."

	_, err := issuer.Verify(unsigned, testNow)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestNewRandomTokenAndHash(t *testing.T) {
	plain1, hash1, err := newRandomTokenAndHash()
	assert.NoError(t, err)
	plain2, hash2, err := newRandomTokenAndHash()
	assert.NoError(t, err)

	//毎回違う値で、hashは平文から再計算できる
	assert.NotEqual(t, plain1, plain2)
	assert.NotEqual(t, hash1, hash2)
	assert.Equal(t, hashToken(plain1), hash1)
	assert.NotEqual(t, plain1, hash1)
}
