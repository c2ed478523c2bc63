package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// 不透明トークン生成（平文 + DB保存用hash）。
// DBに入るのはhashだけなので、DBが漏れても平文トークンは復元できない。
func newRandomTokenAndHash() (plain string, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}

	plain = base64.RawURLEncoding.EncodeToString(b)

	return plain, hashToken(plain), nil
}

// 平文トークンから照合用hashを作る
func hashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
