package model

import "time"

// 認証まわりのセキュリティイベント種別。
type AuditAction string

const (
	//会員登録が完了した。
	AuditActionRegister AuditAction = "REGISTER"

	//ログインに成功した。
	AuditActionLogin AuditAction = "LOGIN"

	//ログインに失敗した（パスワード不一致）。
	AuditActionLoginFailed AuditAction = "LOGIN_FAILED"

	//失敗上限に達してアカウントがロックされた。
	AuditActionAccountLocked AuditAction = "ACCOUNT_LOCKED"

	//リフレッシュトークンのローテーションが行われた。
	AuditActionTokenRefresh AuditAction = "TOKEN_REFRESH"

	//ログアウト（全リフレッシュトークン失効）。
	AuditActionLogout AuditAction = "LOGOUT"

	//パスワードリセットが要求された（存在するユーザーのみ記録）。
	AuditActionPasswordResetRequested AuditAction = "PASSWORD_RESET_REQUESTED"

	//パスワードリセットが完了した。
	AuditActionPasswordResetCompleted AuditAction = "PASSWORD_RESET_COMPLETED"
)

// 監査ログ（追記のみ。コアから読み返すことはない）。
// 「誰が」「何を」「どこから」を残す。
type AuditLog struct {
	//IDは監査ログの主キー
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	//対象ユーザーのID。失敗ログインなど不明な場合はNULL。
	UserID *string `gorm:"type:uuid;index" json:"user_id"`

	//Actionはイベントの種類（REGISTER / LOGIN など）。
	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	//接続元IP。
	IP string `gorm:"type:varchar(64)" json:"ip"`

	//User-Agentヘッダ。
	UserAgent string `json:"user_agent"`

	//JSON文字列で保存する。
	MetadataJSON string `gorm:"type:text" json:"metadata_json"`

	//作成時刻
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
