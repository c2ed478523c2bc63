// Package audit は認証まわりのセキュリティイベントを記録する。
// DBへの追記が一次、キューへの発行はベストエフォート。
// どちらが失敗してもリクエスト本体は失敗させない。
package audit

import (
	"context"
	"encoding/json"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"

	"go.uber.org/zap"
)

// Eventは1件のセキュリティイベント。
type Event struct {
	UserID    *string
	Action    model.AuditAction
	IP        string
	UserAgent string
	Metadata  map[string]string
	OccurredAt time.Time
}

// Publisherはイベントを外部（メッセージキューなど）へ流す約束。
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// IDGeneratorは監査行のIDを作る。
type IDGenerator interface {
	NewID() string
}

// RecorderはEventをAuditLog行にして保存する。
type Recorder struct {
	repo   repository.AuditLogRepository
	pub    Publisher // nilなら発行しない
	idGen  IDGenerator
	logger *zap.Logger
}

func NewRecorder(repo repository.AuditLogRepository, pub Publisher, idGen IDGenerator, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{repo: repo, pub: pub, idGen: idGen, logger: logger}
}

// Recordはイベントを記録する。失敗はログに残して握りつぶす。
func (r *Recorder) Record(ctx context.Context, e Event) {
	metadataJSON := ""
	if len(e.Metadata) > 0 {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			r.logger.Warn("audit: marshal metadata failed", zap.Error(err))
		} else {
			metadataJSON = string(b)
		}
	}

	row := model.AuditLog{
		ID:           r.idGen.NewID(),
		UserID:       e.UserID,
		Action:       e.Action,
		IP:           e.IP,
		UserAgent:    e.UserAgent,
		MetadataJSON: metadataJSON,
		CreatedAt:    e.OccurredAt,
	}

	if err := r.repo.Create(ctx, row); err != nil {
		r.logger.Error("audit: persist failed",
			zap.String("action", string(e.Action)),
			zap.Error(err),
		)
	}

	if r.pub != nil {
		if err := r.pub.Publish(ctx, e); err != nil {
			r.logger.Warn("audit: publish failed",
				zap.String("action", string(e.Action)),
				zap.Error(err),
			)
		}
	}
}
