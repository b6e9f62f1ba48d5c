package search

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"

	"github.com/mailbox-locator/internal/index"
	"go.uber.org/zap"
)

// MirrorConfig cấu hình mirror Meilisearch
type MirrorConfig struct {
	Host      string
	APIKey    string
	IndexName string
	BatchSize int
}

// MeiliMirror đẩy pool record sang Meilisearch cho UI typeahead bên ngoài.
// Lỗi chỉ được log, không ảnh hưởng tra cứu nội bộ.
type MeiliMirror struct {
	client *ClientWrapper
	config MirrorConfig
	logger *zap.Logger

	mu         sync.Mutex
	configured bool
}

// NewMeiliMirror tạo mới MeiliMirror
func NewMeiliMirror(config MirrorConfig, logger *zap.Logger) *MeiliMirror {
	if config.IndexName == "" {
		config.IndexName = "mailbox_records"
	}
	return &MeiliMirror{
		client: NewClientWrapper(config.Host, config.APIKey),
		config: config,
		logger: logger,
	}
}

// Sync thay toàn bộ document của index bằng pool hiện tại
func (mm *MeiliMirror) Sync(ctx context.Context, records []*index.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mm.mu.Lock()
	defer mm.mu.Unlock()

	if !mm.configured {
		taskUID, err := mm.client.ConfigureIndex(mm.config.IndexName)
		if err != nil {
			return err
		}
		mm.configured = true
		mm.logger.Info("Đã cấu hình index Meilisearch", zap.String("index", mm.config.IndexName), zap.Int64("task_uid", taskUID))
	}

	docs := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		docs = append(docs, DocumentFromRecord(rec))
	}

	batches, err := mm.client.ReplaceDocuments(mm.config.IndexName, docs, "id", mm.config.BatchSize)
	if err != nil {
		mm.logger.Warn("Lỗi đồng bộ Meilisearch", zap.Error(err), zap.Int("batches_done", batches))
		return fmt.Errorf("lỗi đồng bộ Meilisearch: %w", err)
	}

	mm.logger.Info("Đã đồng bộ Meilisearch",
		zap.String("index", mm.config.IndexName),
		zap.Int("documents", len(docs)),
		zap.Int("batches", batches))
	return nil
}

// Typeahead tìm trên index mirror; source rỗng là không lọc
func (mm *MeiliMirror) Typeahead(query, source string, limit int64) ([]map[string]interface{}, error) {
	if limit <= 0 {
		limit = 10
	}

	filter := ""
	if source != "" {
		filter = FilterSource(source)
	}

	result, err := mm.client.SearchIndex(mm.config.IndexName, query, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("lỗi typeahead Meilisearch: %w", err)
	}

	hits := make([]map[string]interface{}, 0, len(result.Hits))
	for _, hit := range result.Hits {
		hitMap, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}
		hits = append(hits, hitMap)
	}
	return hits, nil
}

// DocumentFromRecord chuyển Record sang document Meilisearch
func DocumentFromRecord(rec *index.Record) map[string]interface{} {
	return map[string]interface{}{
		"id":        DocumentID(rec),
		"source":    string(rec.Source),
		"box_no":    rec.BoxNo,
		"display":   rec.Display,
		"addr_norm": rec.AddrNorm,
		"road":      rec.Road,
		"road_key":  rec.RoadKey,
		"no_main":   rec.NoMain,
		"floor":     rec.Floor,
		"note":      rec.Note,
		"borrower":  rec.Borrower,
	}
}

// DocumentID id hợp lệ cho Meilisearch sinh từ composite key
func DocumentID(rec *index.Record) string {
	hash := sha256.Sum256([]byte(rec.CompositeKey()))
	return fmt.Sprintf("%x", hash[:16])
}
