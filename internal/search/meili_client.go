// Package search chứa Matcher, Ranker, gợi ý tên đường và bản mirror Meilisearch
package search

import (
	"fmt"

	ms "github.com/meilisearch/meilisearch-go"
)

// ClientWrapper bọc Meilisearch client với các thao tác mirror cần dùng
type ClientWrapper struct {
	cli ms.ServiceManager
}

// NewClientWrapper tạo mới Meilisearch client wrapper
func NewClientWrapper(url, key string) *ClientWrapper {
	client := ms.New(url, ms.WithAPIKey(key))
	return &ClientWrapper{
		cli: client,
	}
}

// ReplaceDocuments xóa toàn bộ document cũ rồi nạp lại theo batch
func (c *ClientWrapper) ReplaceDocuments(index string, docs []map[string]interface{}, primaryKey string, batchSize int) (int, error) {
	idx := c.cli.Index(index)

	if _, err := idx.DeleteAllDocuments(); err != nil {
		return 0, fmt.Errorf("lỗi xóa documents cũ: %w", err)
	}

	if batchSize <= 0 {
		batchSize = 1000
	}

	batches := 0
	for i := 0; i < len(docs); i += batchSize {
		end := i + batchSize
		if end > len(docs) {
			end = len(docs)
		}
		if _, err := idx.AddDocuments(docs[i:end], primaryKey); err != nil {
			return batches, fmt.Errorf("lỗi thêm documents batch %d-%d: %w", i, end, err)
		}
		batches++
	}
	return batches, nil
}

// ConfigureIndex cấu hình thuộc tính tìm kiếm / lọc của index mirror
func (c *ClientWrapper) ConfigureIndex(index string) (int64, error) {
	task, err := c.cli.Index(index).UpdateSettings(&ms.Settings{
		SearchableAttributes: []string{"display", "addr_norm", "road", "box_no", "borrower", "note"},
		FilterableAttributes: []string{"source", "road", "box_no"},
		SortableAttributes:   []string{"box_no"},
	})
	if err != nil {
		return 0, fmt.Errorf("lỗi cấu hình index: %w", err)
	}
	return task.TaskUID, nil
}

// SearchIndex tìm kiếm đơn giản với limit và filter tùy chọn
func (c *ClientWrapper) SearchIndex(index string, q string, filter string, limit int64) (*ms.SearchResponse, error) {
	idx := c.cli.Index(index)

	req := &ms.SearchRequest{
		Limit: limit,
	}
	if filter != "" {
		req.Filter = filter
	}

	return idx.Search(q, req)
}

// FilterSource filter theo nguồn record
func FilterSource(source string) string {
	return fmt.Sprintf("source = %q", source)
}
