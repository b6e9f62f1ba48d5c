package services

import (
	"context"
)

// StoreStats thống kê truy cập store
type StoreStats struct {
	Backend string `json:"backend"`
	Reads   int64  `json:"reads"`
	Writes  int64  `json:"writes"`
	Misses  int64  `json:"misses"`
}

// IRecordStore interface lưu blob tập custom record theo key
type IRecordStore interface {
	// Get lấy blob, found=false nếu key chưa tồn tại
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set ghi đè blob
	Set(ctx context.Context, key string, data []byte) error

	// Delete xóa key
	Delete(ctx context.Context, key string) error

	// Stats thống kê truy cập
	Stats() StoreStats

	// Close đóng kết nối (nếu cần)
	Close() error
}
