package models

import (
	"time"
)

// RecordBlob document lưu blob tập custom record trong MongoDB
type RecordBlob struct {
	Key        string    `bson:"_id" json:"key"`                 // Key lưu trữ
	Data       []byte    `bson:"data" json:"-"`                  // Mảng JSON các record
	Size       int       `bson:"size" json:"size"`               // Số byte
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`   // Lần ghi cuối
	WriteCount int       `bson:"write_count" json:"write_count"` // Số lần ghi
}

// NewRecordBlob tạo mới một RecordBlob
func NewRecordBlob(key string, data []byte) *RecordBlob {
	return &RecordBlob{
		Key:       key,
		Data:      data,
		Size:      len(data),
		UpdatedAt: time.Now(),
	}
}
