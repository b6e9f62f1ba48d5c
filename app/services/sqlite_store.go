package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	_ "github.com/glebarez/sqlite"
	"go.uber.org/zap"
)

// SQLiteStore store persistent trên file SQLite (driver pure Go)
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger

	reads  atomic.Int64
	writes atomic.Int64
	misses atomic.Int64
}

// NewSQLiteStore mở (hoặc tạo) database và bảng blob
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("lỗi mở SQLite %s: %w", dbPath, err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS record_blobs (
			key TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("lỗi tạo bảng record_blobs: %w", err)
	}

	logger.Info("Đã mở SQLite store", zap.String("path", dbPath))

	return &SQLiteStore{
		db:     db,
		logger: logger,
	}, nil
}

// Get lấy blob theo key
func (ss *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ss.reads.Add(1)

	var data []byte
	err := ss.db.QueryRowContext(ctx, "SELECT data FROM record_blobs WHERE key = ?", key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		ss.misses.Add(1)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lỗi query SQLite: %w", err)
	}
	return data, true, nil
}

// Set ghi đè blob theo key
func (ss *SQLiteStore) Set(ctx context.Context, key string, data []byte) error {
	ss.writes.Add(1)

	_, err := ss.db.ExecContext(ctx, `
		INSERT INTO record_blobs (key, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, key, data, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("lỗi ghi SQLite: %w", err)
	}
	return nil
}

// Delete xóa blob theo key
func (ss *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := ss.db.ExecContext(ctx, "DELETE FROM record_blobs WHERE key = ?", key); err != nil {
		return fmt.Errorf("lỗi xóa SQLite: %w", err)
	}
	return nil
}

// Stats thống kê truy cập
func (ss *SQLiteStore) Stats() StoreStats {
	return StoreStats{
		Backend: "sqlite",
		Reads:   ss.reads.Load(),
		Writes:  ss.writes.Load(),
		Misses:  ss.misses.Load(),
	}
}

// Close đóng database
func (ss *SQLiteStore) Close() error {
	return ss.db.Close()
}
