package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// HybridStore kết hợp store nhanh (primary) + store bền (secondary).
// Đọc primary trước, ghi cả hai song song.
type HybridStore struct {
	primary   IRecordStore
	secondary IRecordStore
	logger    *zap.Logger
}

// NewHybridStore tạo mới hybrid store
func NewHybridStore(primary, secondary IRecordStore, logger *zap.Logger) *HybridStore {
	return &HybridStore{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

// Get lấy blob (primary trước, secondary sau)
func (hs *HybridStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	// 1. Thử primary trước
	data, found, err := hs.primary.Get(ctx, key)
	if err != nil {
		hs.logger.Warn("Lỗi primary store, fallback secondary", zap.Error(err))
	} else if found {
		return data, true, nil
	}

	// 2. Fallback secondary
	data, found, err = hs.secondary.Get(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}

	// 3. Đồng bộ ngược lên primary
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := hs.primary.Set(bgCtx, key, data); err != nil {
			hs.logger.Warn("Lỗi sync secondary->primary", zap.Error(err), zap.String("key", key))
		}
	}()

	return data, true, nil
}

// Set ghi song song vào cả hai store
func (hs *HybridStore) Set(ctx context.Context, key string, data []byte) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := hs.primary.Set(gctx, key, data); err != nil {
			return fmt.Errorf("primary: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := hs.secondary.Set(gctx, key, data); err != nil {
			return fmt.Errorf("secondary: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		hs.logger.Warn("Lỗi lưu hybrid store", zap.Error(err), zap.String("key", key))
		return err
	}
	return nil
}

// Delete xóa key ở cả hai store
func (hs *HybridStore) Delete(ctx context.Context, key string) error {
	var g errgroup.Group

	g.Go(func() error { return hs.primary.Delete(ctx, key) })
	g.Go(func() error { return hs.secondary.Delete(ctx, key) })

	return g.Wait()
}

// Stats cộng dồn thống kê hai store
func (hs *HybridStore) Stats() StoreStats {
	p := hs.primary.Stats()
	s := hs.secondary.Stats()
	return StoreStats{
		Backend: "hybrid(" + p.Backend + "+" + s.Backend + ")",
		Reads:   p.Reads + s.Reads,
		Writes:  p.Writes + s.Writes,
		Misses:  p.Misses + s.Misses,
	}
}

// Close đóng cả hai store
func (hs *HybridStore) Close() error {
	var g errgroup.Group

	g.Go(hs.primary.Close)
	g.Go(hs.secondary.Close)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("close errors: %w", err)
	}
	return nil
}
