package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/mailbox-locator/app/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoStore store persistent sử dụng MongoDB, mỗi key là một document
type MongoStore struct {
	db         *mongo.Database
	collection *mongo.Collection
	logger     *zap.Logger

	reads  atomic.Int64
	writes atomic.Int64
	misses atomic.Int64
}

// NewMongoStore tạo mới MongoStore
func NewMongoStore(db *mongo.Database, logger *zap.Logger) *MongoStore {
	collection := db.Collection("custom_records")

	indexModels := []mongo.IndexModel{
		{
			Keys: bson.D{bson.E{Key: "updated_at", Value: 1}},
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexModels); err != nil {
		logger.Warn("Không thể tạo indexes cho custom_records", zap.Error(err))
	}

	return &MongoStore{
		db:         db,
		collection: collection,
		logger:     logger,
	}
}

// Get lấy blob theo key
func (ms *MongoStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ms.reads.Add(1)

	var blob models.RecordBlob
	err := ms.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&blob)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			ms.misses.Add(1)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("lỗi query MongoDB: %w", err)
	}

	ms.logger.Debug("MongoDB store hit",
		zap.String("key", key),
		zap.Int("bytes", blob.Size),
		zap.Int("write_count", blob.WriteCount))

	return blob.Data, true, nil
}

// Set upsert blob theo key
func (ms *MongoStore) Set(ctx context.Context, key string, data []byte) error {
	ms.writes.Add(1)

	blob := models.NewRecordBlob(key, data)
	update := bson.M{
		"$set": bson.M{
			"data":       blob.Data,
			"size":       blob.Size,
			"updated_at": blob.UpdatedAt,
		},
		"$inc": bson.M{"write_count": 1},
	}

	_, err := ms.collection.UpdateOne(ctx, bson.M{"_id": key}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("lỗi lưu vào MongoDB: %w", err)
	}
	return nil
}

// Delete xóa document theo key
func (ms *MongoStore) Delete(ctx context.Context, key string) error {
	if _, err := ms.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("lỗi xóa khỏi MongoDB: %w", err)
	}
	return nil
}

// Stats thống kê truy cập
func (ms *MongoStore) Stats() StoreStats {
	return StoreStats{
		Backend: "mongo",
		Reads:   ms.reads.Load(),
		Writes:  ms.writes.Load(),
		Misses:  ms.misses.Load(),
	}
}

// Close ngắt kết nối client MongoDB
func (ms *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return ms.db.Client().Disconnect(ctx)
}
