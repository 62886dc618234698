package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mujtama/internal/pkg/mongodb"
)

// CollectionName 文档镜像集合
const CollectionName = "documents"

// mongoRecord 单条镜像记录：payload 为与文件驱动完全一致的 JSON
type mongoRecord struct {
	ID        string    `bson:"_id"`
	Payload   string    `bson:"payload"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore MongoDB 整文档持久化
type MongoStore struct {
	collection *mongo.Collection
	key        string
}

// NewMongoStore 创建 MongoDB 持久化，key 为文档键（同一个库可以存放多个站点）
func NewMongoStore(db *mongo.Database, key string) *MongoStore {
	return &MongoStore{
		collection: db.Collection(CollectionName),
		key:        key,
	}
}

// Load 读取镜像记录
func (s *MongoStore) Load(ctx context.Context, v any) (bool, error) {
	var rec mongoRecord
	err := s.collection.FindOne(ctx, bson.M{"_id": s.key}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load document %s: %w", s.key, err)
	}
	if err := json.Unmarshal([]byte(rec.Payload), v); err != nil {
		return false, fmt.Errorf("failed to decode document %s: %w", s.key, err)
	}
	return true, nil
}

// Save upsert 整个文档
func (s *MongoStore) Save(ctx context.Context, v any) error {
	data, err := Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	update := bson.M{
		"$set": bson.M{
			"payload":    string(data),
			"updated_at": time.Now(),
		},
	}
	_, err = s.collection.UpdateOne(ctx, bson.M{"_id": s.key}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save document %s: %w", s.key, err)
	}
	return nil
}

// Name 驱动名称
func (s *MongoStore) Name() string {
	return "mongo"
}

// Collection 集合名称
func (s *MongoStore) Collection() string {
	return CollectionName
}

// EnsureIndexes 按更新时间建索引，方便运维查看各站点最近写入
func (s *MongoStore) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	return mongodb.CreateIndexes(ctx, db.Collection(CollectionName), []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "updated_at", Value: -1}},
			Options: options.Index().SetName("idx_updated_at"),
		},
	})
}
