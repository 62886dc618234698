package server

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"mujtama/internal/config"
	"mujtama/internal/pkg/docstore"
	"mujtama/internal/pkg/mongodb"
	"mujtama/internal/repository/community"
)

const defaultDocumentKey = "default"

// OpenDatabase 按 store.driver 打开文档存储并加载数据库
// mongo 驱动时同时返回 MongoDB 客户端，由调用方负责关闭
func OpenDatabase(ctx context.Context, cfg *config.Config) (*community.Database, *mongodb.Client, error) {
	var (
		persister docstore.Persister
		client    *mongodb.Client
	)

	switch cfg.Store.Driver {
	case "mongo":
		c, err := mongodb.New(ctx, &cfg.Mongo)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		client = c
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

		key := cfg.Store.Document
		if key == "" {
			key = defaultDocumentKey
		}
		store := docstore.NewMongoStore(client.Database(), key)

		// 创建索引
		indexCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := mongodb.EnsureAllIndexes(indexCtx, client.Database(), store); err != nil {
			log.Warn().Err(err).Msg("failed to ensure indexes")
		}
		cancel()
		persister = store
	default:
		store, err := docstore.NewFileStore(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		persister = store
	}

	db, err := community.NewDatabase(ctx, persister)
	if err != nil {
		if client != nil {
			_ = client.Close(context.Background())
		}
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	log.Info().Str("driver", persister.Name()).Msg("document store ready")
	return db, client, nil
}
