package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"mujtama/internal/config"
)

const (
	defaultDatabase = "mujtama"
	connectTimeout  = 10 * time.Second
)

// Client MongoDB 客户端，store.driver=mongo 时承载整份社区文档
type Client struct {
	client   *mongo.Client
	database *mongo.Database
}

// New 连接 MongoDB 并确认主节点可用
func New(ctx context.Context, cfg *config.MongoConfig) (*Client, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo uri is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName("mujtama")
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}
	if cfg.MinPoolSize > 0 {
		opts.SetMinPoolSize(cfg.MinPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	name := cfg.Database
	if name == "" {
		name = defaultDatabase
	}
	return &Client{client: client, database: client.Database(name)}, nil
}

// Database 社区文档所在的数据库
func (c *Client) Database() *mongo.Database {
	return c.database
}

// Ping 就绪检查
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close 断开连接
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
