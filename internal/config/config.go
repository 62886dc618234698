package config

import (
	"errors"
	"time"
)

// Config 应用配置根结构
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Store     StoreConfig     `mapstructure:"store"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Storage   StorageConfig   `mapstructure:"storage"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Jobs      JobsConfig      `mapstructure:"jobs"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CORSOrigins  []string      `mapstructure:"cors_origins"` // 为空表示允许所有来源
	BaseURL      string        `mapstructure:"base_url"`     // 站点地址，用于邮件中的链接
}

// LogConfig 日志配置 (Zerolog)
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	TimeFormat string `mapstructure:"time_format"`
}

// StoreConfig 文档存储配置
type StoreConfig struct {
	Driver   string `mapstructure:"driver"`   // file, mongo
	Path     string `mapstructure:"path"`     // file 驱动：JSON 文件路径
	Document string `mapstructure:"document"` // mongo 驱动：文档键
}

// MongoConfig MongoDB 配置
type MongoConfig struct {
	URI         string `mapstructure:"uri"`
	Database    string `mapstructure:"database"`
	MaxPoolSize uint64 `mapstructure:"max_pool_size"`
	MinPoolSize uint64 `mapstructure:"min_pool_size"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	StatsTTL time.Duration `mapstructure:"stats_ttl"` // 统计缓存时间
}

// AuthConfig 认证配置
type AuthConfig struct {
	SessionTTL   time.Duration `mapstructure:"session_ttl"`   // 普通会话有效期
	RememberTTL  time.Duration `mapstructure:"remember_ttl"`  // "记住我" 会话有效期
	CookieName   string        `mapstructure:"cookie_name"`   // 会话 Cookie 名称
	CookieSecret string        `mapstructure:"cookie_secret"` // 会话 Cookie 签名密钥
	CookieSecure bool          `mapstructure:"cookie_secure"` // 仅 HTTPS 发送
	VerifyTTL    time.Duration `mapstructure:"verify_ttl"`    // 邮箱验证 Token 有效期
	ResetTTL     time.Duration `mapstructure:"reset_ttl"`     // 密码重置 Token 有效期
	Argon2       Argon2Config  `mapstructure:"argon2"`
}

// Argon2Config 密码哈希参数
type Argon2Config struct {
	Time    uint32 `mapstructure:"time"`
	Memory  uint32 `mapstructure:"memory"` // KiB
	Threads uint8  `mapstructure:"threads"`
	KeyLen  uint32 `mapstructure:"key_len"`
	SaltLen uint32 `mapstructure:"salt_len"`
}

// StorageConfig 头像存储配置
type StorageConfig struct {
	Type  string       `mapstructure:"type"` // local, oss, minio
	Local *LocalConfig `mapstructure:"local,omitempty"`
	OSS   *OSSConfig   `mapstructure:"oss,omitempty"`
	MinIO *MinIOConfig `mapstructure:"minio,omitempty"`
}

// LocalConfig 本地文件系统配置
type LocalConfig struct {
	BasePath string `mapstructure:"base_path"` // 基础路径
	BaseURL  string `mapstructure:"base_url"`  // 基础URL（用于生成访问URL）
}

// OSSConfig 阿里云OSS配置
type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
}

// MinIOConfig MinIO / S3 兼容存储配置
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	PublicURL string `mapstructure:"public_url"` // 对外访问前缀，为空时使用 endpoint
}

// RateLimitConfig 认证接口限流配置（按客户端IP）
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// JobsConfig 定时任务配置
type JobsConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	SessionPurge string `mapstructure:"session_purge"` // cron 表达式（含秒）
	StatsRefresh string `mapstructure:"stats_refresh"`
}

// Validate 验证配置有效性
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return errors.New("invalid server mode, must be debug/release/test")
	}

	switch c.Store.Driver {
	case "file":
		if c.Store.Path == "" {
			return errors.New("store.path is required for the file driver")
		}
	case "mongo":
		if c.Mongo.URI == "" {
			return errors.New("mongo.uri is required for the mongo driver")
		}
	default:
		return errors.New("invalid store driver, must be file/mongo")
	}

	if c.Auth.Argon2.Time == 0 || c.Auth.Argon2.Threads == 0 || c.Auth.Argon2.Memory < 8*uint32(c.Auth.Argon2.Threads) {
		return errors.New("invalid argon2 parameters")
	}

	return nil
}
