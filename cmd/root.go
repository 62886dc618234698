package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mujtama/internal/config"
	"mujtama/internal/pkg/logger"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mujtama",
	Short: "Mujtama - bilingual community platform",
	Long: `Mujtama is the backend of an Arabic/English community platform.
It serves posts, ideas, comments, likes and votes over a JSON document store.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./configs/config.yaml)")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// .env 优先加载，不存在时忽略
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.mujtama")
	}

	// 环境变量设置
	viper.SetEnvPrefix("MUJTAMA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 设置默认值
	setDefaults()

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			fmt.Fprintln(os.Stderr, "No config file found, using defaults and environment variables")
		} else {
			fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
			os.Exit(1)
		}
	}

	// 反序列化到结构体
	cfg = &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to unmarshal config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	log.Debug().Str("config_file", viper.ConfigFileUsed()).Msg("configuration loaded")
}

func setDefaults() {
	// Server
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.base_url", "http://localhost:8080")

	// Log
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.time_format", "RFC3339")

	// Store
	viper.SetDefault("store.driver", "file")
	viper.SetDefault("store.path", "./data/database.json")
	viper.SetDefault("store.document", "default")

	// MongoDB（store.driver=mongo 时使用）
	viper.SetDefault("mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongo.database", "mujtama")
	viper.SetDefault("mongo.max_pool_size", 100)
	viper.SetDefault("mongo.min_pool_size", 10)

	// Redis（为空时不缓存统计）
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.stats_ttl", "5m")

	// Auth
	viper.SetDefault("auth.session_ttl", "24h")
	viper.SetDefault("auth.remember_ttl", "720h")
	viper.SetDefault("auth.cookie_name", "mujtama_session")
	viper.SetDefault("auth.cookie_secure", false)
	viper.SetDefault("auth.verify_ttl", "48h")
	viper.SetDefault("auth.reset_ttl", "1h")
	viper.SetDefault("auth.argon2.time", 3)
	viper.SetDefault("auth.argon2.memory", 64*1024)
	viper.SetDefault("auth.argon2.threads", 2)
	viper.SetDefault("auth.argon2.key_len", 32)
	viper.SetDefault("auth.argon2.salt_len", 16)

	// 头像存储
	viper.SetDefault("storage.type", "local")
	viper.SetDefault("storage.local.base_path", "./data/uploads")
	viper.SetDefault("storage.local.base_url", "/uploads")

	// 限流
	viper.SetDefault("rate_limit.rps", 5)
	viper.SetDefault("rate_limit.burst", 10)

	// 定时任务
	viper.SetDefault("jobs.enabled", true)
	viper.SetDefault("jobs.session_purge", "0 0 * * * *")
	viper.SetDefault("jobs.stats_refresh", "0 30 3 * * *")
}

// GetConfig returns the global configuration
func GetConfig() *config.Config {
	return cfg
}
