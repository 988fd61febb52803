package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/JoeShih716/go-wallet-ledger/pkg/mysql"
)

// Backend 儲存後端種類
const (
	BackendMemory = "memory"
	BackendMySQL  = "mysql"
)

// SeedAccount 啟動時要確保存在的帳戶，balance 以「元」為單位
type SeedAccount struct {
	ID      int64 `yaml:"id"`
	Balance int64 `yaml:"balance"`
}

type Config struct {
	Port    string `yaml:"port"`
	Backend string `yaml:"backend"` // "memory" | "mysql"
	WALPath string `yaml:"walPath"`

	MySQL mysql.Config `yaml:"mysql"`

	// 啟動 seeding 用；開戶本身屬於外部註冊流程
	SeedAccounts []SeedAccount `yaml:"seedAccounts"`
}

// Load 讀取設定: .env → yaml 檔 → 環境變數覆寫 → 補全預設值
func Load(path string) (*Config, error) {
	// .env 不存在是正常情況 (production 直接吃環境變數)
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, relying on system env variables")
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if cfg.Backend != BackendMemory && cfg.Backend != BackendMySQL {
		return nil, fmt.Errorf("invalid backend %q (want %q or %q)", cfg.Backend, BackendMemory, BackendMySQL)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Backend = getEnv("LEDGER_BACKEND", cfg.Backend)
	cfg.WALPath = getEnv("WAL_PATH", cfg.WALPath)

	cfg.MySQL.Host = getEnv("MYSQL_HOST", cfg.MySQL.Host)
	cfg.MySQL.User = getEnv("MYSQL_USER", cfg.MySQL.User)
	cfg.MySQL.Password = getEnv("MYSQL_PASSWORD", cfg.MySQL.Password)
	cfg.MySQL.DBName = getEnv("MYSQL_DBNAME", cfg.MySQL.DBName)
	if port, err := strconv.Atoi(os.Getenv("MYSQL_PORT")); err == nil {
		cfg.MySQL.Port = port
	}
}

// applyDefaults 補全預設配置 (如果 yaml 沒寫)
func applyDefaults(cfg *Config) {
	if cfg.Port == "" {
		cfg.Port = "3000"
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendMemory
	}
	if cfg.WALPath == "" {
		cfg.WALPath = "wal.log"
	}
	if cfg.MySQL.Port == 0 {
		cfg.MySQL.Port = 3306
	}
	if cfg.MySQL.MaxOpenConns == 0 {
		cfg.MySQL.MaxOpenConns = 100
	}
	if cfg.MySQL.MaxIdleConns == 0 {
		cfg.MySQL.MaxIdleConns = 10
	}
	if cfg.MySQL.ConnMaxLifetime == 0 {
		cfg.MySQL.ConnMaxLifetime = 30 * time.Minute
	}
}

// getEnv 取環境變數，不存在時用 fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
