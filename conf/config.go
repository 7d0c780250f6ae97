package conf

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// 配置加载（口令、交易所密钥等）

type WebhookConfig struct {
	// 全局口令，告警消息中的 passphrase 必须与它一致
	Passphrase string `yaml:"passphrase"`
	// 同一策略/市场/方向的信号最小间隔，防止重复下单
	MinInterval time.Duration `yaml:"min-interval"`
}

// 单个交易所的接入配置
type DexConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ApiKey     string `yaml:"apiKey"`
	SecretKey  string `yaml:"secretKey"`
	Passphrase string `yaml:"passphrase"`
	// 子账户/钱包地址，也是账户级互斥锁的粒度
	Account string `yaml:"account"`
}

type ExecutionConfig struct {
	MaxRetries int           `yaml:"max-retries"` // 额外重试次数，总尝试 = MaxRetries+1
	RetryDelay time.Duration `yaml:"retry-delay"` // 重试间隔
}

type LedgerConfig struct {
	// 策略状态文档的存放目录，每个网络环境一个文档
	DataDir string `yaml:"data-dir"`
}

type AuditConfig struct {
	// 审计日志目录，每个交易所+环境一个文件
	LogDir string `yaml:"log-dir"`
}

type Db struct {
	DbName   string `yaml:"dbname"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	FileName   string `yaml:"file-name"`
	TimeFormat string `yaml:"time-format"`
	MaxSize    int    `yaml:"max-size"`
	MaxBackups int    `yaml:"max-backups"`
	MaxAge     int    `yaml:"max-age"`
	Compress   bool   `yaml:"compress"`
	LocalTime  bool   `yaml:"local-time"`
	Console    bool   `yaml:"console"`
}

// RedisConfig is used to configure redis
type RedisConfig struct {
	Addr         string `yaml:"address"`
	Password     string `yaml:"password"`
	Db           int    `yaml:"db"`
	PoolSize     int    `yaml:"pool-size"`
	MinIdleConns int    `yaml:"min-idle-conns"`
	IdleTimeout  int    `yaml:"idle-timeout"`
}

type Config struct {
	AppName      string `yaml:"app_name"`
	Listen       string `yaml:"listen"`
	Mode         string `yaml:"mode"`
	Language     string `yaml:"language"`
	MaxPingCount int    `yaml:"max-ping-count"`
	// 网络环境 mainnet / testnet，账本文档和审计日志按环境隔离
	Network string `yaml:"network"`
	// 告警未指定exchange时使用的交易所
	DefaultDex string `yaml:"default-dex"`

	Webhook   WebhookConfig        `yaml:"webhook"`
	Execution ExecutionConfig      `yaml:"execution"`
	Ledger    LedgerConfig         `yaml:"ledger"`
	Audit     AuditConfig          `yaml:"audit"`
	Dexes     map[string]DexConfig `yaml:"dexes"`
	Db        `yaml:"database"`
	Log       LogConfig   `yaml:"log"`
	Redis     RedisConfig `yaml:"redis"`
}

var AppConfig Config

func LoadConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("Read config file error %w", err)
	}
	if err := yaml.Unmarshal(data, &AppConfig); err != nil {
		return fmt.Errorf("Unmarshal config yaml error: %w", err)
	}
	applyDefaults(&AppConfig)
	return nil
}

func applyDefaults(c *Config) {
	if c.Network == "" {
		c.Network = "mainnet"
	}
	if c.Execution.MaxRetries == 0 {
		c.Execution.MaxRetries = 3
	}
	if c.Execution.RetryDelay == 0 {
		c.Execution.RetryDelay = 5 * time.Second
	}
	if c.Ledger.DataDir == "" {
		c.Ledger.DataDir = "data"
	}
	if c.Audit.LogDir == "" {
		c.Audit.LogDir = "logs"
	}
	if c.Webhook.MinInterval == 0 {
		c.Webhook.MinInterval = 5 * time.Millisecond
	}
}
