package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Config 应用程序配置结构
type Config struct {
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	Telegram Telegram `yaml:"telegram"`
	API      API      `yaml:"api"`
	App      App      `yaml:"app"`
}

// Server HTTP服务配置
type Server struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Database 数据库配置（host为空时不启用持久化）
type Database struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Username        string        `yaml:"username"`
	Database        string        `yaml:"database"`
	Password        string        `yaml:"password"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// Telegram Bot配置（token为空时不启用推送）
type Telegram struct {
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// API 后端开奖数据源配置
type API struct {
	URL        string        `yaml:"url"`
	Timeout    time.Duration `yaml:"timeout"`
	RetryCount int           `yaml:"retry_count"`
	RetryDelay time.Duration `yaml:"retry_delay"`
}

// App 应用程序配置
type App struct {
	LogLevel               string        `yaml:"log_level"`
	CacheTTL               time.Duration `yaml:"cache_ttl"`
	MinDatasetSize         int           `yaml:"min_dataset_size"`
	MaxDatasetSize         int           `yaml:"max_dataset_size"`
	RecommendedDatasetSize int           `yaml:"recommended_dataset_size"`
	PredictionTimeout      time.Duration `yaml:"prediction_timeout"`
}

// LoadConfig 加载配置文件
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	config.applyDefaults()
	return &config, nil
}

// applyDefaults 补齐未配置项的默认值
func (c *Config) applyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8000"
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = 10 * time.Second
	}
	if c.API.RetryCount == 0 {
		c.API.RetryCount = 3
	}
	if c.API.RetryDelay == 0 {
		c.API.RetryDelay = time.Second
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.CacheTTL == 0 {
		c.App.CacheTTL = 2 * time.Minute
	}
	if c.App.MinDatasetSize == 0 {
		c.App.MinDatasetSize = 50
	}
	if c.App.MaxDatasetSize == 0 {
		c.App.MaxDatasetSize = 1000
	}
	if c.App.RecommendedDatasetSize == 0 {
		c.App.RecommendedDatasetSize = 200
	}
	if c.App.PredictionTimeout == 0 {
		c.App.PredictionTimeout = 5 * time.Second
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = time.Hour
	}
	if c.Telegram.Timeout == 0 {
		c.Telegram.Timeout = 30 * time.Second
	}
}

// Enabled 是否配置了数据库
func (d *Database) Enabled() bool {
	return d.Host != ""
}

// Enabled 是否配置了Telegram机器人
func (t *Telegram) Enabled() bool {
	return t.Token != ""
}

// GetDSN 获取数据库连接字符串
func (d *Database) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}
