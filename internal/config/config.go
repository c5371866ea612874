package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// SMTPConfig 定义归档网关的 SMTP 接收配置
type SMTPConfig struct {
	BindAddr       string   // SMTP 服务监听地址，格式 "host:port"，默认 ":2525"
	Domain         string   // SMTP 服务器域名，用于 HELO/EHLO 响应
	AllowedDomains []string // 允许归档的收件域名列表，为空表示接收全部
	MaxMessageMB   int      // 单封邮件大小上限（MB），默认 10
	MaxConnections int      // 最大并发连接数，默认 32
	MaxConnRate    int      // 每秒最大新建连接数，默认 16
}

// ArchiveConfig 定义归档输出配置
type ArchiveConfig struct {
	OutputDir   string // 归档目录，每封邮件生成一个子目录
	FileNameTag string // 附件文件名叶子使用的属性: "attach-filename" 或 "display-name"
}

// MetricsConfig 定义监控端点配置
type MetricsConfig struct {
	Enabled  bool   // 是否暴露 /metrics 与 /healthz
	BindAddr string // 监听地址，默认 ":9090"
}

// LogConfig 定义日志系统配置
type LogConfig struct {
	Level       string // 日志级别: debug, info, warn, error
	Development bool   // 开发模式: 控制台输出与详细堆栈
	File        string // 日志文件路径，为空时只输出到控制台
}

// Config 是系统核心配置的根结构体
type Config struct {
	SMTP    SMTPConfig
	Archive ArchiveConfig
	Metrics MetricsConfig
	Log     LogConfig
}

// Load 从环境变量和 .env 文件加载系统配置
//
// 配置加载优先级（从高到低）：
//  1. 系统环境变量（最高优先级）
//  2. .env 文件（如果存在）
//  3. 默认值
//
// 环境变量前缀: MSGSTG_
// 例如: MSGSTG_SMTP_BIND_ADDR, MSGSTG_ARCHIVE_OUTPUT_DIR
func Load() (*Config, error) {
	// 尝试加载 .env 文件（静默失败，因为 .env 文件是可选的）
	loadEnvFile()

	viper.SetEnvPrefix("msgstg")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("smtp.bind_addr", ":2525")
	viper.SetDefault("smtp.domain", "localhost")
	viper.SetDefault("smtp.allowed_domains", "")
	viper.SetDefault("smtp.max_message_mb", 10)
	viper.SetDefault("smtp.max_connections", 32)
	viper.SetDefault("smtp.max_conn_rate", 16)
	viper.SetDefault("archive.output_dir", "./archive")
	viper.SetDefault("archive.file_name_tag", "attach-filename")
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.bind_addr", ":9090")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.development", false)
	viper.SetDefault("log.file", "")

	outputDir := viper.GetString("archive.output_dir")
	if strings.TrimSpace(outputDir) == "" {
		return nil, fmt.Errorf("archive.output_dir must not be empty")
	}

	fileNameTag := viper.GetString("archive.file_name_tag")
	switch fileNameTag {
	case "attach-filename", "display-name":
	default:
		return nil, fmt.Errorf("invalid archive.file_name_tag %q (want attach-filename or display-name)", fileNameTag)
	}

	maxMessageMB := viper.GetInt("smtp.max_message_mb")
	if maxMessageMB <= 0 {
		maxMessageMB = 10
	}

	maxConns := viper.GetInt("smtp.max_connections")
	if maxConns <= 0 {
		maxConns = 32
	}

	maxRate := viper.GetInt("smtp.max_conn_rate")
	if maxRate <= 0 {
		maxRate = 16
	}

	cfg := &Config{
		SMTP: SMTPConfig{
			BindAddr:       viper.GetString("smtp.bind_addr"),
			Domain:         viper.GetString("smtp.domain"),
			AllowedDomains: parseDomains(viper.GetString("smtp.allowed_domains")),
			MaxMessageMB:   maxMessageMB,
			MaxConnections: maxConns,
			MaxConnRate:    maxRate,
		},
		Archive: ArchiveConfig{
			OutputDir:   outputDir,
			FileNameTag: fileNameTag,
		},
		Metrics: MetricsConfig{
			Enabled:  viper.GetBool("metrics.enabled"),
			BindAddr: viper.GetString("metrics.bind_addr"),
		},
		Log: LogConfig{
			Level:       viper.GetString("log.level"),
			Development: viper.GetBool("log.development"),
			File:        viper.GetString("log.file"),
		},
	}

	return cfg, nil
}

// parseDomains 将逗号分隔的域名字符串解析为小写域名数组
func parseDomains(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(part))
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// loadEnvFile 尝试加载 .env 文件
//
// 加载顺序：
//  1. 当前目录的 .env
//  2. 父目录的 .env（从子目录运行时）
//
// 已存在的环境变量不会被覆盖。
func loadEnvFile() {
	if err := godotenv.Load(".env"); err == nil {
		return
	}

	parentEnv := filepath.Join("..", ".env")
	if _, err := os.Stat(parentEnv); err == nil {
		_ = godotenv.Load(parentEnv)
	}
}
