package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// AppConfig 全局配置实例
var AppConfig *Config

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Log      LogConfig      `yaml:"log"`
	Security SecurityConfig `yaml:"security"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port            string        `yaml:"port" validate:"required"`
	Mode            string        `yaml:"mode" validate:"oneof=debug release test"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string        `yaml:"driver" validate:"oneof=mysql sqlite"`
	DSN             string        `yaml:"dsn" validate:"required"`
	MaxIdleConns    int           `yaml:"max_idle_conns" validate:"gte=0"`
	MaxOpenConns    int           `yaml:"max_open_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	SlowThreshold   time.Duration `yaml:"slow_threshold"`
	LogLevel        string        `yaml:"log_level" validate:"oneof=silent error warn info"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	SigningKey string        `yaml:"signing_key" validate:"required"`
	Expiry     time.Duration `yaml:"expiry"`
	Issuer     string        `yaml:"issuer"`
	ProtectAPI bool          `yaml:"protect_api"` // 为true时 /api 需要Bearer token
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// InitConfig 初始化配置
func InitConfig() error {
	// 加载环境变量
	if err := loadEnv(); err != nil {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		return err
	}

	AppConfig = cfg
	return nil
}

// Load 按 默认值 -> 配置文件 -> 环境变量 的顺序构建配置并校验
func Load() (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// 配置文件是可选的
	if err := loadFromFile(config); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// loadEnv 加载环境变量文件
func loadEnv() error {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	envFiles := []string{
		".env",
		fmt.Sprintf(".env.%s", env),
		".env.local",
	}

	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			if err := godotenv.Load(file); err != nil {
				return err
			}
		}
	}

	return nil
}

// setDefaults 设置默认值
func setDefaults(config *Config) {
	config.Server.Port = "8801"
	config.Server.Mode = "debug"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.ShutdownTimeout = 10 * time.Second

	config.Database.Driver = "mysql"
	config.Database.MaxIdleConns = 10
	config.Database.MaxOpenConns = 100
	config.Database.ConnMaxLifetime = time.Hour
	config.Database.SlowThreshold = 200 * time.Millisecond
	config.Database.LogLevel = "warn"

	config.JWT.Expiry = 24 * time.Hour
	config.JWT.Issuer = "renew-admin"

	config.Log.Level = "info"
}

// loadFromFile 从配置文件加载
func loadFromFile(config *Config) error {
	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config/config.yaml"
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, config)
}

// loadFromEnv 从环境变量加载
func loadFromEnv(config *Config) error {
	// Server配置
	if port := os.Getenv("SERVER_PORT"); port != "" {
		config.Server.Port = port
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		config.Server.Mode = mode
	}

	// Database配置 - 兼容原有的环境变量名
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		config.Database.Driver = driver
	}
	if dsn := os.Getenv("MYSQL_DSN"); dsn != "" {
		config.Database.DSN = dsn
	} else if dsn := os.Getenv("DB_DSN"); dsn != "" {
		config.Database.DSN = dsn
	}
	if maxOpen := os.Getenv("DB_MAX_OPEN_CONNS"); maxOpen != "" {
		n, err := strconv.Atoi(maxOpen)
		if err != nil {
			return fmt.Errorf("invalid DB_MAX_OPEN_CONNS %q: %w", maxOpen, err)
		}
		config.Database.MaxOpenConns = n
	}

	// JWT配置
	if signingKey := os.Getenv("JWT_SIGNING_KEY"); signingKey != "" {
		config.JWT.SigningKey = signingKey
	}
	if protect := os.Getenv("JWT_PROTECT_API"); protect != "" {
		b, err := strconv.ParseBool(protect)
		if err != nil {
			return fmt.Errorf("invalid JWT_PROTECT_API %q: %w", protect, err)
		}
		config.JWT.ProtectAPI = b
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Log.Level = level
	}

	if envOrigins := os.Getenv("ALLOWED_ORIGINS"); envOrigins != "" {
		origins := strings.Split(envOrigins, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		config.Security.AllowedOrigins = origins
	}

	return nil
}

// validateConfig 验证配置
func validateConfig(config *Config) error {
	if err := validator.New().Struct(config); err != nil {
		return err
	}

	// 验证端口号
	if _, err := strconv.Atoi(strings.TrimPrefix(config.Server.Port, ":")); err != nil {
		return fmt.Errorf("invalid server port: %s", config.Server.Port)
	}

	return nil
}

// GetConfig 获取配置实例
func GetConfig() *Config {
	if AppConfig == nil {
		log.Fatal("config not initialized, call InitConfig() first")
	}
	return AppConfig
}

// IsProduction 判断是否为生产环境
func IsProduction() bool {
	return AppConfig != nil && AppConfig.Server.Mode == "release"
}

// Addr 返回监听地址
func (s ServerConfig) Addr() string {
	if strings.HasPrefix(s.Port, ":") {
		return s.Port
	}
	return ":" + s.Port
}
