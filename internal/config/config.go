package config

import (
	"errors"
	"io/fs"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// 用于管理应用配置

var (
	// 使用 atomic.Value 存储 *Config，实现无锁读取
	appConfig atomic.Value
	configMu  sync.Mutex // 仅用于写操作互斥
	configDir = "config"
)

// EnvPrefix 环境变量前缀，例如 server.port 对应 ONLYCATS_SERVER_PORT
const EnvPrefix = "ONLYCATS"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Admin     AdminConfig     `mapstructure:"admin"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

type DatabaseConfig struct {
	Type        string        `mapstructure:"type"`     // sqlite, mysql, postgres
	Filename    string        `mapstructure:"filename"` // for sqlite
	Host        string        `mapstructure:"host"`
	Port        string        `mapstructure:"port"`
	User        string        `mapstructure:"user"`
	Password    string        `mapstructure:"password"`
	Name        string        `mapstructure:"name"` // database name
	SSL         bool          `mapstructure:"ssl"`  // enable TLS/SSL
	OpTimeout   time.Duration `mapstructure:"op_timeout"`
	BusyTimeout int           `mapstructure:"busy_timeout_ms"`
}

type UploadConfig struct {
	Path      string `mapstructure:"path"`
	URLPrefix string `mapstructure:"url_prefix"`
	// StaticCacheControl 静态资源 Cache-Control 头，为空则不设置
	StaticCacheControl string `mapstructure:"static_cache_control"`
}

type StorageConfig struct {
	Driver        string        `mapstructure:"driver"` // local, minio
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	SweepGrace    time.Duration `mapstructure:"sweep_grace"`
	MinIO         MinIOConfig   `mapstructure:"minio"`
}

type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	PublicURL string `mapstructure:"public_url"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type AdminConfig struct {
	Username string `mapstructure:"username"`
	// PasswordHash bcrypt 哈希；为空时使用 Password 明文在启动时计算
	PasswordHash string `mapstructure:"password_hash"`
	Password     string `mapstructure:"password"`
}

type RateLimitConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	LikeRPS     float64 `mapstructure:"like_rps"`
	LikeBurst   int     `mapstructure:"like_burst"`
	UploadRPS   float64 `mapstructure:"upload_rps"`
	UploadBurst int     `mapstructure:"upload_burst"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Get 获取当前配置的快照（高性能无锁）
func Get() Config {
	val := appConfig.Load()
	if val == nil {
		return Config{}
	}
	c, ok := val.(*Config)
	if !ok {
		return Config{}
	}
	return *c
}

// Set 直接替换当前配置，主要用于测试
func Set(cfg Config) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig.Store(&cfg)
}

func GetConfigDir() string {
	return configDir
}

// InitConfig 加载配置：.env -> config.yaml -> 环境变量，后者覆盖前者
func InitConfig(customConfigDir string) error {
	// .env 仅用于本地开发，不存在时忽略
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Debug().Err(err).Msg("未加载 .env 文件")
	}

	v, err := initViper(customConfigDir)
	if err != nil {
		return err
	}
	if err := loadAndStore(v); err != nil {
		return err
	}
	log.Info().Str("dir", configDir).Msg("✅ 配置加载成功")
	return nil
}

func initViper(customConfigDir string) (*viper.Viper, error) {
	v := viper.New()

	customConfigDir = strings.TrimSpace(customConfigDir)
	if customConfigDir == "" {
		customConfigDir = "config"
	}
	configDir = customConfigDir

	// 设置配置文件路径
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			log.Warn().Msg("⚠️  未找到配置文件，将仅使用环境变量或默认值")
		} else {
			return nil, err
		}
	}

	// 规则：所有环境变量必须以 ONLYCATS_ 开头
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// 将 key 中的 "." 替换为 "_"，这样 server.port 才能匹配 SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.trusted_proxies", []string{})
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.filename", "database/animal-pics.db")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "root")
	v.SetDefault("database.name", "onlycats")
	v.SetDefault("database.ssl", false)
	v.SetDefault("database.op_timeout", 5*time.Second)
	v.SetDefault("database.busy_timeout_ms", 5000)
	v.SetDefault("upload.path", "public/images")
	v.SetDefault("upload.url_prefix", "/images/")
	v.SetDefault("upload.static_cache_control", "public, max-age=86400")
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.sweep_interval", time.Hour)
	v.SetDefault("storage.sweep_grace", time.Hour)
	v.SetDefault("storage.minio.endpoint", "127.0.0.1:9000")
	v.SetDefault("storage.minio.access_key", "")
	v.SetDefault("storage.minio.secret_key", "")
	v.SetDefault("storage.minio.bucket", "onlycats")
	v.SetDefault("storage.minio.use_ssl", false)
	v.SetDefault("storage.minio.public_url", "")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "onlycats")
	v.SetDefault("admin.username", "")
	v.SetDefault("admin.password_hash", "")
	v.SetDefault("admin.password", "")
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.like_rps", 5.0)
	v.SetDefault("rate_limit.like_burst", 10)
	v.SetDefault("rate_limit.upload_rps", 0.5)
	v.SetDefault("rate_limit.upload_burst", 3)
	v.SetDefault("log.level", "info")
}

// loadAndStore 解析并原子更新配置
func loadAndStore(v *viper.Viper) error {
	// 加写锁，防止并发重载时的竞争
	configMu.Lock()
	defer configMu.Unlock()

	var tempConfig Config
	if err := v.Unmarshal(&tempConfig); err != nil {
		return err
	}

	if tempConfig.Admin.Username == "" || (tempConfig.Admin.PasswordHash == "" && tempConfig.Admin.Password == "") {
		if tempConfig.Server.Mode == "release" {
			log.Error().Msg("❌ [安全严重错误] 生产模式(release)下未配置管理员凭据，管理接口将全部拒绝")
		} else {
			log.Warn().Msg("⚠️ [开发模式警告] 未配置管理员凭据，管理接口将全部拒绝")
		}
	}

	// 原子替换全局配置
	appConfig.Store(&tempConfig)
	return nil
}
