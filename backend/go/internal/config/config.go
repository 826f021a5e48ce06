package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ServerConfig 定义了 HTTP 服务的监听配置。
type ServerConfig struct {
	Address         string `yaml:"address"`         // 监听地址 (例如: ":8080")
	ShutdownTimeout string `yaml:"shutdownTimeout"` // 优雅关闭的等待时间 (例如: "10s")
	DefaultLimit    int    `yaml:"defaultLimit"`    // 列表接口默认的分页大小
}

// RedisConfig 定义了 Redis 数据库的连接配置。
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`  // 是否启用 Redis 缓存
	Address  string `yaml:"address"`  // Redis 服务器地址 (例如: "localhost:6379")
	Password string `yaml:"password"` // Redis 密码
	DB       int    `yaml:"db"`       // Redis 数据库编号
	TTL      string `yaml:"ttl"`      // 缓存条目的过期时间 (例如: "5m")
}

// MySQLConfig 定义了 MySQL 数据库的连接配置。
type MySQLConfig struct {
	Address         string `yaml:"address"`         // MySQL 服务器地址
	Username        string `yaml:"username"`        // 用户名
	Password        string `yaml:"password"`        // 密码
	Database        string `yaml:"database"`        // 数据库名称
	MaxOpenConns    int    `yaml:"maxOpenConns"`    // 最大打开连接数
	MaxIdleConns    int    `yaml:"maxIdleConns"`    // 最大空闲连接数
	ConnMaxLifetime int    `yaml:"connMaxLifetime"` // 连接最大生命周期 (秒)
}

// PostgresConfig 定义了 PostgreSQL 数据库的连接配置。
type PostgresConfig struct {
	DSN           string `yaml:"dsn"`           // 完整的连接串
	RetryAttempts int    `yaml:"retryAttempts"` // 启动时的连接重试次数
	RetryDelay    string `yaml:"retryDelay"`    // 每次重试之间的间隔
}

// MongoConfig 定义了 MongoDB 数据库的连接配置。
type MongoConfig struct {
	Enabled    bool   `yaml:"enabled"`    // 是否把审计事件写入 MongoDB
	Address    string `yaml:"address"`    // MongoDB 服务器地址
	Username   string `yaml:"username"`   // 用户名
	Password   string `yaml:"password"`   // 密码
	Database   string `yaml:"database"`   // 数据库名称
	Collection string `yaml:"collection"` // 审计集合名称
}

// EtcdConfig 定义了 Etcd 服务发现的连接配置。
type EtcdConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Endpoints []string `yaml:"endpoints"` // Etcd 节点地址列表
	Service   string   `yaml:"service"`   // 注册使用的服务名
	Advertise string   `yaml:"advertise"` // 对外公布的地址
	TTL       int64    `yaml:"ttl"`       // 租约时间 (秒)
}

// KafkaConfig 定义了 Kafka 消息队列的连接配置。
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"` // Kafka Broker 地址列表
	Topic   string   `yaml:"topic"`   // 实体变更事件的主题
}

// DatabaseConfigs 包含所有数据库的配置。
type DatabaseConfigs struct {
	Driver   string         `yaml:"driver"`   // "mysql" 或 "postgres"
	MySQL    MySQLConfig    `yaml:"mysql"`    // MySQL 数据库配置
	Postgres PostgresConfig `yaml:"postgres"` // PostgreSQL 数据库配置
	Redis    RedisConfig    `yaml:"redis"`    // Redis 数据库配置
	MongoDB  MongoConfig    `yaml:"mongodb"`  // MongoDB 数据库配置
}

// EventsConfig 定义了实体变更事件的输出目标。
type EventsConfig struct {
	Kafka KafkaConfig `yaml:"kafka"`
}

// DiscoveryConfig 定义了服务注册的配置。
type DiscoveryConfig struct {
	Etcd EtcdConfig `yaml:"etcd"`
}

// AppInfo 对应 'app' 部分，包含应用程序的基本信息。
type AppInfo struct {
	Name        string `yaml:"name"`        // 应用程序名称
	Version     string `yaml:"version"`     // 应用程序版本
	Environment string `yaml:"environment"` // 运行环境 (例如: "development", "production")
}

// LoggerConfig 定义了日志记录器的配置。
type LoggerConfig struct {
	Level string `yaml:"level"` // 日志级别 (例如: "info", "debug", "warn", "error")
}

// AuthConfig 用于配置认证方法和相关设置。
type AuthConfig struct {
	JwtSecret              string `yaml:"jwtSecret"`              // JWT 密钥
	TokenTTL               int    `yaml:"tokenTTL"`               // JWT 令牌的有效期（秒）
	Issuer                 string `yaml:"issuer"`                 // JWT 签发者
	FirstSuperuser         string `yaml:"firstSuperuser"`         // 启动时自动创建的超级用户邮箱
	FirstSuperuserPassword string `yaml:"firstSuperuserPassword"` // 超级用户的初始密码
}

// AppConfig 是整个 YAML 文件的根结构，包含了应用程序的所有配置。
type AppConfig struct {
	App        AppInfo          `yaml:"app"`        // 应用程序信息
	Server     ServerConfig     `yaml:"server"`     // HTTP 服务配置
	Auth       AuthConfig       `yaml:"auth"`       // 认证配置
	Logger     LoggerConfig     `yaml:"logger"`     // 日志记录器配置
	Databases  DatabaseConfigs  `yaml:"databases"`  // 数据库配置
	Events     EventsConfig     `yaml:"events"`     // 事件输出配置
	Discovery  DiscoveryConfig  `yaml:"discovery"`  // 服务发现配置
	Middleware MiddlewareConfig `yaml:"middleware"` // 中间件配置
}

// MiddlewareConfig 包含所有中间件的配置。
type MiddlewareConfig struct {
	RateLimiter    RateLimiterConfig    `yaml:"rateLimiter"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuitBreaker"`
}

// RateLimiterConfig 定义了限流器的配置。
type RateLimiterConfig struct {
	Enabled        bool                 `yaml:"enabled"`
	Algorithm      string               `yaml:"algorithm"` // 支持: "tokenBucket", "leakyBucket", "fixedWindow", "slidingLog", "slidingCounter"
	PerClient      bool                 `yaml:"perClient"` // 是否按客户端地址分别限流
	FixedWindow    FixedWindowConfig    `yaml:"fixedWindow"`
	SlidingLog     SlidingLogConfig     `yaml:"slidingLog"`
	SlidingCounter SlidingCounterConfig `yaml:"slidingCounter"`
	LeakyBucket    LeakyBucketConfig    `yaml:"leakyBucket"`
	TokenBucket    TokenBucketConfig    `yaml:"tokenBucket"`
}

// FixedWindowConfig 定义了固定窗口计数器算法的配置。
type FixedWindowConfig struct {
	Limit  int    `yaml:"limit"`
	Window string `yaml:"window"` // 例如: "1m", "30s"
}

// SlidingLogConfig 定义了滑动窗口日志算法的配置。
type SlidingLogConfig struct {
	Limit  int    `yaml:"limit"`
	Window string `yaml:"window"`
}

// SlidingCounterConfig 定义了滑动窗口计数器算法的配置。
type SlidingCounterConfig struct {
	Limit      int    `yaml:"limit"`
	Window     string `yaml:"window"`
	NumBuckets int    `yaml:"numBuckets"`
}

// LeakyBucketConfig 定义了漏桶算法的配置。
type LeakyBucketConfig struct {
	Rate     float64 `yaml:"rate"` // 每秒速率
	Capacity int     `yaml:"capacity"`
}

// TokenBucketConfig 定义了令牌桶算法的配置。
type TokenBucketConfig struct {
	Rate     float64 `yaml:"rate"` // 每秒速率
	Capacity int     `yaml:"capacity"`
}

// CircuitBreakerConfig 定义了熔断器的配置。
type CircuitBreakerConfig struct {
	Enabled          bool   `yaml:"enabled"`
	FailureThreshold uint32 `yaml:"failureThreshold"`
	SuccessThreshold uint32 `yaml:"successThreshold"`
	Timeout          string `yaml:"timeout"` // 例如: "30s"
}

const (
	defaultAddress      = ":8080"
	defaultTokenTTL     = 60 * 60 * 24 * 8
	defaultLimit        = 100
	defaultKafkaTopic   = "nef_entity_events"
	defaultAuditColl    = "audit_events"
	defaultServiceName  = "nef_service"
	defaultShutdownWait = "10s"
)

// LoadConfig 函数从指定路径加载并解析 YAML 配置文件。
//
// 参数:
//
//	path: YAML 配置文件的路径。
//
// 返回值:
//
//	*AppConfig: 解析后的应用程序配置结构体。
//	error: 如果文件读取或解析失败，则返回错误。
func LoadConfig(path string) (*AppConfig, error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取 YAML 文件 '%s': %w", path, err)
	}
	var cfg AppConfig
	if err = yaml.Unmarshal(yamlFile, &cfg); err != nil {
		return nil, fmt.Errorf("解析 YAML 文件失败: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Load 先加载 .env 文件，再读取 YAML 配置，最后用 NEF_* 环境变量覆盖敏感字段。
func Load(path string) (*AppConfig, error) {
	// .env 文件是可选的
	_ = godotenv.Load()

	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查启动所必需的配置项。
func (c *AppConfig) Validate() error {
	if c.Auth.JwtSecret == "" {
		return fmt.Errorf("auth.jwtSecret 不能为空")
	}
	switch c.Databases.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("不支持的数据库驱动: %q", c.Databases.Driver)
	}
	return nil
}

func (c *AppConfig) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = defaultServiceName
	}
	if c.Server.Address == "" {
		c.Server.Address = defaultAddress
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = defaultShutdownWait
	}
	if c.Server.DefaultLimit <= 0 {
		c.Server.DefaultLimit = defaultLimit
	}
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = defaultTokenTTL
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = c.App.Name
	}
	if c.Databases.Driver == "" {
		c.Databases.Driver = "mysql"
	}
	if c.Events.Kafka.Topic == "" {
		c.Events.Kafka.Topic = defaultKafkaTopic
	}
	if c.Databases.MongoDB.Collection == "" {
		c.Databases.MongoDB.Collection = defaultAuditColl
	}
	if c.Discovery.Etcd.Service == "" {
		c.Discovery.Etcd.Service = c.App.Name
	}
}

// applyEnv 用环境变量覆盖配置文件中的值。
func (c *AppConfig) applyEnv() error {
	overrides := map[string]*string{
		"NEF_JWT_SECRET":               &c.Auth.JwtSecret,
		"NEF_DB_DRIVER":                &c.Databases.Driver,
		"NEF_DB_DSN":                   &c.Databases.Postgres.DSN,
		"NEF_MYSQL_ADDR":               &c.Databases.MySQL.Address,
		"NEF_MYSQL_PASSWORD":           &c.Databases.MySQL.Password,
		"NEF_FIRST_SUPERUSER":          &c.Auth.FirstSuperuser,
		"NEF_FIRST_SUPERUSER_PASSWORD": &c.Auth.FirstSuperuserPassword,
		"NEF_REDIS_ADDR":               &c.Databases.Redis.Address,
		"NEF_SERVER_ADDR":              &c.Server.Address,
		"NEF_LOG_LEVEL":                &c.Logger.Level,
	}
	for key, field := range overrides {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*field = v
		}
	}

	if v, ok := os.LookupEnv("NEF_TOKEN_TTL"); ok && v != "" {
		ttl, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("NEF_TOKEN_TTL 不是合法的整数: %w", err)
		}
		c.Auth.TokenTTL = ttl
	}
	return nil
}
