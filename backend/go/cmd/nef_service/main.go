package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"NEF_Emulator/backend/go/internal/config"
	"NEF_Emulator/backend/go/internal/database/kafka"
	"NEF_Emulator/backend/go/internal/database/mongo"
	"NEF_Emulator/backend/go/internal/database/mysql"
	"NEF_Emulator/backend/go/internal/database/postgres"
	"NEF_Emulator/backend/go/internal/database/redis"
	"NEF_Emulator/backend/go/internal/discovery/etcd"
	"NEF_Emulator/backend/go/internal/nef_service/api"
	"NEF_Emulator/backend/go/internal/nef_service/service"
	"NEF_Emulator/backend/go/internal/nef_service/store"
	"NEF_Emulator/backend/go/pkg/circuitbreaker"
	nethttp "NEF_Emulator/backend/go/pkg/http"
	"NEF_Emulator/backend/go/pkg/logger"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	defaultConfigPath = "configs/config.yaml"
	memoryCacheSize   = 1024
	defaultCacheTTL   = 5 * time.Minute
)

func main() {
	// Load configuration
	path := os.Getenv("NEF_CONFIG")
	if path == "" {
		path = defaultConfigPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Init(logger.ParseLevel(cfg.Logger.Level))
	appLogger := logger.New(cfg.App.Name, "", "")
	appLogger.Info("Logger initialized")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connection
	db, dbCheck, err := openDatabase(ctx, cfg)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	appLogger.Info("Database connection established (" + cfg.Databases.Driver + ")")

	nefStore := store.NewStore(db)
	if err := nefStore.AutoMigrate(); err != nil {
		appLogger.Fatal(err.Error())
	}
	appLogger.Info("Database migration completed")

	checks := map[string]api.HealthCheck{"database": dbCheck}
	opts := []service.Option{
		service.WithLogger(appLogger),
		service.WithDefaultLimit(cfg.Server.DefaultLimit),
	}

	cache, err := buildPathCache(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	opts = append(opts, service.WithPathCache(cache))
	if cfg.Databases.Redis.Enabled {
		checks["redis"] = redis.HealthCheck
	}

	sinks, closers, err := buildEventSinks(ctx, cfg, appLogger, &opts)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	if cfg.Databases.MongoDB.Enabled {
		checks["mongodb"] = mongo.HealthCheck
	}
	if len(sinks) > 0 {
		opts = append(opts, service.WithEventSink(sinks))
	}

	// Initialize dependencies (Store -> Service -> Handler)
	nefService := service.NewService(nefStore, cfg.Auth, opts...)
	if err := nefService.EnsureFirstSuperuser(ctx); err != nil {
		appLogger.Fatal(err.Error())
	}
	apiHandler := api.NewHandler(nefService)
	router := api.SetupRouter(apiHandler, cfg.App.Name, checks)
	appLogger.Info("Router setup completed")

	srv, err := nethttp.NewServer(cfg, router)
	if err != nil {
		appLogger.Fatal(err.Error())
	}

	serveErr := make(chan error, 1)
	go func() {
		appLogger.Info("Starting server on " + srv.Addr())
		serveErr <- srv.ListenAndServe()
	}()

	registrar := register(ctx, cfg, appLogger)

	select {
	case err := <-serveErr:
		if err != nil {
			appLogger.Error(err.Error())
		}
	case <-ctx.Done():
		appLogger.Info("Shutdown signal received")
	}

	wait, err := time.ParseDuration(cfg.Server.ShutdownTimeout)
	if err != nil {
		wait = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	if registrar != nil {
		if err := registrar.Deregister(shutdownCtx); err != nil {
			appLogger.Warn("etcd deregister failed: " + err.Error())
		}
		_ = registrar.Close()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server shutdown failed: " + err.Error())
	}
	for _, closeFn := range closers {
		closeFn(shutdownCtx)
	}
	closeDatabase(cfg, db)
	appLogger.Info("Server stopped")
}

// openDatabase 根据 databases.driver 打开 MySQL 或 PostgreSQL，并返回对应的健康检查函数。
func openDatabase(ctx context.Context, cfg *config.AppConfig) (*gorm.DB, api.HealthCheck, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}

	switch cfg.Databases.Driver {
	case "postgres":
		db, err := postgres.ConnectWithRetry(ctx, &cfg.Databases.Postgres, gormCfg)
		if err != nil {
			return nil, nil, err
		}
		return db, func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}, nil
	case "mysql":
		db, err := mysql.GetDB(&cfg.Databases.MySQL, gormCfg)
		if err != nil {
			return nil, nil, err
		}
		return db, mysql.HealthCheck, nil
	default:
		return nil, nil, errors.New("unsupported database driver: " + cfg.Databases.Driver)
	}
}

func closeDatabase(cfg *config.AppConfig, db *gorm.DB) {
	if cfg.Databases.Driver == "mysql" {
		_ = mysql.Close()
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// buildPathCache 启用 Redis 时使用断路器保护的 Redis 缓存，否则使用进程内 LRU。
func buildPathCache(ctx context.Context, cfg *config.AppConfig, l *logger.Logger) (service.PathCache, error) {
	ttl := defaultCacheTTL
	if cfg.Databases.Redis.TTL != "" {
		d, err := time.ParseDuration(cfg.Databases.Redis.TTL)
		if err != nil {
			return nil, errors.New("invalid databases.redis.ttl: " + err.Error())
		}
		ttl = d
	}

	if !cfg.Databases.Redis.Enabled {
		return service.NewMemoryPathCache(memoryCacheSize, 0, ttl)
	}

	rdb, err := redis.GetClient(ctx, &cfg.Databases.Redis)
	if err != nil {
		return nil, err
	}
	breaker := circuitbreaker.New(5, 2, 30*time.Second,
		circuitbreaker.WithStateChange(func(from, to circuitbreaker.State) {
			l.Warn("path cache breaker: " + from.String() + " -> " + to.String())
		}))
	l.Info("Redis path cache enabled")
	return service.NewBreakerPathCache(redis.NewPathCache(rdb, ttl), breaker), nil
}

// buildEventSinks 按配置创建 Kafka 发布者和 MongoDB 审计存储。
// 审计存储同时作为历史查询来源注册到 opts 中。
func buildEventSinks(ctx context.Context, cfg *config.AppConfig, l *logger.Logger, opts *[]service.Option) (service.MultiSink, []func(context.Context), error) {
	var (
		sinks   service.MultiSink
		closers []func(context.Context)
	)

	if cfg.Events.Kafka.Enabled {
		if err := kafka.EnsureTopic(&cfg.Events.Kafka); err != nil {
			l.Warn("kafka topic check failed: " + err.Error())
		}
		pub, err := kafka.NewEventPublisher(&cfg.Events.Kafka)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, pub)
		closers = append(closers, func(context.Context) { _ = pub.Close() })
		l.Info("Kafka event publisher enabled, topic " + cfg.Events.Kafka.Topic)
	}

	if cfg.Databases.MongoDB.Enabled {
		client, err := mongo.GetClient(&cfg.Databases.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		audit, err := mongo.NewAuditStore(ctx, client, cfg.Databases.MongoDB.Database, cfg.Databases.MongoDB.Collection)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, audit)
		*opts = append(*opts, service.WithAuditReader(audit))
		closers = append(closers, func(ctx context.Context) { _ = mongo.Close(ctx) })
		l.Info("MongoDB audit trail enabled")
	}

	return sinks, closers, nil
}

// register 在 etcd 中注册服务地址。注册失败不影响服务运行。
func register(ctx context.Context, cfg *config.AppConfig, l *logger.Logger) *etcd.Registrar {
	etcdCfg := cfg.Discovery.Etcd
	if !etcdCfg.Enabled {
		return nil
	}
	registrar, err := etcd.NewRegistrar(etcdCfg.Endpoints)
	if err != nil {
		l.Warn("etcd client init failed: " + err.Error())
		return nil
	}
	addr := etcdCfg.Advertise
	if addr == "" {
		addr = cfg.Server.Address
	}
	if err := registrar.Register(ctx, etcdCfg.Service, addr, etcdCfg.TTL); err != nil {
		l.Warn("etcd register failed: " + err.Error())
		_ = registrar.Close()
		return nil
	}
	l.Info("Registered " + etcd.ServiceKey(etcdCfg.Service, addr))
	return registrar
}
