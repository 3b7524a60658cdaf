package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ssq-predictor/internal/api"
	"ssq-predictor/internal/cache"
	"ssq-predictor/internal/config"
	"ssq-predictor/internal/database"
	"ssq-predictor/internal/logger"
	"ssq-predictor/internal/predictor"
	"ssq-predictor/internal/server"
	"ssq-predictor/internal/service"
	"ssq-predictor/internal/telegram"
)

// App 应用程序主结构
type App struct {
	config       *config.Config
	mysql        *database.MySQLDB
	historyCache *cache.HistoryCache
	apiClient    *api.Client
	registry     *predictor.Registry
	svc          *service.Service
	httpServer   *http.Server
	telegramBot  *telegram.Bot
}

// NewApp 创建应用程序实例
func NewApp(configPath string) (*App, error) {
	// 加载配置
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %v", err)
	}

	// 初始化日志
	logger.InitLogger(cfg.App.LogLevel)
	fmt.Println("🚀 启动双色球预测服务...")

	// 初始化数据库（可选）
	var mysql *database.MySQLDB
	if cfg.Database.Enabled() {
		mysql, err = database.NewMySQLDB(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %v", err)
		}
		fmt.Println("✅ 数据库连接成功")
	} else {
		fmt.Println("ℹ️  未配置数据库，预测记录不会持久化")
	}

	// 初始化开奖历史缓存
	historyCache := cache.NewHistoryCache(cfg.App.CacheTTL)
	fmt.Println("✅ 缓存系统初始化完成")

	// 初始化API客户端与算法注册表
	apiClient := api.NewClient(&cfg.API)
	registry := predictor.NewRegistry()

	// 组装预测服务
	var store service.PredictionStore
	if mysql != nil {
		store = mysql
	}
	svc := service.New(apiClient, historyCache, registry, store)

	// 初始化HTTP服务
	httpServer := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: server.New(svc, &cfg.App).Engine(),
	}

	// 初始化Telegram机器人（可选）
	var telegramBot *telegram.Bot
	if cfg.Telegram.Enabled() {
		telegramBot, err = telegram.NewBot(&cfg.Telegram, svc, cfg.App.RecommendedDatasetSize)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize telegram bot: %v", err)
		}
		fmt.Println("✅ Telegram机器人连接成功")
	}

	app := &App{
		config:       cfg,
		mysql:        mysql,
		historyCache: historyCache,
		apiClient:    apiClient,
		registry:     registry,
		svc:          svc,
		httpServer:   httpServer,
		telegramBot:  telegramBot,
	}

	fmt.Println("🎯 应用程序初始化完成")
	return app, nil
}

// Start 启动应用程序
func (a *App) Start() error {
	fmt.Println("🔄 启动所有服务...")

	// 检查数据源可用性（失败不阻塞启动，算法层有兜底）
	if err := a.apiClient.HealthCheck(); err != nil {
		logger.Warnf("Data source unavailable at startup: %v", err)
		fmt.Println("⚠️  开奖数据源暂不可用，预测将返回兜底结果")
	}

	// 启动Telegram机器人
	if a.telegramBot != nil {
		a.telegramBot.Start()
	}

	// 启动HTTP服务
	go func() {
		logger.Infof("HTTP server listening on %s", a.config.Server.ListenAddr)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("HTTP server failed: %v", err)
		}
	}()

	fmt.Println("✅ 所有服务启动完成")
	fmt.Printf("📡 HTTP服务监听: %s\n", a.config.Server.ListenAddr)
	fmt.Println("💡 按 Ctrl+C 停止程序")
	fmt.Println("")
	return nil
}

// Stop 停止应用程序
func (a *App) Stop() error {
	fmt.Println("🛑 正在停止应用程序...")

	// 优雅关闭HTTP服务
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logger.Errorf("Failed to shutdown HTTP server: %v", err)
	}

	// 停止Telegram机器人
	if a.telegramBot != nil {
		a.telegramBot.Stop()
	}

	// 停止缓存清理协程
	a.historyCache.Close()

	// 关闭数据库连接
	if a.mysql != nil {
		if err := a.mysql.Close(); err != nil {
			logger.Errorf("Failed to close database: %v", err)
		}
	}

	fmt.Println("✅ 应用程序已安全停止")
	return nil
}

func main() {
	// 配置文件路径
	configPath := "configs/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	// 创建应用程序实例
	app, err := NewApp(configPath)
	if err != nil {
		fmt.Printf("❌ 应用初始化失败: %v\n", err)
		os.Exit(1)
	}

	// 启动应用程序
	if err := app.Start(); err != nil {
		fmt.Printf("❌ 应用启动失败: %v\n", err)
		os.Exit(1)
	}

	// 设置信号处理
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// 等待停止信号
	<-sigChan

	// 优雅关闭
	if err := app.Stop(); err != nil {
		fmt.Printf("❌ 关闭时出错: %v\n", err)
		os.Exit(1)
	}
}
