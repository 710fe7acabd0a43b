package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cashlog/config"
	"cashlog/database"
	"cashlog/logging"
	"cashlog/middleware"
	"cashlog/repository"
	"cashlog/router"
	"cashlog/service"

	"github.com/joho/godotenv"
)

// @title CashLog API
// @version 1.0
// @description 预算与消费记录 API，附带规则助手
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const version = "1.0.0"

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 8080 或 :8080")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Println("cashlog v" + version)
		return
	}

	// .env 可选，存在时写入环境变量供配置读取
	envErr := godotenv.Load()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logging.SetDefault(logger)
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		logger.Warn("读取 .env 失败", logging.FieldError, envErr)
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
	}
	config.PrintConfig(logger.Logger)

	if err := database.Init(cfg, logger); err != nil {
		logger.Error("数据库初始化失败", logging.FieldError, err)
		os.Exit(1)
	}

	middleware.InitJWT(cfg)

	notifiers, closeNotifiers := buildNotifiers(cfg, logger)
	defer closeNotifiers()
	alerter := service.NewAlerter(
		repository.NewBudgetRepository(database.DB),
		repository.NewUserRepository(database.DB),
		logger.WithComponent(logging.ComponentAlert),
		notifiers...,
	)

	srv := &http.Server{
		Addr:           cfg.Server.Port,
		Handler:        router.SetupRouter(cfg, logger, alerter),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("服务已启动",
			"addr", cfg.Server.Port,
			"swagger", fmt.Sprintf("http://localhost%s/swagger/index.html", cfg.Server.Port),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("服务器启动失败", logging.FieldError, err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("收到退出信号，正在关闭")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("服务关闭失败", logging.FieldError, err)
	}
	if sqlDB, err := database.DB.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info("服务已关闭")
}

// buildNotifiers 按配置启用邮件和消息队列提醒
func buildNotifiers(cfg *config.Config, logger *logging.Logger) ([]service.Notifier, func()) {
	var notifiers []service.Notifier
	closers := []func() error{}

	if cfg.Email.Enabled {
		notifiers = append(notifiers, service.NewEmailService(&cfg.Email, cfg.Assistant.Currency))
	}

	if cfg.AMQP.URL != "" {
		publisher, err := service.NewAMQPPublisher(cfg.AMQP, logger.WithComponent(logging.ComponentAMQP))
		if err != nil {
			// 消息队列不可用时仍然启动，只是不发布预算事件
			logger.Warn("连接消息队列失败", logging.FieldError, err)
		} else {
			notifiers = append(notifiers, publisher)
			closers = append(closers, publisher.Close)
		}
	}

	return notifiers, func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Warn("关闭提醒通道失败", logging.FieldError, err)
			}
		}
	}
}
