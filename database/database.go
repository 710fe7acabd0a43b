package database

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cashlog/config"
	"cashlog/logging"
	"cashlog/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// 支持的驱动
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DSN 按驱动拼接连接串
func DSN(cfg config.DatabaseConfig) (string, error) {
	switch strings.ToLower(cfg.Driver) {
	case DriverMySQL, "":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
			cfg.Username,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
		), nil
	case DriverPostgres:
		sslmode := cfg.SSLMode
		if sslmode == "" {
			sslmode = "disable"
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=Local",
			cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.DBName, sslmode), nil
	case DriverSQLite:
		if cfg.Path == "" {
			return "", fmt.Errorf("sqlite 需要配置 database.path")
		}
		return cfg.Path, nil
	default:
		return "", fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}
}

// Dialector 按驱动创建 gorm 方言
func Dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(cfg.Driver) {
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn + "?_pragma=foreign_keys(1)"), nil
	default:
		return mysql.Open(dsn), nil
	}
}

// LogLevel 解析 gorm 日志级别，未知值按 warn 处理
func LogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func newGormLogger(l *logging.Logger, level string) logger.Interface {
	return logger.New(
		slog.NewLogLogger(l.Handler(), slog.LevelInfo),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  LogLevel(level),
			IgnoreRecordNotFoundError: true,
		},
	)
}

// Open 建立连接、配置连接池并自动迁移
func Open(cfg config.DatabaseConfig, l *logging.Logger) (*gorm.DB, error) {
	if strings.EqualFold(cfg.Driver, DriverSQLite) && cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("创建数据目录失败: %w", err)
		}
	}

	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(l, cfg.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(cfg.Driver, DriverSQLite) {
		// sqlite 单连接，:memory: 库也依赖这一点
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("自动迁移失败: %w", err)
	}
	return db, nil
}

// Migrate 创建或更新表结构
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Budget{},
		&models.Expense{},
	)
}

// Init 初始化全局连接
func Init(cfg *config.Config, l *logging.Logger) error {
	db, err := Open(cfg.Database, l.WithComponent(logging.ComponentStorage))
	if err != nil {
		return err
	}
	DB = db
	l.Info("数据库初始化成功", "driver", cfg.Database.Driver)
	return nil
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}
