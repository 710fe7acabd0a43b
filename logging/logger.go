package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger 带组件名的结构化日志
type Logger struct {
	*slog.Logger
	base      *slog.Logger
	component string
}

// Config 日志配置
type Config struct {
	Level     string
	Format    string // text | json
	Component string
	Output    io.Writer
}

// New 创建日志实例
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	component := cfg.Component
	if component == "" {
		component = ComponentApp
	}
	base := slog.New(handler)
	return &Logger{
		Logger:    base.With(FieldComponent, component),
		base:      base,
		component: component,
	}
}

// ParseLevel 解析日志级别，未知值按 info 处理
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithComponent 返回指定组件名的子日志
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    l.base.With(FieldComponent, component),
		base:      l.base,
		component: component,
	}
}

// Component 组件名
func (l *Logger) Component() string {
	return l.component
}

// SetDefault 设置为全局默认日志
func SetDefault(l *Logger) {
	slog.SetDefault(l.Logger)
}

// Discard 丢弃所有输出，测试使用
func Discard() *Logger {
	return New(Config{Output: io.Discard})
}
