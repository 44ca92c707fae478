// Package logging 基于 zerolog 构建结构化日志。
//
// 组件按值持有 zerolog.Logger，并派生组件字段：
//
//	logger := logging.New(logging.Config{Level: "debug", Format: "console"})
//	svcLog := logger.With().Str("component", "interaction").Logger()
//
// 库代码默认使用 zerolog.Nop()，由 cmd 层注入真实 logger。
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config 是日志配置。
type Config struct {
	// Level: trace, debug, info, warn, error, disabled；默认 info
	Level string `yaml:"level"`
	// Format: json 或 console；默认 json
	Format string `yaml:"format"`
	// Caller 输出调用位置
	Caller bool `yaml:"caller"`
	// NoTimestamp 关闭时间戳（测试输出稳定）
	NoTimestamp bool `yaml:"no_timestamp"`

	Output io.Writer `yaml:"-"`
}

// New 按配置构建 logger。
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, FormatConsole) {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	ctx := zerolog.New(out).Level(ParseLevel(cfg.Level)).With()
	if !cfg.NoTimestamp {
		ctx = ctx.Timestamp()
	}
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// Nop 返回丢弃所有输出的 logger。
func Nop() zerolog.Logger { return zerolog.Nop() }

// Component 派生带 component 字段的子 logger。
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

// ParseLevel 解析日志级别，无法识别时返回 info。
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
