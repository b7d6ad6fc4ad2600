package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init 初始化全局 zerolog 日志。
// debug 模式使用彩色控制台输出，其余模式输出 JSON，便于日志采集。
func Init(mode, level string) {
	InitWithWriter(mode, level, os.Stderr)
}

// InitWithWriter 与 Init 相同，但允许指定输出目标。
func InitWithWriter(mode, level string, out io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339

	if mode == "debug" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}).
			With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	}

	zerolog.SetGlobalLevel(ParseLevel(level))
}

// ParseLevel 解析日志级别，无法识别时回退到 info。
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
