// Package logger はJSON構造化ログのセットアップを提供する。
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel はログレベル文字列をslog.Levelに変換する。
// 未知の値の場合はInfoを返す。
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup は指定レベルのJSON構造化ログ出力のslog.Loggerを生成して返す。
func Setup(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

// SetupDefault はJSON構造化ログ出力をグローバルロガーとして設定する。
// writerがnilの場合はos.Stdoutに出力する。
func SetupDefault(w io.Writer, level slog.Level) {
	if w == nil {
		w = os.Stdout
	}
	slog.SetDefault(Setup(w, level))
}
