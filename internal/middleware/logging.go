package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// loggedUserID は認証ミドルウェアが確定したユーザーIDを、
// 外側のログミドルウェアへ引き渡すための入れ物。
// ログミドルウェアは認証グループの外側に位置するため、
// 下流コンテキストへの書き込みだけではユーザーIDを観測できない。
type loggedUserID struct {
	value string
}

// loggedUserIDKey はリクエストコンテキストにloggedUserIDを格納するためのキー。
var loggedUserIDKey = contextKey("logged_user_id")

// statusRecorder はhttp.ResponseWriterをラップし、ステータスコードを記録する。
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

// WriteHeader はステータスコードを記録してから委譲する。
func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

// Write はデータを書き込む。WriteHeaderが未呼び出しの場合は200を記録する。
func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// NewLoggingMiddleware はリクエストのJSON構造化ログを出力するミドルウェアを返す。
// ログにはmethod、path、status、duration_ms、user_id（認証済みの場合）を含む。
func NewLoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			holder := &loggedUserID{}
			ctx := context.WithValue(r.Context(), loggedUserIDKey, holder)

			next.ServeHTTP(rec, r.WithContext(ctx))

			durationMs := float64(time.Since(start).Nanoseconds()) / float64(time.Millisecond)

			args := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.statusCode),
				slog.Float64("duration_ms", durationMs),
			}

			// 認証ミドルウェアがユーザーIDを確定した場合は追加
			userID := holder.value
			if userID == "" {
				// ログミドルウェアが認証グループの内側に置かれた場合
				if id, err := UserIDFromContext(r.Context()); err == nil {
					userID = id
				}
			}
			if userID != "" {
				args = append(args, slog.String("user_id", userID))
			}

			// ステータスコードに応じてログレベルを変更
			level := slog.LevelInfo
			if rec.statusCode >= 500 {
				level = slog.LevelError
			} else if rec.statusCode >= 400 {
				level = slog.LevelWarn
			}

			logger.Log(r.Context(), level, "http_request", args...)
		})
	}
}
