package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/contactman/internal/metrics"
	"github.com/hitoshi/contactman/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Verifier          middleware.TokenVerifier
	CORSAllowedOrigin string
	Logger            *slog.Logger

	// 連絡先
	ContactService ContactServiceInterface

	// メトリクス
	Metrics  middleware.HTTPMetricsRecorder
	Gatherer prometheus.Gatherer

	// ブラウザクライアント（nilの場合はルートを公開しない）
	WebUI http.Handler
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORSMiddleware → RecoveryMiddleware → LoggingMiddleware → MetricsMiddleware
//
// ヘルスチェック、メトリクス、ブラウザクライアントは認証の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// CORS ミドルウェアを最上位に適用（全ルートに効く）
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewRecoveryMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}

	contactHandler := NewContactHandler(deps.ContactService)

	// --- 認証不要のルート ---

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	if deps.WebUI != nil {
		r.Handle("/", deps.WebUI)
	}

	// --- 認証が必要なルート ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.Verifier))

		r.Route("/api/contacts", func(r chi.Router) {
			r.Get("/", contactHandler.ListContacts)
			r.Post("/", contactHandler.CreateContact)

			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", contactHandler.UpdateContact)
				r.Delete("/", contactHandler.DeleteContact)
				r.Post("/upload-url", contactHandler.GenerateUploadURL)
			})
		})
	})

	return r
}
