// Package app はアプリケーションの起動と依存関係のワイヤリングを提供する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/contactman/internal/auth"
	"github.com/hitoshi/contactman/internal/config"
	"github.com/hitoshi/contactman/internal/contact"
	"github.com/hitoshi/contactman/internal/handler"
	"github.com/hitoshi/contactman/internal/logger"
	"github.com/hitoshi/contactman/internal/metrics"
	"github.com/hitoshi/contactman/internal/repository"
	"github.com/hitoshi/contactman/internal/storage"
	"github.com/hitoshi/contactman/internal/webui"
)

// Init はアプリケーションの初期化を行う。
// JSON構造化ログをセットアップし、環境変数からConfigを読み込む。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, logger.ParseLevel(os.Getenv("LOG_LEVEL")))

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("table", cfg.TableName),
		slog.String("bucket", cfg.BucketName),
	)

	return runServe(cfg)
}

// runServe はAPIサーバーモードで起動する。
// AWSクライアントを初期化し、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. AWSクライアントの初期化
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.AWSRegion != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.AWSRegion))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	dynamoClient := dynamodb.NewFromConfig(awsCfg)
	s3Client := s3.NewFromConfig(awsCfg)
	presignClient := s3.NewPresignClient(s3Client)

	slog.Info("AWS clients initialized", slog.String("region", awsCfg.Region))

	// 2. トークン検証の初期化
	verifier, err := auth.NewVerifier([]byte(cfg.AuthCert))
	if err != nil {
		return fmt.Errorf("failed to initialize token verifier: %w", err)
	}

	// 3. リポジトリとストレージの初期化
	contactRepo := repository.NewDynamoContactRepo(dynamoClient, cfg.TableName, cfg.IndexName)
	attachmentStorage := storage.NewAttachmentStorage(presignClient, cfg.BucketName, cfg.SignedURLExpiration)

	// 4. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 5. ドメインサービスの初期化
	contactService := contact.NewService(contactRepo, attachmentStorage, collector)

	// 6. ルーターの構築
	deps := &handler.RouterDeps{
		Verifier:          verifier,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		Logger:            slog.Default(),

		ContactService: contactService,

		Metrics:  collector,
		Gatherer: registry,

		WebUI: webui.Handler(),
	}

	router := handler.NewRouter(deps)

	// 7. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
