// Package main はNACゲートウェイのエントリーポイント。
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/oyaguma3/campus-nac-poc/internal/acct"
	"github.com/oyaguma3/campus-nac-poc/internal/audit"
	"github.com/oyaguma3/campus-nac-poc/internal/authz"
	"github.com/oyaguma3/campus-nac-poc/internal/config"
	"github.com/oyaguma3/campus-nac-poc/internal/handler"
	"github.com/oyaguma3/campus-nac-poc/internal/identity"
	"github.com/oyaguma3/campus-nac-poc/internal/policy"
	"github.com/oyaguma3/campus-nac-poc/internal/server"
	"github.com/oyaguma3/campus-nac-poc/internal/session"
	"github.com/oyaguma3/campus-nac-poc/internal/store"
)

func main() {
	// 1. 設定読み込み
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// 2. ロガー初期化
	initLogger(cfg)

	slog.Info("starting nac-gateway",
		"listen_addr", cfg.ListenAddr,
		"log_level", cfg.LogLevel,
		"session_store", cfg.SessionStore,
	)

	// 3. ポリシーカタログ構築
	catalogParams, err := cfg.CatalogParams()
	if err != nil {
		slog.Error("failed to build policy catalog", "error", err)
		os.Exit(1)
	}
	catalog := policy.NewCatalog(catalogParams)

	// 4. セッションレジストリ選択
	var registry session.Registry
	if cfg.UseValkey() {
		valkeyClient, err := store.NewValkeyClient(cfg)
		if err != nil {
			slog.Error("failed to connect to Valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		slog.Info("connected to Valkey", "addr", cfg.ValkeyAddr())
		registry = store.NewValkeyRegistry(valkeyClient)
	} else {
		registry = session.NewMemoryRegistry()
	}

	// 5. 依存オブジェクト生成
	auditLog := audit.NewLog(config.AppName, "nac-gateway")
	if cfg.AuditSinkURL != "" {
		auditLog.SetSink(audit.NewHTTPSink(cfg.AuditSinkURL))
		slog.Info("audit sink enabled", "url", cfg.AuditSinkURL)
	}
	ledger := acct.NewLedger(registry)
	authzService := authz.NewService(catalog, registry, auditLog)
	provider := identity.NewJWTProvider()

	// ハンドラー
	nacHandler := handler.NewNACHandler(provider, authzService, registry, ledger, auditLog, cfg)

	// 6. サーバー起動
	srv := server.New(cfg, nacHandler)

	// 7. Graceful Shutdown設定
	go func() {
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// 8. シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}

// initLogger はロガーを初期化する。
func initLogger(cfg *config.Config) {
	level := slog.LevelInfo
	switch strings.ToUpper(cfg.LogLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	h := slog.NewJSONHandler(os.Stdout, opts)
	logger := slog.New(h).With("app", config.AppName)
	slog.SetDefault(logger)
}
