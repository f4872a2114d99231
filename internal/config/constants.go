package config

import "time"

// アプリケーション識別子
const (
	// AppName はログ・監査エントリに記録するアプリケーション名
	AppName = "nac-gateway"
)

// Valkey接続パラメータ
const (
	ValkeyConnectTimeout = 3 * time.Second
	ValkeyCommandTimeout = 1 * time.Second
	ValkeyPoolSize       = 10
	ValkeyMaxRetries     = 2
	ValkeyMinRetryDelay  = 8 * time.Millisecond
	ValkeyMaxRetryDelay  = 100 * time.Millisecond
)

// 監査ログ転送のサーキットブレーカー設定
const (
	CBName             = "audit-sink"
	CBMaxRequests      = 1
	CBInterval         = 60 * time.Second
	CBTimeout          = 30 * time.Second
	CBFailureThreshold = 5

	// AuditSinkTimeout は転送リクエストのタイムアウト
	AuditSinkTimeout = 3 * time.Second
)
