package session

import (
	"context"
	"time"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/registry.go -package=mocks

// Registry はアクティブセッションの管理インターフェース。
// インメモリ実装のほか、Valkey等の永続ストア実装に差し替え可能。
// 実装はCreate/Terminate同士の直列化と、Listの一貫したスナップショット読みを保証する。
type Registry interface {
	// Create は新しいセッションを生成して登録する。
	// セッションIDはレジストリの生存期間を通じて一意であること。
	Create(ctx context.Context, params CreateParams) (*Session, error)
	// List は要求元が閲覧可能なセッションを登録順（古い順）で返す。
	// Adminは全セッション、それ以外は自身のセッションのみ。
	List(ctx context.Context, requester Principal) ([]*Session, error)
	// Terminate はセッションを切断してレジストリから退去させ、切断済みレコードを返す。
	// 存在しない場合はErrSessionNotFound、所有者でもAdminでもない場合はErrForbidden。
	Terminate(ctx context.Context, requester Principal, sessionID string) (*Session, error)
	// Touch はアカウンティングイベント受信時にLastActivityを更新する。
	// セッションが存在しない場合はErrSessionNotFound。
	Touch(ctx context.Context, sessionID string, at time.Time) error
}
