// Package audit は認可・管理操作の追記専用監査ログを提供する。
package audit

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// 監査アクション
const (
	// ActionNetworkAuthorized はネットワークアクセス許可
	ActionNetworkAuthorized = "NETWORK_AUTHORIZED"
	// ActionNetworkAccessRejected はネットワークアクセス拒否
	ActionNetworkAccessRejected = "NETWORK_ACCESS_REJECTED"
	// ActionSessionCreated はセッション作成
	ActionSessionCreated = "SESSION_CREATED"
	// ActionSessionTerminated はセッション切断
	ActionSessionTerminated = "SESSION_TERMINATED"
	// ActionCoADisconnect はCoAによる強制切断要求
	ActionCoADisconnect = "COA_DISCONNECT"
	// ActionAccounting はアカウンティングイベント受理
	ActionAccounting = "ACCOUNTING_RECORDED"
)

// Entry は監査ログエントリを表す。追記後は変更されない。
type Entry struct {
	Time     string         `json:"time"`               // RFC3339形式のタイムスタンプ
	Level    string         `json:"level"`              // ログレベル（常に"INFO"）
	App      string         `json:"app"`                // アプリケーション名
	EventID  string         `json:"event_id"`           // イベントID（常に"AUDIT_LOG"）
	Subject  string         `json:"subject"`            // 操作主体のsubjectID
	Action   string         `json:"action"`             // 操作種別
	Target   string         `json:"target,omitempty"`   // 操作対象（セッションIDや他subject）
	Source   string         `json:"source"`             // 発生源
	Metadata map[string]any `json:"metadata,omitempty"` // 追加情報
}

// Sink は監査エントリの転送先を表す。
type Sink interface {
	// Send はエントリを転送する。失敗してもAppendの成否には影響しない。
	Send(entry Entry) error
}

// Log は追記専用の監査ログ。
// JSONL形式でwriterに書き出し、照会用にメモリ上にも保持する。
// Sinkが設定されている場合は非同期で転送する（write-and-forget）。
type Log struct {
	mu      sync.Mutex
	writer  io.Writer
	entries []Entry
	app     string
	source  string
	sink    Sink
	now     func() time.Time
}

// NewLog は標準出力に書き出すLogを生成する。
func NewLog(app, source string) *Log {
	return NewLogWithWriter(os.Stdout, app, source)
}

// NewLogWithWriter は指定されたWriterを使用するLogを生成する。
func NewLogWithWriter(w io.Writer, app, source string) *Log {
	return &Log{
		writer: w,
		app:    app,
		source: source,
		now:    time.Now,
	}
}

// SetSink は監査エントリの転送先を設定する。
func (l *Log) SetSink(sink Sink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sink = sink
}

// Append は監査エントリを追記する。失敗しない。
func (l *Log) Append(subject, action, target string, metadata map[string]any) Entry {
	l.mu.Lock()
	entry := Entry{
		Time:     l.now().UTC().Format(time.RFC3339),
		Level:    "INFO",
		App:      l.app,
		EventID:  "AUDIT_LOG",
		Subject:  subject,
		Action:   action,
		Target:   target,
		Source:   l.source,
		Metadata: metadata,
	}
	l.entries = append(l.entries, entry)
	sink := l.sink

	if data, err := json.Marshal(entry); err == nil {
		_, _ = l.writer.Write(append(data, '\n'))
	}
	l.mu.Unlock()

	if sink != nil {
		go func() { _ = sink.Send(entry) }()
	}
	return entry
}

// Query はsubjectで絞り込んだ監査エントリのスナップショットを返す。
// subjectが空の場合は全エントリを返す。
func (l *Log) Query(subject string) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		if subject != "" && e.Subject != subject {
			continue
		}
		result = append(result, e)
	}
	return result
}

// Len は記録済みエントリ数を返す。
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
