package acct

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/oyaguma3/campus-nac-poc/internal/session"
)

// ErrEmptySessionID はセッションIDが空の場合のエラー
var ErrEmptySessionID = errors.New("session id is empty")

// Ledger は追記専用のアカウンティング台帳。
// セッションレジストリの生存状態とは疎結合であり、
// 存在しないセッションのレコードも受理する（退去後の遅延Stop等）。
type Ledger struct {
	mu       sync.Mutex
	records  []Record
	registry session.Registry // LastActivity更新用（nil可）
	now      func() time.Time
}

// NewLedger は新しいLedgerを生成する。
// registryが非nilの場合、レコード受理時に該当セッションのLastActivityを更新する。
func NewLedger(registry session.Registry) *Ledger {
	return &Ledger{
		registry: registry,
		now:      time.Now,
	}
}

// Record はアカウンティングイベントを記録する。
// TotalOctetsは常に入出力の合計として計算され、外部からは与えられない。
// セッションIDが空の場合のみ失敗する。
func (l *Ledger) Record(ctx context.Context, sessionID, subjectID string, eventType EventType, sessionTime, inputOctets, outputOctets int64) (*Record, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}

	now := l.now().UTC()
	rec := Record{
		SessionID:    sessionID,
		SubjectID:    subjectID,
		EventType:    eventType,
		Timestamp:    now,
		SessionTime:  sessionTime,
		InputOctets:  inputOctets,
		OutputOctets: outputOctets,
		TotalOctets:  inputOctets + outputOctets,
	}

	l.mu.Lock()
	l.records = append(l.records, rec)
	l.mu.Unlock()

	// アクティブセッションのLastActivityを更新（退去済みは無視）
	if l.registry != nil {
		if err := l.registry.Touch(ctx, sessionID, now); err != nil && !errors.Is(err, session.ErrSessionNotFound) {
			slog.Warn("failed to touch session",
				"event_id", "ACCT_TOUCH_ERR",
				"session_id", sessionID,
				"error", err.Error(),
			)
		}
	}

	return &rec, nil
}

// Records は指定セッションのレコードを記録順で返す。
// sessionIDが空の場合は全レコードを返す。
func (l *Ledger) Records(sessionID string) []Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := make([]Record, 0, len(l.records))
	for _, r := range l.records {
		if sessionID != "" && r.SessionID != sessionID {
			continue
		}
		result = append(result, r)
	}
	return result
}
