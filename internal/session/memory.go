package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryRegistry はRegistryのインメモリ実装。
// 単一のmutexで全操作を直列化する。
type memoryRegistry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	order    []string // 登録順のセッションID
	now      func() time.Time
}

// NewMemoryRegistry は新しいインメモリRegistryを生成する。
func NewMemoryRegistry() Registry {
	return &memoryRegistry{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// newSessionID はセッションIDを生成する。
// 形式: sess_{subject}_{uuid}
func newSessionID(subjectID string) string {
	return fmt.Sprintf("sess_%s_%s", subjectID, uuid.NewString())
}

// Create は新しいセッションを生成して登録する。
func (r *memoryRegistry) Create(_ context.Context, params CreateParams) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := newSessionID(params.SubjectID)
	if _, exists := r.sessions[id]; exists {
		// ID衝突は不変条件違反
		panic(fmt.Sprintf("session id collision: %s", id))
	}

	now := r.now()
	sess := &Session{
		SessionID:    id,
		SubjectID:    params.SubjectID,
		VLAN:         params.VLAN,
		Bandwidth:    params.Bandwidth,
		AccessLevel:  params.AccessLevel,
		IPAddress:    params.IPAddress,
		MACAddress:   params.MACAddress,
		StartTime:    now,
		LastActivity: now,
		Status:       StatusActive,
	}

	r.sessions[id] = sess
	r.order = append(r.order, id)

	cp := *sess
	return &cp, nil
}

// List は要求元が閲覧可能なセッションを登録順で返す。
func (r *memoryRegistry) List(_ context.Context, requester Principal) ([]*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*Session, 0, len(r.order))
	for _, id := range r.order {
		sess, ok := r.sessions[id]
		if !ok {
			continue
		}
		if !requester.Admin && sess.SubjectID != requester.SubjectID {
			continue
		}
		cp := *sess
		result = append(result, &cp)
	}
	return result, nil
}

// Terminate はセッションを切断してレジストリから退去させる。
func (r *memoryRegistry) Terminate(_ context.Context, requester Principal, sessionID string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !requester.Admin && sess.SubjectID != requester.SubjectID {
		return nil, ErrForbidden
	}

	end := r.now()
	terminated := *sess
	terminated.Status = StatusTerminated
	terminated.EndTime = &end

	delete(r.sessions, sessionID)
	for i, id := range r.order {
		if id == sessionID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return &terminated, nil
}

// Touch はLastActivityを更新する。
func (r *memoryRegistry) Touch(_ context.Context, sessionID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	sess.LastActivity = at
	return nil
}
