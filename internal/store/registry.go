package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oyaguma3/campus-nac-poc/internal/session"
)

// valkeyRegistry はsession.RegistryのValkey実装。
// キー構成:
//
//	sess:{id}        → セッションハッシュ
//	sess:order       → 登録順リスト
//	idx:user:{subject} → subject別セッションIDセット
type valkeyRegistry struct {
	vc  *ValkeyClient
	now func() time.Time
}

// NewValkeyRegistry はValkeyを使用するRegistryを生成する。
func NewValkeyRegistry(vc *ValkeyClient) session.Registry {
	return &valkeyRegistry{vc: vc, now: time.Now}
}

// Create は新しいセッションを生成して登録する。
func (r *valkeyRegistry) Create(ctx context.Context, params session.CreateParams) (*session.Session, error) {
	id := fmt.Sprintf("sess_%s_%s", params.SubjectID, uuid.NewString())
	now := r.now().UTC().Truncate(time.Second)

	sess := &session.Session{
		SessionID:    id,
		SubjectID:    params.SubjectID,
		VLAN:         params.VLAN,
		Bandwidth:    params.Bandwidth,
		AccessLevel:  params.AccessLevel,
		IPAddress:    params.IPAddress,
		MACAddress:   params.MACAddress,
		StartTime:    now,
		LastActivity: now,
		Status:       session.StatusActive,
	}

	pipe := r.vc.Client().TxPipeline()
	pipe.HSet(ctx, sessionKey(id), sessionToFields(sess))
	pipe.RPush(ctx, KeySessionOrder, id)
	pipe.SAdd(ctx, userIndexKey(params.SubjectID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}

	return sess, nil
}

// List は要求元が閲覧可能なセッションを登録順で返す。
func (r *valkeyRegistry) List(ctx context.Context, requester session.Principal) ([]*session.Session, error) {
	ids, err := r.vc.Client().LRange(ctx, KeySessionOrder, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}

	result := make([]*session.Session, 0, len(ids))
	for _, id := range ids {
		m, err := r.vc.Client().HGetAll(ctx, sessionKey(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
		}
		if len(m) == 0 {
			// orderリストに残った退去済みID
			continue
		}
		sess := sessionFromFields(id, m)
		if !requester.Admin && sess.SubjectID != requester.SubjectID {
			continue
		}
		result = append(result, sess)
	}
	return result, nil
}

// Terminate はセッションを切断してレジストリから退去させる。
func (r *valkeyRegistry) Terminate(ctx context.Context, requester session.Principal, sessionID string) (*session.Session, error) {
	m, err := r.vc.Client().HGetAll(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	if len(m) == 0 {
		return nil, session.ErrSessionNotFound
	}

	sess := sessionFromFields(sessionID, m)
	if !requester.Admin && sess.SubjectID != requester.SubjectID {
		return nil, session.ErrForbidden
	}

	pipe := r.vc.Client().TxPipeline()
	pipe.Del(ctx, sessionKey(sessionID))
	pipe.LRem(ctx, KeySessionOrder, 1, sessionID)
	pipe.SRem(ctx, userIndexKey(sess.SubjectID), sessionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}

	end := r.now().UTC().Truncate(time.Second)
	sess.Status = session.StatusTerminated
	sess.EndTime = &end
	return sess, nil
}

// Touch はLastActivityを更新する。
func (r *valkeyRegistry) Touch(ctx context.Context, sessionID string, at time.Time) error {
	n, err := r.vc.Client().Exists(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	if n == 0 {
		return session.ErrSessionNotFound
	}
	if err := r.vc.Client().HSet(ctx, sessionKey(sessionID), fieldLastActivity, at.Unix()).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	return nil
}
