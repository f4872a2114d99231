package authz

import (
	"context"
	"fmt"
	"time"

	"github.com/oyaguma3/campus-nac-poc/internal/audit"
	"github.com/oyaguma3/campus-nac-poc/internal/identity"
	"github.com/oyaguma3/campus-nac-poc/internal/policy"
	"github.com/oyaguma3/campus-nac-poc/internal/session"
)

// 端末情報が未提供の場合の既定値
const (
	defaultIPAddress  = "dynamic"
	defaultMACAddress = "unknown"
)

// Service はネットワーク許可判定サービス。
// 判定のたびにロールを再分類する（ロール変更の即時反映）。
// 同一identityへの繰り返し呼び出しはそれぞれ独立した接続要求として扱い、
// 重複排除はしない（マルチデバイス接続）。
type Service struct {
	catalog  *policy.Catalog
	registry session.Registry
	auditLog *audit.Log
	now      func() time.Time
}

// NewService は新しいServiceを生成する。
func NewService(catalog *policy.Catalog, registry session.Registry, auditLog *audit.Log) *Service {
	return &Service{
		catalog:  catalog,
		registry: registry,
		auditLog: auditLog,
		now:      time.Now,
	}
}

// Authorize はidentityのロール集合から許可判定を行う。
// 拒否は正常な結果でありエラーではない。エラーはセッションストアのI/O障害のみ。
// 判定が発行された場合は必ず1件の監査エントリを残す。
func (s *Service) Authorize(ctx context.Context, id *identity.Identity, req AdmissionRequest) (*Decision, error) {
	tier := policy.Classify(id.Roles)
	pol := s.catalog.PolicyFor(tier)

	decision := &Decision{
		SubjectID: id.SubjectID,
		Tier:      tier,
		Policy:    pol,
		IssuedAt:  s.now(),
	}

	if !tier.Admissible() {
		decision.Outcome = OutcomeReject
		decision.RejectReason = pol.Message
		s.auditLog.Append(id.SubjectID, audit.ActionNetworkAccessRejected, "", map[string]any{
			"tier":        string(tier),
			"accessLevel": pol.AccessLevel,
			"reason":      decision.RejectReason,
		})
		return decision, nil
	}

	ip := req.IPAddress
	if ip == "" {
		ip = defaultIPAddress
	}
	mac := req.MACAddress
	if mac == "" {
		mac = defaultMACAddress
	}

	sess, err := s.registry.Create(ctx, session.CreateParams{
		SubjectID:   id.SubjectID,
		VLAN:        pol.VLAN,
		Bandwidth:   pol.Bandwidth,
		AccessLevel: pol.AccessLevel,
		IPAddress:   ip,
		MACAddress:  mac,
	})
	if err != nil {
		// 判定未発行のままストア障害を呼び出し元へ伝搬する
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	decision.Outcome = OutcomeAccept
	decision.SessionID = sess.SessionID
	s.auditLog.Append(id.SubjectID, audit.ActionNetworkAuthorized, sess.SessionID, map[string]any{
		"tier":        string(tier),
		"vlan":        pol.VLAN,
		"bandwidth":   pol.Bandwidth,
		"accessLevel": pol.AccessLevel,
	})
	return decision, nil
}
