// Package authz はロールクレームからネットワーク許可判定を行うサービスを提供する。
package authz

import (
	"time"

	"github.com/oyaguma3/campus-nac-poc/internal/policy"
)

// Outcome は許可判定の結果を表す。RADIUS応答コードと同じ表記を用いる。
type Outcome string

const (
	// OutcomeAccept は許可
	OutcomeAccept Outcome = "Access-Accept"
	// OutcomeReject は拒否
	OutcomeReject Outcome = "Access-Reject"
)

// AdmissionRequest は接続要求の端末情報。
type AdmissionRequest struct {
	IPAddress  string
	MACAddress string
}

// Decision は1回の許可判定の結果を表す。呼び出しごとに新規生成される。
type Decision struct {
	SubjectID    string
	Tier         policy.Tier
	Policy       *policy.NetworkPolicy
	Outcome      Outcome
	RejectReason string // Reject時のみ
	IssuedAt     time.Time
	SessionID    string // Accept時のみ
}

// Accepted は許可判定かどうかを返す。
func (d *Decision) Accepted() bool {
	return d.Outcome == OutcomeAccept
}
