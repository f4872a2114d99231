// Package session はネットワークセッションのレジストリを提供する。
package session

import "time"

// Status はセッションの状態を表す。
type Status string

const (
	// StatusActive は有効なセッション
	StatusActive Status = "active"
	// StatusTerminated は切断済みセッション（レジストリからは退去済み）
	StatusTerminated Status = "terminated"
)

// Session はネットワーク許可済みの接続セッションを表す。
// SubjectIDは作成元の認可判定のsubjectと常に一致する。
type Session struct {
	SessionID    string     `json:"sessionId"`
	SubjectID    string     `json:"username"`
	VLAN         string     `json:"vlan"`
	Bandwidth    string     `json:"bandwidth"`
	AccessLevel  string     `json:"accessLevel"`
	IPAddress    string     `json:"ipAddress"`
	MACAddress   string     `json:"macAddress"`
	StartTime    time.Time  `json:"startTime"`
	LastActivity time.Time  `json:"lastActivity"`
	Status       Status     `json:"status"`
	EndTime      *time.Time `json:"endTime,omitempty"`
}

// Principal はレジストリ操作の要求元を表す。
// Adminは他subjectのセッションの閲覧・切断が可能。
type Principal struct {
	SubjectID string
	Admin     bool
}

// CreateParams はセッション作成時に引き渡すポリシー由来の値。
type CreateParams struct {
	SubjectID   string
	VLAN        string
	Bandwidth   string
	AccessLevel string
	IPAddress   string
	MACAddress  string
}
