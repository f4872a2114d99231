package store

import (
	"strconv"
	"time"

	"github.com/oyaguma3/campus-nac-poc/internal/session"
)

// ハッシュフィールド名
const (
	fieldSubjectID    = "subject_id"
	fieldVLAN         = "vlan"
	fieldBandwidth    = "bandwidth"
	fieldAccessLevel  = "access_level"
	fieldIPAddress    = "ip_address"
	fieldMACAddress   = "mac_address"
	fieldStartTime    = "start_time"
	fieldLastActivity = "last_activity"
)

// sessionToFields はSessionをValkeyハッシュ用のフィールドマップに変換する。
// 時刻はUnix秒で保存する。statusはハッシュの存在自体がActiveを意味するため保存しない。
func sessionToFields(s *session.Session) map[string]any {
	return map[string]any{
		fieldSubjectID:    s.SubjectID,
		fieldVLAN:         s.VLAN,
		fieldBandwidth:    s.Bandwidth,
		fieldAccessLevel:  s.AccessLevel,
		fieldIPAddress:    s.IPAddress,
		fieldMACAddress:   s.MACAddress,
		fieldStartTime:    s.StartTime.Unix(),
		fieldLastActivity: s.LastActivity.Unix(),
	}
}

// sessionFromFields はValkeyハッシュのフィールドマップからSessionを復元する。
func sessionFromFields(sessionID string, m map[string]string) *session.Session {
	return &session.Session{
		SessionID:    sessionID,
		SubjectID:    m[fieldSubjectID],
		VLAN:         m[fieldVLAN],
		Bandwidth:    m[fieldBandwidth],
		AccessLevel:  m[fieldAccessLevel],
		IPAddress:    m[fieldIPAddress],
		MACAddress:   m[fieldMACAddress],
		StartTime:    unixField(m, fieldStartTime),
		LastActivity: unixField(m, fieldLastActivity),
		Status:       session.StatusActive,
	}
}

// unixField はUnix秒文字列をtime.Timeに変換する。不正値はゼロ値を返す。
func unixField(m map[string]string, field string) time.Time {
	n, err := strconv.ParseInt(m[field], 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(n, 0).UTC()
}
