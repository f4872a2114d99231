// Package acct はセッション単位の利用量アカウンティング台帳を提供する。
package acct

import "time"

// EventType はアカウンティングイベントの種別を表す。
type EventType string

const (
	// EventStart はセッション開始
	EventStart EventType = "Start"
	// EventInterim は中間更新
	EventInterim EventType = "Interim-Update"
	// EventStop はセッション終了
	EventStop EventType = "Stop"
)

// Record はアカウンティングレコードを表す。追記後は変更されない。
// セッションのライフサイクルから独立しており、セッション退去後も残る。
type Record struct {
	SessionID    string    `json:"sessionId"`
	SubjectID    string    `json:"username"`
	EventType    EventType `json:"accountingType"`
	Timestamp    time.Time `json:"timestamp"`
	SessionTime  int64     `json:"sessionTime"`  // 経過秒数
	InputOctets  int64     `json:"inputOctets"`  // 受信バイト数
	OutputOctets int64     `json:"outputOctets"` // 送信バイト数
	TotalOctets  int64     `json:"totalOctets"`  // 入出力合計（常に計算値）
}
