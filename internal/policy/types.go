// Package policy はロールクレームからのアクセスティア分類と、
// ティアごとのネットワークポリシー表を提供する。
package policy

// Tier はロールクレームから導出されるアクセスティアを表す。
// リクエストごとに再計算され、保存されない（ロール変更の即時反映のため）。
type Tier string

const (
	// TierUnconfirmed は管理者承認待ちのアカウント
	TierUnconfirmed Tier = "UNCONFIRMED"
	// TierAdmin は管理者
	TierAdmin Tier = "ADMIN"
	// TierFaculty は教員
	TierFaculty Tier = "FACULTY"
	// TierStudent は学生
	TierStudent Tier = "STUDENT"
	// TierDenied は有効なロールを持たないアカウント
	TierDenied Tier = "DENIED"
)

// Tiers は全ティアの一覧。Catalogの全域性検証に使用する。
var Tiers = []Tier{TierUnconfirmed, TierAdmin, TierFaculty, TierStudent, TierDenied}

// Admissible はこのティアでセッションを生成してよいかを返す。
// Unconfirmed/Deniedはネットワークセッションを持たない。
func (t Tier) Admissible() bool {
	return t == TierAdmin || t == TierFaculty || t == TierStudent
}

// NetworkPolicy はティアに割り当てるネットワークパラメータを表す。
// Catalog生成時に確定し、以後変更されない。
type NetworkPolicy struct {
	Tier            Tier   // 対象ティア
	VLAN            string // VLAN名（Unconfirmedは空）
	Bandwidth       string // 帯域ラベル（例: "10Mbps"）
	AllowedPorts    []int  // 許可ポート（順序保持）
	SessionDuration string // セッション有効時間ラベル（例: "8hours"）
	AccessLevel     string // アクセスレベルラベル（例: "STUDENT_ACCESS"）
	Message         string // 利用者向けメッセージ
}
