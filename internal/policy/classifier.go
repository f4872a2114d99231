package policy

import "strings"

// Classify はロール文字列の集合をアクセスティアに分類する。
// 優先順位つきの先勝ち評価（unconfirmedが他のティアロールより先に効く）:
//  1. "unconfirmed" と完全一致（大文字小文字無視） → TierUnconfirmed
//  2. "administrator" を含む → TierAdmin
//  3. "faculty" を含む → TierFaculty
//  4. "student" を含む → TierStudent
//  5. それ以外（空集合・未知ロールのみ含む場合も） → TierDenied
//
// 純粋関数であり、同じ入力は常に同じ出力を返す。エラーは返さない。
func Classify(roles []string) Tier {
	var isAdmin, isFaculty, isStudent bool

	for _, role := range roles {
		r := strings.ToLower(role)
		if r == "unconfirmed" {
			return TierUnconfirmed
		}
		switch {
		case strings.Contains(r, "administrator"):
			isAdmin = true
		case strings.Contains(r, "faculty"):
			isFaculty = true
		case strings.Contains(r, "student"):
			isStudent = true
		}
	}

	switch {
	case isAdmin:
		return TierAdmin
	case isFaculty:
		return TierFaculty
	case isStudent:
		return TierStudent
	}
	return TierDenied
}
