// Package logging はログ関連のユーティリティを提供する。
package logging

// MaskSubject はsubject識別子（admission number等）をマスキングする。
// 先頭3文字 + マスク + 末尾2文字
// 例: ADM2021001 → ADM*****01
// enabled=false の場合はマスキングせずにそのまま返す。
func MaskSubject(subject string, enabled bool) string {
	if !enabled {
		return subject
	}
	return MaskPartial(subject, 3, 2, '*')
}

// MaskPartial は文字列の一部をマスキングする。
// keepPrefix: 先頭から保持する文字数
// keepSuffix: 末尾から保持する文字数
// maskChar: マスキングに使用する文字
func MaskPartial(s string, keepPrefix, keepSuffix int, maskChar rune) string {
	runes := []rune(s)
	length := len(runes)

	// 文字列が短すぎる場合はそのまま返す
	if length <= keepPrefix+keepSuffix {
		return s
	}

	result := make([]rune, length)
	copy(result, runes[:keepPrefix])
	for i := keepPrefix; i < length-keepSuffix; i++ {
		result[i] = maskChar
	}
	copy(result[length-keepSuffix:], runes[length-keepSuffix:])

	return string(result)
}
