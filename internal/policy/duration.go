package policy

import (
	"regexp"
	"strconv"
)

// DefaultSessionTimeout はパース不能な期間ラベルに適用する既定値（1時間）。
const DefaultSessionTimeout = 3600

var durationPattern = regexp.MustCompile(`^(\d+)(hour|minute)s?$`)

// ParseSessionDuration は期間ラベルをRADIUS Session-Timeout用の秒数に変換する。
// "Nhours"はN*3600、"Nminutes"はN*60。パース不能な場合は既定の3600を返す。
func ParseSessionDuration(duration string) int {
	m := durationPattern.FindStringSubmatch(duration)
	if m == nil {
		return DefaultSessionTimeout
	}

	value, err := strconv.Atoi(m[1])
	if err != nil {
		return DefaultSessionTimeout
	}

	switch m[2] {
	case "hour":
		return value * 3600
	case "minute":
		return value * 60
	}
	return DefaultSessionTimeout
}
