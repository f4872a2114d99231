// Package identity は外部IdPのトークンから識別情報とロールクレームを取り出す。
package identity

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Identity は認証済みの外部プリンシパルのスナップショットを表す。
// このコアはIdentityを読むだけで、変更しない。
type Identity struct {
	SubjectID string   // 安定識別子（admission number等）
	Roles     []string // 生のロールクレーム
}

// Provider はトークン文字列からIdentityを解決するインターフェース。
type Provider interface {
	// IdentityFor はトークンからIdentityを解決する。
	// subjectが特定できない場合のみエラーを返す。
	// ロールクレームの取り出し失敗は空ロール集合に縮退し、エラーにしない。
	IdentityFor(token string) (*Identity, error)
}

// jwtProvider はKeycloak形式のJWTクレームを読むProvider実装。
// 署名検証はIdP/ゲートウェイ側の責務であり、ここでは行わない。
type jwtProvider struct {
	parser *jwt.Parser
}

// NewJWTProvider は新しいJWTベースのProviderを生成する。
func NewJWTProvider() Provider {
	return &jwtProvider{parser: jwt.NewParser()}
}

// IdentityFor はJWTのクレームからIdentityを解決する。
func (p *jwtProvider) IdentityFor(token string) (*Identity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrNoToken
	}

	parsed, _, err := p.parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	subject := subjectFromClaims(claims)
	if subject == "" {
		return nil, ErrSubjectMissing
	}

	return &Identity{
		SubjectID: subject,
		Roles:     rolesFromClaims(claims),
	}, nil
}

// subjectFromClaims はadmission_number > preferred_username > subの順で
// subject識別子を取り出す。
func subjectFromClaims(claims jwt.MapClaims) string {
	for _, key := range []string{"admission_number", "preferred_username", "sub"} {
		if v, ok := claims[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// rolesFromClaims はrealm_access.rolesを取り出す。
// 構造が期待と異なる場合は空集合を返す（呼び出し元でDenied扱いになる）。
func rolesFromClaims(claims jwt.MapClaims) []string {
	realmAccess, ok := claims["realm_access"].(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := realmAccess["roles"].([]any)
	if !ok {
		return nil
	}

	roles := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			roles = append(roles, s)
		}
	}
	return roles
}
