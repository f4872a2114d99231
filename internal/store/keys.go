package store

// Valkeyキープレフィックス
const (
	// KeyPrefixSession はアクティブセッションのハッシュ
	KeyPrefixSession = "sess:"
	// KeySessionOrder は登録順を保持するリスト
	KeySessionOrder = "sess:order"
	// KeyPrefixUserIndex はsubject検索用インデックス
	KeyPrefixUserIndex = "idx:user:"
)

// sessionKey はセッションIDからハッシュキーを返す。
func sessionKey(sessionID string) string {
	return KeyPrefixSession + sessionID
}

// userIndexKey はsubjectIDからインデックスキーを返す。
func userIndexKey(subjectID string) string {
	return KeyPrefixUserIndex + subjectID
}
