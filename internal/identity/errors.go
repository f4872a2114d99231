package identity

import "errors"

var (
	// ErrNoToken はトークンが提示されていない場合のエラー
	ErrNoToken = errors.New("no token presented")
	// ErrInvalidToken はトークンがJWTとしてデコードできない場合のエラー
	ErrInvalidToken = errors.New("token is not a decodable JWT")
	// ErrSubjectMissing はsubject識別子を特定できない場合のエラー
	ErrSubjectMissing = errors.New("subject identifier missing from claims")
)
