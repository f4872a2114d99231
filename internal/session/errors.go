package session

import "errors"

var (
	// ErrSessionNotFound は指定IDのセッションが存在しない場合のエラー
	ErrSessionNotFound = errors.New("session not found")
	// ErrForbidden は所有者でもAdminでもない要求元による操作エラー
	ErrForbidden = errors.New("not authorized to operate on this session")
)
