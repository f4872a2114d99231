package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oyaguma3/campus-nac-poc/internal/audit"
	"github.com/oyaguma3/campus-nac-poc/internal/logging"
	"github.com/oyaguma3/campus-nac-poc/internal/session"
)

// createSessionRequest はPOST /api/v1/network/sessions のリクエストボディ。
// 全フィールド省略可能で、省略時は学生相当の既定値を使用する。
type createSessionRequest struct {
	VLAN        string `json:"vlan"`
	Bandwidth   string `json:"bandwidth"`
	AccessLevel string `json:"accessLevel"`
	IPAddress   string `json:"ipAddress"`
	MACAddress  string `json:"macAddress"`
}

// セッション作成時の既定値
const (
	defaultSessionVLAN        = "student_vlan"
	defaultSessionBandwidth   = "10Mbps"
	defaultSessionAccessLevel = "STUDENT_ACCESS"
)

// deleteSessionRequest はDELETE /api/v1/network/sessions のリクエストボディ。
type deleteSessionRequest struct {
	SessionID string `json:"sessionId"`
}

// listSessionsResponse はGET /api/v1/network/sessions のレスポンスボディ。
type listSessionsResponse struct {
	Sessions      []*session.Session `json:"sessions"`
	TotalSessions int                `json:"totalSessions"`
}

// sessionMessageBody はエラーおよび単一セッション操作のレスポンス。
type sessionMessageBody struct {
	Message string           `json:"message"`
	Session *session.Session `json:"session,omitempty"`
}

// HandleListSessions はGET /api/v1/network/sessions のハンドラー。
// Adminは全セッション、それ以外は自身のセッションのみ閲覧できる。
func (h *NACHandler) HandleListSessions(c *gin.Context) {
	cl := h.resolveCaller(c)
	if cl == nil {
		c.JSON(http.StatusUnauthorized, sessionMessageBody{Message: "Unauthorized"})
		return
	}

	sessions, err := h.registry.List(c.Request.Context(), cl.principal)
	if err != nil {
		slog.Error("session list failure",
			"trace_id", c.GetString(TraceIDKey),
			"event_id", "SESS_LIST_ERR",
			"error", err.Error(),
		)
		c.JSON(http.StatusInternalServerError, sessionMessageBody{Message: "Failed to list sessions"})
		return
	}

	c.JSON(http.StatusOK, listSessionsResponse{
		Sessions:      sessions,
		TotalSessions: len(sessions),
	})
}

// HandleCreateSession はPOST /api/v1/network/sessions のハンドラー。
// 認可エンドポイントを経由しない手動セッション登録（検証・デモ用）。
func (h *NACHandler) HandleCreateSession(c *gin.Context) {
	traceID := c.GetString(TraceIDKey)

	cl := h.resolveCaller(c)
	if cl == nil {
		c.JSON(http.StatusUnauthorized, sessionMessageBody{Message: "Unauthorized"})
		return
	}

	var req createSessionRequest
	_ = c.ShouldBindJSON(&req)
	if req.VLAN == "" {
		req.VLAN = defaultSessionVLAN
	}
	if req.Bandwidth == "" {
		req.Bandwidth = defaultSessionBandwidth
	}
	if req.AccessLevel == "" {
		req.AccessLevel = defaultSessionAccessLevel
	}

	sess, err := h.registry.Create(c.Request.Context(), session.CreateParams{
		SubjectID:   cl.identity.SubjectID,
		VLAN:        req.VLAN,
		Bandwidth:   req.Bandwidth,
		AccessLevel: req.AccessLevel,
		IPAddress:   req.IPAddress,
		MACAddress:  req.MACAddress,
	})
	if err != nil {
		slog.Error("session create failure",
			"trace_id", traceID,
			"event_id", "SESS_CREATE_ERR",
			"subject", logging.MaskSubject(cl.identity.SubjectID, h.cfg.LogMaskSubject),
			"error", err.Error(),
		)
		c.JSON(http.StatusInternalServerError, sessionMessageBody{Message: "Failed to create session"})
		return
	}

	h.auditLog.Append(cl.identity.SubjectID, audit.ActionSessionCreated, sess.SessionID, map[string]any{
		"vlan":        sess.VLAN,
		"accessLevel": sess.AccessLevel,
	})
	slog.Info("session created",
		"trace_id", traceID,
		"event_id", "SESS_CREATE",
		"subject", logging.MaskSubject(cl.identity.SubjectID, h.cfg.LogMaskSubject),
		"session_id", sess.SessionID,
	)

	c.JSON(http.StatusCreated, sessionMessageBody{
		Message: "Session created successfully",
		Session: sess,
	})
}

// HandleDeleteSession はDELETE /api/v1/network/sessions のハンドラー。
// 所有者またはAdminのみ切断できる。
func (h *NACHandler) HandleDeleteSession(c *gin.Context) {
	traceID := c.GetString(TraceIDKey)

	cl := h.resolveCaller(c)
	if cl == nil {
		c.JSON(http.StatusUnauthorized, sessionMessageBody{Message: "Unauthorized"})
		return
	}

	var req deleteSessionRequest
	_ = c.ShouldBindJSON(&req)

	sess, err := h.registry.Terminate(c.Request.Context(), cl.principal, req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, sessionMessageBody{Message: "Session not found"})
		case errors.Is(err, session.ErrForbidden):
			c.JSON(http.StatusForbidden, sessionMessageBody{Message: "Not authorized to terminate this session"})
		default:
			slog.Error("session terminate failure",
				"trace_id", traceID,
				"event_id", "SESS_TERM_ERR",
				"session_id", req.SessionID,
				"error", err.Error(),
			)
			c.JSON(http.StatusInternalServerError, sessionMessageBody{Message: "Failed to terminate session"})
		}
		return
	}

	h.auditLog.Append(cl.identity.SubjectID, audit.ActionSessionTerminated, sess.SessionID, map[string]any{
		"owner": sess.SubjectID,
	})
	slog.Info("session terminated",
		"trace_id", traceID,
		"event_id", "SESS_TERM",
		"subject", logging.MaskSubject(cl.identity.SubjectID, h.cfg.LogMaskSubject),
		"session_id", sess.SessionID,
	)

	c.JSON(http.StatusOK, sessionMessageBody{
		Message: "Session terminated successfully",
		Session: sess,
	})
}
