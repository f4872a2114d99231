package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oyaguma3/campus-nac-poc/internal/acct"
	"github.com/oyaguma3/campus-nac-poc/internal/audit"
	"github.com/oyaguma3/campus-nac-poc/internal/authz"
	"github.com/oyaguma3/campus-nac-poc/internal/logging"
	"github.com/oyaguma3/campus-nac-poc/internal/policy"
	"github.com/oyaguma3/campus-nac-poc/internal/session"
)

// RADIUSアクション
const (
	actionAccessRequest     = "Access-Request"
	actionAccountingRequest = "Accounting-Request"
	actionCoARequest        = "CoA-Request"
)

// radiusRequest はPOST /api/v1/network/radius のリクエストボディ。
type radiusRequest struct {
	Action         string `json:"action"`
	Username       string `json:"username"`
	SessionID      string `json:"sessionId"`
	AccountingType string `json:"accountingType"`
	SessionTime    int64  `json:"sessionTime"`
	InputOctets    int64  `json:"inputOctets"`
	OutputOctets   int64  `json:"outputOctets"`
}

// radiusMessageBody は拒否・エラー時の簡易レスポンス。
type radiusMessageBody struct {
	RadiusResponse string `json:"radiusResponse"`
	Message        string `json:"message"`
}

// accessRejectBody はAccess-Rejectレスポンス。
type accessRejectBody struct {
	RadiusResponse string            `json:"radiusResponse"`
	Message        string            `json:"message"`
	Attributes     map[string]string `json:"attributes"`
}

// accessAcceptBody はAccess-Acceptレスポンス。
type accessAcceptBody struct {
	RadiusResponse string          `json:"radiusResponse"`
	Message        string          `json:"message"`
	Attributes     map[string]any  `json:"attributes"`
	SessionInfo    sessionInfoBody `json:"sessionInfo"`
}

// sessionInfoBody はAccess-Accept時のセッション概要。
type sessionInfoBody struct {
	Username     string `json:"username"`
	VLAN         string `json:"vlan"`
	Bandwidth    string `json:"bandwidth"`
	SessionStart string `json:"sessionStart"`
	SessionID    string `json:"sessionId"`
}

// accountingResponseBody はAccounting-Responseレスポンス。
type accountingResponseBody struct {
	RadiusResponse string       `json:"radiusResponse"`
	Message        string       `json:"message"`
	Record         *acct.Record `json:"record"`
}

// coaResponseBody はCoA-ACKレスポンス。
type coaResponseBody struct {
	RadiusResponse string `json:"radiusResponse"`
	Message        string `json:"message"`
	Action         string `json:"action"`
	SessionID      string `json:"sessionId"`
}

// HandleRadius はPOST /api/v1/network/radius のハンドラー。
// 実RADIUSサーバーの応答構造を模したシミュレーションエンドポイント。
func (h *NACHandler) HandleRadius(c *gin.Context) {
	traceID := c.GetString(TraceIDKey)

	cl := h.resolveCaller(c)
	if cl == nil {
		c.JSON(http.StatusUnauthorized, radiusMessageBody{
			RadiusResponse: "Access-Reject",
			Message:        "Authentication required",
		})
		return
	}

	var req radiusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, radiusMessageBody{
			RadiusResponse: "Access-Reject",
			Message:        "Invalid request body",
		})
		return
	}

	slog.Info("radius request",
		"trace_id", traceID,
		"event_id", "RADIUS_REQ",
		"action", req.Action,
		"subject", logging.MaskSubject(cl.identity.SubjectID, h.cfg.LogMaskSubject),
	)

	switch req.Action {
	case actionAccessRequest:
		h.handleAccessRequest(c, cl)
	case actionAccountingRequest:
		h.handleAccountingRequest(c, cl, &req)
	case actionCoARequest:
		h.handleCoARequest(c, cl, &req)
	default:
		c.JSON(http.StatusBadRequest, radiusMessageBody{
			RadiusResponse: "Access-Reject",
			Message:        "Unknown RADIUS action",
		})
	}
}

// rejectReplyMessages はティア別のReply-Message。
var rejectReplyMessages = map[policy.Tier]string{
	policy.TierUnconfirmed: "Your account requires admin approval",
	policy.TierDenied:      "Contact administrator for network access",
}

// handleAccessRequest はAccess-Requestを処理する。
func (h *NACHandler) handleAccessRequest(c *gin.Context, cl *caller) {
	decision, err := h.authz.Authorize(c.Request.Context(), cl.identity, authz.AdmissionRequest{
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, radiusMessageBody{
			RadiusResponse: "Access-Reject",
			Message:        "RADIUS server error",
		})
		return
	}

	if !decision.Accepted() {
		message := "No valid network access role"
		if decision.Tier == policy.TierUnconfirmed {
			message = "Account pending approval"
		}
		c.JSON(http.StatusOK, accessRejectBody{
			RadiusResponse: "Access-Reject",
			Message:        message,
			Attributes: map[string]string{
				"Reply-Message": rejectReplyMessages[decision.Tier],
			},
		})
		return
	}

	pol := decision.Policy
	filterID := "bandwidth_limit_" + pol.Bandwidth
	c.JSON(http.StatusOK, accessAcceptBody{
		RadiusResponse: "Access-Accept",
		Message:        "Network access granted",
		Attributes: map[string]any{
			"Tunnel-Type":             "VLAN",
			"Tunnel-Medium-Type":      "IEEE-802",
			"Tunnel-Private-Group-ID": pol.VLAN,
			"Session-Timeout":         policy.ParseSessionDuration(pol.SessionDuration),
			"Filter-Id":               filterID,
			"Framed-Protocol":         "PPP",
			"Service-Type":            "Framed-User",
			"Reply-Message":           pol.Message,
		},
		SessionInfo: sessionInfoBody{
			Username:     decision.SubjectID,
			VLAN:         pol.VLAN,
			Bandwidth:    filterID,
			SessionStart: decision.IssuedAt.UTC().Format(time.RFC3339),
			SessionID:    decision.SessionID,
		},
	})
}

// handleAccountingRequest はAccounting-Requestを処理する。
// セッションの生存状態は検証しない（台帳はレジストリと疎結合）。
func (h *NACHandler) handleAccountingRequest(c *gin.Context, cl *caller, req *radiusRequest) {
	record, err := h.ledger.Record(
		c.Request.Context(),
		req.SessionID,
		cl.identity.SubjectID,
		acct.EventType(req.AccountingType),
		req.SessionTime,
		req.InputOctets,
		req.OutputOctets,
	)
	if err != nil {
		c.JSON(http.StatusBadRequest, radiusMessageBody{
			RadiusResponse: "Access-Reject",
			Message:        "Session id is required for accounting",
		})
		return
	}

	h.auditLog.Append(cl.identity.SubjectID, audit.ActionAccounting, req.SessionID, map[string]any{
		"accountingType": req.AccountingType,
		"totalOctets":    record.TotalOctets,
	})

	c.JSON(http.StatusOK, accountingResponseBody{
		RadiusResponse: "Accounting-Response",
		Message:        "Accounting record processed",
		Record:         record,
	})
}

// handleCoARequest はCoA-Request（強制切断）を処理する。
// 切断はベストエフォートであり、対象セッションが既に存在しなくてもACKを返す。
func (h *NACHandler) handleCoARequest(c *gin.Context, cl *caller, req *radiusRequest) {
	if _, err := h.registry.Terminate(c.Request.Context(), cl.principal, req.SessionID); err != nil {
		if !errors.Is(err, session.ErrSessionNotFound) && !errors.Is(err, session.ErrForbidden) {
			c.JSON(http.StatusInternalServerError, radiusMessageBody{
				RadiusResponse: "Access-Reject",
				Message:        "RADIUS server error",
			})
			return
		}
		slog.Info("coa disconnect skipped",
			"trace_id", c.GetString(TraceIDKey),
			"event_id", "COA_SKIP",
			"session_id", req.SessionID,
			"reason", err.Error(),
		)
	}

	h.auditLog.Append(cl.identity.SubjectID, audit.ActionCoADisconnect, req.SessionID, nil)

	c.JSON(http.StatusOK, coaResponseBody{
		RadiusResponse: "CoA-ACK",
		Message:        "User session terminated",
		Action:         "disconnect",
		SessionID:      req.SessionID,
	})
}
