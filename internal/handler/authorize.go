package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oyaguma3/campus-nac-poc/internal/authz"
	"github.com/oyaguma3/campus-nac-poc/internal/logging"
	"github.com/oyaguma3/campus-nac-poc/internal/policy"
)

// authorizeRequest はPOST /api/v1/network/authorize のリクエストボディ。
// 端末情報は省略可能。
type authorizeRequest struct {
	IPAddress  string `json:"ipAddress"`
	MACAddress string `json:"macAddress"`
}

// networkPolicyBody はレスポンス内のネットワークポリシー表現。
type networkPolicyBody struct {
	AdmissionNumber string `json:"admissionNumber"`
	VLAN            string `json:"vlan"`
	Bandwidth       string `json:"bandwidth"`
	AllowedPorts    []int  `json:"allowedPorts"`
	SessionDuration string `json:"sessionDuration"`
	AccessLevel     string `json:"accessLevel"`
	RadiusResponse  string `json:"radiusResponse"`
	Message         string `json:"message"`
	Timestamp       string `json:"timestamp"`
	SessionID       string `json:"sessionId,omitempty"`
}

// radiusAttributesBody はRADIUS形の属性セット。
type radiusAttributesBody struct {
	UserName             string `json:"User-Name"`
	TunnelType           string `json:"Tunnel-Type"`
	TunnelMediumType     string `json:"Tunnel-Medium-Type"`
	TunnelPrivateGroupID string `json:"Tunnel-Private-Group-ID"`
	SessionTimeout       int    `json:"Session-Timeout"`
	FilterID             string `json:"Filter-Id"`
	ReplyMessage         string `json:"Reply-Message"`
}

// authorizeResponse はPOST /api/v1/network/authorize のレスポンスボディ。
type authorizeResponse struct {
	Success          bool                 `json:"success"`
	NetworkPolicy    networkPolicyBody    `json:"networkPolicy"`
	RadiusAttributes radiusAttributesBody `json:"radiusAttributes"`
}

// unauthorizedBody は未認証リクエストへのレスポンス。
type unauthorizedBody struct {
	Message       string `json:"message"`
	NetworkAccess string `json:"networkAccess"`
}

// HandleAuthorize はPOST /api/v1/network/authorize のハンドラー。
func (h *NACHandler) HandleAuthorize(c *gin.Context) {
	traceID := c.GetString(TraceIDKey)

	cl := h.resolveCaller(c)
	if cl == nil {
		c.JSON(http.StatusUnauthorized, unauthorizedBody{
			Message:       "Unauthorized",
			NetworkAccess: "DENIED",
		})
		return
	}

	// 端末情報は省略可能（ボディなし・不正ボディは既定値扱い）
	var req authorizeRequest
	_ = c.ShouldBindJSON(&req)

	decision, err := h.authz.Authorize(c.Request.Context(), cl.identity, authz.AdmissionRequest{
		IPAddress:  req.IPAddress,
		MACAddress: req.MACAddress,
	})
	if err != nil {
		slog.Error("authorization store failure",
			"trace_id", traceID,
			"event_id", "NET_AUTH_ERR",
			"subject", logging.MaskSubject(cl.identity.SubjectID, h.cfg.LogMaskSubject),
			"error", err.Error(),
		)
		c.JSON(http.StatusInternalServerError, unauthorizedBody{
			Message:       "Network authorization failed",
			NetworkAccess: "DENIED",
		})
		return
	}

	slog.Info("network authorization decided",
		"trace_id", traceID,
		"event_id", "NET_AUTH",
		"subject", logging.MaskSubject(decision.SubjectID, h.cfg.LogMaskSubject),
		"tier", string(decision.Tier),
		"access_level", decision.Policy.AccessLevel,
		"radius_response", string(decision.Outcome),
	)

	c.JSON(http.StatusOK, buildAuthorizeResponse(decision))
}

// buildAuthorizeResponse は判定結果からレスポンスボディを組み立てる。
func buildAuthorizeResponse(decision *authz.Decision) authorizeResponse {
	pol := decision.Policy
	return authorizeResponse{
		Success: true,
		NetworkPolicy: networkPolicyBody{
			AdmissionNumber: decision.SubjectID,
			VLAN:            pol.VLAN,
			Bandwidth:       pol.Bandwidth,
			AllowedPorts:    pol.AllowedPorts,
			SessionDuration: pol.SessionDuration,
			AccessLevel:     pol.AccessLevel,
			RadiusResponse:  string(decision.Outcome),
			Message:         pol.Message,
			Timestamp:       decision.IssuedAt.UTC().Format(time.RFC3339),
			SessionID:       decision.SessionID,
		},
		RadiusAttributes: radiusAttributesBody{
			UserName:             decision.SubjectID,
			TunnelType:           "VLAN",
			TunnelMediumType:     "IEEE-802",
			TunnelPrivateGroupID: pol.VLAN,
			SessionTimeout:       policy.ParseSessionDuration(pol.SessionDuration),
			FilterID:             "bandwidth_limit_" + pol.Bandwidth,
			ReplyMessage:         pol.Message,
		},
	}
}
