// Package handler はHTTPリクエストハンドラーを提供する。
package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oyaguma3/campus-nac-poc/internal/acct"
	"github.com/oyaguma3/campus-nac-poc/internal/audit"
	"github.com/oyaguma3/campus-nac-poc/internal/authz"
	"github.com/oyaguma3/campus-nac-poc/internal/config"
	"github.com/oyaguma3/campus-nac-poc/internal/identity"
	"github.com/oyaguma3/campus-nac-poc/internal/policy"
	"github.com/oyaguma3/campus-nac-poc/internal/session"
)

// TraceIDKey はコンテキストにTraceIDを格納するキー。
const TraceIDKey = "trace_id"

// NACHandler はネットワークアクセス制御APIのハンドラー。
type NACHandler struct {
	provider identity.Provider
	authz    *authz.Service
	registry session.Registry
	ledger   *acct.Ledger
	auditLog *audit.Log
	cfg      *config.Config
}

// NewNACHandler は新しいNACHandlerを生成する。
func NewNACHandler(
	provider identity.Provider,
	authzService *authz.Service,
	registry session.Registry,
	ledger *acct.Ledger,
	auditLog *audit.Log,
	cfg *config.Config,
) *NACHandler {
	return &NACHandler{
		provider: provider,
		authz:    authzService,
		registry: registry,
		ledger:   ledger,
		auditLog: auditLog,
		cfg:      cfg,
	}
}

// caller は認証済みリクエストの呼び出し元を表す。
type caller struct {
	identity  *identity.Identity
	tier      policy.Tier
	principal session.Principal
}

// resolveCaller はAuthorizationヘッダーのBearerトークンから呼び出し元を解決する。
// トークンが提示されていない、またはsubjectを特定できない場合はnilを返す（401相当）。
// ロールクレームの取り出し失敗は空ロール集合に縮退する。
func (h *NACHandler) resolveCaller(c *gin.Context) *caller {
	header := c.GetHeader("Authorization")
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if header == "" || token == "" {
		return nil
	}

	id, err := h.provider.IdentityFor(token)
	if err != nil {
		return nil
	}

	tier := policy.Classify(id.Roles)
	return &caller{
		identity: id,
		tier:     tier,
		principal: session.Principal{
			SubjectID: id.SubjectID,
			Admin:     tier == policy.TierAdmin,
		},
	}
}

// healthResponse はヘルスチェックレスポンスを表す。
type healthResponse struct {
	Status string `json:"status"`
}

// HandleHealth はGET /health のハンドラー。
func (h *NACHandler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{Status: "ok"})
}
