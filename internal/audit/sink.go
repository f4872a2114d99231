package audit

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/oyaguma3/campus-nac-poc/internal/config"
)

// httpSink は監査エントリを耐久監査サービスへHTTP転送するSink実装。
// 転送失敗が続いた場合はサーキットブレーカーで遮断する。
type httpSink struct {
	httpClient *resty.Client
	cb         *gobreaker.CircuitBreaker
	url        string
}

// NewHTTPSink は新しいHTTP転送Sinkを生成する。
func NewHTTPSink(sinkURL string) Sink {
	httpClient := resty.New().
		SetTimeout(config.AuditSinkTimeout)

	cbSettings := gobreaker.Settings{
		Name:        config.CBName,
		MaxRequests: config.CBMaxRequests,
		Interval:    config.CBInterval,
		Timeout:     config.CBTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(config.CBFailureThreshold)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			switch to {
			case gobreaker.StateOpen:
				slog.Warn("circuit breaker opened",
					"event_id", "CB_OPEN",
					"cb_name", name,
				)
			case gobreaker.StateHalfOpen:
				slog.Info("circuit breaker half-open",
					"event_id", "CB_HALF_OPEN",
					"cb_name", name,
				)
			case gobreaker.StateClosed:
				slog.Info("circuit breaker closed",
					"event_id", "CB_CLOSE",
					"cb_name", name,
				)
			}
		},
	}

	return &httpSink{
		httpClient: httpClient,
		cb:         gobreaker.NewCircuitBreaker(cbSettings),
		url:        strings.TrimRight(sinkURL, "/"),
	}
}

// Send はエントリを転送する。
func (s *httpSink) Send(entry Entry) error {
	_, err := s.cb.Execute(func() (any, error) {
		resp, err := s.httpClient.R().
			SetHeader("Content-Type", "application/json").
			SetBody(entry).
			Post(s.url)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() >= 300 {
			return nil, fmt.Errorf("audit sink returned status %d", resp.StatusCode())
		}
		return nil, nil
	})
	if err != nil {
		slog.Warn("audit forward failed",
			"event_id", "AUDIT_FWD_ERR",
			"action", entry.Action,
			"error", err.Error(),
		)
	}
	return err
}
