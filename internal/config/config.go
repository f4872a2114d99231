// Package config は環境変数から設定を読み込む。
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/oyaguma3/campus-nac-poc/internal/policy"
)

// Config はnac-gatewayの設定を保持する。
type Config struct {
	// サーバー設定
	ListenAddr     string `envconfig:"LISTEN_ADDR" default:":8080"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"INFO"`
	GinMode        string `envconfig:"GIN_MODE" default:"release"`
	LogMaskSubject bool   `envconfig:"LOG_MASK_SUBJECT" default:"true"`

	// セッションストア選択（"memory" or "valkey"）
	SessionStore string `envconfig:"NAC_SESSION_STORE" default:"memory"`

	// Valkey接続設定（NAC_SESSION_STORE=valkey時のみ使用）
	ValkeyHost string `envconfig:"VALKEY_HOST" default:"localhost"`
	ValkeyPort int    `envconfig:"VALKEY_PORT" default:"6379"`
	ValkeyPass string `envconfig:"VALKEY_PASSWORD" default:""`

	// 監査ログの転送先URL（空の場合は転送しない）
	AuditSinkURL string `envconfig:"NAC_AUDIT_SINK_URL" default:""`

	// ティア別ネットワークポリシー値
	AdminVLAN      string `envconfig:"NAC_ADMIN_VLAN" default:"admin_vlan"`
	AdminBandwidth string `envconfig:"NAC_ADMIN_BANDWIDTH" default:"100Mbps"`
	AdminPorts     string `envconfig:"NAC_ADMIN_PORTS" default:"22,80,443,8080,3389,5432"`
	AdminDuration  string `envconfig:"NAC_ADMIN_DURATION" default:"12hours"`

	FacultyVLAN      string `envconfig:"NAC_FACULTY_VLAN" default:"faculty_vlan"`
	FacultyBandwidth string `envconfig:"NAC_FACULTY_BANDWIDTH" default:"50Mbps"`
	FacultyPorts     string `envconfig:"NAC_FACULTY_PORTS" default:"80,443,8080,22"`
	FacultyDuration  string `envconfig:"NAC_FACULTY_DURATION" default:"8hours"`

	StudentVLAN      string `envconfig:"NAC_STUDENT_VLAN" default:"student_vlan"`
	StudentBandwidth string `envconfig:"NAC_STUDENT_BANDWIDTH" default:"10Mbps"`
	StudentPorts     string `envconfig:"NAC_STUDENT_PORTS" default:"80,443,8080"`
	StudentDuration  string `envconfig:"NAC_STUDENT_DURATION" default:"8hours"`

	GuestVLAN      string `envconfig:"NAC_GUEST_VLAN" default:"guest_vlan"`
	GuestBandwidth string `envconfig:"NAC_GUEST_BANDWIDTH" default:"1Mbps"`
	GuestPorts     string `envconfig:"NAC_GUEST_PORTS" default:"80,443"`
	GuestDuration  string `envconfig:"NAC_GUEST_DURATION" default:"1hour"`
}

// Load は環境変数から設定を読み込む。
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.SessionStore != "memory" && cfg.SessionStore != "valkey" {
		return nil, fmt.Errorf("invalid NAC_SESSION_STORE: %q (expected memory or valkey)", cfg.SessionStore)
	}
	return &cfg, nil
}

// ValkeyAddr はValkeyの接続先アドレスを返す。
func (c *Config) ValkeyAddr() string {
	return fmt.Sprintf("%s:%d", c.ValkeyHost, c.ValkeyPort)
}

// UseValkey はValkeyセッションストアを使用するかどうかを返す。
func (c *Config) UseValkey() bool {
	return c.SessionStore == "valkey"
}

// CatalogParams はティア別設定値をパースしてポリシーカタログ用パラメータを返す。
func (c *Config) CatalogParams() (*policy.CatalogParams, error) {
	adminPorts, err := parsePorts(c.AdminPorts)
	if err != nil {
		return nil, fmt.Errorf("invalid NAC_ADMIN_PORTS: %w", err)
	}
	facultyPorts, err := parsePorts(c.FacultyPorts)
	if err != nil {
		return nil, fmt.Errorf("invalid NAC_FACULTY_PORTS: %w", err)
	}
	studentPorts, err := parsePorts(c.StudentPorts)
	if err != nil {
		return nil, fmt.Errorf("invalid NAC_STUDENT_PORTS: %w", err)
	}
	guestPorts, err := parsePorts(c.GuestPorts)
	if err != nil {
		return nil, fmt.Errorf("invalid NAC_GUEST_PORTS: %w", err)
	}

	return &policy.CatalogParams{
		Admin: policy.TierParams{
			VLAN:      c.AdminVLAN,
			Bandwidth: c.AdminBandwidth,
			Ports:     adminPorts,
			Duration:  c.AdminDuration,
		},
		Faculty: policy.TierParams{
			VLAN:      c.FacultyVLAN,
			Bandwidth: c.FacultyBandwidth,
			Ports:     facultyPorts,
			Duration:  c.FacultyDuration,
		},
		Student: policy.TierParams{
			VLAN:      c.StudentVLAN,
			Bandwidth: c.StudentBandwidth,
			Ports:     studentPorts,
			Duration:  c.StudentDuration,
		},
		Guest: policy.TierParams{
			VLAN:      c.GuestVLAN,
			Bandwidth: c.GuestBandwidth,
			Ports:     guestPorts,
			Duration:  c.GuestDuration,
		},
	}, nil
}

// parsePorts はカンマ区切りのポート番号リストをパースする。
// 形式: "80,443,8080"。空文字列は空リストを返す。
func parsePorts(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ports := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid port %q", part)
		}
		if n < 1 || n > 65535 {
			return nil, fmt.Errorf("port %d out of range", n)
		}
		ports = append(ports, n)
	}
	return ports, nil
}
