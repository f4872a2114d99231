package policy

// アクセスレベルラベル
const (
	AccessLevelAdmin           = "ADMIN_ACCESS"
	AccessLevelFaculty         = "FACULTY_ACCESS"
	AccessLevelStudent         = "STUDENT_ACCESS"
	AccessLevelPendingApproval = "PENDING_APPROVAL"
	AccessLevelBlocked         = "BLOCKED"
)

// 利用者向けメッセージ
const (
	msgAdminGranted   = "Full network access granted"
	msgFacultyGranted = "Faculty network access granted"
	msgStudentGranted = "Student network access granted"
	msgPending        = "Account pending admin approval"
	msgBlocked        = "No valid network access role"
)

// TierParams は設定から注入するティア別ネットワークパラメータ。
type TierParams struct {
	VLAN      string
	Bandwidth string
	Ports     []int
	Duration  string
}

// CatalogParams はCatalog構築用のパラメータ一式。
// Unconfirmedティアは常に帯域ゼロ・VLANなしの拒否形ポリシーであり、設定対象外。
type CatalogParams struct {
	Admin   TierParams
	Faculty TierParams
	Student TierParams
	Guest   TierParams // Deniedティアに適用されるゲスト相当の拒否形ポリシー
}

// DefaultCatalogParams は既定のパラメータを返す。
func DefaultCatalogParams() *CatalogParams {
	return &CatalogParams{
		Admin: TierParams{
			VLAN:      "admin_vlan",
			Bandwidth: "100Mbps",
			Ports:     []int{22, 80, 443, 8080, 3389, 5432},
			Duration:  "12hours",
		},
		Faculty: TierParams{
			VLAN:      "faculty_vlan",
			Bandwidth: "50Mbps",
			Ports:     []int{80, 443, 8080, 22},
			Duration:  "8hours",
		},
		Student: TierParams{
			VLAN:      "student_vlan",
			Bandwidth: "10Mbps",
			Ports:     []int{80, 443, 8080},
			Duration:  "8hours",
		},
		Guest: TierParams{
			VLAN:      "guest_vlan",
			Bandwidth: "1Mbps",
			Ports:     []int{80, 443},
			Duration:  "1hour",
		},
	}
}

// Catalog はティアからネットワークポリシーへの静的な対応表。
// 全ティアに対して必ずエントリを持ち（全域）、実行時に変更されない。
type Catalog struct {
	policies map[Tier]*NetworkPolicy
}

// NewCatalog は指定されたパラメータからCatalogを構築する。
// paramsがnilの場合は既定値を使用する。
func NewCatalog(params *CatalogParams) *Catalog {
	if params == nil {
		params = DefaultCatalogParams()
	}
	return &Catalog{
		policies: map[Tier]*NetworkPolicy{
			TierAdmin: {
				Tier:            TierAdmin,
				VLAN:            params.Admin.VLAN,
				Bandwidth:       params.Admin.Bandwidth,
				AllowedPorts:    params.Admin.Ports,
				SessionDuration: params.Admin.Duration,
				AccessLevel:     AccessLevelAdmin,
				Message:         msgAdminGranted,
			},
			TierFaculty: {
				Tier:            TierFaculty,
				VLAN:            params.Faculty.VLAN,
				Bandwidth:       params.Faculty.Bandwidth,
				AllowedPorts:    params.Faculty.Ports,
				SessionDuration: params.Faculty.Duration,
				AccessLevel:     AccessLevelFaculty,
				Message:         msgFacultyGranted,
			},
			TierStudent: {
				Tier:            TierStudent,
				VLAN:            params.Student.VLAN,
				Bandwidth:       params.Student.Bandwidth,
				AllowedPorts:    params.Student.Ports,
				SessionDuration: params.Student.Duration,
				AccessLevel:     AccessLevelStudent,
				Message:         msgStudentGranted,
			},
			TierUnconfirmed: {
				Tier:            TierUnconfirmed,
				VLAN:            "",
				Bandwidth:       "0Mbps",
				AllowedPorts:    nil,
				SessionDuration: "0minutes",
				AccessLevel:     AccessLevelPendingApproval,
				Message:         msgPending,
			},
			TierDenied: {
				Tier:            TierDenied,
				VLAN:            params.Guest.VLAN,
				Bandwidth:       params.Guest.Bandwidth,
				AllowedPorts:    params.Guest.Ports,
				SessionDuration: params.Guest.Duration,
				AccessLevel:     AccessLevelBlocked,
				Message:         msgBlocked,
			},
		},
	}
}

// PolicyFor はティアに対応するネットワークポリシーを返す。
// 全ティアにエントリが存在するため失敗経路はない。
// 返却値のコピーを返し、内部表は変更されない。
func (c *Catalog) PolicyFor(tier Tier) *NetworkPolicy {
	p, ok := c.policies[tier]
	if !ok {
		// 未知のティアはDenied扱い（Classifyが返さない値への防波堤）
		p = c.policies[TierDenied]
	}
	cp := *p
	cp.AllowedPorts = append([]int(nil), p.AllowedPorts...)
	return &cp
}
