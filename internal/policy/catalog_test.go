package policy

import (
	"reflect"
	"testing"
)

func TestCatalogTotality(t *testing.T) {
	c := NewCatalog(nil)

	for _, tier := range Tiers {
		p := c.PolicyFor(tier)
		if p == nil {
			t.Fatalf("PolicyFor(%v) = nil", tier)
		}
		if p.Tier != tier {
			t.Errorf("PolicyFor(%v).Tier = %v", tier, p.Tier)
		}
	}
}

func TestCatalogDefaults(t *testing.T) {
	c := NewCatalog(nil)

	tests := []struct {
		tier      Tier
		vlan      string
		bandwidth string
		ports     []int
		duration  string
		level     string
	}{
		{TierAdmin, "admin_vlan", "100Mbps", []int{22, 80, 443, 8080, 3389, 5432}, "12hours", AccessLevelAdmin},
		{TierFaculty, "faculty_vlan", "50Mbps", []int{80, 443, 8080, 22}, "8hours", AccessLevelFaculty},
		{TierStudent, "student_vlan", "10Mbps", []int{80, 443, 8080}, "8hours", AccessLevelStudent},
		{TierUnconfirmed, "", "0Mbps", nil, "0minutes", AccessLevelPendingApproval},
		{TierDenied, "guest_vlan", "1Mbps", []int{80, 443}, "1hour", AccessLevelBlocked},
	}

	for _, tt := range tests {
		p := c.PolicyFor(tt.tier)
		if p.VLAN != tt.vlan {
			t.Errorf("%v: VLAN = %q, want %q", tt.tier, p.VLAN, tt.vlan)
		}
		if p.Bandwidth != tt.bandwidth {
			t.Errorf("%v: Bandwidth = %q, want %q", tt.tier, p.Bandwidth, tt.bandwidth)
		}
		if !reflect.DeepEqual(p.AllowedPorts, tt.ports) {
			t.Errorf("%v: AllowedPorts = %v, want %v", tt.tier, p.AllowedPorts, tt.ports)
		}
		if p.SessionDuration != tt.duration {
			t.Errorf("%v: SessionDuration = %q, want %q", tt.tier, p.SessionDuration, tt.duration)
		}
		if p.AccessLevel != tt.level {
			t.Errorf("%v: AccessLevel = %q, want %q", tt.tier, p.AccessLevel, tt.level)
		}
	}
}

func TestCatalogPure(t *testing.T) {
	c := NewCatalog(nil)

	first := c.PolicyFor(TierStudent)
	second := c.PolicyFor(TierStudent)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("PolicyFor is not pure: %+v != %+v", first, second)
	}

	// 返却値を破壊しても内部表は汚れない
	first.AllowedPorts[0] = 9999
	first.VLAN = "mutated"
	third := c.PolicyFor(TierStudent)
	if !reflect.DeepEqual(second, third) {
		t.Errorf("PolicyFor leaked internal state: %+v != %+v", second, third)
	}
}

func TestCatalogCustomParams(t *testing.T) {
	params := DefaultCatalogParams()
	params.Student.VLAN = "dorm_vlan"
	params.Student.Bandwidth = "20Mbps"

	c := NewCatalog(params)
	p := c.PolicyFor(TierStudent)
	if p.VLAN != "dorm_vlan" {
		t.Errorf("VLAN = %q, want %q", p.VLAN, "dorm_vlan")
	}
	if p.Bandwidth != "20Mbps" {
		t.Errorf("Bandwidth = %q, want %q", p.Bandwidth, "20Mbps")
	}
}

func TestNoSessionForRejectTiers(t *testing.T) {
	if TierUnconfirmed.Admissible() {
		t.Error("TierUnconfirmed.Admissible() = true, want false")
	}
	if TierDenied.Admissible() {
		t.Error("TierDenied.Admissible() = true, want false")
	}
	if !TierStudent.Admissible() || !TierFaculty.Admissible() || !TierAdmin.Admissible() {
		t.Error("admissible tiers reported as not admissible")
	}
}
