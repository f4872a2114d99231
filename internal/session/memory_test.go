package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func testParams(subjectID string) CreateParams {
	return CreateParams{
		SubjectID:   subjectID,
		VLAN:        "student_vlan",
		Bandwidth:   "10Mbps",
		AccessLevel: "STUDENT_ACCESS",
		IPAddress:   "10.0.0.10",
		MACAddress:  "aa:bb:cc:dd:ee:ff",
	}
}

func TestMemoryRegistryCreate(t *testing.T) {
	r := NewMemoryRegistry()
	ctx := context.Background()

	sess, err := r.Create(ctx, testParams("ADM001"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if sess.SessionID == "" {
		t.Error("SessionID is empty")
	}
	if sess.SubjectID != "ADM001" {
		t.Errorf("SubjectID = %q, want %q", sess.SubjectID, "ADM001")
	}
	if sess.Status != StatusActive {
		t.Errorf("Status = %q, want %q", sess.Status, StatusActive)
	}
	if sess.StartTime.IsZero() {
		t.Error("StartTime is zero")
	}
	if sess.EndTime != nil {
		t.Error("EndTime should be nil for active session")
	}
}

func TestMemoryRegistryListOwnerOnly(t *testing.T) {
	r := NewMemoryRegistry()
	ctx := context.Background()

	if _, err := r.Create(ctx, testParams("ADM001")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := r.Create(ctx, testParams("ADM002")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := r.Create(ctx, testParams("ADM001")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	own, err := r.List(ctx, Principal{SubjectID: "ADM001"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(own) != 2 {
		t.Errorf("len(own) = %d, want 2", len(own))
	}
	for _, s := range own {
		if s.SubjectID != "ADM001" {
			t.Errorf("non-owner session leaked: %q", s.SubjectID)
		}
	}
}

func TestMemoryRegistryListAdminSeesAllInOrder(t *testing.T) {
	r := NewMemoryRegistry()
	ctx := context.Background()

	first, _ := r.Create(ctx, testParams("ADM001"))
	second, _ := r.Create(ctx, testParams("ADM002"))
	third, _ := r.Create(ctx, testParams("ADM003"))

	all, err := r.List(ctx, Principal{SubjectID: "ADMIN9", Admin: true})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}
	wantOrder := []string{first.SessionID, second.SessionID, third.SessionID}
	for i, s := range all {
		if s.SessionID != wantOrder[i] {
			t.Errorf("all[%d].SessionID = %q, want %q (insertion order)", i, s.SessionID, wantOrder[i])
		}
	}
}

func TestMemoryRegistryTerminateByOwner(t *testing.T) {
	r := NewMemoryRegistry()
	ctx := context.Background()

	sess, _ := r.Create(ctx, testParams("ADM001"))

	got, err := r.Terminate(ctx, Principal{SubjectID: "ADM001"}, sess.SessionID)
	if err != nil {
		t.Fatalf("Terminate failed: %v", err)
	}
	if got.Status != StatusTerminated {
		t.Errorf("Status = %q, want %q", got.Status, StatusTerminated)
	}
	if got.EndTime == nil {
		t.Error("EndTime not set on terminated session")
	}

	remaining, _ := r.List(ctx, Principal{SubjectID: "ADM001"})
	if len(remaining) != 0 {
		t.Errorf("session still listed after terminate: %d", len(remaining))
	}
}

func TestMemoryRegistryTerminateByAdmin(t *testing.T) {
	r := NewMemoryRegistry()
	ctx := context.Background()

	sess, _ := r.Create(ctx, testParams("ADM001"))

	got, err := r.Terminate(ctx, Principal{SubjectID: "ADMIN9", Admin: true}, sess.SessionID)
	if err != nil {
		t.Fatalf("Terminate by admin failed: %v", err)
	}
	if got.Status != StatusTerminated {
		t.Errorf("Status = %q, want %q", got.Status, StatusTerminated)
	}
}

func TestMemoryRegistryTerminateForbidden(t *testing.T) {
	r := NewMemoryRegistry()
	ctx := context.Background()

	sess, _ := r.Create(ctx, testParams("ADM001"))

	_, err := r.Terminate(ctx, Principal{SubjectID: "ADM002"}, sess.SessionID)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}

	// セッションは無傷で残る
	remaining, _ := r.List(ctx, Principal{SubjectID: "ADM001"})
	if len(remaining) != 1 {
		t.Fatalf("len(remaining) = %d, want 1", len(remaining))
	}
	if remaining[0].Status != StatusActive {
		t.Errorf("Status = %q, want %q", remaining[0].Status, StatusActive)
	}
}

func TestMemoryRegistryTerminateNotFound(t *testing.T) {
	r := NewMemoryRegistry()

	_, err := r.Terminate(context.Background(), Principal{SubjectID: "ADM001"}, "sess_nope")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestMemoryRegistryTouch(t *testing.T) {
	r := NewMemoryRegistry()
	ctx := context.Background()

	sess, _ := r.Create(ctx, testParams("ADM001"))
	at := time.Now().Add(5 * time.Minute)

	if err := r.Touch(ctx, sess.SessionID, at); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	listed, _ := r.List(ctx, Principal{SubjectID: "ADM001"})
	if !listed[0].LastActivity.Equal(at) {
		t.Errorf("LastActivity = %v, want %v", listed[0].LastActivity, at)
	}

	if err := r.Touch(ctx, "sess_nope", at); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Touch unknown session: err = %v, want ErrSessionNotFound", err)
	}
}

func TestMemoryRegistryConcurrentCreate(t *testing.T) {
	r := NewMemoryRegistry()
	ctx := context.Background()

	const n = 64
	var wg sync.WaitGroup
	ids := make(chan string, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess, err := r.Create(ctx, testParams("ADM001"))
			if err != nil {
				t.Errorf("Create failed: %v", err)
				return
			}
			ids <- sess.SessionID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		if seen[id] {
			t.Errorf("duplicate session id: %s", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Errorf("distinct ids = %d, want %d", len(seen), n)
	}

	all, _ := r.List(ctx, Principal{Admin: true})
	if len(all) != n {
		t.Errorf("len(all) = %d, want %d", len(all), n)
	}
}

func TestMemoryRegistryListSnapshot(t *testing.T) {
	r := NewMemoryRegistry()
	ctx := context.Background()

	r.Create(ctx, testParams("ADM001"))
	listed, _ := r.List(ctx, Principal{SubjectID: "ADM001"})

	// 返却値の破壊がレジストリ内部に波及しない
	listed[0].VLAN = "mutated"
	again, _ := r.List(ctx, Principal{SubjectID: "ADM001"})
	if again[0].VLAN != "student_vlan" {
		t.Errorf("List leaked internal state: VLAN = %q", again[0].VLAN)
	}
}
