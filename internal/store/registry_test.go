package store

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/oyaguma3/campus-nac-poc/internal/config"
	"github.com/oyaguma3/campus-nac-poc/internal/session"
)

func newTestRegistry(t *testing.T) session.Registry {
	t.Helper()
	mr := miniredis.RunT(t)

	port, err := strconv.Atoi(mr.Port())
	if err != nil {
		t.Fatalf("invalid miniredis port: %v", err)
	}
	cfg := &config.Config{ValkeyHost: mr.Host(), ValkeyPort: port}
	vc, err := NewValkeyClient(cfg)
	if err != nil {
		t.Fatalf("NewValkeyClient failed: %v", err)
	}
	t.Cleanup(func() { _ = vc.Close() })

	return NewValkeyRegistry(vc)
}

func testParams(subjectID string) session.CreateParams {
	return session.CreateParams{
		SubjectID:   subjectID,
		VLAN:        "student_vlan",
		Bandwidth:   "10Mbps",
		AccessLevel: "STUDENT_ACCESS",
		IPAddress:   "10.0.0.10",
		MACAddress:  "aa:bb:cc:dd:ee:ff",
	}
}

func TestValkeyRegistryCreateAndList(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	sess, err := r.Create(ctx, testParams("ADM001"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if sess.Status != session.StatusActive {
		t.Errorf("Status = %q, want %q", sess.Status, session.StatusActive)
	}

	listed, err := r.List(ctx, session.Principal{SubjectID: "ADM001"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("len(listed) = %d, want 1", len(listed))
	}
	got := listed[0]
	if got.SessionID != sess.SessionID {
		t.Errorf("SessionID = %q, want %q", got.SessionID, sess.SessionID)
	}
	if got.VLAN != "student_vlan" || got.Bandwidth != "10Mbps" {
		t.Errorf("policy fields not round-tripped: %+v", got)
	}
	if !got.StartTime.Equal(sess.StartTime) {
		t.Errorf("StartTime = %v, want %v", got.StartTime, sess.StartTime)
	}
}

func TestValkeyRegistryListFiltersByOwner(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	first, _ := r.Create(ctx, testParams("ADM001"))
	second, _ := r.Create(ctx, testParams("ADM002"))

	own, err := r.List(ctx, session.Principal{SubjectID: "ADM002"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(own) != 1 || own[0].SessionID != second.SessionID {
		t.Errorf("owner filter failed: %+v", own)
	}

	all, err := r.List(ctx, session.Principal{SubjectID: "X", Admin: true})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len(all) = %d, want 2", len(all))
	}
	// 登録順
	if all[0].SessionID != first.SessionID || all[1].SessionID != second.SessionID {
		t.Errorf("insertion order not preserved: %q, %q", all[0].SessionID, all[1].SessionID)
	}
}

func TestValkeyRegistryTerminate(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	sess, _ := r.Create(ctx, testParams("ADM001"))

	got, err := r.Terminate(ctx, session.Principal{SubjectID: "ADM001"}, sess.SessionID)
	if err != nil {
		t.Fatalf("Terminate failed: %v", err)
	}
	if got.Status != session.StatusTerminated {
		t.Errorf("Status = %q, want %q", got.Status, session.StatusTerminated)
	}
	if got.EndTime == nil {
		t.Error("EndTime not set")
	}

	remaining, _ := r.List(ctx, session.Principal{SubjectID: "ADM001"})
	if len(remaining) != 0 {
		t.Errorf("session still listed after terminate: %d", len(remaining))
	}
}

func TestValkeyRegistryTerminateErrors(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	sess, _ := r.Create(ctx, testParams("ADM001"))

	if _, err := r.Terminate(ctx, session.Principal{SubjectID: "ADM002"}, sess.SessionID); !errors.Is(err, session.ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
	if _, err := r.Terminate(ctx, session.Principal{SubjectID: "ADM001"}, "sess_nope"); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}

	// Adminは他subjectのセッションを切断できる
	if _, err := r.Terminate(ctx, session.Principal{SubjectID: "ADMIN9", Admin: true}, sess.SessionID); err != nil {
		t.Errorf("Terminate by admin failed: %v", err)
	}
}

func TestValkeyRegistryTouch(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	sess, _ := r.Create(ctx, testParams("ADM001"))
	at := time.Now().Add(10 * time.Minute).UTC().Truncate(time.Second)

	if err := r.Touch(ctx, sess.SessionID, at); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	listed, _ := r.List(ctx, session.Principal{SubjectID: "ADM001"})
	if !listed[0].LastActivity.Equal(at) {
		t.Errorf("LastActivity = %v, want %v", listed[0].LastActivity, at)
	}

	if err := r.Touch(ctx, "sess_nope", at); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}
