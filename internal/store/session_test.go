package store

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSessionRepository_Create(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	sess := &Session{Steering: "follow", ScreenWidth: 1920, ScreenHeight: 1080}
	if err := repo.Create(sess); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := uuid.Parse(sess.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", sess.ID, err)
	}
	if sess.StartedAt.IsZero() {
		t.Error("StartedAt should be set after Create")
	}

	got, err := repo.GetByID(sess.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Steering != "follow" || got.ScreenWidth != 1920 || got.ScreenHeight != 1080 {
		t.Errorf("GetByID() = %+v", got)
	}
	if got.Finished() {
		t.Error("new session should not be finished")
	}
	if d := got.StartedAt.Sub(sess.StartedAt); d > time.Millisecond || d < -time.Millisecond {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, sess.StartedAt)
	}
}

func TestSessionRepository_CreateRejectsUnknownSteering(t *testing.T) {
	s := newTestStore(t)

	if err := s.Sessions().Create(&Session{Steering: "dance", ScreenWidth: 1, ScreenHeight: 1}); err == nil {
		t.Error("Create() with unknown steering should fail")
	}
}

func TestSessionRepository_Finish(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	sess := &Session{Steering: "flee", ScreenWidth: 800, ScreenHeight: 600}
	if err := repo.Create(sess); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	totals := Totals{Ticks: 3600, SkippedFrames: 12, HandTicks: 1800}
	if err := repo.Finish(sess.ID, totals); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	got, err := repo.GetByID(sess.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !got.Finished() {
		t.Fatal("session should be finished")
	}
	if got.Ticks != 3600 || got.SkippedFrames != 12 || got.HandTicks != 1800 {
		t.Errorf("totals = %d/%d/%d, want 3600/12/1800", got.Ticks, got.SkippedFrames, got.HandTicks)
	}
	if got.Duration() < 0 {
		t.Errorf("Duration() = %v, want >= 0", got.Duration())
	}
}

func TestSessionRepository_NotFound(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	if _, err := repo.GetByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
	if err := repo.Finish("missing", Totals{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Finish() error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestSessionRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	var ids []string
	for i := 0; i < 5; i++ {
		sess := &Session{Steering: "follow", ScreenWidth: 640, ScreenHeight: 480}
		if err := repo.Create(sess); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		ids = append(ids, sess.ID)
		time.Sleep(2 * time.Millisecond)
	}

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"limited", 3, 3},
		{"more than stored", 10, 5},
		{"default", 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(tt.limit)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("len(List()) = %d, want %d", len(got), tt.want)
			}
			if got[0].ID != ids[len(ids)-1] {
				t.Errorf("first session = %s, want newest %s", got[0].ID, ids[len(ids)-1])
			}
		})
	}
}

func TestSessionRepository_DeleteCascadesWindows(t *testing.T) {
	s := newTestStore(t)

	sess := &Session{Steering: "follow", ScreenWidth: 640, ScreenHeight: 480}
	if err := s.Sessions().Create(sess); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Windows().Add(Window{SessionID: sess.ID, Index: 0, MeanSpeed: 3}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := s.Sessions().Delete(sess.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	windows, err := s.Windows().ListBySession(sess.ID)
	if err != nil {
		t.Fatalf("ListBySession() error = %v", err)
	}
	if len(windows) != 0 {
		t.Errorf("len(windows) = %d after delete, want 0", len(windows))
	}
}
