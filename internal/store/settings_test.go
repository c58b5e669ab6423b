package store

import (
	"errors"
	"testing"
)

func TestSettingsRepository(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if _, err := repo.Get(SettingSteering); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() on empty store error = %v, want ErrNotFound", err)
	}

	for _, v := range []string{"follow", "flee"} {
		if err := repo.Set(SettingSteering, v); err != nil {
			t.Fatalf("Set(%q) error = %v", v, err)
		}
		got, err := repo.Get(SettingSteering)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != v {
			t.Errorf("Get() = %q, want %q", got, v)
		}
	}
}
