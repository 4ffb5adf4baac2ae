package session

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/harentsoaR/healthcare-portal/internal/models"
)

func doctorRecord() *Record {
	return &Record{
		Profile: models.DoctorProfile(models.Doctor{
			User:           models.User{ID: "7", FirstName: "Gregory", Email: "doc@example.com"},
			Specialization: "Cardiology",
		}),
		Token: "bearer",
	}
}

func TestRestoreMissingIsAbsence(t *testing.T) {
	s := NewStore(NewMemoryBackend(), time.Hour, zaptest.NewLogger(t))

	if rec, ok := s.Restore(context.Background(), "nope"); ok || rec != nil {
		t.Fatalf("Restore() = %v, %v; want absence", rec, ok)
	}
	if _, ok := s.Restore(context.Background(), ""); ok {
		t.Fatal("empty id must restore nothing")
	}
}

func TestPersistRestoreClear(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	s := NewStore(backend, time.Hour, zaptest.NewLogger(t))

	if err := s.Persist(ctx, "sid", doctorRecord()); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}
	rec, ok := s.Restore(ctx, "sid")
	if !ok {
		t.Fatal("expected a restored record")
	}
	if rec.Profile.Role != models.RoleDoctor || rec.Profile.Doctor.Specialization != "Cardiology" || rec.Token != "bearer" {
		t.Fatalf("restored = %+v", rec)
	}

	if err := s.Clear(ctx, "sid"); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(ctx, "sid"); err != nil {
		t.Fatalf("second Clear() should be a no-op, got %v", err)
	}
	if _, ok := s.Restore(ctx, "sid"); ok {
		t.Fatal("cleared session restored")
	}
}

func TestRestoreMalformedIsAbsence(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	s := NewStore(backend, time.Hour, zaptest.NewLogger(t))

	bad := map[string]string{
		"not json":           `{{{`,
		"role without shape": `{"profile":{"role":"patient","doctor":{"user":{"id":"7","user_type":"doctor"}}}}`,
		"unknown role":       `{"profile":{"role":"admin"}}`,
		"missing id":         `{"profile":{"role":"doctor","doctor":{"user":{"user_type":"doctor"}}}}`,
	}
	for name, data := range bad {
		_ = backend.Set(ctx, name, []byte(data), time.Hour)
		if _, ok := s.Restore(ctx, name); ok {
			t.Errorf("%s: malformed record restored", name)
		}
	}
}

func TestPersistRejectsInconsistentProfile(t *testing.T) {
	s := NewStore(NewMemoryBackend(), time.Hour, zaptest.NewLogger(t))
	rec := &Record{Profile: models.Profile{Role: models.RolePatient}}
	if err := s.Persist(context.Background(), "sid", rec); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestMemoryBackendExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend()
	now := time.Now()
	m.now = func() time.Time { return now }

	_ = m.Set(ctx, "a", []byte("x"), time.Minute)
	if _, err := m.Get(ctx, "a"); err != nil {
		t.Fatalf("fresh entry: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := m.Get(ctx, "a"); err != ErrNotFound {
		t.Fatalf("expired entry: err = %v", err)
	}
	if m.size() != 0 {
		t.Fatal("expired entry not dropped")
	}
}
