package forms

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/harentsoaR/healthcare-portal/internal/auth"
	"github.com/harentsoaR/healthcare-portal/internal/models"
)

type fakeDirectory struct {
	mu      sync.Mutex
	calls   int
	doctors []models.Doctor
	err     error
	// gate, when set, blocks the first call until it is closed
	gate chan struct{}
}

func (f *fakeDirectory) Doctors(ctx context.Context) ([]models.Doctor, error) {
	f.mu.Lock()
	f.calls++
	first := f.calls == 1
	gate := f.gate
	f.mu.Unlock()
	if first && gate != nil {
		<-gate
		return []models.Doctor{doctor("1", "Stale")}, nil
	}
	return f.doctors, f.err
}

func doctor(id, spec string) models.Doctor {
	return models.Doctor{User: models.User{ID: models.ID(id), FirstName: "Doc" + id}, Specialization: spec}
}

func TestSetRoleClearsOtherRoleFields(t *testing.T) {
	dir := &fakeDirectory{doctors: []models.Doctor{doctor("7", "Cardiology")}}
	f := NewRegisterForm(dir, zaptest.NewLogger(t))
	ctx := context.Background()

	f.Fill(models.RegisterFormData{
		UserType:           models.RolePatient,
		Name:               "Ana",
		FatherName:         "Jo",
		IllnessDescription: "cough",
		AssignedDoctorID:   "7",
	})
	if err := f.SetRole(ctx, models.RoleDoctor); err != nil {
		t.Fatal(err)
	}
	d := f.Data()
	if d.FatherName != "" || d.IllnessDescription != "" || d.AssignedDoctorID != "" {
		t.Fatalf("patient fields survived: %+v", d)
	}
	if d.Name != "Ana" {
		t.Fatal("shared field was cleared")
	}
	if dir.calls != 0 {
		t.Fatal("doctor role fetched the directory")
	}

	f.Fill(models.RegisterFormData{UserType: models.RoleDoctor, Specialization: "Cardiology"})
	if err := f.SetRole(ctx, models.RolePatient); err != nil {
		t.Fatal(err)
	}
	if f.Data().Specialization != "" {
		t.Fatal("specialization survived switch to patient")
	}
	if p := f.Data().Payload(); p.Specialization != nil {
		t.Fatal("payload carries doctor field")
	}
}

func TestEverySwitchToPatientRefetches(t *testing.T) {
	dir := &fakeDirectory{doctors: []models.Doctor{doctor("7", "Cardiology")}}
	f := NewRegisterForm(dir, zaptest.NewLogger(t))
	ctx := context.Background()

	_ = f.SetRole(ctx, models.RolePatient)
	_ = f.SetRole(ctx, models.RoleDoctor)
	_ = f.SetRole(ctx, models.RolePatient)
	if dir.calls != 2 {
		t.Fatalf("directory fetched %d times, want 2", dir.calls)
	}
	if got := f.Doctors(); len(got) != 1 || got[0].Label() != "Dr. Doc7 - Cardiology" {
		t.Fatalf("Doctors() = %+v", got)
	}
}

func TestDirectoryFailureStillSubmits(t *testing.T) {
	dir := &fakeDirectory{err: errors.New("boom")}
	f := NewRegisterForm(dir, zaptest.NewLogger(t))
	ctx := context.Background()

	_ = f.SetRole(ctx, models.RolePatient)
	if !f.DirectoryFailed() || len(f.Doctors()) != 0 {
		t.Fatal("expected an empty, failed directory")
	}

	f.Fill(models.RegisterFormData{UserType: models.RolePatient, Password: "a", ConfirmPassword: "a"})
	var sent models.RegisterFormData
	err := f.Submit(ctx, func(_ context.Context, d models.RegisterFormData) error {
		sent = d
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if sent.AssignedDoctorID != "" || sent.Payload().AssignedDoctorID != nil {
		t.Fatal("a doctor was preselected")
	}
}

func TestUnknownDoctorSelectionDropped(t *testing.T) {
	dir := &fakeDirectory{doctors: []models.Doctor{doctor("7", "Cardiology")}}
	f := NewRegisterForm(dir, zaptest.NewLogger(t))

	f.Fill(models.RegisterFormData{UserType: models.RolePatient, AssignedDoctorID: "99"})
	f.RefreshDirectory(context.Background())
	if f.Data().AssignedDoctorID != "" {
		t.Fatal("unknown doctor kept")
	}

	f.Fill(models.RegisterFormData{UserType: models.RolePatient, AssignedDoctorID: "7"})
	f.RefreshDirectory(context.Background())
	if f.Data().AssignedDoctorID != "7" {
		t.Fatal("known doctor dropped")
	}
}

func TestStaleDirectoryDiscarded(t *testing.T) {
	dir := &fakeDirectory{doctors: []models.Doctor{doctor("7", "Cardiology")}, gate: make(chan struct{})}
	f := NewRegisterForm(dir, zaptest.NewLogger(t))
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		f.RefreshDirectory(ctx)
		close(done)
	}()
	for {
		dir.mu.Lock()
		started := dir.calls == 1
		dir.mu.Unlock()
		if started {
			break
		}
	}
	_ = f.SetRole(ctx, models.RolePatient)
	close(dir.gate)
	<-done

	got := f.Doctors()
	if len(got) != 1 || got[0].User.ID != "7" {
		t.Fatalf("Doctors() = %+v; stale result won", got)
	}
}

func TestCancelledFetchDiscarded(t *testing.T) {
	dir := &fakeDirectory{doctors: []models.Doctor{doctor("7", "Cardiology")}}
	f := NewRegisterForm(dir, zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f.RefreshDirectory(ctx)
	if len(f.Doctors()) != 0 {
		t.Fatal("result applied after cancellation")
	}
}

func TestRegisterSubmitMismatch(t *testing.T) {
	f := NewRegisterForm(&fakeDirectory{}, zaptest.NewLogger(t))
	f.Fill(models.RegisterFormData{UserType: models.RolePatient, Name: "Ana", Password: "abc", ConfirmPassword: "xyz"})

	called := false
	err := f.Submit(context.Background(), func(context.Context, models.RegisterFormData) error {
		called = true
		return nil
	})
	if called {
		t.Fatal("submit reached fn")
	}
	if !errors.Is(err, auth.ErrPasswordMismatch) || f.Message() != "Passwords do not match" {
		t.Fatalf("err = %v, message = %q", err, f.Message())
	}
	if f.Data().Name != "Ana" {
		t.Fatal("fields cleared after failed submit")
	}
}

func TestLoginSubmitKeepsInputs(t *testing.T) {
	f := NewLoginForm()
	f.Data.Email = "doc@example.com"
	f.Data.Password = "wrong"
	f.Data.UserType = models.RoleDoctor

	err := f.Submit(context.Background(), func(context.Context, models.LoginFormData) error {
		return &auth.AuthError{Op: auth.OpLogin, Status: 401, Message: "Invalid credentials"}
	})
	if err == nil || f.Message() != "Invalid credentials" {
		t.Fatalf("err = %v, message = %q", err, f.Message())
	}
	if f.Data.Email != "doc@example.com" || f.Data.UserType != models.RoleDoctor {
		t.Fatal("inputs cleared")
	}
}
