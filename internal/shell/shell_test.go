package shell

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/harentsoaR/healthcare-portal/internal/api"
	"github.com/harentsoaR/healthcare-portal/internal/auth"
	"github.com/harentsoaR/healthcare-portal/internal/dashboard"
	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/session"
)

// backend answers doc@example.com/pw123 with the cardiologist "7".
type backend struct {
	calls int
}

func (b *backend) Login(_ context.Context, data models.LoginFormData) (*api.AuthResult, error) {
	b.calls++
	if data.Email != "doc@example.com" || data.Password != "pw123" {
		return nil, &api.StatusError{StatusCode: 401, Message: "Invalid credentials"}
	}
	return &api.AuthResult{Profile: models.DoctorProfile(models.Doctor{
		User:           models.User{ID: "7", FirstName: "Gregory", Email: "doc@example.com"},
		Specialization: "Cardiology",
	})}, nil
}

func (b *backend) Register(_ context.Context, req models.RegisterRequest) (*api.AuthResult, error) {
	b.calls++
	return &api.AuthResult{Profile: models.PatientProfile(models.Patient{
		User: models.User{ID: "12", FirstName: req.Name, Email: req.Email},
	})}, nil
}

type noRecords struct{}

func (noRecords) Appointments(context.Context, api.Scope) ([]models.Appointment, error) {
	return nil, nil
}
func (noRecords) Medications(context.Context, api.Scope) ([]models.Medication, error) {
	return nil, nil
}
func (noRecords) Advice(context.Context, api.Scope) ([]models.Advice, error) { return nil, nil }
func (noRecords) Reports(context.Context, api.Scope) ([]models.PatientReport, error) {
	return nil, nil
}
func (noRecords) HealthMetrics(context.Context, api.Scope) ([]models.HealthMetric, error) {
	return nil, nil
}
func (noRecords) Patients(context.Context, api.Scope) ([]models.Patient, error) { return nil, nil }

type fixture struct {
	backend *backend
	store   *session.Store
	gw      *auth.Gateway
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zaptest.NewLogger(t)
	b := &backend{}
	store := session.NewStore(session.NewMemoryBackend(), time.Hour, log)
	return &fixture{backend: b, store: store, gw: auth.NewGateway(b, store, log)}
}

func (f *fixture) shell(t *testing.T) *Shell {
	s := New(f.gw, noRecords{}, "sid", zaptest.NewLogger(t))
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return s
}

func TestInitWithoutSession(t *testing.T) {
	s := newFixture(t).shell(t)
	if s.State() != Unauthenticated || s.AuthMode() != AuthClosed {
		t.Fatalf("state = %s/%s", s.State(), s.AuthMode())
	}
	if err := s.Init(context.Background()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second Init() = %v", err)
	}
}

func TestInitRestoresSession(t *testing.T) {
	f := newFixture(t)
	rec := &session.Record{Profile: models.PatientProfile(models.Patient{
		User: models.User{ID: "12", FirstName: "Ana", Email: "ana@example.com"},
	})}
	if err := f.store.Persist(context.Background(), "sid", rec); err != nil {
		t.Fatal(err)
	}

	s := f.shell(t)
	if s.State() != Authenticated || s.Dashboard().Role() != models.RolePatient {
		t.Fatalf("state = %s", s.State())
	}
	if s.Session().Profile.Patient.User.ID != "12" {
		t.Fatal("restored a different profile")
	}
}

func TestDoctorLoginScenario(t *testing.T) {
	s := newFixture(t).shell(t)
	if err := s.OpenAuth(AuthLogin); err != nil {
		t.Fatal(err)
	}

	err := s.Login(context.Background(), models.LoginFormData{Email: "doc@example.com", Password: "pw123", UserType: models.RoleDoctor})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if s.State() != Authenticated || s.AuthMode() != AuthClosed {
		t.Fatalf("state = %s/%s", s.State(), s.AuthMode())
	}
	d := s.Dashboard()
	if d.Role() != models.RoleDoctor || d.Active() != dashboard.TabOverview {
		t.Fatalf("dashboard = %s/%s", d.Role(), d.Active())
	}
	doc := s.Session().Profile.Doctor
	if doc.User.ID != "7" || doc.Specialization != "Cardiology" {
		t.Fatalf("doctor = %+v", doc)
	}
}

func TestFailedLoginStaysUnauthenticated(t *testing.T) {
	s := newFixture(t).shell(t)
	_ = s.OpenAuth(AuthLogin)

	err := s.Login(context.Background(), models.LoginFormData{Email: "doc@example.com", Password: "nope", UserType: models.RoleDoctor})
	var aerr *auth.AuthError
	if !errors.As(err, &aerr) {
		t.Fatalf("err = %v", err)
	}
	if s.State() != Unauthenticated || s.AuthMode() != AuthLogin {
		t.Fatalf("state = %s/%s", s.State(), s.AuthMode())
	}
}

func TestRegisterMismatchNeverCallsBackend(t *testing.T) {
	f := newFixture(t)
	s := f.shell(t)
	_ = s.OpenAuth(AuthRegister)

	err := s.Register(context.Background(), models.RegisterFormData{
		Name: "Ana", Email: "ana@example.com", Mobile: "1",
		Password: "abc", ConfirmPassword: "xyz", UserType: models.RolePatient,
		FatherName: "Jo", IllnessDescription: "cough",
	})
	if !errors.Is(err, auth.ErrPasswordMismatch) {
		t.Fatalf("err = %v", err)
	}
	if f.backend.calls != 0 {
		t.Fatal("backend was called")
	}
	if s.State() != Unauthenticated || s.AuthMode() != AuthRegister {
		t.Fatalf("state = %s/%s", s.State(), s.AuthMode())
	}
}

func TestLogoutFromAnyTab(t *testing.T) {
	f := newFixture(t)
	s := f.shell(t)
	ctx := context.Background()
	_ = s.Login(ctx, models.LoginFormData{Email: "doc@example.com", Password: "pw123", UserType: models.RoleDoctor})
	if err := s.SelectTab("reports"); err != nil {
		t.Fatal(err)
	}
	sid := s.SessionID()

	if err := s.Logout(ctx); err != nil {
		t.Fatal(err)
	}
	if s.State() != Unauthenticated || s.AuthMode() != AuthClosed || s.Dashboard() != nil {
		t.Fatalf("after logout: %s/%s", s.State(), s.AuthMode())
	}
	if _, ok := f.store.Restore(ctx, sid); ok {
		t.Fatal("session survived logout")
	}
	if err := s.OpenAuth(AuthClosed); err != nil || s.AuthMode() != AuthLogin {
		t.Fatalf("modal default after logout = %s, %v", s.AuthMode(), err)
	}
}

func TestInvalidTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	fresh := New(f.gw, noRecords{}, "sid", zaptest.NewLogger(t))
	if err := fresh.SelectTab("overview"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("SelectTab before Init = %v", err)
	}

	s := f.shell(t)
	if err := s.Logout(ctx); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Logout unauthenticated = %v", err)
	}
	if err := s.SwitchAuth(AuthRegister); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("SwitchAuth with closed modal = %v", err)
	}

	_ = s.Login(ctx, models.LoginFormData{Email: "doc@example.com", Password: "pw123", UserType: models.RoleDoctor})
	if err := s.OpenAuth(AuthLogin); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("OpenAuth authenticated = %v", err)
	}
	if err := s.Login(ctx, models.LoginFormData{}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Login authenticated = %v", err)
	}
}

func TestSwitchAuthMode(t *testing.T) {
	s := newFixture(t).shell(t)
	_ = s.OpenAuth(AuthLogin)
	if err := s.SwitchAuth(AuthRegister); err != nil || s.AuthMode() != AuthRegister {
		t.Fatalf("SwitchAuth = %v, mode %s", err, s.AuthMode())
	}
	_ = s.CloseAuth()
	if s.AuthMode() != AuthClosed {
		t.Fatal("modal still open")
	}
}

func TestLoginMovesSessionID(t *testing.T) {
	f := newFixture(t)
	s := f.shell(t)
	ctx := context.Background()

	if err := s.Login(ctx, models.LoginFormData{Email: "doc@example.com", Password: "pw123", UserType: models.RoleDoctor}); err != nil {
		t.Fatal(err)
	}
	sid := s.SessionID()
	if sid == "" || sid == "sid" {
		t.Fatalf("SessionID() = %q; want a fresh id", sid)
	}
	if _, ok := f.store.Restore(ctx, "sid"); ok {
		t.Fatal("session stored under the incoming id")
	}
	if rec, ok := f.store.Restore(ctx, sid); !ok || rec.Profile.Doctor.User.ID != "7" {
		t.Fatalf("Restore(%q) = %v, %v", sid, rec, ok)
	}
}

func TestFailedLoginKeepsSessionID(t *testing.T) {
	s := newFixture(t).shell(t)
	_ = s.Login(context.Background(), models.LoginFormData{Email: "doc@example.com", Password: "nope", UserType: models.RoleDoctor})
	if s.SessionID() != "sid" {
		t.Fatalf("SessionID() = %q after a failed login", s.SessionID())
	}
}
