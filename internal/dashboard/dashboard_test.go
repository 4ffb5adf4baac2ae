package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/harentsoaR/healthcare-portal/internal/api"
	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/session"
)

type fakeSource struct {
	scopes []api.Scope
	err    error
	appts  []models.Appointment
	meds   []models.Medication
	bp     []models.HealthMetric
}

func (f *fakeSource) Appointments(_ context.Context, s api.Scope) ([]models.Appointment, error) {
	f.scopes = append(f.scopes, s)
	return f.appts, f.err
}

func (f *fakeSource) Medications(_ context.Context, s api.Scope) ([]models.Medication, error) {
	f.scopes = append(f.scopes, s)
	return f.meds, f.err
}

func (f *fakeSource) Advice(_ context.Context, s api.Scope) ([]models.Advice, error) {
	f.scopes = append(f.scopes, s)
	return nil, f.err
}

func (f *fakeSource) Reports(_ context.Context, s api.Scope) ([]models.PatientReport, error) {
	f.scopes = append(f.scopes, s)
	return nil, f.err
}

func (f *fakeSource) HealthMetrics(_ context.Context, s api.Scope) ([]models.HealthMetric, error) {
	f.scopes = append(f.scopes, s)
	return f.bp, f.err
}

func (f *fakeSource) Patients(_ context.Context, s api.Scope) ([]models.Patient, error) {
	f.scopes = append(f.scopes, s)
	return nil, f.err
}

func patientRecord() *session.Record {
	return &session.Record{
		Token: "tok",
		Profile: models.PatientProfile(models.Patient{
			User:               models.User{ID: "12", FirstName: "Ana", LastName: "Lopez", Email: "ana@example.com"},
			FatherName:         "Jo",
			IllnessDescription: "cough",
		}),
	}
}

func doctorRecord() *session.Record {
	return &session.Record{Profile: models.DoctorProfile(models.Doctor{
		User:           models.User{ID: "7", FirstName: "Gregory", Email: "doc@example.com"},
		Specialization: "Cardiology",
	})}
}

func TestTabsPerRole(t *testing.T) {
	log := zaptest.NewLogger(t)
	p, _ := New(patientRecord(), &fakeSource{}, log)
	d, _ := New(doctorRecord(), &fakeSource{}, log)

	want := map[*Dashboard][]Tab{
		p: {TabOverview, TabAppointments, TabMedications, TabAdvice, TabReports, TabAnalytics},
		d: {TabOverview, TabAppointments, TabPatients, TabAdvice, TabReports},
	}
	for dash, tabs := range want {
		got := dash.Tabs()
		if len(got) != len(tabs) {
			t.Fatalf("%s tabs = %v", dash.Role(), got)
		}
		for i := range tabs {
			if got[i] != tabs[i] {
				t.Fatalf("%s tabs = %v, want %v", dash.Role(), got, tabs)
			}
		}
		if dash.Active() != TabOverview {
			t.Fatalf("%s default tab = %s", dash.Role(), dash.Active())
		}
	}
}

func TestSelectUnknownTabKeepsSelection(t *testing.T) {
	d, err := New(doctorRecord(), &fakeSource{}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Select("patients"); err != nil {
		t.Fatal(err)
	}
	if err := d.Select("analytics"); !errors.Is(err, ErrUnknownTab) {
		t.Fatalf("Select(analytics) on doctor = %v", err)
	}
	if d.Active() != TabPatients {
		t.Fatalf("active = %s", d.Active())
	}
}

func TestPatientOverviewFallbacks(t *testing.T) {
	d, _ := New(patientRecord(), &fakeSource{}, zaptest.NewLogger(t))
	ov, err := d.Overview()
	if err != nil {
		t.Fatal(err)
	}
	values := map[string]string{}
	for _, s := range ov.Sections {
		for _, f := range s.Fields {
			values[f.Label] = f.Value
		}
	}
	if values["Assigned Doctor"] != "Not assigned" || values["Specialization"] != "N/A" {
		t.Fatalf("fallbacks = %q / %q", values["Assigned Doctor"], values["Specialization"])
	}
	if ov.Greeting != "Welcome, Ana Lopez" {
		t.Fatalf("greeting = %q", ov.Greeting)
	}
}

func TestOverviewRequiresIdentity(t *testing.T) {
	rec := patientRecord()
	rec.Profile.Patient.User.Email = ""
	d, _ := New(rec, &fakeSource{}, zaptest.NewLogger(t))
	if _, err := d.Overview(); !errors.Is(err, ErrIncompleteProfile) {
		t.Fatalf("err = %v", err)
	}
}

func TestPanelScopedByProfile(t *testing.T) {
	src := &fakeSource{appts: []models.Appointment{
		{ID: "1", DateTime: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)},
		{ID: "2", DateTime: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
	}}
	d, _ := New(patientRecord(), src, zaptest.NewLogger(t))
	_ = d.Select("appointments")

	p := d.Load(context.Background())
	if p.Err != nil {
		t.Fatal(p.Err)
	}
	if p.Appointments[0].ID != "2" {
		t.Fatal("appointments not newest first")
	}
	s := src.scopes[0]
	if s.Role != models.RolePatient || s.ID != "12" || s.Token != "tok" {
		t.Fatalf("scope = %+v", s)
	}
}

func TestPanelFailureStaysInPanel(t *testing.T) {
	d, _ := New(patientRecord(), &fakeSource{err: errors.New("502")}, zaptest.NewLogger(t))
	_ = d.Select("reports")

	p := d.Load(context.Background())
	if p.Err == nil || p.Message() == "" {
		t.Fatal("expected a panel error")
	}
	if _, err := d.Overview(); err != nil {
		t.Fatalf("overview affected by panel failure: %v", err)
	}
}

func TestMedicationsAndAnalytics(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 5, d, 8, 0, 0, 0, time.UTC) }
	src := &fakeSource{
		meds: []models.Medication{{Name: "A"}, {Name: "B", Completed: true}, {Name: "C"}},
		bp: []models.HealthMetric{
			{MeasurementDate: day(3), Systolic: 130, Diastolic: 85},
			{MeasurementDate: day(1), Systolic: 120, Diastolic: 80},
		},
	}
	d, _ := New(patientRecord(), src, zaptest.NewLogger(t))

	_ = d.Select("medications")
	p := d.Load(context.Background())
	if len(p.ActiveMedications) != 2 || len(p.CompletedMedications) != 1 {
		t.Fatalf("active=%d completed=%d", len(p.ActiveMedications), len(p.CompletedMedications))
	}

	_ = d.Select("analytics")
	p = d.Load(context.Background())
	s := p.Summary
	if s == nil || s.Count != 2 || s.AvgSystolic != 125 || s.AvgDiastolic != 83 || s.Latest.Systolic != 130 {
		t.Fatalf("summary = %+v", s)
	}
	if !p.Metrics[0].MeasurementDate.Equal(day(1)) {
		t.Fatal("metrics not in chronological order")
	}
}

func TestOverviewLoadsNothing(t *testing.T) {
	src := &fakeSource{}
	d, _ := New(doctorRecord(), src, zaptest.NewLogger(t))
	if p := d.Load(context.Background()); p != nil || len(src.scopes) != 0 {
		t.Fatal("overview fetched data")
	}
}
