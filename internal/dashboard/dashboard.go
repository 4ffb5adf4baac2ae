// Package dashboard builds the role-specific dashboards shown to an
// authenticated user.
package dashboard

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/harentsoaR/healthcare-portal/internal/api"
	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/session"
)

// Source reads the records behind each panel.
type Source interface {
	Appointments(ctx context.Context, s api.Scope) ([]models.Appointment, error)
	Medications(ctx context.Context, s api.Scope) ([]models.Medication, error)
	Advice(ctx context.Context, s api.Scope) ([]models.Advice, error)
	Reports(ctx context.Context, s api.Scope) ([]models.PatientReport, error)
	HealthMetrics(ctx context.Context, s api.Scope) ([]models.HealthMetric, error)
	Patients(ctx context.Context, s api.Scope) ([]models.Patient, error)
}

type Dashboard struct {
	profile models.Profile
	scope   api.Scope
	active  Tab
	src     Source
	log     *zap.Logger
}

// New opens the dashboard for the session's profile on the overview tab.
func New(rec *session.Record, src Source, log *zap.Logger) (*Dashboard, error) {
	if rec == nil {
		return nil, fmt.Errorf("dashboard: no session")
	}
	if err := rec.Profile.Validate(); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	return &Dashboard{
		profile: rec.Profile,
		scope:   api.Scope{Role: rec.Profile.Role, ID: rec.Profile.User().ID, Token: rec.Token},
		active:  TabOverview,
		src:     src,
		log:     log.Named("dashboard"),
	}, nil
}

func (d *Dashboard) Role() models.Role       { return d.profile.Role }
func (d *Dashboard) Profile() models.Profile { return d.profile }
func (d *Dashboard) Tabs() []Tab             { return TabsFor(d.profile.Role) }
func (d *Dashboard) Active() Tab             { return d.active }

// Select makes name the active tab. An unknown tab leaves the selection
// unchanged.
func (d *Dashboard) Select(name string) error {
	t, err := ParseTab(d.profile.Role, name)
	if err != nil {
		return err
	}
	d.active = t
	return nil
}

func (d *Dashboard) Overview() (*Overview, error) {
	return buildOverview(d.profile)
}

// Load fetches the data of the active tab. It returns nil on the overview.
func (d *Dashboard) Load(ctx context.Context) *Panel {
	if d.active == TabOverview {
		return nil
	}
	p := &Panel{Tab: d.active}
	var err error
	switch d.active {
	case TabAppointments:
		p.Appointments, err = d.src.Appointments(ctx, d.scope)
		newestFirst(p.Appointments)
	case TabMedications:
		var meds []models.Medication
		meds, err = d.src.Medications(ctx, d.scope)
		p.ActiveMedications, p.CompletedMedications = splitMedications(meds)
	case TabAdvice:
		p.Advice, err = d.src.Advice(ctx, d.scope)
	case TabReports:
		p.Reports, err = d.src.Reports(ctx, d.scope)
	case TabAnalytics:
		p.Metrics, err = d.src.HealthMetrics(ctx, d.scope)
		oldestFirst(p.Metrics)
		p.Summary = summarize(p.Metrics)
	case TabPatients:
		p.Patients, err = d.src.Patients(ctx, d.scope)
	}
	if err != nil {
		d.log.Warn("panel load failed",
			zap.String("tab", string(d.active)),
			zap.String("user_id", d.scope.ID.String()),
			zap.Error(err))
		return &Panel{Tab: d.active, Err: err}
	}
	return p
}
