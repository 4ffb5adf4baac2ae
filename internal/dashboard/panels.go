package dashboard

import (
	"math"
	"sort"

	"github.com/harentsoaR/healthcare-portal/internal/models"
)

// Panel is the content of one non-overview tab. When Err is set the
// other fields are empty and only this panel shows the failure.
type Panel struct {
	Tab Tab   `json:"tab"`
	Err error `json:"-"`

	Appointments         []models.Appointment   `json:"appointments,omitempty"`
	ActiveMedications    []models.Medication    `json:"active_medications,omitempty"`
	CompletedMedications []models.Medication    `json:"completed_medications,omitempty"`
	Advice               []models.Advice        `json:"advice,omitempty"`
	Reports              []models.PatientReport `json:"reports,omitempty"`
	Patients             []models.Patient       `json:"patients,omitempty"`
	Metrics              []models.HealthMetric  `json:"metrics,omitempty"`
	Summary              *PressureSummary       `json:"summary,omitempty"`
}

func (p *Panel) Message() string {
	if p.Err == nil {
		return ""
	}
	return "Could not load this section. Please try again later."
}

// PressureSummary condenses blood pressure readings for the analytics tab.
type PressureSummary struct {
	Latest       models.HealthMetric `json:"latest"`
	AvgSystolic  int                 `json:"avg_systolic"`
	AvgDiastolic int                 `json:"avg_diastolic"`
	Count        int                 `json:"count"`
}

func summarize(metrics []models.HealthMetric) *PressureSummary {
	if len(metrics) == 0 {
		return nil
	}
	var sys, dia int
	latest := metrics[0]
	for _, m := range metrics {
		sys += m.Systolic
		dia += m.Diastolic
		if m.MeasurementDate.After(latest.MeasurementDate) {
			latest = m
		}
	}
	n := float64(len(metrics))
	return &PressureSummary{
		Latest:       latest,
		AvgSystolic:  int(math.Round(float64(sys) / n)),
		AvgDiastolic: int(math.Round(float64(dia) / n)),
		Count:        len(metrics),
	}
}

func splitMedications(meds []models.Medication) (active, completed []models.Medication) {
	for _, m := range meds {
		if m.Completed {
			completed = append(completed, m)
		} else {
			active = append(active, m)
		}
	}
	return active, completed
}

func newestFirst(appts []models.Appointment) {
	sort.SliceStable(appts, func(i, j int) bool {
		return appts[i].DateTime.After(appts[j].DateTime)
	})
}

func oldestFirst(metrics []models.HealthMetric) {
	sort.SliceStable(metrics, func(i, j int) bool {
		return metrics[i].MeasurementDate.Before(metrics[j].MeasurementDate)
	})
}
