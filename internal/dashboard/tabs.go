package dashboard

import (
	"errors"
	"fmt"

	"github.com/harentsoaR/healthcare-portal/internal/models"
)

var ErrUnknownTab = errors.New("unknown dashboard tab")

type Tab string

const (
	TabOverview     Tab = "overview"
	TabAppointments Tab = "appointments"
	TabMedications  Tab = "medications"
	TabAdvice       Tab = "advice"
	TabReports      Tab = "reports"
	TabAnalytics    Tab = "analytics"
	TabPatients     Tab = "patients"
)

var (
	patientTabs = []Tab{TabOverview, TabAppointments, TabMedications, TabAdvice, TabReports, TabAnalytics}
	doctorTabs  = []Tab{TabOverview, TabAppointments, TabPatients, TabAdvice, TabReports}
)

// TabsFor lists the tabs of role's dashboard in display order.
func TabsFor(role models.Role) []Tab {
	switch role {
	case models.RolePatient:
		return append([]Tab(nil), patientTabs...)
	case models.RoleDoctor:
		return append([]Tab(nil), doctorTabs...)
	}
	return nil
}

// ParseTab resolves name against role's tabs.
func ParseTab(role models.Role, name string) (Tab, error) {
	for _, t := range TabsFor(role) {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q for %s", ErrUnknownTab, name, role)
}

func (t Tab) Label(role models.Role) string {
	switch t {
	case TabOverview:
		return "Overview"
	case TabAppointments:
		return "Appointments"
	case TabMedications:
		return "Medications"
	case TabAdvice:
		if role == models.RolePatient {
			return "Doctor Advice"
		}
		return "Advice"
	case TabReports:
		return "Reports"
	case TabAnalytics:
		return "Health Analytics"
	case TabPatients:
		return "Patients"
	}
	return string(t)
}
