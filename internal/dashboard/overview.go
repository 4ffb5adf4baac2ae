package dashboard

import (
	"errors"
	"strings"

	"github.com/harentsoaR/healthcare-portal/internal/models"
)

const (
	notAssigned  = "Not assigned"
	notAvailable = "N/A"
)

var ErrIncompleteProfile = errors.New("profile is missing id, first name or email")

type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Section struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

type Overview struct {
	Greeting string    `json:"greeting"`
	Sections []Section `json:"sections"`
}

func buildOverview(p models.Profile) (*Overview, error) {
	u := p.User()
	if u.ID == "" || strings.TrimSpace(u.FirstName) == "" || strings.TrimSpace(u.Email) == "" {
		return nil, ErrIncompleteProfile
	}

	switch p.Role {
	case models.RolePatient:
		pt := p.Patient
		return &Overview{
			Greeting: "Welcome, " + u.FullName(),
			Sections: []Section{
				{Title: "Personal Information", Fields: []Field{
					{"Full Name", u.FullName()},
					{"Father's Name", pt.FatherName},
					{"Email", u.Email},
					{"Mobile", u.Mobile},
				}},
				{Title: "Medical Information", Fields: []Field{
					{"Assigned Doctor", orDefault(pt.AssignedDoctorName, notAssigned)},
					{"Specialization", orDefault(pt.AssignedDoctorSpecialization, notAvailable)},
					{"Primary Concern", pt.IllnessDescription},
				}},
			},
		}, nil
	case models.RoleDoctor:
		return &Overview{
			Greeting: "Welcome, Dr. " + u.FullName(),
			Sections: []Section{
				{Title: "Professional Information", Fields: []Field{
					{"Full Name", "Dr. " + u.FullName()},
					{"Specialization", orDefault(p.Doctor.Specialization, notAvailable)},
					{"Email", u.Email},
					{"Mobile", u.Mobile},
				}},
			},
		}, nil
	}
	return nil, models.ErrUnknownRole
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
