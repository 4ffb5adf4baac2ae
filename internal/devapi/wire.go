package devapi

import (
	"time"

	"github.com/harentsoaR/healthcare-portal/internal/models"
)

// The development API speaks the backend's JSON: numeric primary keys
// and snake_case fields.

type userJSON struct {
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Mobile    string      `json:"mobile"`
	UserType  models.Role `json:"user_type"`
	CreatedAt time.Time   `json:"created_at"`
}

type patientJSON struct {
	User                         userJSON `json:"user"`
	FatherName                   string   `json:"father_name"`
	AssignedDoctor               *int64   `json:"assigned_doctor"`
	AssignedDoctorName           string   `json:"assigned_doctor_name,omitempty"`
	AssignedDoctorSpecialization string   `json:"assigned_doctor_specialization,omitempty"`
	IllnessDescription           string   `json:"illness_description"`
}

type doctorJSON struct {
	User           userJSON `json:"user"`
	Specialization string   `json:"specialization"`
}

func userOf(a *account) userJSON {
	return userJSON{
		ID:        a.id,
		Username:  a.email,
		Email:     a.email,
		FirstName: a.firstName,
		LastName:  a.lastName,
		Mobile:    a.mobile,
		UserType:  a.role,
		CreatedAt: a.createdAt,
	}
}
