package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role is the patient/doctor designation carried by every user.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

var (
	ErrUnknownRole  = errors.New("unknown role")
	ErrProfileShape = errors.New("profile does not match its role")
	ErrMissingID    = errors.New("profile has no user id")
)

// ParseRole accepts the wire spelling of a role, case-insensitively.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RolePatient:
		return RolePatient, nil
	case RoleDoctor:
		return RoleDoctor, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

func (r Role) Valid() bool { return r == RolePatient || r == RoleDoctor }

func (r Role) String() string { return string(r) }

// ID is a backend identifier. The API sends numeric primary keys, the
// portal treats them as opaque strings.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// User is the identity record issued by the backend.
type User struct {
	ID        ID        `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Mobile    string    `json:"mobile"`
	UserType  Role      `json:"user_type"`
	CreatedAt time.Time `json:"created_at"`
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type Patient struct {
	User                         User   `json:"user"`
	FatherName                   string `json:"father_name"`
	AssignedDoctor               *ID    `json:"assigned_doctor"`
	AssignedDoctorName           string `json:"assigned_doctor_name,omitempty"`
	AssignedDoctorSpecialization string `json:"assigned_doctor_specialization,omitempty"`
	IllnessDescription           string `json:"illness_description"`
}

type Doctor struct {
	User           User   `json:"user"`
	Specialization string `json:"specialization"`
}

// Label is how a doctor is offered in the registration directory.
func (d Doctor) Label() string {
	return fmt.Sprintf("Dr. %s - %s", d.User.FullName(), d.Specialization)
}

// Profile is the role-tagged union of Patient and Doctor. Exactly one of
// the variants is set and it always matches Role.
type Profile struct {
	Role    Role     `json:"role"`
	Patient *Patient `json:"patient,omitempty"`
	Doctor  *Doctor  `json:"doctor,omitempty"`
}

func PatientProfile(p Patient) Profile {
	p.User.UserType = RolePatient
	return Profile{Role: RolePatient, Patient: &p}
}

func DoctorProfile(d Doctor) Profile {
	d.User.UserType = RoleDoctor
	return Profile{Role: RoleDoctor, Doctor: &d}
}

// Validate enforces the union contract.
func (p Profile) Validate() error {
	var u User
	switch p.Role {
	case RolePatient:
		if p.Patient == nil || p.Doctor != nil {
			return fmt.Errorf("%w: role %s", ErrProfileShape, p.Role)
		}
		u = p.Patient.User
	case RoleDoctor:
		if p.Doctor == nil || p.Patient != nil {
			return fmt.Errorf("%w: role %s", ErrProfileShape, p.Role)
		}
		u = p.Doctor.User
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRole, p.Role)
	}
	if u.UserType != p.Role {
		return fmt.Errorf("%w: user_type %q under role %s", ErrProfileShape, u.UserType, p.Role)
	}
	if u.ID == "" {
		return ErrMissingID
	}
	return nil
}

// User returns the identity of whichever variant is held.
func (p Profile) User() User {
	switch p.Role {
	case RolePatient:
		if p.Patient != nil {
			return p.Patient.User
		}
	case RoleDoctor:
		if p.Doctor != nil {
			return p.Doctor.User
		}
	}
	return User{}
}

// ParseProfile decodes a bare Patient or Doctor object as the backend
// serializes it, using user.user_type as the discriminator.
func ParseProfile(data []byte) (Profile, error) {
	var head struct {
		User struct {
			UserType string `json:"user_type"`
		} `json:"user"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	role, err := ParseRole(head.User.UserType)
	if err != nil {
		return Profile{}, err
	}

	var p Profile
	switch role {
	case RolePatient:
		var pt Patient
		if err := json.Unmarshal(data, &pt); err != nil {
			return Profile{}, fmt.Errorf("decode patient: %w", err)
		}
		pt.User.UserType = role
		p = Profile{Role: role, Patient: &pt}
	case RoleDoctor:
		var d Doctor
		if err := json.Unmarshal(data, &d); err != nil {
			return Profile{}, fmt.Errorf("decode doctor: %w", err)
		}
		d.User.UserType = role
		p = Profile{Role: role, Doctor: &d}
	}
	return p, p.Validate()
}
