package models

// LoginFormData is posted by the sign-in form and forwarded to POST /auth/login.
type LoginFormData struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required"`
	UserType Role   `form:"userType" json:"userType" binding:"required,oneof=patient doctor"`
}

// RegisterFormData holds every field the registration form can show.
// Only the fields of UserType are meaningful; see Payload.
type RegisterFormData struct {
	Name            string `form:"name" json:"name"`
	Email           string `form:"email" json:"email"`
	Mobile          string `form:"mobile" json:"mobile"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword"`
	UserType        Role   `form:"userType" json:"userType"`

	FatherName         string `form:"fatherName" json:"fatherName,omitempty"`
	AssignedDoctorID   string `form:"assignedDoctorId" json:"assignedDoctorId,omitempty"`
	IllnessDescription string `form:"illnessDescription" json:"illnessDescription,omitempty"`

	Specialization string `form:"specialization" json:"specialization,omitempty"`
}

// ClearOtherRole zeroes the fields that do not belong to UserType.
func (d *RegisterFormData) ClearOtherRole() {
	switch d.UserType {
	case RoleDoctor:
		d.FatherName = ""
		d.AssignedDoctorID = ""
		d.IllnessDescription = ""
	default:
		d.Specialization = ""
	}
}

// RegisterRequest is the body of POST /auth/register. Role-specific fields
// are pointers so that the other role's fields are absent, not empty.
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Mobile          string `json:"mobile"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	UserType        Role   `json:"userType"`

	FatherName         *string `json:"fatherName,omitempty"`
	AssignedDoctorID   *string `json:"assignedDoctorId,omitempty"`
	IllnessDescription *string `json:"illnessDescription,omitempty"`

	Specialization *string `json:"specialization,omitempty"`
}

// Payload builds the request for the selected role.
func (d RegisterFormData) Payload() RegisterRequest {
	req := RegisterRequest{
		Name:            d.Name,
		Email:           d.Email,
		Mobile:          d.Mobile,
		Password:        d.Password,
		ConfirmPassword: d.ConfirmPassword,
		UserType:        d.UserType,
	}
	switch d.UserType {
	case RolePatient:
		father, illness := d.FatherName, d.IllnessDescription
		req.FatherName = &father
		req.IllnessDescription = &illness
		if d.AssignedDoctorID != "" {
			doctor := d.AssignedDoctorID
			req.AssignedDoctorID = &doctor
		}
	case RoleDoctor:
		spec := d.Specialization
		req.Specialization = &spec
	}
	return req
}
