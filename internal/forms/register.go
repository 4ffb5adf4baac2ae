// Package forms holds the state of the login and registration forms
// between a render and a submit.
package forms

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/harentsoaR/healthcare-portal/internal/auth"
	"github.com/harentsoaR/healthcare-portal/internal/models"
)

// Directory lists the doctors a patient can pick at registration.
type Directory interface {
	Doctors(ctx context.Context) ([]models.Doctor, error)
}

type RegisterFunc func(ctx context.Context, data models.RegisterFormData) error

type RegisterForm struct {
	mu sync.Mutex

	data            models.RegisterFormData
	doctors         []models.Doctor
	directoryFailed bool
	generation      uint64
	err             error

	source Directory
	log    *zap.Logger
}

// NewRegisterForm returns an empty form for a patient. The directory is
// not loaded until SetRole or RefreshDirectory is called.
func NewRegisterForm(source Directory, log *zap.Logger) *RegisterForm {
	return &RegisterForm{
		data:   models.RegisterFormData{UserType: models.RolePatient},
		source: source,
		log:    log.Named("register_form"),
	}
}

// Fill replaces the field values, for instance with a posted form. Fields
// of the other role are dropped. An unknown role keeps the current one;
// callers must reject it before submitting.
func (f *RegisterForm) Fill(d models.RegisterFormData) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !d.UserType.Valid() {
		d.UserType = f.data.UserType
	}
	d.ClearOtherRole()
	f.data = d
}

// SetRole switches the form to role. Switching to patient re-fetches the
// doctor directory every time.
func (f *RegisterForm) SetRole(ctx context.Context, role models.Role) error {
	if !role.Valid() {
		return &auth.ValidationError{Field: "userType", Err: auth.ErrInvalidRole}
	}

	f.mu.Lock()
	f.data.UserType = role
	f.data.ClearOtherRole()
	// invalidates any fetch still in flight
	f.generation++
	if role == models.RoleDoctor {
		f.doctors = nil
		f.directoryFailed = false
	}
	f.mu.Unlock()

	if role == models.RolePatient {
		f.RefreshDirectory(ctx)
	}
	return nil
}

// RefreshDirectory loads the doctor directory. A failure leaves an empty
// directory and is only logged. The result is dropped if the role changed
// in the meantime or ctx is done.
func (f *RegisterForm) RefreshDirectory(ctx context.Context) {
	f.mu.Lock()
	f.generation++
	gen := f.generation
	f.mu.Unlock()

	doctors, err := f.source.Doctors(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.generation || ctx.Err() != nil || f.data.UserType != models.RolePatient {
		f.log.Debug("discarding stale doctor directory", zap.Uint64("generation", gen))
		return
	}
	if err != nil {
		f.log.Warn("doctor directory unavailable", zap.Error(err))
		f.doctors = nil
		f.directoryFailed = true
		return
	}
	f.doctors = doctors
	f.directoryFailed = false

	if id := f.data.AssignedDoctorID; id != "" && !f.hasDoctor(id) {
		f.data.AssignedDoctorID = ""
	}
}

func (f *RegisterForm) hasDoctor(id string) bool {
	for _, d := range f.doctors {
		if d.User.ID.String() == id {
			return true
		}
	}
	return false
}

// Submit checks the password confirmation, then hands the data to fn.
// Field values survive a failed submit; the error is kept for display.
func (f *RegisterForm) Submit(ctx context.Context, fn RegisterFunc) error {
	f.mu.Lock()
	data := f.data
	f.mu.Unlock()

	var err error
	if data.Password != data.ConfirmPassword {
		err = &auth.ValidationError{Field: "confirmPassword", Err: auth.ErrPasswordMismatch}
	} else {
		err = fn(ctx, data)
	}

	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
	return err
}

func (f *RegisterForm) Data() models.RegisterFormData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data
}

func (f *RegisterForm) Role() models.Role {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data.UserType
}

// Doctors returns a copy of the loaded directory.
func (f *RegisterForm) Doctors() []models.Doctor {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Doctor(nil), f.doctors...)
}

func (f *RegisterForm) DirectoryFailed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.directoryFailed
}

func (f *RegisterForm) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Message is the error text to show, or "".
func (f *RegisterForm) Message() string {
	return auth.UserMessage(f.Err())
}
