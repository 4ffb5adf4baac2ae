package forms

import (
	"context"

	"github.com/harentsoaR/healthcare-portal/internal/auth"
	"github.com/harentsoaR/healthcare-portal/internal/models"
)

type LoginFunc func(ctx context.Context, data models.LoginFormData) error

type LoginForm struct {
	Data models.LoginFormData
	err  error
}

func NewLoginForm() *LoginForm {
	return &LoginForm{Data: models.LoginFormData{UserType: models.RolePatient}}
}

// Submit hands the inputs to fn. On failure the inputs are kept and the
// error is recorded for display.
func (f *LoginForm) Submit(ctx context.Context, fn LoginFunc) error {
	f.err = fn(ctx, f.Data)
	return f.err
}

func (f *LoginForm) Err() error { return f.err }

func (f *LoginForm) Message() string { return auth.UserMessage(f.err) }
