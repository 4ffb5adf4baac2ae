// Package auth is the only way into and out of an authenticated session.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/harentsoaR/healthcare-portal/internal/api"
	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/session"
)

// Backend is the part of the API client the gateway needs.
type Backend interface {
	Login(ctx context.Context, data models.LoginFormData) (*api.AuthResult, error)
	Register(ctx context.Context, req models.RegisterRequest) (*api.AuthResult, error)
}

type Store interface {
	Restore(ctx context.Context, id string) (*session.Record, bool)
	Persist(ctx context.Context, id string, rec *session.Record) error
	Clear(ctx context.Context, id string) error
}

type Gateway struct {
	backend Backend
	store   Store
	log     *zap.Logger
	now     func() time.Time
}

func NewGateway(backend Backend, store Store, log *zap.Logger) *Gateway {
	return &Gateway{backend: backend, store: store, log: log.Named("auth"), now: time.Now}
}

// Restore reads the session of sid without modifying it.
func (g *Gateway) Restore(ctx context.Context, sid string) (*session.Record, bool) {
	return g.store.Restore(ctx, sid)
}

// Login authenticates against the backend and persists the returned
// profile under sid. On failure the stored session is left untouched.
func (g *Gateway) Login(ctx context.Context, sid string, data models.LoginFormData) (*session.Record, error) {
	if !data.UserType.Valid() {
		return nil, &ValidationError{Field: "userType", Err: ErrInvalidRole}
	}
	if strings.TrimSpace(data.Email) == "" {
		return nil, &ValidationError{Field: "email", Err: ErrRequired}
	}
	if data.Password == "" {
		return nil, &ValidationError{Field: "password", Err: ErrRequired}
	}

	res, err := g.backend.Login(ctx, data)
	if err != nil {
		return nil, g.classify(OpLogin, err)
	}
	if res.Profile.Role != data.UserType {
		g.log.Warn("backend returned a profile for another role",
			zap.String("requested", data.UserType.String()),
			zap.String("returned", res.Profile.Role.String()))
		return nil, &AuthError{Op: OpLogin, Message: ErrRoleMismatch.Error()}
	}
	return g.open(ctx, OpLogin, sid, res)
}

// Register validates the form locally, then creates the account. A
// password/confirmation mismatch never reaches the network.
func (g *Gateway) Register(ctx context.Context, sid string, data models.RegisterFormData) (*session.Record, error) {
	if err := ValidateRegistration(data); err != nil {
		return nil, err
	}

	res, err := g.backend.Register(ctx, data.Payload())
	if err != nil {
		return nil, g.classify(OpRegister, err)
	}
	if res.Profile.Role != data.UserType {
		return nil, &AuthError{Op: OpRegister, Message: ErrRoleMismatch.Error()}
	}
	return g.open(ctx, OpRegister, sid, res)
}

// Logout clears the session. It is idempotent and never fails; store
// errors are only logged.
func (g *Gateway) Logout(ctx context.Context, sid string) {
	if err := g.store.Clear(ctx, sid); err != nil {
		g.log.Error("clear session", zap.String("sid", sid), zap.Error(err))
	}
}

func (g *Gateway) open(ctx context.Context, op Op, sid string, res *api.AuthResult) (*session.Record, error) {
	rec := &session.Record{Profile: res.Profile, Token: res.Token, CreatedAt: g.now().UTC()}
	if err := g.store.Persist(ctx, sid, rec); err != nil {
		g.log.Error("persist session", zap.String("op", string(op)), zap.Error(err))
		return nil, &NetworkError{Op: op, Err: err}
	}
	u := rec.Profile.User()
	g.log.Info("session opened",
		zap.String("op", string(op)),
		zap.String("role", rec.Profile.Role.String()),
		zap.String("user_id", u.ID.String()))
	return rec, nil
}

func (g *Gateway) classify(op Op, err error) error {
	var serr *api.StatusError
	if errors.As(err, &serr) {
		g.log.Info("backend rejected request",
			zap.String("op", string(op)),
			zap.Int("status", serr.StatusCode),
			zap.String("message", serr.Message))
		return &AuthError{Op: op, Status: serr.StatusCode, Message: serr.Message}
	}
	g.log.Warn("backend unreachable", zap.String("op", string(op)), zap.Error(err))
	return &NetworkError{Op: op, Err: err}
}

// ValidateRegistration runs the checks done before submission. The
// password comparison is exact; nothing is trimmed.
func ValidateRegistration(d models.RegisterFormData) error {
	if !d.UserType.Valid() {
		return &ValidationError{Field: "userType", Err: ErrInvalidRole}
	}
	if d.Password != d.ConfirmPassword {
		return &ValidationError{Field: "confirmPassword", Err: ErrPasswordMismatch}
	}

	required := []struct{ field, value string }{
		{"name", d.Name},
		{"email", d.Email},
		{"mobile", d.Mobile},
		{"password", d.Password},
	}
	switch d.UserType {
	case models.RolePatient:
		required = append(required,
			struct{ field, value string }{"fatherName", d.FatherName},
			struct{ field, value string }{"illnessDescription", d.IllnessDescription})
	case models.RoleDoctor:
		required = append(required, struct{ field, value string }{"specialization", d.Specialization})
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Err: ErrRequired}
		}
	}
	return nil
}
