// Package shell is the application state machine of one page load: it
// restores the session, drives the auth modal and hands the session to
// the dashboard of its role.
package shell

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harentsoaR/healthcare-portal/internal/dashboard"
	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/session"
)

var ErrInvalidTransition = errors.New("invalid shell transition")

type State int

const (
	Initializing State = iota
	Unauthenticated
	Authenticated
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// AuthMode is the modal sub-state while unauthenticated.
type AuthMode int

const (
	AuthClosed AuthMode = iota
	AuthLogin
	AuthRegister
)

func (m AuthMode) String() string {
	switch m {
	case AuthClosed:
		return "closed"
	case AuthLogin:
		return "login"
	case AuthRegister:
		return "register"
	}
	return fmt.Sprintf("AuthMode(%d)", int(m))
}

// ParseAuthMode maps the ?auth= query value to a mode; anything else is
// AuthClosed.
func ParseAuthMode(s string) AuthMode {
	switch s {
	case "login":
		return AuthLogin
	case "register":
		return AuthRegister
	}
	return AuthClosed
}

type Gateway interface {
	Restore(ctx context.Context, sid string) (*session.Record, bool)
	Login(ctx context.Context, sid string, data models.LoginFormData) (*session.Record, error)
	Register(ctx context.Context, sid string, data models.RegisterFormData) (*session.Record, error)
	Logout(ctx context.Context, sid string)
}

type Shell struct {
	gw    Gateway
	src   dashboard.Source
	sid   string
	newID func() string
	log   *zap.Logger

	state State
	mode  AuthMode
	rec   *session.Record
	dash  *dashboard.Dashboard
}

func New(gw Gateway, src dashboard.Source, sid string, log *zap.Logger) *Shell {
	return &Shell{gw: gw, src: src, sid: sid, newID: uuid.NewString, log: log.Named("shell")}
}

func (s *Shell) State() State                    { return s.state }
func (s *Shell) AuthMode() AuthMode              { return s.mode }
func (s *Shell) Session() *session.Record        { return s.rec }
func (s *Shell) Dashboard() *dashboard.Dashboard { return s.dash }

// SessionID is the id the session is stored under. Login and Register
// move it to a fresh id.
func (s *Shell) SessionID() string { return s.sid }

// Init restores the persisted session. It may run once per shell.
func (s *Shell) Init(ctx context.Context) error {
	if s.state != Initializing {
		return s.invalid("init")
	}
	rec, ok := s.gw.Restore(ctx, s.sid)
	if !ok {
		s.state = Unauthenticated
		return nil
	}
	if err := s.enter(rec); err != nil {
		s.log.Warn("restored session unusable", zap.Error(err))
		s.state = Unauthenticated
	}
	return nil
}

// OpenAuth shows the auth modal. AuthClosed opens it on login.
func (s *Shell) OpenAuth(mode AuthMode) error {
	if s.state != Unauthenticated {
		return s.invalid("open auth")
	}
	if mode == AuthClosed {
		mode = AuthLogin
	}
	s.mode = mode
	return nil
}

// SwitchAuth toggles between login and register inside an open modal.
func (s *Shell) SwitchAuth(mode AuthMode) error {
	if s.state != Unauthenticated || s.mode == AuthClosed || mode == AuthClosed {
		return s.invalid("switch auth")
	}
	s.mode = mode
	return nil
}

func (s *Shell) CloseAuth() error {
	if s.state != Unauthenticated {
		return s.invalid("close auth")
	}
	s.mode = AuthClosed
	return nil
}

// Login authenticates and, on success, shows the dashboard of the
// profile's role. On failure the shell stays where it was.
func (s *Shell) Login(ctx context.Context, data models.LoginFormData) error {
	if s.state != Unauthenticated {
		return s.invalid("login")
	}
	sid := s.newID()
	rec, err := s.gw.Login(ctx, sid, data)
	if err != nil {
		return err
	}
	return s.open(ctx, sid, rec)
}

func (s *Shell) Register(ctx context.Context, data models.RegisterFormData) error {
	if s.state != Unauthenticated {
		return s.invalid("register")
	}
	sid := s.newID()
	rec, err := s.gw.Register(ctx, sid, data)
	if err != nil {
		return err
	}
	return s.open(ctx, sid, rec)
}

// Logout returns to the landing page from any tab.
func (s *Shell) Logout(ctx context.Context) error {
	if s.state != Authenticated {
		return s.invalid("logout")
	}
	s.gw.Logout(ctx, s.sid)
	s.state = Unauthenticated
	s.mode = AuthClosed
	s.rec = nil
	s.dash = nil
	return nil
}

func (s *Shell) SelectTab(name string) error {
	if s.state != Authenticated {
		return s.invalid("select tab")
	}
	return s.dash.Select(name)
}

// open enters the session just persisted under sid.
func (s *Shell) open(ctx context.Context, sid string, rec *session.Record) error {
	if err := s.enter(rec); err != nil {
		s.gw.Logout(ctx, sid)
		return err
	}
	s.sid = sid
	return nil
}

func (s *Shell) enter(rec *session.Record) error {
	dash, err := dashboard.New(rec, s.src, s.log)
	if err != nil {
		return err
	}
	s.state = Authenticated
	s.mode = AuthClosed
	s.rec = rec
	s.dash = dash
	return nil
}

func (s *Shell) invalid(op string) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, op, s.state)
}
