package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/harentsoaR/healthcare-portal/internal/auth"
	"github.com/harentsoaR/healthcare-portal/internal/dashboard"
	"github.com/harentsoaR/healthcare-portal/internal/forms"
	"github.com/harentsoaR/healthcare-portal/internal/middleware"
	"github.com/harentsoaR/healthcare-portal/internal/shell"
)

// Backend is what the pages read from the REST API besides authentication.
type Backend interface {
	forms.Directory
	dashboard.Source
}

type Handler struct {
	Gateway *auth.Gateway
	Backend Backend
	Cookie  *middleware.SessionCookie
	Log     *zap.Logger
}

func NewHandler(gateway *auth.Gateway, backend Backend, cookie *middleware.SessionCookie, log *zap.Logger) *Handler {
	return &Handler{
		Gateway: gateway,
		Backend: backend,
		Cookie:  cookie,
		Log:     log.Named("handlers"),
	}
}

// shell starts the state machine of this request and restores the
// session bound to its cookie.
func (h *Handler) shell(c *gin.Context) *shell.Shell {
	sh := shell.New(h.Gateway, h.Backend, middleware.SessionID(c), h.Log)
	if err := sh.Init(c.Request.Context()); err != nil {
		h.Log.Error("shell init", zap.Error(err))
	}
	return sh
}

// statusFor maps an auth failure to the status the page is re-rendered with.
func statusFor(err error) int {
	var (
		verr *auth.ValidationError
		aerr *auth.AuthError
		nerr *auth.NetworkError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &aerr):
		return http.StatusUnauthorized
	case errors.As(err, &nerr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// bindingError turns a form binding failure into the validation error of
// its first field.
func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &auth.ValidationError{Err: err}
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "email":
		return &auth.ValidationError{Field: "email", Err: auth.ErrInvalidEmail}
	case "oneof":
		return &auth.ValidationError{Field: "userType", Err: auth.ErrInvalidRole}
	}
	return &auth.ValidationError{Field: fe.Field(), Err: auth.ErrRequired}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
