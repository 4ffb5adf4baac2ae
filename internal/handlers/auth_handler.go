package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harentsoaR/healthcare-portal/internal/auth"
	"github.com/harentsoaR/healthcare-portal/internal/forms"
	"github.com/harentsoaR/healthcare-portal/internal/middleware"
	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/shell"
)

// Landing renders the public page. ?auth=login|register opens the modal.
func (h *Handler) Landing(c *gin.Context) {
	sh := h.shell(c)
	if sh.State() == shell.Authenticated {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	mode := shell.ParseAuthMode(c.Query("auth"))
	if mode != shell.AuthClosed {
		_ = sh.OpenAuth(mode)
	}
	view := newLandingView(sh.AuthMode())
	switch sh.AuthMode() {
	case shell.AuthLogin:
		view.Login = forms.NewLoginForm()
	case shell.AuthRegister:
		view.Register = h.registerForm(c, c.Query("role"))
	}
	c.HTML(http.StatusOK, "landing.html", view)
}

// RegisterForm renders the register modal for ?role=.
func (h *Handler) RegisterForm(c *gin.Context) {
	sh := h.shell(c)
	if sh.State() == shell.Authenticated {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	_ = sh.OpenAuth(shell.AuthRegister)
	view := newLandingView(sh.AuthMode())
	view.Register = h.registerForm(c, c.Query("role"))
	c.HTML(http.StatusOK, "landing.html", view)
}

func (h *Handler) registerForm(c *gin.Context, role string) *forms.RegisterForm {
	form := forms.NewRegisterForm(h.Backend, h.Log)
	r, err := models.ParseRole(role)
	if err != nil {
		r = models.RolePatient
	}
	_ = form.SetRole(c.Request.Context(), r)
	return form
}

func (h *Handler) Login(c *gin.Context) {
	sh := h.shell(c)
	if sh.State() == shell.Authenticated {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	_ = sh.OpenAuth(shell.AuthLogin)

	form := forms.NewLoginForm()
	view := newLandingView(shell.AuthLogin)
	view.Login = form

	if err := c.ShouldBind(&form.Data); err != nil {
		verr := bindingError(err)
		view.Error = auth.UserMessage(verr)
		c.HTML(statusFor(verr), "landing.html", view)
		return
	}

	if err := form.Submit(c.Request.Context(), sh.Login); err != nil {
		view.Error = form.Message()
		c.HTML(statusFor(err), "landing.html", view)
		return
	}
	h.issueCookie(c, sh)
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// Register handles both the final submit and action=switch-role, which
// re-renders the form for the newly selected role.
func (h *Handler) Register(c *gin.Context) {
	sh := h.shell(c)
	if sh.State() == shell.Authenticated {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	_ = sh.OpenAuth(shell.AuthRegister)
	ctx := c.Request.Context()

	var data models.RegisterFormData
	if err := c.ShouldBind(&data); err != nil {
		h.Log.Debug("register form binding", zap.Error(err))
	}
	form := forms.NewRegisterForm(h.Backend, h.Log)
	form.Fill(data)

	view := newLandingView(shell.AuthRegister)
	view.Register = form

	if c.PostForm("action") == "switch-role" {
		if err := form.SetRole(ctx, data.UserType); err != nil {
			view.Error = auth.UserMessage(err)
			c.HTML(statusFor(err), "landing.html", view)
			return
		}
		c.HTML(http.StatusOK, "landing.html", view)
		return
	}

	if !data.UserType.Valid() {
		err := &auth.ValidationError{Field: "userType", Err: auth.ErrInvalidRole}
		form.RefreshDirectory(ctx)
		view.Error = auth.UserMessage(err)
		c.HTML(statusFor(err), "landing.html", view)
		return
	}

	if err := form.Submit(ctx, sh.Register); err != nil {
		if form.Role() == models.RolePatient {
			form.RefreshDirectory(ctx)
		}
		view.Error = form.Message()
		c.HTML(statusFor(err), "landing.html", view)
		return
	}
	h.issueCookie(c, sh)
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *Handler) Logout(c *gin.Context) {
	sh := h.shell(c)
	err := sh.Logout(c.Request.Context())
	switch {
	case errors.Is(err, shell.ErrInvalidTransition):
		// nothing restorable, but drop whatever is stored under the id
		h.Gateway.Logout(c.Request.Context(), middleware.SessionID(c))
	case err != nil:
		h.Log.Error("logout", zap.Error(err))
	}
	h.Cookie.Clear(c)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) issueCookie(c *gin.Context, sh *shell.Shell) {
	role := sh.Session().Profile.Role.String()
	if err := h.Cookie.Issue(c, sh.SessionID(), role); err != nil {
		h.Log.Error("issue session cookie", zap.Error(err))
	}
}
