package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harentsoaR/healthcare-portal/internal/dashboard"
	"github.com/harentsoaR/healthcare-portal/internal/shell"
)

const incompleteProfileMessage = "Your profile is incomplete. Please contact support."

// Dashboard renders the dashboard of the signed-in role on ?tab=.
func (h *Handler) Dashboard(c *gin.Context) {
	sh := h.shell(c)
	if sh.State() != shell.Authenticated {
		c.Redirect(http.StatusFound, "/?auth=login")
		return
	}

	status := http.StatusOK
	if tab := c.Query("tab"); tab != "" {
		if err := sh.SelectTab(tab); err != nil {
			h.Log.Debug("tab selection rejected", zap.String("tab", tab), zap.Error(err))
			status = http.StatusNotFound
		}
	}

	dash := sh.Dashboard()
	user := dash.Profile().User()
	view := dashboardView{
		page:   page{Title: "Dashboard", Authenticated: true, UserName: user.FullName()},
		Role:   dash.Role(),
		Active: dash.Active(),
	}
	for _, t := range dash.Tabs() {
		view.Tabs = append(view.Tabs, tabView{Name: t, Label: t.Label(dash.Role()), Active: t == dash.Active()})
	}

	ov, err := dash.Overview()
	if err != nil {
		h.Log.Warn("overview unavailable", zap.String("user_id", user.ID.String()), zap.Error(err))
		view.OverviewError = incompleteProfileMessage
	}
	view.Overview = ov
	view.Panel = dash.Load(c.Request.Context())

	c.HTML(status, "dashboard.html", view)
}

// Session reports whether the browser context is signed in, and as whom.
func (h *Handler) Session(c *gin.Context) {
	sh := h.shell(c)
	if sh.State() != shell.Authenticated {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	p := sh.Session().Profile
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"role":          p.Role,
		"profile":       p,
		"tabs":          dashboard.TabsFor(p.Role),
	})
}

// DashboardTab returns the content of one dashboard tab as JSON.
func (h *Handler) DashboardTab(c *gin.Context) {
	sh := h.shell(c)
	if sh.State() != shell.Authenticated {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	if err := sh.SelectTab(c.Param("tab")); err != nil {
		if errors.Is(err, dashboard.ErrUnknownTab) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown tab"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not open tab"})
		return
	}

	dash := sh.Dashboard()
	if dash.Active() == dashboard.TabOverview {
		ov, err := dash.Overview()
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"tab": dash.Active(), "error": incompleteProfileMessage})
			return
		}
		c.JSON(http.StatusOK, gin.H{"tab": dash.Active(), "overview": ov})
		return
	}

	panel := dash.Load(c.Request.Context())
	if panel.Err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"tab": panel.Tab, "error": panel.Message()})
		return
	}
	c.JSON(http.StatusOK, panel)
}

// Doctors serves the registration directory.
func (h *Handler) Doctors(c *gin.Context) {
	doctors, err := h.Backend.Doctors(c.Request.Context())
	if err != nil {
		h.Log.Warn("doctor directory unavailable", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Doctor list unavailable"})
		return
	}
	type entry struct {
		ID             string `json:"id"`
		Label          string `json:"label"`
		Specialization string `json:"specialization"`
	}
	out := make([]entry, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, entry{ID: d.User.ID.String(), Label: d.Label(), Specialization: d.Specialization})
	}
	c.JSON(http.StatusOK, out)
}
