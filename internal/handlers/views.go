package handlers

import (
	"github.com/harentsoaR/healthcare-portal/internal/dashboard"
	"github.com/harentsoaR/healthcare-portal/internal/forms"
	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/shell"
)

type page struct {
	Title         string
	Authenticated bool
	UserName      string
}

type landingView struct {
	page
	Modal    string
	Error    string
	Login    *forms.LoginForm
	Register *forms.RegisterForm
}

type tabView struct {
	Name   dashboard.Tab
	Label  string
	Active bool
}

type dashboardView struct {
	page
	Role          models.Role
	Tabs          []tabView
	Active        dashboard.Tab
	Overview      *dashboard.Overview
	OverviewError string
	Panel         *dashboard.Panel
}

func newLandingView(mode shell.AuthMode) landingView {
	v := landingView{page: page{Title: "Welcome"}}
	if mode != shell.AuthClosed {
		v.Modal = mode.String()
	}
	return v
}
