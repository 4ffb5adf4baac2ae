package handlers

import (
	"html/template"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/healthcare-portal/internal/middleware"
)

// NewRouter mounts the portal pages and its JSON endpoints.
func NewRouter(h *Handler, tmpl *template.Template, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(h.Log))
	r.SetHTMLTemplate(tmpl)

	r.GET("/health", h.Health)

	pages := r.Group("/")
	pages.Use(h.Cookie.Middleware())
	{
		pages.GET("/", h.Landing)
		pages.GET("/dashboard", h.Dashboard)
	}

	authRoutes := r.Group("/auth")
	authRoutes.Use(h.Cookie.Middleware())
	{
		authRoutes.GET("/register", h.RegisterForm)
		authRoutes.POST("/register", h.Register)
		authRoutes.POST("/login", h.Login)
		authRoutes.POST("/logout", h.Logout)
	}

	apiRoutes := r.Group("/api")
	apiRoutes.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	apiRoutes.Use(h.Cookie.Middleware())
	{
		apiRoutes.GET("/session", h.Session)
		apiRoutes.GET("/dashboard/:tab", h.DashboardTab)
		apiRoutes.GET("/doctors", h.Doctors)
	}
	return r
}
