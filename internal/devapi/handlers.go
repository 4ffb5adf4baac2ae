// Package devapi is an in-memory stand-in for the healthcare REST backend,
// used for local development and as the backend of package tests.
package devapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/harentsoaR/healthcare-portal/internal/middleware"
	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/utils"
)

type Server struct {
	store  *Store
	signer *utils.Signer
	log    *zap.Logger
}

func NewServer(store *Store, signer *utils.Signer, log *zap.Logger) *Server {
	return &Server{store: store, signer: signer, log: log.Named("devapi")}
}

type registerRequest struct {
	Name               string      `json:"name" binding:"required"`
	Email              string      `json:"email" binding:"required,email"`
	Mobile             string      `json:"mobile" binding:"required"`
	Password           string      `json:"password" binding:"required"`
	ConfirmPassword    string      `json:"confirmPassword" binding:"required"`
	UserType           models.Role `json:"userType" binding:"required,oneof=patient doctor"`
	FatherName         string      `json:"fatherName"`
	AssignedDoctorID   string      `json:"assignedDoctorId"`
	IllnessDescription string      `json:"illnessDescription"`
	Specialization     string      `json:"specialization"`
}

func (r registerRequest) validate() string {
	if r.Password != r.ConfirmPassword {
		return "Passwords don't match"
	}
	switch r.UserType {
	case models.RolePatient:
		if strings.TrimSpace(r.FatherName) == "" {
			return "Father name is required for patients"
		}
		if strings.TrimSpace(r.IllnessDescription) == "" {
			return "Illness description is required for patients"
		}
	case models.RoleDoctor:
		if strings.TrimSpace(r.Specialization) == "" {
			return "Specialization is required for doctors"
		}
	}
	return ""
}

// Register creates a patient or doctor and signs it in.
func (s *Server) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, fieldErrors(err))
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{msg}})
		return
	}

	first, last, _ := strings.Cut(strings.TrimSpace(req.Name), " ")
	id, err := s.store.Create(NewAccount{
		FirstName:        first,
		LastName:         strings.TrimSpace(last),
		Email:            req.Email,
		Mobile:           req.Mobile,
		Password:         req.Password,
		Role:             req.UserType,
		FatherName:       req.FatherName,
		AssignedDoctorID: req.AssignedDoctorID,
		Illness:          req.IllnessDescription,
		Specialization:   req.Specialization,
	})
	if errors.Is(err, ErrEmailTaken) {
		c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{"A user with this email already exists"}})
		return
	}
	if err != nil {
		s.log.Error("create account", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	s.log.Info("account registered", zap.Int64("id", id), zap.String("role", req.UserType.String()))
	s.respondWithSession(c, http.StatusCreated, id, req.UserType)
}

type loginRequest struct {
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required"`
	UserType models.Role `json:"userType" binding:"required,oneof=patient doctor"`
}

func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, fieldErrors(err))
		return
	}

	id, err := s.store.Authenticate(req.Email, req.Password, req.UserType)
	switch {
	case errors.Is(err, ErrInvalidUserType):
		c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{"Invalid user type"}})
		return
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{"Invalid credentials"}})
		return
	}
	s.respondWithSession(c, http.StatusOK, id, req.UserType)
}

func (s *Server) respondWithSession(c *gin.Context, status int, id int64, role models.Role) {
	profile, err := s.store.Profile(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User not found"})
		return
	}
	token, err := s.signer.Generate(strconv.FormatInt(id, 10), role.String())
	if err != nil {
		s.log.Error("sign token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}
	c.JSON(status, gin.H{"token": token, "profile": profile})
}

func (s *Server) Doctors(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Doctors())
}

// DoctorPatients lists a doctor's own patients.
func (s *Server) DoctorPatients(c *gin.Context) {
	caller, _ := s.caller(c)
	if c.Param("id") != strconv.FormatInt(caller, 10) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied."})
		return
	}
	c.JSON(http.StatusOK, s.store.PatientsOf(caller))
}

func (s *Server) Appointments(c *gin.Context) {
	if f, ok := s.scope(c); ok {
		c.JSON(http.StatusOK, s.store.Appointments(f))
	}
}

func (s *Server) Medications(c *gin.Context) {
	if f, ok := s.scope(c); ok {
		c.JSON(http.StatusOK, s.store.Medications(f))
	}
}

func (s *Server) Advice(c *gin.Context) {
	if f, ok := s.scope(c); ok {
		c.JSON(http.StatusOK, s.store.Advice(f))
	}
}

func (s *Server) Reports(c *gin.Context) {
	if f, ok := s.scope(c); ok {
		c.JSON(http.StatusOK, s.store.Reports(f))
	}
}

func (s *Server) HealthMetrics(c *gin.Context) {
	f, ok := s.scope(c)
	if !ok {
		return
	}
	if f.Patient == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "patient is required"})
		return
	}
	c.JSON(http.StatusOK, s.store.HealthMetrics(f.Patient))
}

func (s *Server) caller(c *gin.Context) (int64, models.Role) {
	id, err := strconv.ParseInt(middleware.UserID(c), 10, 64)
	if err != nil {
		return 0, ""
	}
	role, _ := s.store.Role(id)
	return id, role
}

// scope reads ?patient= or ?doctor= and checks the caller may see those
// records: their own, or a doctor reading an assigned patient.
func (s *Server) scope(c *gin.Context) (Filter, bool) {
	f := Filter{Patient: models.ID(c.Query("patient")), Doctor: models.ID(c.Query("doctor"))}
	if f.Patient == "" && f.Doctor == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "patient or doctor is required"})
		return f, false
	}

	caller, role := s.caller(c)
	self := models.ID(strconv.FormatInt(caller, 10))
	allowed := false
	switch role {
	case models.RolePatient:
		allowed = f.Patient == self && f.Doctor == ""
	case models.RoleDoctor:
		allowed = f.Doctor == self
		if f.Patient != "" && f.Doctor == "" {
			pid, err := strconv.ParseInt(f.Patient.String(), 10, 64)
			allowed = err == nil && s.store.AssignedTo(pid, caller)
		}
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied."})
		return f, false
	}
	return f, true
}

// fieldErrors reports binding failures per field, as {"email": ["..."]}.
func fieldErrors(err error) gin.H {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return gin.H{"detail": "Invalid request body"}
	}
	out := gin.H{}
	for _, fe := range verrs {
		msg := "This field is required."
		switch fe.Tag() {
		case "email":
			msg = "Enter a valid email address."
		case "oneof":
			msg = "Choose patient or doctor."
		}
		out[jsonName(fe.Field())] = []string{msg}
	}
	return out
}

func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// NewRouter mounts the API. Record reads require a bearer token issued by
// login or registration.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(s.log))

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", s.Register)
		authRoutes.POST("/login", s.Login)
	}
	r.GET("/doctors", s.Doctors)

	records := r.Group("/")
	records.Use(middleware.BearerAuth(s.signer))
	{
		records.GET("/appointments", s.Appointments)
		records.GET("/medications", s.Medications)
		records.GET("/advice", s.Advice)
		records.GET("/reports", s.Reports)
		records.GET("/health-metrics", s.HealthMetrics)
		records.GET("/doctors/:id/patients", middleware.RequireRole(models.RoleDoctor.String()), s.DoctorPatients)
	}
	return r
}
