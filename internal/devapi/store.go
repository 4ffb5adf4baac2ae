package devapi

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/utils"
)

var (
	ErrEmailTaken         = errors.New("devapi: email already registered")
	ErrIDTaken            = errors.New("devapi: account id already in use")
	ErrInvalidCredentials = errors.New("devapi: invalid credentials")
	ErrInvalidUserType    = errors.New("devapi: account has another user type")
	ErrNoAccount          = errors.New("devapi: account not found")
)

type account struct {
	id           int64
	firstName    string
	lastName     string
	email        string
	mobile       string
	role         models.Role
	passwordHash string
	createdAt    time.Time

	fatherName     string
	assignedDoctor *int64
	illness        string

	specialization string
}

func (a *account) fullName() string {
	return strings.TrimSpace(a.firstName + " " + a.lastName)
}

// Store is the in-memory database of the development API.
type Store struct {
	mu       sync.RWMutex
	accounts map[int64]*account
	byEmail  map[string]int64
	nextID   int64
	cost     int

	appointments []models.Appointment
	medications  []models.Medication
	advice       []models.Advice
	reports      []models.PatientReport
	metrics      []models.HealthMetric

	now func() time.Time
}

// NewStore returns an empty store hashing passwords at bcrypt cost (0 for
// the default cost).
func NewStore(cost int) *Store {
	return &Store{
		accounts: make(map[int64]*account),
		byEmail:  make(map[string]int64),
		nextID:   1,
		cost:     cost,
		now:      time.Now,
	}
}

// NewAccount is the validated content of a registration.
type NewAccount struct {
	ID               int64
	FirstName        string
	LastName         string
	Email            string
	Mobile           string
	Password         string
	Role             models.Role
	FatherName       string
	AssignedDoctorID string
	Illness          string
	Specialization   string
}

// Create adds an account. A zero ID picks the next free one; an explicit
// ID must not be in use. An assigned doctor that does not exist is dropped.
func (s *Store) Create(n NewAccount) (int64, error) {
	hash, err := utils.HashPassword(n.Password, s.cost)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(n.Email))
	if _, taken := s.byEmail[email]; taken {
		return 0, ErrEmailTaken
	}
	id := n.ID
	if id == 0 {
		id = s.nextID
	}
	if _, taken := s.accounts[id]; taken {
		return 0, ErrIDTaken
	}
	if id >= s.nextID {
		s.nextID = id + 1
	}

	a := &account{
		id:           id,
		firstName:    n.FirstName,
		lastName:     n.LastName,
		email:        email,
		mobile:       n.Mobile,
		role:         n.Role,
		passwordHash: hash,
		createdAt:    s.now().UTC(),
	}
	switch n.Role {
	case models.RolePatient:
		a.fatherName = n.FatherName
		a.illness = n.Illness
		if docID, err := strconv.ParseInt(n.AssignedDoctorID, 10, 64); err == nil {
			if d, ok := s.accounts[docID]; ok && d.role == models.RoleDoctor {
				a.assignedDoctor = &docID
			}
		}
	case models.RoleDoctor:
		a.specialization = n.Specialization
	}
	s.accounts[id] = a
	s.byEmail[email] = id
	return id, nil
}

// Authenticate checks the credentials and that the account has role.
func (s *Store) Authenticate(email, password string, role models.Role) (int64, error) {
	s.mu.RLock()
	id, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	var a *account
	if ok {
		a = s.accounts[id]
	}
	s.mu.RUnlock()

	if a == nil || !utils.CheckPasswordHash(password, a.passwordHash) {
		return 0, ErrInvalidCredentials
	}
	if a.role != role {
		return 0, ErrInvalidUserType
	}
	return a.id, nil
}

// Profile serializes the account the way the backend does: a Patient or
// Doctor object with a nested user.
func (s *Store) Profile(id int64) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, ErrNoAccount
	}
	return s.profileLocked(a), nil
}

func (s *Store) profileLocked(a *account) any {
	if a.role == models.RoleDoctor {
		return doctorJSON{User: userOf(a), Specialization: a.specialization}
	}
	p := patientJSON{
		User:               userOf(a),
		FatherName:         a.fatherName,
		AssignedDoctor:     a.assignedDoctor,
		IllnessDescription: a.illness,
	}
	if a.assignedDoctor != nil {
		if d, ok := s.accounts[*a.assignedDoctor]; ok {
			p.AssignedDoctorName = d.fullName()
			p.AssignedDoctorSpecialization = d.specialization
		}
	}
	return p
}

func (s *Store) Role(id int64) (models.Role, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return "", false
	}
	return a.role, true
}

// Doctors lists every doctor ordered by id.
func (s *Store) Doctors() []doctorJSON {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]doctorJSON, 0)
	for _, a := range s.accounts {
		if a.role == models.RoleDoctor {
			out = append(out, doctorJSON{User: userOf(a), Specialization: a.specialization})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].User.ID < out[j].User.ID })
	return out
}

// PatientsOf lists the patients assigned to doctor.
func (s *Store) PatientsOf(doctor int64) []any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int64, 0)
	for id, a := range s.accounts {
		if a.role == models.RolePatient && a.assignedDoctor != nil && *a.assignedDoctor == doctor {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.profileLocked(s.accounts[id]))
	}
	return out
}

// AssignedTo reports whether patient is assigned to doctor.
func (s *Store) AssignedTo(patient, doctor int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[patient]
	return ok && a.assignedDoctor != nil && *a.assignedDoctor == doctor
}

func (s *Store) nameOf(id models.ID) string {
	n, err := strconv.ParseInt(id.String(), 10, 64)
	if err != nil {
		return ""
	}
	if a, ok := s.accounts[n]; ok {
		return a.fullName()
	}
	return ""
}

func newRecordID() models.ID { return models.ID(uuid.NewString()) }

func (s *Store) AddAppointment(a models.Appointment) models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = newRecordID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now().UTC()
	}
	a.PatientName = s.nameOf(a.Patient)
	a.DoctorName = s.nameOf(a.Doctor)
	s.appointments = append(s.appointments, a)
	return a
}

func (s *Store) AddMedication(m models.Medication) models.Medication {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = newRecordID()
	}
	s.medications = append(s.medications, m)
	return m
}

func (s *Store) AddAdvice(a models.Advice) models.Advice {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = newRecordID()
	}
	a.DoctorName = s.nameOf(a.Doctor)
	s.advice = append(s.advice, a)
	return a
}

func (s *Store) AddReport(r models.PatientReport) models.PatientReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = newRecordID()
	}
	s.reports = append(s.reports, r)
	return r
}

func (s *Store) AddMetric(m models.HealthMetric) models.HealthMetric {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = newRecordID()
	}
	s.metrics = append(s.metrics, m)
	return m
}

// Filter selects records by owner. Empty fields match everything.
type Filter struct {
	Patient models.ID
	Doctor  models.ID
}

func (f Filter) match(patient, doctor models.ID) bool {
	return (f.Patient == "" || f.Patient == patient) && (f.Doctor == "" || f.Doctor == doctor)
}

// Appointments returns the matching appointments, newest first.
func (s *Store) Appointments(f Filter) []models.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Appointment, 0)
	for _, a := range s.appointments {
		if f.match(a.Patient, a.Doctor) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DateTime.After(out[j].DateTime) })
	return out
}

// Medications follows each medication to its appointment for ownership.
func (s *Store) Medications(f Filter) []models.Medication {
	s.mu.RLock()
	defer s.mu.RUnlock()
	owners := make(map[models.ID]models.Appointment, len(s.appointments))
	for _, a := range s.appointments {
		owners[a.ID] = a
	}
	out := make([]models.Medication, 0)
	for _, m := range s.medications {
		if a, ok := owners[m.Appointment]; ok && f.match(a.Patient, a.Doctor) {
			out = append(out, m)
		}
	}
	return out
}

func (s *Store) Advice(f Filter) []models.Advice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Advice, 0)
	for _, a := range s.advice {
		if f.match(a.Patient, a.Doctor) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AdviceDate.After(out[j].AdviceDate) })
	return out
}

func (s *Store) Reports(f Filter) []models.PatientReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PatientReport, 0)
	for _, r := range s.reports {
		if f.match(r.Patient, r.Doctor) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UploadDate.After(out[j].UploadDate) })
	return out
}

func (s *Store) HealthMetrics(patient models.ID) []models.HealthMetric {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.HealthMetric, 0)
	for _, m := range s.metrics {
		if patient == "" || m.Patient == patient {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MeasurementDate.Before(out[j].MeasurementDate) })
	return out
}
