package devapi

import (
	"time"

	"github.com/harentsoaR/healthcare-portal/internal/models"
)

// Seed accounts. Every seeded account uses the password "pw123".
const (
	SeedPassword = "pw123"

	SeedDoctorID      int64 = 7
	SeedDoctorEmail         = "doc@example.com"
	SeedNeurologistID int64 = 8
	SeedPatientID     int64 = 12
	SeedPatientEmail        = "ana@example.com"
)

// Seed fills s with two doctors, one assigned patient and that patient's
// records.
func Seed(s *Store) error {
	accounts := []NewAccount{
		{ID: SeedDoctorID, FirstName: "Gregory", LastName: "House", Email: SeedDoctorEmail, Mobile: "555-0107",
			Password: SeedPassword, Role: models.RoleDoctor, Specialization: "Cardiology"},
		{ID: SeedNeurologistID, FirstName: "Meredith", LastName: "Grey", Email: "grey@example.com", Mobile: "555-0108",
			Password: SeedPassword, Role: models.RoleDoctor, Specialization: "Neurology"},
		{ID: SeedPatientID, FirstName: "Ana", LastName: "Lopez", Email: SeedPatientEmail, Mobile: "555-0112",
			Password: SeedPassword, Role: models.RolePatient, FatherName: "Jose Lopez",
			AssignedDoctorID: "7", Illness: "Recurring chest pain"},
	}
	for _, a := range accounts {
		if _, err := s.Create(a); err != nil {
			return err
		}
	}

	patient, doctor := models.ID("12"), models.ID("7")
	day := func(month time.Month, d int) time.Time { return time.Date(2024, month, d, 9, 30, 0, 0, time.UTC) }

	first := s.AddAppointment(models.Appointment{
		Patient: patient, Doctor: doctor, DateTime: day(time.March, 4),
		Instructions: "Bring previous ECG results", Status: models.AppointmentCompleted,
	})
	s.AddAppointment(models.Appointment{
		Patient: patient, Doctor: doctor, DateTime: day(time.June, 12),
		Instructions: "Fasting blood test before the visit", Status: models.AppointmentScheduled,
	})

	s.AddMedication(models.Medication{
		Appointment: first.ID, Name: "Atorvastatin", Dosage: "20mg", Frequency: "Once daily",
		Instructions: "Take in the evening", StartDate: "2024-03-04", EndDate: "2024-09-04",
		Timings: []string{"20:00"},
	})
	s.AddMedication(models.Medication{
		Appointment: first.ID, Name: "Aspirin", Dosage: "75mg", Frequency: "Once daily",
		Instructions: "After breakfast", StartDate: "2024-03-04", EndDate: "2024-04-04",
		Completed: true, Timings: []string{"08:30"},
	})

	next := day(time.June, 12)
	s.AddAdvice(models.Advice{
		Patient: patient, Doctor: doctor, AdviceDate: day(time.March, 4),
		AdviceText: "Walk 30 minutes a day and reduce salt intake.", NextAppointmentDate: &next,
	})

	s.AddReport(models.PatientReport{
		Patient: patient, Doctor: doctor, UploadDate: day(time.March, 5),
		Description: "Resting ECG", File: "ecg-2024-03.pdf", FileType: models.ReportPDF,
	})
	s.AddReport(models.PatientReport{
		Patient: patient, Doctor: doctor, UploadDate: day(time.April, 2),
		Description: "Follow-up notes", FileType: models.ReportText,
		FileContent: "Blood pressure improving. Continue current plan.",
	})

	readings := [][2]int{{142, 92}, {138, 90}, {131, 86}, {127, 83}}
	for i, r := range readings {
		s.AddMetric(models.HealthMetric{
			Patient: patient, MeasurementDate: day(time.March, 1+7*i), Systolic: r[0], Diastolic: r[1],
		})
	}
	return nil
}
