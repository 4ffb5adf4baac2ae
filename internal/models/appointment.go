package models

import "time"

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

type Appointment struct {
	ID           ID                `json:"id"`
	Patient      ID                `json:"patient"`
	Doctor       ID                `json:"doctor"`
	PatientName  string            `json:"patient_name"`
	DoctorName   string            `json:"doctor_name"`
	DateTime     time.Time         `json:"date_time"`
	Instructions string            `json:"instructions"`
	Status       AppointmentStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
}

type Medication struct {
	ID           ID       `json:"id"`
	Appointment  ID       `json:"appointment"`
	Name         string   `json:"name"`
	Dosage       string   `json:"dosage"`
	Frequency    string   `json:"frequency"`
	Instructions string   `json:"instructions"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Completed    bool     `json:"completed"`
	Timings      []string `json:"timings"`
}

type Advice struct {
	ID                  ID         `json:"id"`
	Patient             ID         `json:"patient"`
	Doctor              ID         `json:"doctor"`
	DoctorName          string     `json:"doctor_name"`
	AdviceText          string     `json:"advice_text"`
	AdviceDate          time.Time  `json:"advice_date"`
	NextAppointmentDate *time.Time `json:"next_appointment_date,omitempty"`
}

type HealthMetric struct {
	ID              ID        `json:"id"`
	Patient         ID        `json:"patient"`
	MeasurementDate time.Time `json:"measurement_date"`
	Systolic        int       `json:"systolic"`
	Diastolic       int       `json:"diastolic"`
}

type ReportFileType string

const (
	ReportPDF   ReportFileType = "pdf"
	ReportImage ReportFileType = "image"
	ReportText  ReportFileType = "text"
)

type PatientReport struct {
	ID          ID             `json:"id"`
	Patient     ID             `json:"patient"`
	Doctor      ID             `json:"doctor"`
	UploadDate  time.Time      `json:"upload_date"`
	Description string         `json:"description"`
	File        string         `json:"file,omitempty"`
	FileType    ReportFileType `json:"file_type"`
	FileContent string         `json:"file_content,omitempty"`
}
