package Models

import (
	"gorm.io/gorm"
)

type OPDRegistration struct {
	gorm.Model
	PatientID     uint    `json:"patient_id"`
	PatientName   string  `json:"patient_name"`
	UHID          string  `json:"uhid" gorm:"column:uhid"`
	DoctorID      uint    `json:"doctor_id"`
	DoctorName    string  `json:"doctor_name"`
	Department    string  `json:"department"`
	VisitDate     string  `json:"visit_date"` // 2006-01-02
	TokenNumber   int     `json:"token_number"`
	Fee           float64 `json:"fee"`
	PaymentMethod string  `json:"payment_method"`
	IsPaid        bool    `json:"is_paid"`
	HospitalID    uint    `json:"hospital_id"`
}

type OPDPrescription struct {
	gorm.Model
	OPDRegistrationID uint           `json:"opd_registration_id"`
	Complaints        string         `json:"complaints"`
	Diagnosis         string         `json:"diagnosis"`
	Medicines         []MedicineLine `json:"medicines"`
	Advice            string         `json:"advice"`
	FollowUpDate      string         `json:"follow_up_date"` // 2006-01-02, empty when none
	ReminderSent      bool           `json:"reminder_sent"`
	Transcript        string         `json:"transcript"`
	HospitalID        uint           `json:"hospital_id"`
}

type MedicineLine struct {
	gorm.Model
	OPDPrescriptionID uint   `json:"opd_prescription_id"`
	Name              string `json:"name"`
	Dosage            string `json:"dosage"`
	Frequency         string `json:"frequency"`
	Duration          string `json:"duration"`
}

// NextTokenNumber hands out the queue number for a doctor's OPD on a given
// day, starting from 1. Must run inside the registration transaction so two
// desks cannot hand out the same token.
func NextTokenNumber(tx *gorm.DB, doctorID uint, visitDate string) (int, error) {
	var last int
	err := tx.Model(&OPDRegistration{}).
		Where("doctor_id = ? AND visit_date = ?", doctorID, visitDate).
		Select("COALESCE(MAX(token_number), 0)").
		Scan(&last).Error
	if err != nil {
		return 0, err
	}
	return last + 1, nil
}
