package Models

import (
	"gorm.io/gorm"
)

type DischargeSummary struct {
	gorm.Model
	IPDAdmissionID       uint   `json:"ipd_admission_id" gorm:"column:ipd_admission_id"`
	FinalDiagnosis       string `json:"final_diagnosis"`
	TreatmentGiven       string `json:"treatment_given"`
	ConditionAtDischarge string `json:"condition_at_discharge"`
	Medications          string `json:"medications"`
	FollowUpDate         string `json:"follow_up_date"` // 2006-01-02
	HospitalID           uint   `json:"hospital_id"`
}
