package Models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	BedAvailable = "available"
	BedOccupied  = "occupied"

	AdmissionOpen       = "admitted"
	AdmissionDischarged = "discharged"
)

var ErrBedOccupied = errors.New("bed is already occupied")

type Ward struct {
	gorm.Model
	Name       string `json:"name"`
	Beds       []Bed  `json:"beds"`
	HospitalID uint   `json:"hospital_id"`
}

type Bed struct {
	gorm.Model
	WardID      uint    `json:"ward_id"`
	Number      string  `json:"number"`
	DailyCharge float64 `json:"daily_charge"`
	Status      string  `json:"status" gorm:"default:available"`
	AdmissionID *uint   `json:"admission_id" gorm:"default:null"`
}

type IPDAdmission struct {
	gorm.Model
	PatientID    uint               `json:"patient_id"`
	PatientName  string             `json:"patient_name"`
	UHID         string             `json:"uhid" gorm:"column:uhid"`
	DoctorID     uint               `json:"doctor_id"`
	DoctorName   string             `json:"doctor_name"`
	BedID        uint               `json:"bed_id"`
	AdmittedAt   time.Time          `json:"admitted_at"`
	DischargedAt *time.Time         `json:"discharged_at" gorm:"default:null"`
	Status       string             `json:"status" gorm:"default:admitted"`
	Deposit      float64            `json:"deposit"`
	IsTPA        bool               `json:"is_tpa"`
	BillNumber   string             `json:"bill_number" gorm:"uniqueIndex:idx_hospital_bill,where:bill_number <> ''"`
	BillTotal    float64            `json:"bill_total"`
	Charges      []ChargeSheetEntry `json:"charges"`
	Payments     []Payment          `json:"payments"`
	HospitalID   uint               `json:"hospital_id" gorm:"uniqueIndex:idx_hospital_bill"`
}

// TableName pins the table to the name the raw queries use; the default
// naming strategy would split the initialism into ip_d_admissions.
func (IPDAdmission) TableName() string {
	return "ipd_admissions"
}

type ChargeSheetEntry struct {
	gorm.Model
	IPDAdmissionID uint    `json:"ipd_admission_id" gorm:"column:ipd_admission_id"`
	Description    string  `json:"description"`
	Amount         float64 `json:"amount"`
	Date           string  `json:"date"` // 2006-01-02
}

type Payment struct {
	gorm.Model
	IPDAdmissionID uint      `json:"ipd_admission_id" gorm:"column:ipd_admission_id"`
	Amount         float64   `json:"amount"`
	Method         string    `json:"method"`
	ReceiptNumber  string    `json:"receipt_number" gorm:"unique"`
	ReceivedAt     time.Time `json:"received_at"`
}

// OccupyBed claims a bed for an admission. The conditional update is the
// double-booking guard: it only succeeds while the bed row still reads
// available.
func OccupyBed(tx *gorm.DB, bedID uint, admissionID uint) error {
	result := tx.Model(&Bed{}).
		Where("id = ? AND status = ?", bedID, BedAvailable).
		Updates(map[string]interface{}{"status": BedOccupied, "admission_id": admissionID})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBedOccupied
	}
	return nil
}

func ReleaseBed(tx *gorm.DB, bedID uint) error {
	return tx.Model(&Bed{}).
		Where("id = ?", bedID).
		Updates(map[string]interface{}{"status": BedAvailable, "admission_id": nil}).Error
}

// AdmissionTotals sums the charge sheet and the recorded payments for an
// admission.
func AdmissionTotals(tx *gorm.DB, admissionID uint) (charges float64, payments float64, err error) {
	err = tx.Model(&ChargeSheetEntry{}).
		Where("ipd_admission_id = ?", admissionID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&charges).Error
	if err != nil {
		return 0, 0, err
	}

	err = tx.Model(&Payment{}).
		Where("ipd_admission_id = ?", admissionID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&payments).Error
	if err != nil {
		return 0, 0, err
	}

	return charges, payments, nil
}

// NextBillNumber allocates the next sequential bill number for a hospital,
// scoped per calendar year. Runs inside the discharge transaction.
func NextBillNumber(tx *gorm.DB, hospitalID uint, year int) (string, error) {
	prefix := fmt.Sprintf("BILL-%d-", year)
	var count int64
	err := tx.Model(&IPDAdmission{}).
		Where("hospital_id = ? AND bill_number LIKE ?", hospitalID, prefix+"%").
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}
