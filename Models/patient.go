package Models

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"gorm.io/gorm"
)

type Patient struct {
	gorm.Model
	UHID       string            `json:"uhid" gorm:"column:uhid;unique"`
	Name       string            `json:"name"`
	Phone      string            `json:"phone"`
	Gender     string            `json:"gender"`
	Age        int               `json:"age"`
	BloodGroup string            `json:"blood_group"`
	Address    string            `json:"address"`
	TPAName    string            `json:"tpa_name"`
	TPAPolicy  string            `json:"tpa_policy"`
	Notes      string            `json:"notes"`
	OPDVisits  []OPDRegistration `json:"opd_visits"`
	Admissions []IPDAdmission    `json:"admissions"`
	HospitalID uint              `json:"hospital_id"`
}

// GenerateUHID assigns a unique hospital id of the form MD-<year>-<6 digits>.
// Collisions are retried against the database.
func (patient *Patient) GenerateUHID(db *gorm.DB) error {
	var digits = []rune("1234567890")

	for attempt := 0; attempt < 10; attempt++ {
		token := make([]rune, 6)
		for index := range token {
			token[index] = digits[rand.Intn(len(digits))]
		}
		candidate := fmt.Sprintf("MD-%d-%s", time.Now().Year(), string(token))

		var count int64
		if err := db.Model(&Patient{}).Where("uhid = ?", candidate).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			patient.UHID = candidate
			return nil
		}
	}
	return errors.New("could not allocate a unique UHID")
}

// NormalizePhone mirrors the front-desk convention of storing numbers with a
// country code.
func NormalizePhone(phone string) string {
	if phone == "" || strings.HasPrefix(phone, "+") {
		return phone
	}
	return "+91" + phone
}

func GetPatientByUHID(db *gorm.DB, uhid string) (Patient, error) {
	var patient Patient
	if err := db.Model(&Patient{}).Where("uhid = ?", uhid).First(&patient).Error; err != nil {
		return patient, err
	}
	return patient, nil
}
