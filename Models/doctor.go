package Models

import (
	"gorm.io/gorm"
)

type Doctor struct {
	gorm.Model
	Name           string  `json:"name"`
	UserID         uint    `json:"user_id"`
	Phone          string  `json:"phone"`
	Specialization string  `json:"specialization"`
	OPDFee         float64 `json:"opd_fee"`
	PhotoUrl       string  `json:"photo_url"`
	HospitalID     uint    `json:"hospital_id"`
	IsFrozen       bool    `json:"is_frozen" gorm:"-"`
}
