package Models

import "gorm.io/gorm"

type Hospital struct {
	gorm.Model
	Name    string `json:"name" gorm:"unique"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}
