package Models

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func HospitalExists(id uint) (bool, error) {
	var count int64
	err := DB.Model(&Hospital{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func ConnectDataBase() {

	err := godotenv.Load(".env")

	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	DbHost := os.Getenv("DB_HOST")
	DbUser := os.Getenv("DB_USER")
	DbPassword := os.Getenv("DB_PASSWORD")
	DbName := os.Getenv("DB_NAME")
	DbPort := os.Getenv("DB_PORT")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable", DbHost, DbUser, DbPassword, DbName, DbPort)
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		log.Fatal("connection error:", err)
	}
	log.Println("Connected to the database")

	if err := MigrateAll(DB); err != nil {
		log.Fatal("migration error:", err)
	}
}

// MigrateAll runs AutoMigrate in dependency order. Shared with the test
// setup, which runs it against sqlite.
func MigrateAll(db *gorm.DB) error {
	// Models with no dependencies first
	if err := db.AutoMigrate(&Hospital{}, &DeviceToken{}); err != nil {
		return err
	}

	// Models that depend on the hospital
	if err := db.AutoMigrate(&User{}, &Patient{}, &Doctor{}, &Ward{}); err != nil {
		return err
	}

	// Beds depend on wards, registrations depend on patients and doctors
	if err := db.AutoMigrate(&Bed{}, &OPDRegistration{}, &IPDAdmission{}); err != nil {
		return err
	}

	// Everything hanging off a registration or admission
	return db.AutoMigrate(
		&OPDPrescription{},
		&MedicineLine{},
		&ChargeSheetEntry{},
		&Payment{},
		&DischargeSummary{},
	)
}
