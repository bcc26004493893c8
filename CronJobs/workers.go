package CronJobs

import (
	"MediDesk/Models"
	"MediDesk/Whatsapp"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"gorm.io/gorm"
)

// BillingWorkers runs the recurring IPD and OPD housekeeping jobs.
type BillingWorkers struct {
	DB *gorm.DB
}

func NewBillingWorkers(db *gorm.DB) *BillingWorkers {
	return &BillingWorkers{
		DB: db,
	}
}

// StartCron schedules the daily bed-charge accrual and the hourly follow-up
// reminder check.
func (bw *BillingWorkers) StartCron() *gocron.Scheduler {
	scheduler := gocron.NewScheduler(time.Local)

	scheduler.Every(1).Day().At("00:30").Do(func() {
		log.Println("Running daily bed charge accrual...")
		if err := bw.AccrueDailyBedCharges(time.Now()); err != nil {
			log.Printf("Error accruing bed charges: %v", err)
		}
	})

	scheduler.Every(1).Hour().Do(func() {
		if err := bw.SendFollowUpReminders(time.Now()); err != nil {
			log.Printf("Error sending follow-up reminders: %v", err)
		}
	})

	scheduler.StartAsync()
	log.Println("Billing cron jobs started")

	return scheduler
}

// AccrueDailyBedCharges posts one bed-charge entry per open admission for the
// given day. The per-day description doubles as the idempotency guard, so a
// rerun after a crash does not double-bill anyone.
func (bw *BillingWorkers) AccrueDailyBedCharges(now time.Time) error {
	day := now.Format("2006-01-02")
	description := fmt.Sprintf("Bed Charges (%s)", day)

	var admissions []Models.IPDAdmission
	if err := bw.DB.Model(&Models.IPDAdmission{}).
		Where("status = ?", Models.AdmissionOpen).
		Find(&admissions).Error; err != nil {
		return fmt.Errorf("failed to query open admissions: %w", err)
	}

	for _, admission := range admissions {
		var bed Models.Bed
		if err := bw.DB.First(&bed, admission.BedID).Error; err != nil {
			log.Printf("Failed to find bed for admission ID %d: %v", admission.ID, err)
			continue
		}

		tx := bw.DB.Begin()

		var count int64
		if err := tx.Model(&Models.ChargeSheetEntry{}).
			Where("ipd_admission_id = ? AND description = ?", admission.ID, description).
			Count(&count).Error; err != nil {
			tx.Rollback()
			log.Printf("Failed to check existing charge for admission ID %d: %v", admission.ID, err)
			continue
		}
		if count > 0 {
			tx.Rollback()
			continue
		}

		entry := Models.ChargeSheetEntry{
			IPDAdmissionID: admission.ID,
			Description:    description,
			Amount:         bed.DailyCharge,
			Date:           day,
		}
		if err := tx.Create(&entry).Error; err != nil {
			tx.Rollback()
			log.Printf("Failed to post bed charge for admission ID %d: %v", admission.ID, err)
			continue
		}

		if err := tx.Commit().Error; err != nil {
			tx.Rollback()
			log.Printf("Failed to commit bed charge for admission ID %d: %v", admission.ID, err)
			continue
		}

		log.Printf("Bed charge of %.2f posted for %s", bed.DailyCharge, admission.PatientName)
	}

	return nil
}

// SendFollowUpReminders messages patients whose prescription follow-up is due
// today.
func (bw *BillingWorkers) SendFollowUpReminders(now time.Time) error {
	day := now.Format("2006-01-02")

	var prescriptions []Models.OPDPrescription
	if err := bw.DB.Model(&Models.OPDPrescription{}).
		Where("follow_up_date = ? AND reminder_sent = ?", day, false).
		Find(&prescriptions).Error; err != nil {
		return fmt.Errorf("failed to query follow-ups: %w", err)
	}

	for _, prescription := range prescriptions {
		var registration Models.OPDRegistration
		if err := bw.DB.First(&registration, prescription.OPDRegistrationID).Error; err != nil {
			log.Printf("Failed to find registration for prescription ID %d: %v", prescription.ID, err)
			continue
		}

		var patient Models.Patient
		if err := bw.DB.First(&patient, registration.PatientID).Error; err != nil {
			log.Printf("Failed to find patient for prescription ID %d: %v", prescription.ID, err)
			continue
		}

		if patient.Phone == "" {
			continue
		}

		message := fmt.Sprintf(
			"Reminder: Your follow-up with %s is due today. Please visit the hospital or contact us to reschedule.",
			registration.DoctorName,
		)

		if err := Whatsapp.SendMessage(patient.Phone, message); err != nil {
			log.Printf("Failed to send follow-up reminder to %s: %v", patient.Name, err)
			continue
		}

		if err := bw.DB.Model(&Models.OPDPrescription{}).
			Where("id = ?", prescription.ID).
			Update("reminder_sent", true).Error; err != nil {
			log.Printf("Failed to mark reminder sent for prescription ID %d: %v", prescription.ID, err)
			continue
		}

		log.Printf("Follow-up reminder sent to %s", patient.Name)
	}

	return nil
}
