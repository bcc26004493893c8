package Controllers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"MediDesk/FirebaseMessaging"
	"MediDesk/Models"
	"MediDesk/SSE"
	"MediDesk/Utils/Token"
	"MediDesk/Whatsapp"

	"github.com/gin-gonic/gin"
)

// RegisterOPDVisit books an outpatient visit and hands out the day's token
// number for the chosen doctor.
func RegisterOPDVisit(c *gin.Context) {
	var input struct {
		PatientID     uint    `json:"patient_id"`
		DoctorID      uint    `json:"doctor_id"`
		Department    string  `json:"department"`
		VisitDate     string  `json:"visit_date"`
		PaymentMethod string  `json:"payment_method"`
		Fee           float64 `json:"fee"`
		IsPaid        bool    `json:"is_paid"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		log.Println(err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.VisitDate == "" {
		input.VisitDate = time.Now().Format("2006-01-02")
	}

	tx := Models.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var patient Models.Patient
	if err := tx.First(&patient, input.PatientID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Patient not found"})
		return
	}

	var doctor Models.Doctor
	if err := tx.First(&doctor, input.DoctorID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Doctor not found"})
		return
	}

	tokenNumber, err := Models.NextTokenNumber(tx, doctor.ID, input.VisitDate)
	if err != nil {
		log.Println(err)
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to allocate token number"})
		return
	}

	fee := input.Fee
	if fee == 0 {
		fee = doctor.OPDFee
	}

	registration := Models.OPDRegistration{
		PatientID:     patient.ID,
		PatientName:   patient.Name,
		UHID:          patient.UHID,
		DoctorID:      doctor.ID,
		DoctorName:    doctor.Name,
		Department:    input.Department,
		VisitDate:     input.VisitDate,
		TokenNumber:   tokenNumber,
		Fee:           fee,
		PaymentMethod: input.PaymentMethod,
		IsPaid:        input.IsPaid,
		HospitalID:    patient.HospitalID,
	}

	if err := tx.Create(&registration).Error; err != nil {
		log.Println(err)
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to register visit"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		log.Println(err)
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Visit registered successfully", "token_number": tokenNumber})

	user_id, err := Token.ExtractTokenID(c)
	if err != nil {
		log.Println(err)
	}
	fcms, _ := Models.GetHospitalFCMsByID(user_id)
	if len(fcms) > 0 {
		FirebaseMessaging.SendMessage(Models.NotificationRequest{Tokens: fcms, Title: "New OPD Registration", Body: fmt.Sprintf("%s registered for %s (token %d)", patient.Name, doctor.Name, tokenNumber)})
	}
	SSE.Broadcaster.Broadcast("refresh")
	if patient.Phone != "" {
		Whatsapp.SendMessage(patient.Phone, fmt.Sprintf("Your OPD visit with %s on %s is registered. Your token number is %d.", doctor.Name, registration.VisitDate, tokenNumber))
	}
}

func FetchOPDVisits(c *gin.Context) {
	var input struct {
		DateFrom string `json:"date_from"`
		DateTo   string `json:"date_to"`
		DoctorID uint   `json:"doctor_id"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := getScopedDB(c).Model(&Models.OPDRegistration{})
	if input.DateFrom != "" && input.DateTo != "" {
		db = db.Where("visit_date BETWEEN ? AND ?", input.DateFrom, input.DateTo)
	}
	if input.DoctorID != 0 {
		db = db.Where("doctor_id = ?", input.DoctorID)
	}

	var visits []Models.OPDRegistration
	if err := db.Order("visit_date, token_number").Find(&visits).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, visits)
}

func MarkOPDAsPaid(c *gin.Context) {
	setOPDPaid(c, true)
}

func UnmarkOPDAsPaid(c *gin.Context) {
	setOPDPaid(c, false)
}

func setOPDPaid(c *gin.Context, paid bool) {
	var input struct {
		ID            uint   `json:"id"`
		PaymentMethod string `json:"payment_method"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{"is_paid": paid}
	if paid && input.PaymentMethod != "" {
		updates["payment_method"] = input.PaymentMethod
	}

	if err := Models.DB.Model(&Models.OPDRegistration{}).Where("id = ?", input.ID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	SSE.Broadcaster.Broadcast("refresh")
	c.JSON(http.StatusOK, gin.H{"message": "Marked Successfully"})
}

// SavePrescription stores the structured prescription for an OPD visit,
// replacing any previous one.
func SavePrescription(c *gin.Context) {
	var input Models.OPDPrescription
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var registration Models.OPDRegistration
	if err := Models.DB.First(&registration, input.OPDRegistrationID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "OPD registration not found"})
		return
	}
	input.HospitalID = registration.HospitalID

	tx := Models.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var existing Models.OPDPrescription
	if err := tx.Where("opd_registration_id = ?", input.OPDRegistrationID).First(&existing).Error; err == nil {
		if err := tx.Where("opd_prescription_id = ?", existing.ID).Delete(&Models.MedicineLine{}).Error; err != nil {
			log.Println(err)
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to replace prescription"})
			return
		}
		if err := tx.Delete(&existing).Error; err != nil {
			log.Println(err)
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to replace prescription"})
			return
		}
	}

	if err := tx.Create(&input).Error; err != nil {
		log.Println(err)
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to save prescription"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		log.Println(err)
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Prescription saved successfully"})
}

func FetchPrescriptions(c *gin.Context) {
	var input struct {
		OPDRegistrationID uint `json:"opd_registration_id"`
		PatientID         uint `json:"patient_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := Models.DB.Model(&Models.OPDPrescription{}).Preload("Medicines")
	if input.OPDRegistrationID != 0 {
		db = db.Where("opd_registration_id = ?", input.OPDRegistrationID)
	} else if input.PatientID != 0 {
		db = db.Joins("JOIN opd_registrations ON opd_registrations.id = opd_prescriptions.opd_registration_id").
			Where("opd_registrations.patient_id = ?", input.PatientID)
	}

	var prescriptions []Models.OPDPrescription
	if err := db.Find(&prescriptions).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, prescriptions)
}
