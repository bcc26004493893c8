package Controllers

import (
	"errors"
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
	"github.com/google/uuid"
)

// AdmitPatient opens an IPD admission and claims the requested bed. The bed
// claim is a conditional update, so two desks admitting into the same bed race
// safely: one of them gets a conflict.
func AdmitPatient(c *gin.Context) {
	var input struct {
		PatientID uint    `json:"patient_id"`
		DoctorID  uint    `json:"doctor_id"`
		BedID     uint    `json:"bed_id"`
		Deposit   float64 `json:"deposit"`
		IsTPA     bool    `json:"is_tpa"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		log.Println(err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
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

	var bed Models.Bed
	if err := tx.First(&bed, input.BedID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bed not found"})
		return
	}
	var ward Models.Ward
	if err := tx.First(&ward, bed.WardID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ward not found"})
		return
	}
	if ward.HospitalID != patient.HospitalID {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bed belongs to another hospital"})
		return
	}

	var openCount int64
	if err := tx.Model(&Models.IPDAdmission{}).
		Where("patient_id = ? AND status = ?", patient.ID, Models.AdmissionOpen).
		Count(&openCount).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to check existing admissions"})
		return
	}
	if openCount > 0 {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Patient already has an open admission"})
		return
	}

	admission := Models.IPDAdmission{
		PatientID:   patient.ID,
		PatientName: patient.Name,
		UHID:        patient.UHID,
		DoctorID:    doctor.ID,
		DoctorName:  doctor.Name,
		BedID:       input.BedID,
		AdmittedAt:  time.Now(),
		Status:      Models.AdmissionOpen,
		Deposit:     input.Deposit,
		IsTPA:       input.IsTPA,
		HospitalID:  patient.HospitalID,
	}

	if err := tx.Create(&admission).Error; err != nil {
		log.Println(err)
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create admission"})
		return
	}

	if err := Models.OccupyBed(tx, input.BedID, admission.ID); err != nil {
		tx.Rollback()
		if errors.Is(err, Models.ErrBedOccupied) {
			c.JSON(http.StatusConflict, gin.H{"error": "Bed is already occupied"})
			return
		}
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to assign bed"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		log.Println(err)
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Patient admitted successfully", "admission_id": admission.ID})

	user_id, err := Token.ExtractTokenID(c)
	if err != nil {
		log.Println(err)
	}
	fcms, _ := Models.GetHospitalFCMsByID(user_id)
	if len(fcms) > 0 {
		FirebaseMessaging.SendMessage(Models.NotificationRequest{Tokens: fcms, Title: "New IPD Admission", Body: fmt.Sprintf("%s admitted under %s", patient.Name, doctor.Name)})
	}
	SSE.Broadcaster.Broadcast("refresh")
	if patient.Phone != "" {
		Whatsapp.SendMessage(patient.Phone, fmt.Sprintf("%s has been admitted under %s. UHID: %s", patient.Name, doctor.Name, patient.UHID))
	}
}

// TransferBed moves an open admission to another bed, releasing the old one.
func TransferBed(c *gin.Context) {
	var input struct {
		AdmissionID uint `json:"admission_id"`
		NewBedID    uint `json:"new_bed_id"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, err)
		return
	}

	tx := Models.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var admission Models.IPDAdmission
	if err := tx.Where("id = ? AND status = ?", input.AdmissionID, Models.AdmissionOpen).First(&admission).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Open admission not found"})
		return
	}

	var newBed Models.Bed
	if err := tx.First(&newBed, input.NewBedID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bed not found"})
		return
	}
	var ward Models.Ward
	if err := tx.First(&ward, newBed.WardID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ward not found"})
		return
	}
	if ward.HospitalID != admission.HospitalID {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bed belongs to another hospital"})
		return
	}

	if err := Models.OccupyBed(tx, input.NewBedID, admission.ID); err != nil {
		tx.Rollback()
		if errors.Is(err, Models.ErrBedOccupied) {
			c.JSON(http.StatusConflict, gin.H{"error": "Bed is already occupied"})
			return
		}
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to assign bed"})
		return
	}

	if err := Models.ReleaseBed(tx, admission.BedID); err != nil {
		log.Println(err)
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to release old bed"})
		return
	}

	if err := tx.Model(&Models.IPDAdmission{}).Where("id = ?", admission.ID).Update("bed_id", input.NewBedID).Error; err != nil {
		log.Println(err)
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to update admission"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		log.Println(err)
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	SSE.Broadcaster.Broadcast("refresh")
	c.JSON(http.StatusOK, gin.H{"message": "Bed transferred successfully"})
}

func AddChargeEntry(c *gin.Context) {
	var input struct {
		AdmissionID uint    `json:"admission_id"`
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
		Date        string  `json:"date"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var admission Models.IPDAdmission
	if err := Models.DB.Where("id = ? AND status = ?", input.AdmissionID, Models.AdmissionOpen).First(&admission).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Open admission not found"})
		return
	}

	if input.Date == "" {
		input.Date = time.Now().Format("2006-01-02")
	}

	entry := Models.ChargeSheetEntry{
		IPDAdmissionID: admission.ID,
		Description:    input.Description,
		Amount:         input.Amount,
		Date:           input.Date,
	}
	if err := Models.DB.Create(&entry).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	SSE.Broadcaster.Broadcast("refresh")
	c.JSON(http.StatusOK, gin.H{"message": "Charge added successfully"})
}

func RecordPayment(c *gin.Context) {
	var input struct {
		AdmissionID uint    `json:"admission_id"`
		Amount      float64 `json:"amount"`
		Method      string  `json:"method"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment amount must be positive"})
		return
	}

	var admission Models.IPDAdmission
	if err := Models.DB.Where("id = ? AND status = ?", input.AdmissionID, Models.AdmissionOpen).First(&admission).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Open admission not found"})
		return
	}

	payment := Models.Payment{
		IPDAdmissionID: admission.ID,
		Amount:         input.Amount,
		Method:         input.Method,
		ReceiptNumber:  uuid.New().String(),
		ReceivedAt:     time.Now(),
	}
	if err := Models.DB.Create(&payment).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	SSE.Broadcaster.Broadcast("refresh")
	c.JSON(http.StatusOK, gin.H{"message": "Payment recorded successfully", "receipt_number": payment.ReceiptNumber})
}

// DischargePatient closes an admission in one transaction: bill number and
// totals are fixed, the discharge summary is written, and the bed is
// released. The three writes the original front end did separately cannot
// partially fail here.
func DischargePatient(c *gin.Context) {
	var input struct {
		AdmissionID          uint   `json:"admission_id"`
		FinalDiagnosis       string `json:"final_diagnosis"`
		TreatmentGiven       string `json:"treatment_given"`
		ConditionAtDischarge string `json:"condition_at_discharge"`
		Medications          string `json:"medications"`
		FollowUpDate         string `json:"follow_up_date"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Println(err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx := Models.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var admission Models.IPDAdmission
	if err := tx.Where("id = ? AND status = ?", input.AdmissionID, Models.AdmissionOpen).First(&admission).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Open admission not found"})
		return
	}

	charges, payments, err := Models.AdmissionTotals(tx, admission.ID)
	if err != nil {
		log.Println(err)
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to total the charge sheet"})
		return
	}

	due := charges - admission.Deposit - payments
	if due > 0 && !admission.IsTPA {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Outstanding balance of %.2f must be settled before discharge", due)})
		return
	}

	now := time.Now()
	billNumber, err := Models.NextBillNumber(tx, admission.HospitalID, now.Year())
	if err != nil {
		log.Println(err)
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to allocate bill number"})
		return
	}

	if err := tx.Model(&Models.IPDAdmission{}).Where("id = ?", admission.ID).Updates(map[string]interface{}{
		"status":        Models.AdmissionDischarged,
		"discharged_at": now,
		"bill_number":   billNumber,
		"bill_total":    charges,
	}).Error; err != nil {
		log.Println(err)
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to close admission"})
		return
	}

	summary := Models.DischargeSummary{
		IPDAdmissionID:       admission.ID,
		FinalDiagnosis:       input.FinalDiagnosis,
		TreatmentGiven:       input.TreatmentGiven,
		ConditionAtDischarge: input.ConditionAtDischarge,
		Medications:          input.Medications,
		FollowUpDate:         input.FollowUpDate,
		HospitalID:           admission.HospitalID,
	}
	if err := tx.Create(&summary).Error; err != nil {
		log.Println(err)
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create discharge summary"})
		return
	}

	if err := Models.ReleaseBed(tx, admission.BedID); err != nil {
		log.Println(err)
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to release bed"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		log.Println(err)
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Patient discharged successfully", "bill_number": billNumber, "bill_total": charges, "due": due})

	user_id, err := Token.ExtractTokenID(c)
	if err != nil {
		log.Println(err)
	}
	fcms, _ := Models.GetHospitalFCMsByID(user_id)
	if len(fcms) > 0 {
		FirebaseMessaging.SendMessage(Models.NotificationRequest{Tokens: fcms, Title: "Patient Discharged", Body: fmt.Sprintf("%s discharged, bill %s", admission.PatientName, billNumber)})
	}
	SSE.Broadcaster.Broadcast("refresh")
	var patient Models.Patient
	if err := Models.DB.First(&patient, admission.PatientID).Error; err == nil && patient.Phone != "" {
		Whatsapp.SendMessage(patient.Phone, fmt.Sprintf("%s has been discharged. Bill %s, total %.2f. Get well soon!", patient.Name, billNumber, charges))
	}
}

func FetchAdmissions(c *gin.Context) {
	var input struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := getScopedDB(c).Model(&Models.IPDAdmission{})
	if input.Status != "" {
		db = db.Where("status = ?", input.Status)
	}

	var admissions []Models.IPDAdmission
	if err := db.Preload("Charges").Preload("Payments").Find(&admissions).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, admissions)
}

func FetchAdmissionDetails(c *gin.Context) {
	var input struct {
		AdmissionID uint `json:"admission_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var admission Models.IPDAdmission
	if err := Models.DB.Preload("Charges").Preload("Payments").First(&admission, input.AdmissionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Admission not found"})
		return
	}

	charges, payments, err := Models.AdmissionTotals(Models.DB, admission.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var summary Models.DischargeSummary
	Models.DB.Where("ipd_admission_id = ?", admission.ID).First(&summary)

	c.JSON(http.StatusOK, gin.H{
		"admission": admission,
		"charges":   charges,
		"payments":  payments,
		"due":       charges - admission.Deposit - payments,
		"summary":   summary,
	})
}
