package Controllers

import (
	"MediDesk/Models"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gin-gonic/gin"
)

// ExportRevenueSheet writes the billing register for a date range: one row
// per paid OPD visit and one per IPD payment.
func ExportRevenueSheet(c *gin.Context) {
	var input struct {
		DateFrom string `json:"date_from"`
		DateTo   string `json:"date_to"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, err)
		return
	}

	hospitalID, ok := currentHospitalID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: Hospital Not Set"})
		return
	}

	var visits []Models.OPDRegistration
	opdQuery := Models.DB.Model(&Models.OPDRegistration{}).
		Where("hospital_id = ?", hospitalID).
		Where("is_paid = ?", true)
	if input.DateFrom != "" && input.DateTo != "" {
		opdQuery = opdQuery.Where("visit_date BETWEEN ? AND ?", input.DateFrom, input.DateTo)
	}
	if err := opdQuery.Find(&visits).Error; err != nil {
		c.JSON(http.StatusBadRequest, err)
		return
	}

	var payments []Models.Payment
	paymentQuery := Models.DB.Model(&Models.Payment{}).
		Joins("JOIN ipd_admissions ON ipd_admissions.id = payments.ipd_admission_id").
		Where("ipd_admissions.hospital_id = ?", hospitalID)
	if input.DateFrom != "" && input.DateTo != "" {
		paymentQuery = paymentQuery.Where("payments.received_at BETWEEN ? AND ?", input.DateFrom, input.DateTo+" 23:59:59")
	}
	if err := paymentQuery.Find(&payments).Error; err != nil {
		c.JSON(http.StatusBadRequest, err)
		return
	}

	headers := map[string]string{
		"A1": "Date",
		"B1": "Type",
		"C1": "Patient / Receipt",
		"D1": "Method",
		"E1": "Amount",
	}
	file := excelize.NewFile()
	sheet := "Revenue"
	file.NewSheet(sheet)
	file.DeleteSheet("Sheet1")
	for k, v := range headers {
		file.SetCellValue(sheet, k, v)
	}

	row := 2
	for _, visit := range visits {
		file.SetCellValue(sheet, fmt.Sprintf("A%v", row), visit.VisitDate)
		file.SetCellValue(sheet, fmt.Sprintf("B%v", row), "OPD")
		file.SetCellValue(sheet, fmt.Sprintf("C%v", row), visit.PatientName)
		file.SetCellValue(sheet, fmt.Sprintf("D%v", row), visit.PaymentMethod)
		file.SetCellValue(sheet, fmt.Sprintf("E%v", row), visit.Fee)
		row++
	}
	for _, payment := range payments {
		file.SetCellValue(sheet, fmt.Sprintf("A%v", row), payment.ReceivedAt.Format("2006-01-02"))
		file.SetCellValue(sheet, fmt.Sprintf("B%v", row), "IPD")
		file.SetCellValue(sheet, fmt.Sprintf("C%v", row), payment.ReceiptNumber)
		file.SetCellValue(sheet, fmt.Sprintf("D%v", row), payment.Method)
		file.SetCellValue(sheet, fmt.Sprintf("E%v", row), payment.Amount)
		row++
	}

	var filename string = "./Revenue.xlsx"
	if err := file.SaveAs(filename); err != nil {
		log.Println(err)
	}
	c.File(filename)
}

// ExportOPDRegister writes the day's OPD register in token order.
func ExportOPDRegister(c *gin.Context) {
	var input struct {
		Date string `json:"date"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Date == "" {
		input.Date = time.Now().Format("2006-01-02")
	}

	hospitalID, ok := currentHospitalID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: Hospital Not Set"})
		return
	}

	var visits []Models.OPDRegistration
	if err := Models.DB.Model(&Models.OPDRegistration{}).
		Where("hospital_id = ?", hospitalID).
		Where("visit_date = ?", input.Date).
		Order("doctor_id, token_number").
		Find(&visits).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	headers := map[string]string{
		"A1": "Token",
		"B1": "UHID",
		"C1": "Patient",
		"D1": "Doctor",
		"E1": "Department",
		"F1": "Fee",
		"G1": "Paid",
	}

	file := excelize.NewFile()
	sheet := "OPD Register"
	file.NewSheet(sheet)
	file.DeleteSheet("Sheet1")
	for k, v := range headers {
		file.SetCellValue(sheet, k, v)
	}

	for i := 0; i < len(visits); i++ {
		appendRowOPD(sheet, file, i, visits)
	}
	var filename string = "./OPDRegister.xlsx"
	if err := file.SaveAs(filename); err != nil {
		log.Println(err)
	}
	c.File(filename)
}

func appendRowOPD(sheet string, file *excelize.File, index int, rows []Models.OPDRegistration) (fileWriter *excelize.File) {
	rowCount := index + 2
	file.SetCellValue(sheet, fmt.Sprintf("A%v", rowCount), rows[index].TokenNumber)
	file.SetCellValue(sheet, fmt.Sprintf("B%v", rowCount), rows[index].UHID)
	file.SetCellValue(sheet, fmt.Sprintf("C%v", rowCount), rows[index].PatientName)
	file.SetCellValue(sheet, fmt.Sprintf("D%v", rowCount), rows[index].DoctorName)
	file.SetCellValue(sheet, fmt.Sprintf("E%v", rowCount), rows[index].Department)
	file.SetCellValue(sheet, fmt.Sprintf("F%v", rowCount), rows[index].Fee)
	file.SetCellValue(sheet, fmt.Sprintf("G%v", rowCount), rows[index].IsPaid)
	return file
}
