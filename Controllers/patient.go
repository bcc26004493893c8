package Controllers

import (
	"MediDesk/Models"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

func FetchPatients(c *gin.Context) {
	db := getScopedDB(c)
	var patients []Models.Patient
	if err := db.Model(&Models.Patient{}).Preload("OPDVisits").Preload("Admissions").Find(&patients).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, patients)
}

func GetPatientIdByPhone(c *gin.Context) {
	var input struct {
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var patient Models.Patient
	if err := Models.DB.Model(&Models.Patient{}).Where("phone = ?", Models.NormalizePhone(input.Phone)).First(&patient).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"patient_id": patient.ID, "uhid": patient.UHID})
}

func FetchPatientByUHID(c *gin.Context) {
	var input struct {
		UHID string `json:"uhid"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patient, err := Models.GetPatientByUHID(getScopedDB(c), input.UHID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		return
	}
	c.JSON(http.StatusOK, patient)
}

func CreatePatient(c *gin.Context) {
	var input Models.Patient

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	input.Phone = Models.NormalizePhone(input.Phone)

	hospitalID, ok := currentHospitalID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: Hospital Not Set"})
		return
	}
	input.HospitalID = hospitalID

	if err := input.GenerateUHID(Models.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := Models.DB.Create(&input).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Patient created successfully", "uhid": input.UHID})
}

func UpdatePatient(c *gin.Context) {
	var input struct {
		ID         uint   `json:"id"`
		Name       string `json:"name"`
		Phone      string `json:"phone"`
		Gender     string `json:"gender"`
		Age        int    `json:"age"`
		BloodGroup string `json:"blood_group"`
		Address    string `json:"address"`
		TPAName    string `json:"tpa_name"`
		TPAPolicy  string `json:"tpa_policy"`
		Notes      string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	var patient Models.Patient
	if err := Models.DB.Model(&Models.Patient{}).Where("id = ?", input.ID).Find(&patient).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	patient.Name = input.Name
	patient.Phone = Models.NormalizePhone(input.Phone)
	patient.Gender = input.Gender
	patient.Age = input.Age
	patient.BloodGroup = input.BloodGroup
	patient.Address = input.Address
	patient.TPAName = input.TPAName
	patient.TPAPolicy = input.TPAPolicy
	patient.Notes = input.Notes

	if err := Models.DB.Save(&patient).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Patient updated successfully"})
}

func DeletePatient(c *gin.Context) {
	var input struct {
		PatientID uint `json:"patient_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, err)
		return
	}

	if err := Models.DB.Delete(&Models.Patient{}, "id = ?", input.PatientID).Error; err != nil {
		c.JSON(http.StatusBadRequest, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Patient Deleted Successfully",
	})
}

func FetchPatientFilesURLs(c *gin.Context) {
	type FileInfo struct {
		Name string  `json:"name"`
		Size float64 `json:"size"`
	}

	var FileUrls []FileInfo
	var input struct {
		ID uint `json:"id"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries, err := os.ReadDir(fmt.Sprintf("./PatientRecords/%v/", input.ID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	for _, entry := range entries {
		fileInfo, err := entry.Info()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if fileInfo.Name() != ".DS_Store" {
			FileUrls = append(FileUrls, FileInfo{
				Name: entry.Name(),
				Size: float64(fileInfo.Size()),
			})
		}
	}

	c.JSON(http.StatusOK, FileUrls)
}

func UploadPatientRecord(c *gin.Context) {
	// 10MB upload cap
	if err := c.Request.ParseMultipartForm(10 << 20); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to parse form"})
		return
	}

	patientID := c.PostForm("id")
	if patientID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Patient ID is required"})
		return
	}

	patientDir := fmt.Sprintf("./PatientRecords/%s/", patientID)
	if err := os.MkdirAll(patientDir, os.ModePerm); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to create patient directory"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to retrieve files from form data"})
		return
	}

	files := form.File["files"]
	for _, file := range files {
		filePath := fmt.Sprintf("%s%s", patientDir, file.Filename)
		out, err := os.Create(filePath)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to create the file"})
			return
		}
		defer out.Close()

		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to open the file"})
			return
		}
		defer src.Close()

		if _, err := io.Copy(out, src); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to save the file"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Files uploaded successfully"})
}

func DeletePatientRecord(c *gin.Context) {
	var input struct {
		ID       uint   `json:"id"`
		FileName string `json:"file_name"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	filePath := fmt.Sprintf("./PatientRecords/%v/%s", input.ID, input.FileName)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	err := os.Remove(filePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}
