package Controllers

import (
	"errors"
	"log"
	"net/http"

	"MediDesk/Constants"
	"MediDesk/Models"
	"MediDesk/Utils/Token"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"gorm.io/gorm"
)

// RegisterDoctor creates the doctor's login plus their profile in one go.
func RegisterDoctor(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindBodyWith(&input, binding.JSON); err != nil {
		log.Println(err)
		c.String(http.StatusBadRequest, "Bad Request")
		c.Abort()
		return
	}

	var doctor Models.Doctor
	if err := c.ShouldBindBodyWith(&doctor, binding.JSON); err != nil {
		log.Println(err.Error())
		c.JSON(http.StatusBadRequest, err)
		return
	}

	user_id, _ := Token.ExtractTokenID(c)

	hospital_id, err := Models.GetUserHospitalID(user_id)
	if err != nil {
		log.Println(err)
	}
	input.HospitalID = hospital_id
	if input.HospitalID != 0 {
		exists, err := Models.HospitalExists(input.HospitalID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check hospital"})
			return
		}
		if !exists {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Hospital ID does not exist"})
			return
		}
	}

	user := Models.User{}

	user.Username = input.Username
	user.Password = input.Password
	user.Permission = Constants.PermissionDoctor
	user.HospitalID = input.HospitalID
	if err := user.BeforeSave(); err != nil {
		log.Println(err)
		c.String(http.StatusBadRequest, "Failed To Register User")
		c.Abort()
		return
	}

	tx := Models.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&user).Error; err != nil {
		log.Println(err)
		tx.Rollback()
		c.String(http.StatusBadRequest, "Failed To Register User")
		c.Abort()
		return
	}

	doctor.UserID = user.ID
	doctor.HospitalID = input.HospitalID
	doctor.Name = "Dr. " + input.Username
	if err := tx.Create(&doctor).Error; err != nil {
		log.Println(err)
		tx.Rollback()
		c.JSON(http.StatusBadRequest, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		log.Println(err)
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Registered Successfully"})
}

func DeleteDoctor(c *gin.Context) {
	var input struct {
		ID uint `json:"id"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Doctor not found"})
		return
	}

	var doctor Models.Doctor
	if err := Models.DB.Where("id = ?", input.ID).First(&doctor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Doctor not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve doctor"})
		}
		return
	}

	var user Models.User
	if err := Models.DB.Where("id = ?", doctor.UserID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Associated user not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}

	tx := Models.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Delete(&doctor).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete doctor"})
		return
	}

	if err := tx.Delete(&user).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Doctor and associated user deleted successfully"})
}

func GetDoctors(c *gin.Context) {
	db := getScopedDB(c)
	var doctors []Models.Doctor
	if err := db.Model(&Models.Doctor{}).Find(&doctors).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for index := range doctors {
		var user Models.User
		if err := Models.DB.Where("id = ?", doctors[index].UserID).First(&user).Error; err == nil {
			doctors[index].IsFrozen = user.IsFrozen
		}
	}
	c.JSON(http.StatusOK, doctors)
}

// GetDoctorsTrimmed is the public listing used by the booking page.
func GetDoctorsTrimmed(c *gin.Context) {
	var output []struct {
		ID             uint    `json:"id"`
		Name           string  `json:"name"`
		Specialization string  `json:"specialization"`
		OPDFee         float64 `json:"opd_fee"`
		PhotoUrl       string  `json:"photo_url"`
	}
	if err := Models.DB.Model(&Models.Doctor{}).
		Select("id", "name", "specialization", "opd_fee", "photo_url").
		Find(&output).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, output)
}
