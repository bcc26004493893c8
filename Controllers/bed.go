package Controllers

import (
	"net/http"

	"MediDesk/Models"

	"github.com/gin-gonic/gin"
)

func AddWard(c *gin.Context) {
	var input Models.Ward
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hospitalID, ok := currentHospitalID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: Hospital Not Set"})
		return
	}
	input.HospitalID = hospitalID

	if err := Models.DB.Create(&input).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Ward Created Successfully",
	})
}

func FetchWards(c *gin.Context) {
	db := getScopedDB(c)
	var wards []Models.Ward
	if err := db.Model(&Models.Ward{}).Preload("Beds").Find(&wards).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, wards)
}

func AddBed(c *gin.Context) {
	var input Models.Bed
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.Status = Models.BedAvailable

	var count int64
	if err := Models.DB.Model(&Models.Bed{}).
		Where("ward_id = ? AND number = ?", input.WardID, input.Number).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bed number already exists in this ward"})
		return
	}

	if err := Models.DB.Create(&input).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Bed Created Successfully",
	})
}

func EditBed(c *gin.Context) {
	var input struct {
		ID          uint    `json:"id"`
		Number      string  `json:"number"`
		DailyCharge float64 `json:"daily_charge"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Models.DB.Model(&Models.Bed{}).Where("id = ?", input.ID).Updates(map[string]interface{}{
		"number":       input.Number,
		"daily_charge": input.DailyCharge,
	}).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Bed Edited Successfully",
	})
}

func DeleteBed(c *gin.Context) {
	var input struct {
		BedID uint `json:"bed_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var bed Models.Bed
	if err := Models.DB.First(&bed, input.BedID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bed not found"})
		return
	}
	if bed.Status == Models.BedOccupied {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete an occupied bed"})
		return
	}

	if err := Models.DB.Delete(&Models.Bed{}, "id = ?", input.BedID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Bed Deleted Successfully",
	})
}

func FetchAvailableBeds(c *gin.Context) {
	var input struct {
		WardID uint `json:"ward_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hospitalID, ok := currentHospitalID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: Hospital Not Set"})
		return
	}

	db := Models.DB.Model(&Models.Bed{}).
		Joins("JOIN wards ON wards.id = beds.ward_id").
		Where("wards.hospital_id = ?", hospitalID).
		Where("beds.status = ?", Models.BedAvailable)
	if input.WardID != 0 {
		db = db.Where("beds.ward_id = ?", input.WardID)
	}

	var beds []Models.Bed
	if err := db.Find(&beds).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, beds)
}
