package Controllers

import (
	"log"
	"net/http"

	"MediDesk/AI"

	"github.com/gin-gonic/gin"
)

// ExtractPrescription turns a dictated consultation transcript into a
// structured prescription draft the doctor can review before saving.
func ExtractPrescription(c *gin.Context) {
	var input struct {
		Transcript string `json:"transcript" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := AI.ExtractPrescription(c.Request.Context(), input.Transcript)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Extraction failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "success", "data": draft})
}
