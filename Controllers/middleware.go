package Controllers

import (
	"MediDesk/Models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// getScopedDB returns the hospital-filtered DB installed by the scope
// middleware, or the default DB when the request is unscoped.
func getScopedDB(c *gin.Context) *gorm.DB {
	db, exists := c.Get("db")
	if !exists {
		return Models.DB
	}

	dbFunc, ok := db.(func(string) *gorm.DB)
	if !ok {
		return Models.DB
	}

	return dbFunc("")
}

// currentHospitalID reads the tenant id set by the scope middleware.
func currentHospitalID(c *gin.Context) (uint, bool) {
	hospitalID, exists := c.Get("hospitalID")
	if !exists {
		return 0, false
	}
	id, ok := hospitalID.(uint)
	return id, ok
}
