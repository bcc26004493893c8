package Middleware

import (
	"fmt"
	"net/http"

	"MediDesk/Models"
	"MediDesk/Utils/Token"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func JwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		err := Token.TokenValid(c)
		if err != nil {
			c.String(http.StatusUnauthorized, "Unauthorized Token Invalid")
			c.Abort()
			return
		}
		c.Next()
	}
}

// SetHospitalScope resolves the caller's hospital and installs a DB wrapper
// that filters every query to that tenant.
func SetHospitalScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := Token.ExtractTokenID(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		user, err := Models.GetUserByID(userID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			c.Abort()
			return
		}

		c.Set("hospitalID", user.HospitalID)

		dbWrapper := func(tableName string) *gorm.DB {
			if tableName == "" {
				return Models.DB.Where("hospital_id = ?", user.HospitalID)
			}
			return Models.DB.Where(fmt.Sprintf("%s.hospital_id = ?", tableName), user.HospitalID)
		}

		c.Set("db", dbWrapper)
		c.Next()
	}
}

func PermissionCheckAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user_id, err := Token.ExtractTokenID(c)

		if err != nil {
			c.String(http.StatusBadRequest, "Unauthorized Token Extraction")
			c.Abort()
			return
		}

		user, err := Models.GetUserByID(user_id)
		if err != nil {
			c.String(http.StatusBadRequest, "Unauthorized User Extraction")
			c.Abort()
			return
		}

		if user.Permission >= 2 {
			c.Next()
		} else {
			c.String(http.StatusBadRequest, "Unauthorized Not Enough Permission")
			c.Abort()
		}
	}
}
