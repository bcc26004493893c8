package Controllers

import (
	"log"
	"net/http"

	"MediDesk/Constants"
	"MediDesk/Models"
	"MediDesk/Utils/Token"

	"github.com/gin-gonic/gin"
)

func CurrentUser(c *gin.Context) {
	user_id, err := Token.ExtractTokenID(c)

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := Models.GetUserByID(user_id)

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var output struct {
		ID           uint   `json:"ID"`
		Username     string `json:"username"`
		HospitalName string `json:"hospital_name"`
		Permission   int    `json:"permission"`
		HospitalID   uint   `json:"hospital_id"`
	}
	var hospital Models.Hospital
	if err := Models.DB.First(&hospital, user.HospitalID).Error; err == nil {
		output.HospitalName = hospital.Name
	}
	output.ID = user_id
	output.Username = user.Username
	output.Permission = user.Permission
	output.HospitalID = user.HospitalID
	c.JSON(http.StatusOK, gin.H{"message": "success", "data": output})
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func SaveFCM(c *gin.Context) {
	var input struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user_id, err := Token.ExtractTokenID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	deviceToken := Models.DeviceToken{UserID: user_id, Value: input.Token}
	if err := Models.DB.Save(&deviceToken).Error; err != nil {
		log.Println(err)
	}
	c.JSON(http.StatusOK, nil)
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid, token, err := Models.LoginCheck(input.Username, input.Password)

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username or password is incorrect."})
		return
	}

	user, _ := Models.GetUserByID(uid)

	if user.IsFrozen {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User Frozen"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login Successful", "jwt": token, "permission": user.Permission})
}

type RegisterInput struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Permission int    `json:"permission"`
	HospitalID uint   `json:"hospital_id"`
}

func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

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
	user.Permission = input.Permission
	user.HospitalID = input.HospitalID
	_, err := user.SaveUser()

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": "validated"})
}

// RegisterHospital creates the tenant row plus its owner account.
func RegisterHospital(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Address  string `json:"address"`
		Phone    string `json:"phone"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var hospital Models.Hospital
	hospital.Name = input.Name
	hospital.Address = input.Address
	hospital.Phone = input.Phone

	if err := Models.DB.Create(&hospital).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := Models.User{}

	user.Username = input.Name
	user.Password = input.Password
	user.Permission = Constants.PermissionOwner
	user.HospitalID = hospital.ID
	_, err := user.SaveUser()
	if err != nil {
		log.Println(err)
		c.String(http.StatusBadRequest, "Failed To Register User")
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": "validated"})
}

func DeleteUser(c *gin.Context) {
	user_id, err := Token.ExtractTokenID(c)

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := Models.GetUserByID(user_id)

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Models.DB.Unscoped().Delete(&Models.DeviceToken{}, "user_id = ?", user.ID).Error; err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Models.DB.Unscoped().Delete(&Models.User{}, user.ID).Error; err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account Deleted Successfully"})
}
