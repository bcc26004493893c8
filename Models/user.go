package Models

import (
	"MediDesk/Utils/Token"
	"errors"
	"fmt"
	"html"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username   string        `gorm:"size:255;not null;unique" json:"username"`
	Password   string        `gorm:"size:255;not null;" json:"password"`
	Permission int           `json:"permission"`
	Tokens     []DeviceToken `gorm:"foreignKey:UserID"`
	IsFrozen   bool          `json:"is_frozen"`
	HospitalID uint          `json:"hospital_id"`
}

type DeviceToken struct {
	gorm.Model
	UserID uint
	Value  string `json:"value" gorm:"unique"`
}

func GetUserByID(uid uint) (User, error) {
	var user User

	if err := DB.First(&user, uid).Error; err != nil {
		return user, errors.New("User not found")
	}

	user.PrepareGive()

	return user, nil
}

func GetUserHospitalID(uid uint) (uint, error) {
	var hospitalID uint
	if err := DB.Model(&User{}).Where("id = ?", uid).Select("hospital_id").First(&hospitalID).Error; err != nil {
		return 0, errors.New("Hospital not found")
	}

	return hospitalID, nil
}

// GetHospitalFCMsByID collects the device tokens of every staff account in the
// same hospital as the given user.
func GetHospitalFCMsByID(uid uint) ([]string, error) {
	var user User
	if err := DB.First(&user, uid).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	var users []User
	if err := DB.Where("hospital_id = ?", user.HospitalID).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to find users in hospital: %w", err)
	}

	uniqueFCMs := make(map[string]struct{})
	for _, staff := range users {
		var tokens []DeviceToken
		if err := DB.Where("user_id = ?", staff.ID).Find(&tokens).Error; err != nil {
			return nil, fmt.Errorf("failed to find tokens for user %d: %w", staff.ID, err)
		}
		for _, token := range tokens {
			uniqueFCMs[token.Value] = struct{}{}
		}
	}

	var fcms []string
	for token := range uniqueFCMs {
		fcms = append(fcms, token)
	}

	return fcms, nil
}

func (user *User) ChangeState() {
	user.IsFrozen = !user.IsFrozen
}

func (user *User) PrepareGive() {
	user.Password = ""
}

func VerifyPassword(password, hashedPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func LoginCheck(username string, password string) (uint, string, error) {

	var err error

	user := User{}

	err = DB.Model(User{}).Where("username = ?", username).Take(&user).Error

	if err != nil {
		return 0, "", err
	}

	err = VerifyPassword(password, user.Password)

	if err != nil {
		return 0, "", err
	}

	token, err := Token.GenerateToken(user.ID)

	if err != nil {
		return 0, "", err
	}

	return user.ID, token, nil
}

func (user *User) SaveUser() (*User, error) {

	if err := user.BeforeSave(); err != nil {
		return &User{}, err
	}

	if err := DB.Create(&user).Error; err != nil {
		return &User{}, err
	}

	return user, nil
}

func (user *User) BeforeSave() error {

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)

	user.Username = html.EscapeString(strings.TrimSpace(user.Username))

	return nil
}
