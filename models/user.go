package models

import (
	"errors"
	"fmt"

	goval "github.com/go-passwd/validator"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/leebenson/conform"
	"golang.org/x/crypto/bcrypt"
)

// User represents a resident or staff account.
type User struct {
	Model
	Fullname       string    `json:"fullname" binding:"required,min=2" conform:"trim"`
	Email          string    `json:"email" gorm:"unique;not null" binding:"required,email" conform:"email"`
	Phone          string    `json:"phone" gorm:"default:null" conform:"trim"`
	Address        string    `json:"address" conform:"trim"`
	Password       string    `json:"password,omitempty" gorm:"-" validate:"omitempty,min=6"`
	HashedPassword string    `json:"-"`
	IsEmailActive  bool      `json:"-"`
	RoleID         uuid.UUID `gorm:"type:uuid" json:"role_id"`
	Role           Role      `gorm:"foreignKey:RoleID" json:"role"`
}

// RoleName returns the loaded role name, empty if the relation was not preloaded.
func (u *User) RoleName() string {
	return u.Role.Name
}

// VerifyPassword compares a plaintext password with the stored bcrypt hash.
func (u *User) VerifyPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
}

// ValidatePassword enforces the account password policy.
func ValidatePassword(password string) error {
	passwordValidator := goval.New(
		goval.MinLength(6, errors.New("password cant be less than 6 characters")),
		goval.MaxLength(72, errors.New("password cant be more than 72 characters")))
	return passwordValidator.Validate(password)
}

// ValidateWhiteSpaces trims and normalizes tagged string fields in place.
func ValidateWhiteSpaces(data interface{}) error {
	return conform.Strings(data)
}

// TranslateError flattens validator errors into human-readable messages.
func TranslateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	validatorErrs := err.(validator.ValidationErrors)
	for _, e := range validatorErrs {
		translatedErr := fmt.Errorf(e.Translate(trans) + "; ")
		errs = append(errs, translatedErr)
	}
	return errs
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	RoleName string `json:"role_name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	UserResponse
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	RoleID       string `json:"role_id"`
}

type ForgotPassword struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPassword struct {
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type SendOTPRequest struct {
	Fullname string `json:"fullname" binding:"required,min=2" conform:"trim"`
	Email    string `json:"email" binding:"required,email" conform:"email"`
	Phone    string `json:"phone" binding:"required" conform:"trim"`
	Address  string `json:"address" conform:"trim"`
	Password string `json:"password" binding:"required"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// CreateStaffRequest is an officer-only request to provision staff accounts.
type CreateStaffRequest struct {
	Fullname string `json:"fullname" binding:"required,min=2" conform:"trim"`
	Email    string `json:"email" binding:"required,email" conform:"email"`
	Phone    string `json:"phone" binding:"required" conform:"trim"`
	Password string `json:"password" binding:"required"`
	RoleName string `json:"role_name" binding:"required"`
}

type EditProfileRequest struct {
	Fullname string `json:"fullname" conform:"trim"`
	Phone    string `json:"phone" conform:"trim"`
	Address  string `json:"address" conform:"trim"`
}
