package db

import (
	"fmt"
	"log"
	"strings"

	"github.com/bluegridhq/bluegrid/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type AuthRepository interface {
	CreateUser(user *models.User) (*models.User, error)
	IsEmailExist(email string) error
	IsPhoneExist(phone string) error
	FindUserByEmail(email string) (*models.User, error)
	FindUserByID(id uint) (*models.User, error)
	EditUserProfile(userID uint, userDetails *models.EditProfileRequest) error
	UpdatePassword(password string, email string) error
	ResetPassword(userID, newPassword string) error
	AddToBlackList(blacklist *models.Blacklist) error
	IsTokenInBlacklist(token string) bool
	FindRoleByID(roleID uuid.UUID) (*models.Role, error)
	FindRoleByName(name string) (*models.Role, error)
	GetUserRoleByUserID(userID uint) (*models.Role, error)
	GetUsersByRole(roleName string) ([]models.User, error)
	DeleteStaffUser(userID uint) error
}

type authRepo struct {
	DB *gorm.DB
}

func NewAuthRepo(db *GormDB) AuthRepository {
	return &authRepo{db.DB}
}

func (a *authRepo) CreateUser(user *models.User) (*models.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}

	// Residents are the default when no role was chosen explicitly.
	if user.RoleID == uuid.Nil {
		role, err := a.FindRoleByName(models.RoleResident)
		if err != nil {
			log.Printf("CreateUser error fetching default role: %v", err)
			return nil, err
		}
		user.RoleID = role.ID
	}

	if err := a.DB.Create(user).Error; err != nil {
		log.Printf("CreateUser error: %v", err)
		return nil, err
	}
	return user, nil
}

func (a *authRepo) IsEmailExist(email string) error {
	var count int64
	err := a.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "gorm count error")
	}
	if count > 0 {
		return errors.New("email already in use")
	}
	return nil
}

func (a *authRepo) IsPhoneExist(phone string) error {
	var count int64
	err := a.DB.Model(&models.User{}).Where("phone = ?", phone).Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "gorm count error")
	}
	if count > 0 {
		return fmt.Errorf("phone number already in use")
	}
	return nil
}

func (a *authRepo) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := a.DB.Preload("Role").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("error finding user by email: %w", err)
	}
	return &user, nil
}

func (a *authRepo) FindUserByID(id uint) (*models.User, error) {
	var user models.User
	err := a.DB.Preload("Role").Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (a *authRepo) EditUserProfile(userID uint, userDetails *models.EditProfileRequest) error {
	var user models.User
	if err := a.DB.First(&user, userID).Error; err != nil {
		return err
	}

	if userDetails.Fullname != "" {
		user.Fullname = userDetails.Fullname
	}
	if userDetails.Phone != "" {
		user.Phone = userDetails.Phone
	}
	if userDetails.Address != "" {
		user.Address = userDetails.Address
	}

	return a.DB.Save(&user).Error
}

func (a *authRepo) UpdatePassword(password string, email string) error {
	return a.DB.Model(&models.User{}).Where("email = ?", email).
		Update("hashed_password", password).Error
}

func (a *authRepo) ResetPassword(userID, newPassword string) error {
	result := a.DB.Model(models.User{}).Where("id = ?", userID).Update("hashed_password", newPassword)
	return result.Error
}

func (a *authRepo) AddToBlackList(blacklist *models.Blacklist) error {
	result := a.DB.Create(blacklist)
	return result.Error
}

func normalizeToken(token string) string {
	return strings.TrimSpace(token)
}

func (a *authRepo) IsTokenInBlacklist(token string) bool {
	var count int64
	a.DB.Model(&models.Blacklist{}).Where("token = ?", normalizeToken(token)).Count(&count)
	return count > 0
}

func (a *authRepo) FindRoleByID(roleID uuid.UUID) (*models.Role, error) {
	var role models.Role
	if err := a.DB.Where("id = ?", roleID).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (a *authRepo) FindRoleByName(name string) (*models.Role, error) {
	var role models.Role
	if err := a.DB.Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Println("Role not found:", name)
			return nil, errors.New("role not found")
		}
		return nil, err
	}
	return &role, nil
}

// GetUserRoleByUserID reads the user's current role. Transitions call this on
// every attempt rather than trusting a cached claim.
func (a *authRepo) GetUserRoleByUserID(userID uint) (*models.Role, error) {
	var role models.Role
	err := a.DB.Table("roles").
		Select("roles.*").
		Joins("JOIN users ON users.role_id = roles.id").
		Where("users.id = ?", userID).
		First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no role found for user with ID %d", userID)
		}
		return nil, err
	}
	return &role, nil
}

func (a *authRepo) GetUsersByRole(roleName string) ([]models.User, error) {
	var users []models.User
	err := a.DB.Preload("Role").
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ?", roleName).
		Find(&users).Error
	if err != nil {
		return nil, errors.Wrap(err, "gorm find error")
	}
	return users, nil
}

// DeleteStaffUser removes a staff account and detaches it from the historical
// reports it worked on, in one transaction. Callers must have already checked
// that no open report is still assigned to the user.
func (a *authRepo) DeleteStaffUser(userID uint) error {
	return a.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Report{}).
			Where("assigned_technician_id = ?", userID).
			Update("assigned_technician_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Report{}).
			Where("approved_by_id = ?", userID).
			Update("approved_by_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&models.User{}, userID).Error; err != nil {
			return err
		}
		return nil
	})
}
