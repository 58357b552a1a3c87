package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/bluegridhq/bluegrid/config"
	"github.com/bluegridhq/bluegrid/db"
	apiError "github.com/bluegridhq/bluegrid/errors"
	"github.com/bluegridhq/bluegrid/models"
	"github.com/bluegridhq/bluegrid/services/jwt"
	"github.com/bluegridhq/bluegrid/services/otp"
	"golang.org/x/crypto/bcrypt"
)

// Mailer sends account-related mail. *mailingservices.Mailgun satisfies it.
type Mailer interface {
	SendWelcomeMessage(to, name string) (string, error)
	SendVerificationOTP(to, name, code string) (string, error)
	SendResetPassword(to, resetLink string) (string, error)
}

// AuthService interface
type AuthService interface {
	SignupUser(user *models.User) (*models.User, *apiError.Error)
	SendSignupOTP(req *models.SendOTPRequest) *apiError.Error
	VerifySignupOTP(req *models.VerifyOTPRequest) (*models.User, *apiError.Error)
	LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error)
	CreateStaff(actorID uint, req *models.CreateStaffRequest) (*models.User, *apiError.Error)
	DeleteUser(actorID uint, targetID uint) *apiError.Error
	ListUsersByRole(actorID uint, roleName string) ([]models.UserResponse, *apiError.Error)
}

// authService struct
type authService struct {
	Config     *config.Config
	authRepo   db.AuthRepository
	reportRepo db.ReportRepository
	otpStore   *otp.Store
	mail       Mailer
}

// NewAuthService instantiate an authService
func NewAuthService(authRepo db.AuthRepository, reportRepo db.ReportRepository, otpStore *otp.Store, mail Mailer, conf *config.Config) AuthService {
	return &authService{
		Config:     conf,
		authRepo:   authRepo,
		reportRepo: reportRepo,
		otpStore:   otpStore,
		mail:       mail,
	}
}

// GenerateHashPassword hashes a plaintext password with bcrypt.
func GenerateHashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

func (a *authService) SignupUser(user *models.User) (*models.User, *apiError.Error) {
	if err := models.ValidatePassword(user.Password); err != nil {
		return nil, apiError.Validation(err.Error())
	}
	if err := a.authRepo.IsEmailExist(user.Email); err != nil {
		return nil, apiError.Conflict("user with this email already exists")
	}
	if user.Phone != "" {
		if err := a.authRepo.IsPhoneExist(user.Phone); err != nil {
			return nil, apiError.Conflict("user with this phone number already exists")
		}
	}

	hashed, err := GenerateHashPassword(user.Password)
	if err != nil {
		log.Printf("SignupUser hash error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	user.HashedPassword = hashed
	user.Password = ""

	created, err := a.authRepo.CreateUser(user)
	if err != nil {
		return nil, apiError.GetUniqueContraintError(err)
	}
	return created, nil
}

// SendSignupOTP parks the signup and emails a verification code. The account
// is only created once the code is consumed.
func (a *authService) SendSignupOTP(req *models.SendOTPRequest) *apiError.Error {
	if err := models.ValidatePassword(req.Password); err != nil {
		return apiError.Validation(err.Error())
	}
	if err := a.authRepo.IsEmailExist(req.Email); err != nil {
		return apiError.Conflict("user with this email already exists")
	}

	hashed, err := GenerateHashPassword(req.Password)
	if err != nil {
		log.Printf("SendSignupOTP hash error: %v", err)
		return apiError.ErrInternalServerError
	}

	code, err := otp.GenerateCode()
	if err != nil {
		log.Printf("SendSignupOTP code generation error: %v", err)
		return apiError.ErrInternalServerError
	}
	a.otpStore.Put(req.Email, code, otp.PendingSignup{
		Fullname: req.Fullname,
		Phone:    req.Phone,
		Address:  req.Address,
		Password: hashed,
	})

	if _, err := a.mail.SendVerificationOTP(req.Email, req.Fullname, code); err != nil {
		return apiError.New("connection to mail service interrupted", 500)
	}
	return nil
}

func (a *authService) VerifySignupOTP(req *models.VerifyOTPRequest) (*models.User, *apiError.Error) {
	pending, err := a.otpStore.Consume(req.Email, req.Code)
	if err != nil {
		switch err {
		case otp.ErrCodeNotFound:
			return nil, apiError.NotFoundError("no verification code pending for this email")
		case otp.ErrCodeExpired:
			return nil, apiError.Validation("verification code has expired, request a new one")
		default:
			return nil, apiError.Validation("verification code does not match")
		}
	}

	user := &models.User{
		Fullname:       pending.Fullname,
		Email:          req.Email,
		Phone:          pending.Phone,
		Address:        pending.Address,
		HashedPassword: pending.Password,
		IsEmailActive:  true,
	}
	created, cerr := a.authRepo.CreateUser(user)
	if cerr != nil {
		return nil, apiError.GetUniqueContraintError(cerr)
	}

	if _, merr := a.mail.SendWelcomeMessage(created.Email, created.Fullname); merr != nil {
		log.Printf("welcome mail to %s failed: %v", created.Email, merr)
	}
	return created, nil
}

func (a *authService) LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error) {
	user, err := a.authRepo.FindUserByEmail(loginRequest.Email)
	if err != nil {
		return nil, apiError.New("invalid email or password", 401)
	}
	if err := user.VerifyPassword(loginRequest.Password); err != nil {
		return nil, apiError.ErrInvalidPassword
	}
	if !user.IsEmailActive {
		return nil, apiError.InActiveUserError
	}

	role, err := a.authRepo.FindRoleByID(user.RoleID)
	if err != nil {
		log.Printf("LoginUser role lookup error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	accessToken, refreshToken, err := jwt.GenerateTokenPair(user.Email, a.Config.JWTSecret, user.ID, role.Name)
	if err != nil {
		log.Printf("LoginUser token error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.LoginResponse{
		UserResponse: models.UserResponse{
			ID:       user.ID,
			Fullname: user.Fullname,
			Email:    user.Email,
			Phone:    user.Phone,
			Address:  user.Address,
			RoleName: role.Name,
		},
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		RoleID:       role.ID.String(),
	}, nil
}

func (a *authService) CreateStaff(actorID uint, req *models.CreateStaffRequest) (*models.User, *apiError.Error) {
	if authErr := a.requireOfficer(actorID); authErr != nil {
		return nil, authErr
	}
	if !models.IsStaffRole(req.RoleName) {
		return nil, apiError.Validation(fmt.Sprintf("unknown staff role %q", req.RoleName))
	}
	if err := models.ValidatePassword(req.Password); err != nil {
		return nil, apiError.Validation(err.Error())
	}
	if err := a.authRepo.IsEmailExist(req.Email); err != nil {
		return nil, apiError.Conflict("user with this email already exists")
	}

	role, err := a.authRepo.FindRoleByName(req.RoleName)
	if err != nil {
		log.Printf("CreateStaff role lookup error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	hashed, err := GenerateHashPassword(req.Password)
	if err != nil {
		return nil, apiError.ErrInternalServerError
	}

	user := &models.User{
		Fullname:       strings.TrimSpace(req.Fullname),
		Email:          req.Email,
		Phone:          req.Phone,
		HashedPassword: hashed,
		IsEmailActive:  true,
		RoleID:         role.ID,
	}
	created, cerr := a.authRepo.CreateUser(user)
	if cerr != nil {
		return nil, apiError.GetUniqueContraintError(cerr)
	}
	return created, nil
}

// DeleteUser removes an account. A technician with open reports cannot be
// removed; once only closed reports remain, those keep their history but are
// detached from the technician inside one transaction.
func (a *authService) DeleteUser(actorID uint, targetID uint) *apiError.Error {
	if authErr := a.requireOfficer(actorID); authErr != nil {
		return authErr
	}

	target, err := a.authRepo.FindUserByID(targetID)
	if err != nil {
		return apiError.NotFoundError("user not found")
	}

	if target.RoleName() == models.RoleMaintenanceTech {
		open, cerr := a.reportRepo.CountOpenReportsByTechnician(targetID)
		if cerr != nil {
			log.Printf("DeleteUser open-report count error: %v", cerr)
			return apiError.ErrInternalServerError
		}
		if open > 0 {
			return apiError.Conflict(fmt.Sprintf("technician still has %d open report(s)", open))
		}
	}

	if err := a.authRepo.DeleteStaffUser(targetID); err != nil {
		log.Printf("DeleteUser delete error: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func (a *authService) ListUsersByRole(actorID uint, roleName string) ([]models.UserResponse, *apiError.Error) {
	if authErr := a.requireOfficer(actorID); authErr != nil {
		return nil, authErr
	}

	users, err := a.authRepo.GetUsersByRole(roleName)
	if err != nil {
		return nil, apiError.ErrInternalServerError
	}
	responses := make([]models.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, models.UserResponse{
			ID:       user.ID,
			Fullname: user.Fullname,
			Email:    user.Email,
			Phone:    user.Phone,
			Address:  user.Address,
			RoleName: user.RoleName(),
		})
	}
	return responses, nil
}

func (a *authService) requireOfficer(actorID uint) *apiError.Error {
	role, err := a.authRepo.GetUserRoleByUserID(actorID)
	if err != nil {
		return apiError.NotFoundError("user not found")
	}
	if role.Name != models.RolePanchayatOfficer {
		return apiError.Authorization("panchayat officer role required")
	}
	return nil
}
