package server

import (
	"log"
	"net/http"
	"strconv"

	apiError "github.com/bluegridhq/bluegrid/errors"
	"github.com/bluegridhq/bluegrid/models"
	"github.com/bluegridhq/bluegrid/server/response"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

var (
	english  = en.New()
	uni      = ut.New(english, english)
	trans, _ = uni.GetTranslator("en")
	validate = validator.New()
)

func init() {
	if err := entranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		log.Printf("could not register validator translations: %v", err)
	}
}

func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := decode(c, &user); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		if err := validate.Struct(user); err != nil {
			response.HandleErrors(c, models.TranslateError(err, trans))
			return
		}

		// Direct signups skip OTP verification; the account is active at once.
		user.IsEmailActive = true
		created, apiErr := s.AuthService.SignupUser(&user)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}

		if _, err := s.Mail.SendWelcomeMessage(created.Email, created.Fullname); err != nil {
			log.Printf("Error sending welcome email: %v", err)
		}

		response.JSON(c, "signup successful", http.StatusCreated, models.UserResponse{
			ID:       created.ID,
			Fullname: created.Fullname,
			Email:    created.Email,
			Phone:    created.Phone,
			Address:  created.Address,
		}, nil)
	}
}

func (s *Server) handleSendSignupOTP() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SendOTPRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		if apiErr := s.AuthService.SendSignupOTP(&req); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "verification code sent, check your email", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleVerifySignupOTP() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.VerifyOTPRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		created, apiErr := s.AuthService.VerifySignupOTP(&req)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "email verified, account created", http.StatusCreated, models.UserResponse{
			ID:       created.ID,
			Fullname: created.Fullname,
			Email:    created.Email,
			Phone:    created.Phone,
			Address:  created.Address,
		}, nil)
	}
}

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var loginRequest models.LoginRequest
		if err := decode(c, &loginRequest); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		loginResponse, apiErr := s.AuthService.LoginUser(&loginRequest)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "login successful", http.StatusOK, loginResponse, nil)
	}
}

func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := c.MustGet("user").(*models.User)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, apiError.ErrInternalServerError)
			return
		}
		accessToken := c.GetString("access_token")

		if err := s.AuthRepository.AddToBlackList(&models.Blacklist{
			Email: user.Email,
			Token: accessToken,
		}); err != nil {
			log.Printf("logout blacklist error: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, apiError.ErrInternalServerError)
			return
		}
		response.JSON(c, "logout successful", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleShowProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := c.MustGet("user").(*models.User)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, apiError.ErrInternalServerError)
			return
		}
		response.JSON(c, "", http.StatusOK, models.UserResponse{
			ID:       user.ID,
			Fullname: user.Fullname,
			Email:    user.Email,
			Phone:    user.Phone,
			Address:  user.Address,
			RoleName: user.RoleName(),
		}, nil)
	}
}

func (s *Server) handleEditUserProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, apiError.ErrBadRequest)
			return
		}

		var req models.EditProfileRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		if err := s.AuthRepository.EditUserProfile(userID, &req); err != nil {
			log.Printf("profile update error: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, apiError.ErrInternalServerError)
			return
		}
		response.JSON(c, "profile updated", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleCreateStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, apiError.ErrBadRequest)
			return
		}

		var req models.CreateStaffRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		created, apiErr := s.AuthService.CreateStaff(actorID, &req)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "staff account created", http.StatusCreated, models.UserResponse{
			ID:       created.ID,
			Fullname: created.Fullname,
			Email:    created.Email,
			Phone:    created.Phone,
			RoleName: req.RoleName,
		}, nil)
	}
}

func (s *Server) handleDeleteUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, apiError.ErrBadRequest)
			return
		}

		targetID, err := strconv.ParseUint(c.Param("userID"), 10, 32)
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, apiError.Validation("invalid user id"))
			return
		}

		if apiErr := s.AuthService.DeleteUser(actorID, uint(targetID)); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "user deleted", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleListResidents() gin.HandlerFunc {
	return s.handleListUsersByRole(models.RoleResident)
}

func (s *Server) handleListTechnicians() gin.HandlerFunc {
	return s.handleListUsersByRole(models.RoleMaintenanceTech)
}

func (s *Server) handleListUsersByRole(roleName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, apiError.ErrBadRequest)
			return
		}

		users, apiErr := s.AuthService.ListUsersByRole(actorID, roleName)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, users, nil)
	}
}
