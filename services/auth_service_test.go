package services

import (
	"errors"
	"testing"

	"github.com/bluegridhq/bluegrid/config"
	apiError "github.com/bluegridhq/bluegrid/errors"
	"github.com/bluegridhq/bluegrid/models"
	"github.com/bluegridhq/bluegrid/services/otp"
)

// fakeMailer records sent mail and surfaces the last OTP code.
type fakeMailer struct {
	welcomes []string
	lastCode string
	sendErr  error
}

func (m *fakeMailer) SendWelcomeMessage(to, name string) (string, error) {
	m.welcomes = append(m.welcomes, to)
	return "", m.sendErr
}

func (m *fakeMailer) SendVerificationOTP(to, name, code string) (string, error) {
	m.lastCode = code
	return "", m.sendErr
}

func (m *fakeMailer) SendResetPassword(to, resetLink string) (string, error) {
	return "", m.sendErr
}

type authFixture struct {
	svc      AuthService
	authRepo *fakeAuthRepo
	repo     *fakeReportRepo
	mail     *fakeMailer

	officer uint
	tech    uint
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	authRepo := newFakeAuthRepo()
	repo := newFakeReportRepo()
	mail := &fakeMailer{}

	f := &authFixture{
		authRepo: authRepo,
		repo:     repo,
		mail:     mail,
	}
	f.officer = authRepo.addUser("Meena Iyer", "meena@example.com", "9876500004", models.RolePanchayatOfficer)
	f.tech = authRepo.addUser("Ravi Kumar", "ravi@example.com", "9876500002", models.RoleMaintenanceTech)

	conf := &config.Config{JWTSecret: "test-secret"}
	f.svc = NewAuthService(authRepo, repo, otp.NewStore(otp.DefaultTTL), mail, conf)
	return f
}

func TestDeleteTechnicianWithOpenReports(t *testing.T) {
	f := newAuthFixture(t)
	f.repo.openByTech[f.tech] = 2

	err := f.svc.DeleteUser(f.officer, f.tech)
	if err == nil || err.Kind != apiError.KindConflict {
		t.Fatalf("err = %v, want conflict", err)
	}
	if _, ok := f.authRepo.users[f.tech]; !ok {
		t.Fatal("technician was deleted despite open reports")
	}
}

func TestDeleteTechnicianWithOnlyClosedReports(t *testing.T) {
	f := newAuthFixture(t)
	f.repo.openByTech[f.tech] = 0

	if err := f.svc.DeleteUser(f.officer, f.tech); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, ok := f.authRepo.users[f.tech]; ok {
		t.Fatal("technician still present after deletion")
	}
	if len(f.authRepo.deleted) != 1 || f.authRepo.deleted[0] != f.tech {
		t.Fatalf("deleted = %v, want [%d]", f.authRepo.deleted, f.tech)
	}
}

func TestDeleteUserRequiresOfficer(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.DeleteUser(f.tech, f.officer)
	if err == nil || err.Kind != apiError.KindAuthorization {
		t.Fatalf("err = %v, want authorization", err)
	}
}

func TestSignupOTPFlow(t *testing.T) {
	f := newAuthFixture(t)

	req := &models.SendOTPRequest{
		Fullname: "Asha Rao",
		Email:    "asha@example.com",
		Phone:    "9876500001",
		Address:  "Ward 4",
		Password: "secret123",
	}
	if err := f.svc.SendSignupOTP(req); err != nil {
		t.Fatalf("SendSignupOTP: %v", err)
	}
	if len(f.mail.lastCode) != 6 {
		t.Fatalf("mailed code = %q, want 6 digits", f.mail.lastCode)
	}

	t.Run("wrong code is refused and not consumed", func(t *testing.T) {
		_, err := f.svc.VerifySignupOTP(&models.VerifyOTPRequest{Email: req.Email, Code: "000000"})
		if err == nil || err.Kind != apiError.KindValidation {
			t.Fatalf("err = %v, want validation", err)
		}
	})

	t.Run("correct code creates an active account", func(t *testing.T) {
		created, err := f.svc.VerifySignupOTP(&models.VerifyOTPRequest{Email: req.Email, Code: f.mail.lastCode})
		if err != nil {
			t.Fatalf("VerifySignupOTP: %v", err)
		}
		if !created.IsEmailActive {
			t.Error("verified account is not active")
		}
		if created.RoleName() != models.RoleResident {
			t.Errorf("role = %q, want resident", created.RoleName())
		}

		login, lerr := f.svc.LoginUser(&models.LoginRequest{Email: req.Email, Password: "secret123"})
		if lerr != nil {
			t.Fatalf("LoginUser after signup: %v", lerr)
		}
		if login.AccessToken == "" || login.RefreshToken == "" {
			t.Error("login response is missing tokens")
		}
	})

	t.Run("code is single use", func(t *testing.T) {
		_, err := f.svc.VerifySignupOTP(&models.VerifyOTPRequest{Email: req.Email, Code: f.mail.lastCode})
		if err == nil || err.Kind != apiError.KindNotFound {
			t.Fatalf("err = %v, want not found", err)
		}
	})
}

func TestSendSignupOTPRejectsExistingEmail(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.SendSignupOTP(&models.SendOTPRequest{
		Fullname: "Someone Else",
		Email:    "ravi@example.com",
		Phone:    "9876500099",
		Password: "secret123",
	})
	if err == nil || err.Kind != apiError.KindConflict {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestSendSignupOTPMailFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.mail.sendErr = errors.New("mailgun down")

	err := f.svc.SendSignupOTP(&models.SendOTPRequest{
		Fullname: "Asha Rao",
		Email:    "asha@example.com",
		Phone:    "9876500001",
		Password: "secret123",
	})
	if err == nil || err.Kind != apiError.KindInternal {
		t.Fatalf("err = %v, want internal", err)
	}
}

func TestCreateStaff(t *testing.T) {
	f := newAuthFixture(t)

	t.Run("officer creates a controller", func(t *testing.T) {
		created, err := f.svc.CreateStaff(f.officer, &models.CreateStaffRequest{
			Fullname: "Suresh Nair",
			Email:    "suresh@example.com",
			Phone:    "9876500005",
			Password: "secret123",
			RoleName: models.RoleWaterFlowController,
		})
		if err != nil {
			t.Fatalf("CreateStaff: %v", err)
		}
		if created.RoleName() != models.RoleWaterFlowController {
			t.Errorf("role = %q, want controller", created.RoleName())
		}
		if !created.IsEmailActive {
			t.Error("staff accounts should be active on creation")
		}
	})

	t.Run("resident role is not a staff role", func(t *testing.T) {
		_, err := f.svc.CreateStaff(f.officer, &models.CreateStaffRequest{
			Fullname: "Nobody",
			Email:    "nobody@example.com",
			Password: "secret123",
			RoleName: models.RoleResident,
		})
		if err == nil || err.Kind != apiError.KindValidation {
			t.Fatalf("err = %v, want validation", err)
		}
	})

	t.Run("technician cannot create staff", func(t *testing.T) {
		_, err := f.svc.CreateStaff(f.tech, &models.CreateStaffRequest{
			Fullname: "Nobody",
			Email:    "nobody2@example.com",
			Password: "secret123",
			RoleName: models.RoleMaintenanceTech,
		})
		if err == nil || err.Kind != apiError.KindAuthorization {
			t.Fatalf("err = %v, want authorization", err)
		}
	})
}

func TestLoginInactiveUser(t *testing.T) {
	f := newAuthFixture(t)

	hashed, err := GenerateHashPassword("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	role := f.authRepo.roles[models.RoleResident]
	user := &models.User{
		Fullname:       "Dormant User",
		Email:          "dormant@example.com",
		HashedPassword: hashed,
		IsEmailActive:  false,
		RoleID:         role.ID,
	}
	if _, err := f.authRepo.CreateUser(user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	_, lerr := f.svc.LoginUser(&models.LoginRequest{Email: user.Email, Password: "secret123"})
	if lerr == nil {
		t.Fatal("inactive user logged in")
	}
	if lerr != apiError.InActiveUserError {
		t.Fatalf("err = %v, want inactive user error", lerr)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)

	hashed, err := GenerateHashPassword("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	f.authRepo.users[f.tech].HashedPassword = hashed
	f.authRepo.users[f.tech].IsEmailActive = true

	_, lerr := f.svc.LoginUser(&models.LoginRequest{Email: "ravi@example.com", Password: "wrong-pass"})
	if lerr != apiError.ErrInvalidPassword {
		t.Fatalf("err = %v, want invalid password", lerr)
	}
}
