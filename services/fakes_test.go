package services

import (
	"errors"
	"fmt"

	"github.com/bluegridhq/bluegrid/models"
	"github.com/bluegridhq/bluegrid/services/notifier"
	"github.com/google/uuid"
)

// fakeAuthRepo keeps users and roles in maps, enough to drive the services
// without a database.
type fakeAuthRepo struct {
	users   map[uint]*models.User
	roles   map[string]*models.Role
	deleted []uint
	nextID  uint
}

func newFakeAuthRepo() *fakeAuthRepo {
	repo := &fakeAuthRepo{
		users:  make(map[uint]*models.User),
		roles:  make(map[string]*models.Role),
		nextID: 1,
	}
	for _, name := range models.AllRoles {
		repo.roles[name] = &models.Role{ID: uuid.New(), Name: name}
	}
	return repo
}

// addUser registers a user under the named role and returns its id.
func (f *fakeAuthRepo) addUser(name, email, phone, roleName string) uint {
	role := f.roles[roleName]
	id := f.nextID
	f.nextID++
	user := &models.User{
		Fullname: name,
		Email:    email,
		Phone:    phone,
		RoleID:   role.ID,
		Role:     *role,
	}
	user.ID = id
	f.users[id] = user
	return id
}

func (f *fakeAuthRepo) CreateUser(user *models.User) (*models.User, error) {
	if user.RoleID == uuid.Nil {
		role := f.roles[models.RoleResident]
		user.RoleID = role.ID
		user.Role = *role
	} else {
		for _, role := range f.roles {
			if role.ID == user.RoleID {
				user.Role = *role
			}
		}
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeAuthRepo) IsEmailExist(email string) error {
	for _, user := range f.users {
		if user.Email == email {
			return errors.New("email already in use")
		}
	}
	return nil
}

func (f *fakeAuthRepo) IsPhoneExist(phone string) error {
	for _, user := range f.users {
		if user.Phone == phone {
			return errors.New("phone number already in use")
		}
	}
	return nil
}

func (f *fakeAuthRepo) FindUserByEmail(email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, errors.New("user not found")
}

func (f *fakeAuthRepo) FindUserByID(id uint) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return user, nil
}

func (f *fakeAuthRepo) EditUserProfile(userID uint, details *models.EditProfileRequest) error {
	user, ok := f.users[userID]
	if !ok {
		return errors.New("user not found")
	}
	user.Fullname = details.Fullname
	user.Phone = details.Phone
	user.Address = details.Address
	return nil
}

func (f *fakeAuthRepo) UpdatePassword(password, email string) error { return nil }

func (f *fakeAuthRepo) ResetPassword(userID, newPassword string) error { return nil }

func (f *fakeAuthRepo) AddToBlackList(blacklist *models.Blacklist) error { return nil }

func (f *fakeAuthRepo) IsTokenInBlacklist(token string) bool { return false }

func (f *fakeAuthRepo) FindRoleByID(roleID uuid.UUID) (*models.Role, error) {
	for _, role := range f.roles {
		if role.ID == roleID {
			return role, nil
		}
	}
	return nil, errors.New("role not found")
}

func (f *fakeAuthRepo) FindRoleByName(name string) (*models.Role, error) {
	role, ok := f.roles[name]
	if !ok {
		return nil, errors.New("role not found")
	}
	return role, nil
}

func (f *fakeAuthRepo) GetUserRoleByUserID(userID uint) (*models.Role, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, errors.New("user not found")
	}
	role := user.Role
	return &role, nil
}

func (f *fakeAuthRepo) GetUsersByRole(roleName string) ([]models.User, error) {
	var users []models.User
	for _, user := range f.users {
		if user.Role.Name == roleName {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (f *fakeAuthRepo) DeleteStaffUser(userID uint) error {
	if _, ok := f.users[userID]; !ok {
		return errors.New("user not found")
	}
	delete(f.users, userID)
	f.deleted = append(f.deleted, userID)
	return nil
}

// fakeReportRepo stores reports by id. Reads hand out copies so that a
// service-side mutation only lands when UpdateReport is called, mirroring how
// the real repository behaves.
type fakeReportRepo struct {
	reports    map[uuid.UUID]*models.Report
	openByTech map[uint]int64
	updates    int
	updateErr  error
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{
		reports:    make(map[uuid.UUID]*models.Report),
		openByTech: make(map[uint]int64),
	}
}

func (f *fakeReportRepo) SaveReport(report *models.Report) (*models.Report, error) {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	stored := *report
	f.reports[report.ID] = &stored
	return report, nil
}

func (f *fakeReportRepo) FindReportByID(id uuid.UUID) (*models.Report, error) {
	report, ok := f.reports[id]
	if !ok {
		return nil, errors.New("report not found")
	}
	copied := *report
	return &copied, nil
}

func (f *fakeReportRepo) UpdateReport(report *models.Report) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.reports[report.ID]; !ok {
		return fmt.Errorf("report %s not found", report.ID)
	}
	stored := *report
	f.reports[report.ID] = &stored
	f.updates++
	return nil
}

func (f *fakeReportRepo) GetReportsByReporter(userID uint) ([]models.Report, error) {
	var reports []models.Report
	for _, report := range f.reports {
		if report.ReporterID == userID {
			reports = append(reports, *report)
		}
	}
	return reports, nil
}

func (f *fakeReportRepo) GetReportsByTechnician(technicianID uint) ([]models.Report, error) {
	var reports []models.Report
	for _, report := range f.reports {
		if report.AssignedTechnicianID != nil && *report.AssignedTechnicianID == technicianID {
			reports = append(reports, *report)
		}
	}
	return reports, nil
}

func (f *fakeReportRepo) GetAllReports() ([]models.Report, error) {
	var reports []models.Report
	for _, report := range f.reports {
		reports = append(reports, *report)
	}
	return reports, nil
}

func (f *fakeReportRepo) CountOpenReportsByTechnician(technicianID uint) (int64, error) {
	if n, ok := f.openByTech[technicianID]; ok {
		return n, nil
	}
	var n int64
	for _, report := range f.reports {
		if report.AssignedTechnicianID != nil && *report.AssignedTechnicianID == technicianID && !report.Status.Closed() {
			n++
		}
	}
	return n, nil
}

func (f *fakeReportRepo) GetStatusCounts() ([]models.StatusCount, error) {
	counts := make(map[models.ReportStatus]int64)
	for _, report := range f.reports {
		counts[report.Status]++
	}
	var out []models.StatusCount
	for status, n := range counts {
		out = append(out, models.StatusCount{Status: status, Count: n})
	}
	return out, nil
}

func (f *fakeReportRepo) GetMonthlyCounts() ([]models.MonthlyCount, error) {
	return nil, nil
}

func (f *fakeReportRepo) GetAverageResolutionHours() (float64, error) {
	return 0, nil
}

func (f *fakeReportRepo) CountReports() (int64, error) {
	return int64(len(f.reports)), nil
}

func (f *fakeReportRepo) CountReportsInStatuses(statuses []models.ReportStatus) (int64, error) {
	var n int64
	for _, report := range f.reports {
		for _, status := range statuses {
			if report.Status == status {
				n++
			}
		}
	}
	return n, nil
}

func (f *fakeReportRepo) GetFeedbackStatistics() (*models.FeedbackStatistics, error) {
	stats := &models.FeedbackStatistics{Histogram: make(map[int]int64)}
	var sum int64
	for _, report := range f.reports {
		if report.HasFeedback && report.FeedbackRating != nil {
			stats.Count++
			sum += int64(*report.FeedbackRating)
			stats.Histogram[*report.FeedbackRating]++
		}
	}
	if stats.Count > 0 {
		stats.AverageRating = float64(sum) / float64(stats.Count)
	}
	return stats, nil
}

// recordingNotifier captures dispatched events synchronously.
type recordingNotifier struct {
	events []notifier.Event
}

func (n *recordingNotifier) Dispatch(e notifier.Event) {
	n.events = append(n.events, e)
}

func (n *recordingNotifier) kinds() []notifier.EventKind {
	kinds := make([]notifier.EventKind, 0, len(n.events))
	for _, e := range n.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}
