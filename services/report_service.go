package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bluegridhq/bluegrid/config"
	"github.com/bluegridhq/bluegrid/db"
	apiError "github.com/bluegridhq/bluegrid/errors"
	"github.com/bluegridhq/bluegrid/models"
	"github.com/bluegridhq/bluegrid/services/notifier"
	"github.com/google/uuid"
)

// Notifier is the async side-effect boundary the lifecycle hands events to.
type Notifier interface {
	Dispatch(e notifier.Event)
}

// ReportService owns the report lifecycle. Every status move goes through
// Transition or one of the named entry points here; handlers never touch the
// status field directly.
type ReportService interface {
	SubmitReport(actorID uint, req *models.CreateReportRequest, photoURL string) (*models.Report, *apiError.Error)
	Transition(actorID uint, reportID uuid.UUID, op ReportOp, in *TransitionInput) (*models.Report, *apiError.Error)
	ForceSetStatus(actorID uint, reportID uuid.UUID, target models.ReportStatus) (*models.Report, *apiError.Error)
	SubmitFeedback(actorID uint, reportID uuid.UUID, req *models.FeedbackRequest) (*models.Report, *apiError.Error)
	GetReport(actorID uint, reportID uuid.UUID) (*models.Report, *apiError.Error)
	ListMyReports(actorID uint) ([]models.Report, *apiError.Error)
	ListAssignedReports(actorID uint) ([]models.Report, *apiError.Error)
	ListAllReports(actorID uint) ([]models.Report, *apiError.Error)
	GetAnalytics(actorID uint) (*models.ReportAnalytics, *apiError.Error)
	GetFeedbackStatistics(actorID uint) (*models.FeedbackStatistics, *apiError.Error)
}

type reportService struct {
	Conf       *config.Config
	reportRepo db.ReportRepository
	authRepo   db.AuthRepository
	notify     Notifier
}

func NewReportService(reportRepo db.ReportRepository, authRepo db.AuthRepository, notify Notifier, conf *config.Config) ReportService {
	return &reportService{
		Conf:       conf,
		reportRepo: reportRepo,
		authRepo:   authRepo,
		notify:     notify,
	}
}

func (s *reportService) SubmitReport(actorID uint, req *models.CreateReportRequest, photoURL string) (*models.Report, *apiError.Error) {
	role, err := s.authRepo.GetUserRoleByUserID(actorID)
	if err != nil {
		return nil, apiError.NotFoundError("user not found")
	}
	if role.Name != models.RoleResident {
		return nil, apiError.Authorization("only residents can submit reports")
	}
	if strings.TrimSpace(req.FullName) == "" || strings.TrimSpace(req.Phone) == "" {
		return nil, apiError.Validation("full name and phone are required")
	}

	report := &models.Report{
		ReporterID:   actorID,
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        strings.TrimSpace(req.Phone),
		Email:        req.Email,
		LocationName: req.LocationName,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		PhotoURL:     photoURL,
		Description:  req.Description,
		Status:       models.StatusPending,
	}
	saved, err := s.reportRepo.SaveReport(report)
	if err != nil {
		log.Printf("SubmitReport save error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	s.dispatch(notifier.Event{
		Kind:         notifier.EventReportSubmitted,
		ReportID:     saved.ID.String(),
		Status:       string(saved.Status),
		LocationName: saved.LocationName,
		Reporter:     reporterRecipient(saved),
		Officers:     s.officerRecipients(),
	})
	return saved, nil
}

// Transition runs one lifecycle edge from the transition table. All checks
// happen before any write: a refused attempt leaves the row exactly as it was.
func (s *reportService) Transition(actorID uint, reportID uuid.UUID, op ReportOp, in *TransitionInput) (*models.Report, *apiError.Error) {
	rule, ok := transitionRules[op]
	if !ok {
		return nil, apiError.Validation(fmt.Sprintf("unknown operation %q", op))
	}
	if in == nil {
		in = &TransitionInput{}
	}

	role, err := s.authRepo.GetUserRoleByUserID(actorID)
	if err != nil {
		return nil, apiError.NotFoundError("user not found")
	}
	if role.Name != rule.role {
		return nil, apiError.Authorization(fmt.Sprintf("role %s cannot %s reports", role.Name, op))
	}

	report, err := s.reportRepo.FindReportByID(reportID)
	if err != nil {
		return nil, apiError.NotFoundError("report not found")
	}
	if report.Status != rule.from {
		return nil, apiError.Conflict(fmt.Sprintf("cannot %s a report in status %q", op, report.Status))
	}
	if rule.assigneeOnly {
		if report.AssignedTechnicianID == nil || *report.AssignedTechnicianID != actorID {
			return nil, apiError.Ownership("report is not assigned to you")
		}
	}
	if rule.check != nil {
		if verr := rule.check(in); verr != nil {
			return nil, verr
		}
	}

	// Assignment names a third party; make sure it is a real technician
	// before touching the row.
	var technician *models.User
	if op == OpAssign {
		technician, err = s.authRepo.FindUserByID(in.TechnicianID)
		if err != nil {
			return nil, apiError.NotFoundError("technician not found")
		}
		if technician.RoleName() != models.RoleMaintenanceTech {
			return nil, apiError.Validation("assignee is not a maintenance technician")
		}
	}

	now := time.Now()
	if rule.apply != nil {
		rule.apply(report, in, actorID, now)
	}
	report.Status = rule.to

	if err := s.reportRepo.UpdateReport(report); err != nil {
		log.Printf("Transition %s on report %s failed to save: %v", op, reportID, err)
		return nil, apiError.ErrInternalServerError
	}

	if rule.event != "" {
		event := notifier.Event{
			Kind:            rule.event,
			ReportID:        report.ID.String(),
			Status:          string(report.Status),
			LocationName:    report.LocationName,
			RejectionReason: report.RejectionReason,
			Reporter:        reporterRecipient(report),
		}
		if technician != nil {
			event.TechnicianName = technician.Fullname
			event.Technician = &notifier.Recipient{
				Name:  technician.Fullname,
				Email: technician.Email,
				Phone: technician.Phone,
			}
		} else if report.AssignedTechnician != nil {
			event.TechnicianName = report.AssignedTechnician.Fullname
		}
		if rule.event == notifier.EventReportCompleted {
			event.Officers = s.officerRecipients()
		}
		s.dispatch(event)
	}
	return report, nil
}

// ForceSetStatus is the officer-only administrative override. It bypasses the
// transition table on purpose, is logged as an override, and tells the
// reporter over WhatsApp only.
func (s *reportService) ForceSetStatus(actorID uint, reportID uuid.UUID, target models.ReportStatus) (*models.Report, *apiError.Error) {
	role, err := s.authRepo.GetUserRoleByUserID(actorID)
	if err != nil {
		return nil, apiError.NotFoundError("user not found")
	}
	if role.Name != models.RolePanchayatOfficer {
		return nil, apiError.Authorization("only panchayat officers can override report status")
	}
	if !target.Valid() {
		return nil, apiError.Validation(fmt.Sprintf("unknown status %q", target))
	}

	report, err := s.reportRepo.FindReportByID(reportID)
	if err != nil {
		return nil, apiError.NotFoundError("report not found")
	}

	previous := report.Status
	report.Status = target
	if err := s.reportRepo.UpdateReport(report); err != nil {
		log.Printf("ForceSetStatus on report %s failed to save: %v", reportID, err)
		return nil, apiError.ErrInternalServerError
	}
	log.Printf("status override: officer %d moved report %s from %q to %q", actorID, reportID, previous, target)

	s.dispatch(notifier.Event{
		Kind:         notifier.EventStatusOverride,
		ReportID:     report.ID.String(),
		Status:       string(report.Status),
		LocationName: report.LocationName,
		Reporter:     reporterRecipient(report),
	})
	return report, nil
}

func (s *reportService) SubmitFeedback(actorID uint, reportID uuid.UUID, req *models.FeedbackRequest) (*models.Report, *apiError.Error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apiError.Validation("rating must be between 1 and 5")
	}

	report, err := s.reportRepo.FindReportByID(reportID)
	if err != nil {
		return nil, apiError.NotFoundError("report not found")
	}
	if report.ReporterID != actorID {
		return nil, apiError.Ownership("only the reporter can rate this repair")
	}
	if !report.Status.FeedbackEligible() {
		return nil, apiError.Conflict(fmt.Sprintf("cannot rate a report in status %q", report.Status))
	}
	if report.HasFeedback {
		return nil, apiError.Conflict("feedback has already been submitted for this report")
	}

	rating := req.Rating
	report.FeedbackRating = &rating
	report.FeedbackComment = req.Comment
	report.HasFeedback = true
	if err := s.reportRepo.UpdateReport(report); err != nil {
		log.Printf("SubmitFeedback on report %s failed to save: %v", reportID, err)
		return nil, apiError.ErrInternalServerError
	}
	return report, nil
}

func (s *reportService) GetReport(actorID uint, reportID uuid.UUID) (*models.Report, *apiError.Error) {
	report, err := s.reportRepo.FindReportByID(reportID)
	if err != nil {
		return nil, apiError.NotFoundError("report not found")
	}

	if report.ReporterID == actorID {
		return report, nil
	}
	if report.AssignedTechnicianID != nil && *report.AssignedTechnicianID == actorID {
		return report, nil
	}
	role, err := s.authRepo.GetUserRoleByUserID(actorID)
	if err != nil {
		return nil, apiError.NotFoundError("user not found")
	}
	if role.Name == models.RolePanchayatOfficer || role.Name == models.RoleWaterFlowController {
		return report, nil
	}
	return nil, apiError.Ownership("you have no access to this report")
}

func (s *reportService) ListMyReports(actorID uint) ([]models.Report, *apiError.Error) {
	reports, err := s.reportRepo.GetReportsByReporter(actorID)
	if err != nil {
		return nil, apiError.ErrInternalServerError
	}
	return reports, nil
}

func (s *reportService) ListAssignedReports(actorID uint) ([]models.Report, *apiError.Error) {
	role, err := s.authRepo.GetUserRoleByUserID(actorID)
	if err != nil {
		return nil, apiError.NotFoundError("user not found")
	}
	if role.Name != models.RoleMaintenanceTech {
		return nil, apiError.Authorization("only technicians have assigned reports")
	}
	reports, err := s.reportRepo.GetReportsByTechnician(actorID)
	if err != nil {
		return nil, apiError.ErrInternalServerError
	}
	return reports, nil
}

func (s *reportService) ListAllReports(actorID uint) ([]models.Report, *apiError.Error) {
	if authErr := s.requireStaff(actorID); authErr != nil {
		return nil, authErr
	}
	reports, err := s.reportRepo.GetAllReports()
	if err != nil {
		return nil, apiError.ErrInternalServerError
	}
	return reports, nil
}

func (s *reportService) GetAnalytics(actorID uint) (*models.ReportAnalytics, *apiError.Error) {
	if authErr := s.requireOfficer(actorID); authErr != nil {
		return nil, authErr
	}

	analytics := &models.ReportAnalytics{}
	var err error
	if analytics.Total, err = s.reportRepo.CountReports(); err != nil {
		return nil, apiError.ErrInternalServerError
	}
	if analytics.ByStatus, err = s.reportRepo.GetStatusCounts(); err != nil {
		return nil, apiError.ErrInternalServerError
	}
	if analytics.Monthly, err = s.reportRepo.GetMonthlyCounts(); err != nil {
		return nil, apiError.ErrInternalServerError
	}
	if analytics.AvgResolutionHours, err = s.reportRepo.GetAverageResolutionHours(); err != nil {
		return nil, apiError.ErrInternalServerError
	}
	open := []models.ReportStatus{models.StatusPending, models.StatusAssigned, models.StatusInProgress}
	if analytics.OpenReports, err = s.reportRepo.CountReportsInStatuses(open); err != nil {
		return nil, apiError.ErrInternalServerError
	}
	awaiting := []models.ReportStatus{models.StatusAwaitingApproval}
	if analytics.AwaitingApprovalNow, err = s.reportRepo.CountReportsInStatuses(awaiting); err != nil {
		return nil, apiError.ErrInternalServerError
	}
	resolved := []models.ReportStatus{models.StatusCompleted, models.StatusApproved, models.StatusRejected}
	if analytics.ResolvedReports, err = s.reportRepo.CountReportsInStatuses(resolved); err != nil {
		return nil, apiError.ErrInternalServerError
	}
	return analytics, nil
}

func (s *reportService) GetFeedbackStatistics(actorID uint) (*models.FeedbackStatistics, *apiError.Error) {
	if authErr := s.requireOfficer(actorID); authErr != nil {
		return nil, authErr
	}
	stats, err := s.reportRepo.GetFeedbackStatistics()
	if err != nil {
		return nil, apiError.ErrInternalServerError
	}
	return stats, nil
}

func (s *reportService) requireOfficer(actorID uint) *apiError.Error {
	role, err := s.authRepo.GetUserRoleByUserID(actorID)
	if err != nil {
		return apiError.NotFoundError("user not found")
	}
	if role.Name != models.RolePanchayatOfficer {
		return apiError.Authorization("panchayat officer role required")
	}
	return nil
}

func (s *reportService) requireStaff(actorID uint) *apiError.Error {
	role, err := s.authRepo.GetUserRoleByUserID(actorID)
	if err != nil {
		return apiError.NotFoundError("user not found")
	}
	if role.Name != models.RolePanchayatOfficer && role.Name != models.RoleWaterFlowController {
		return apiError.Authorization("staff role required")
	}
	return nil
}

func (s *reportService) dispatch(e notifier.Event) {
	if s.notify == nil {
		return
	}
	s.notify.Dispatch(e)
}

// reporterRecipient prefers the contact details filed on the report itself;
// the account profile is the fallback.
func reporterRecipient(r *models.Report) notifier.Recipient {
	recipient := notifier.Recipient{
		Name:  r.FullName,
		Email: r.Email,
		Phone: r.Phone,
	}
	if recipient.Name == "" {
		recipient.Name = r.Reporter.Fullname
	}
	if recipient.Email == "" {
		recipient.Email = r.Reporter.Email
	}
	if recipient.Phone == "" {
		recipient.Phone = r.Reporter.Phone
	}
	return recipient
}

func (s *reportService) officerRecipients() []notifier.Recipient {
	officers, err := s.authRepo.GetUsersByRole(models.RolePanchayatOfficer)
	if err != nil {
		log.Printf("could not resolve officer recipients: %v", err)
		return nil
	}
	recipients := make([]notifier.Recipient, 0, len(officers))
	for _, officer := range officers {
		recipients = append(recipients, notifier.Recipient{
			Name:  officer.Fullname,
			Email: officer.Email,
			Phone: officer.Phone,
		})
	}
	return recipients
}
