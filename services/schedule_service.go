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

type ScheduleService interface {
	CreateSchedule(actorID uint, req *models.CreateScheduleRequest) (*models.WaterSchedule, *apiError.Error)
	ListSchedules() ([]models.WaterSchedule, *apiError.Error)
	ListActiveSchedules() ([]models.WaterSchedule, *apiError.Error)
	OpenSchedule(actorID uint, scheduleID uuid.UUID) (*models.WaterSchedule, *apiError.Error)
	CloseSchedule(actorID uint, scheduleID uuid.UUID) (*models.WaterSchedule, *apiError.Error)
	InterruptSchedule(actorID uint, scheduleID uuid.UUID, reason string) (*models.WaterSchedule, *apiError.Error)
	DeleteSchedule(actorID uint, scheduleID uuid.UUID) *apiError.Error
}

type scheduleService struct {
	Conf         *config.Config
	scheduleRepo db.ScheduleRepository
	authRepo     db.AuthRepository
	notify       Notifier
}

func NewScheduleService(scheduleRepo db.ScheduleRepository, authRepo db.AuthRepository, notify Notifier, conf *config.Config) ScheduleService {
	return &scheduleService{
		Conf:         conf,
		scheduleRepo: scheduleRepo,
		authRepo:     authRepo,
		notify:       notify,
	}
}

func (s *scheduleService) CreateSchedule(actorID uint, req *models.CreateScheduleRequest) (*models.WaterSchedule, *apiError.Error) {
	if authErr := s.requireController(actorID); authErr != nil {
		return nil, authErr
	}

	schedule := &models.WaterSchedule{
		Area:        strings.TrimSpace(req.Area),
		SupplyDate:  req.SupplyDate,
		OpenTime:    req.OpenTime,
		CloseTime:   req.CloseTime,
		Status:      models.ScheduleScheduled,
		CreatedByID: actorID,
	}
	saved, err := s.scheduleRepo.SaveSchedule(schedule)
	if err != nil {
		log.Printf("CreateSchedule save error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return saved, nil
}

func (s *scheduleService) ListSchedules() ([]models.WaterSchedule, *apiError.Error) {
	schedules, err := s.scheduleRepo.GetAllSchedules()
	if err != nil {
		return nil, apiError.ErrInternalServerError
	}
	return schedules, nil
}

func (s *scheduleService) ListActiveSchedules() ([]models.WaterSchedule, *apiError.Error) {
	schedules, err := s.scheduleRepo.GetActiveSchedules()
	if err != nil {
		return nil, apiError.ErrInternalServerError
	}
	return schedules, nil
}

// OpenSchedule starts the supply window and tells every resident the taps
// are on.
func (s *scheduleService) OpenSchedule(actorID uint, scheduleID uuid.UUID) (*models.WaterSchedule, *apiError.Error) {
	schedule, authErr := s.loadForUpdate(actorID, scheduleID)
	if authErr != nil {
		return nil, authErr
	}
	if schedule.Status != models.ScheduleScheduled {
		return nil, apiError.Conflict(fmt.Sprintf("cannot open a schedule in status %q", schedule.Status))
	}

	now := time.Now()
	schedule.Status = models.ScheduleActive
	schedule.IsActive = true
	schedule.OpenedAt = &now
	if err := s.scheduleRepo.UpdateSchedule(schedule); err != nil {
		log.Printf("OpenSchedule save error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	s.dispatchSupplyEvent(notifier.EventSupplyOpened, schedule, now)
	return schedule, nil
}

func (s *scheduleService) CloseSchedule(actorID uint, scheduleID uuid.UUID) (*models.WaterSchedule, *apiError.Error) {
	schedule, authErr := s.loadForUpdate(actorID, scheduleID)
	if authErr != nil {
		return nil, authErr
	}
	if schedule.Status != models.ScheduleActive {
		return nil, apiError.Conflict(fmt.Sprintf("cannot close a schedule in status %q", schedule.Status))
	}

	now := time.Now()
	schedule.Status = models.ScheduleClosed
	schedule.IsActive = false
	schedule.ClosedAt = &now
	if err := s.scheduleRepo.UpdateSchedule(schedule); err != nil {
		log.Printf("CloseSchedule save error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	s.dispatchSupplyEvent(notifier.EventSupplyClosed, schedule, now)
	return schedule, nil
}

func (s *scheduleService) InterruptSchedule(actorID uint, scheduleID uuid.UUID, reason string) (*models.WaterSchedule, *apiError.Error) {
	schedule, authErr := s.loadForUpdate(actorID, scheduleID)
	if authErr != nil {
		return nil, authErr
	}
	if strings.TrimSpace(reason) == "" {
		return nil, apiError.Validation("interruption reason is required")
	}
	if schedule.Status != models.ScheduleActive {
		return nil, apiError.Conflict(fmt.Sprintf("cannot interrupt a schedule in status %q", schedule.Status))
	}

	now := time.Now()
	schedule.Status = models.ScheduleInterrupted
	schedule.IsActive = false
	schedule.InterruptionReason = strings.TrimSpace(reason)
	schedule.ClosedAt = &now
	if err := s.scheduleRepo.UpdateSchedule(schedule); err != nil {
		log.Printf("InterruptSchedule save error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return schedule, nil
}

func (s *scheduleService) DeleteSchedule(actorID uint, scheduleID uuid.UUID) *apiError.Error {
	if authErr := s.requireController(actorID); authErr != nil {
		return authErr
	}
	if err := s.scheduleRepo.DeleteSchedule(scheduleID); err != nil {
		return apiError.NotFoundError("schedule not found")
	}
	return nil
}

func (s *scheduleService) loadForUpdate(actorID uint, scheduleID uuid.UUID) (*models.WaterSchedule, *apiError.Error) {
	if authErr := s.requireController(actorID); authErr != nil {
		return nil, authErr
	}
	schedule, err := s.scheduleRepo.FindScheduleByID(scheduleID)
	if err != nil {
		return nil, apiError.NotFoundError("schedule not found")
	}
	return schedule, nil
}

func (s *scheduleService) requireController(actorID uint) *apiError.Error {
	role, err := s.authRepo.GetUserRoleByUserID(actorID)
	if err != nil {
		return apiError.NotFoundError("user not found")
	}
	if role.Name != models.RoleWaterFlowController && role.Name != models.RolePanchayatOfficer {
		return apiError.Authorization("water flow controller or panchayat officer role required")
	}
	return nil
}

func (s *scheduleService) dispatchSupplyEvent(kind notifier.EventKind, schedule *models.WaterSchedule, at time.Time) {
	if s.notify == nil {
		return
	}
	residents, err := s.authRepo.GetUsersByRole(models.RoleResident)
	if err != nil {
		log.Printf("could not resolve resident recipients: %v", err)
		return
	}
	recipients := make([]notifier.Recipient, 0, len(residents))
	for _, resident := range residents {
		recipients = append(recipients, notifier.Recipient{
			Name:  resident.Fullname,
			Email: resident.Email,
			Phone: resident.Phone,
		})
	}
	s.notify.Dispatch(notifier.Event{
		Kind:       kind,
		ScheduleID: schedule.ID.String(),
		Area:       schedule.Area,
		At:         at.Format("2006-01-02 15:04"),
		Residents:  recipients,
	})
}
