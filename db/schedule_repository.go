package db

import (
	"fmt"

	"github.com/bluegridhq/bluegrid/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ScheduleRepository interface {
	SaveSchedule(schedule *models.WaterSchedule) (*models.WaterSchedule, error)
	FindScheduleByID(id uuid.UUID) (*models.WaterSchedule, error)
	UpdateSchedule(schedule *models.WaterSchedule) error
	GetAllSchedules() ([]models.WaterSchedule, error)
	GetActiveSchedules() ([]models.WaterSchedule, error)
	DeleteSchedule(id uuid.UUID) error
}

type scheduleRepo struct {
	DB *gorm.DB
}

func NewScheduleRepo(db *GormDB) ScheduleRepository {
	return &scheduleRepo{db.DB}
}

func (s *scheduleRepo) SaveSchedule(schedule *models.WaterSchedule) (*models.WaterSchedule, error) {
	if err := s.DB.Create(schedule).Error; err != nil {
		return nil, errors.Wrap(err, "gorm create error")
	}
	return schedule, nil
}

func (s *scheduleRepo) FindScheduleByID(id uuid.UUID) (*models.WaterSchedule, error) {
	var schedule models.WaterSchedule
	err := s.DB.Where("id = ?", id).First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("schedule not found")
		}
		return nil, errors.Wrap(err, "gorm find error")
	}
	return &schedule, nil
}

func (s *scheduleRepo) UpdateSchedule(schedule *models.WaterSchedule) error {
	if err := s.DB.Save(schedule).Error; err != nil {
		return errors.Wrap(err, "gorm save error")
	}
	return nil
}

func (s *scheduleRepo) GetAllSchedules() ([]models.WaterSchedule, error) {
	var schedules []models.WaterSchedule
	err := s.DB.Order("supply_date DESC, open_time").Find(&schedules).Error
	if err != nil {
		return nil, errors.Wrap(err, "gorm find error")
	}
	return schedules, nil
}

func (s *scheduleRepo) GetActiveSchedules() ([]models.WaterSchedule, error) {
	var schedules []models.WaterSchedule
	err := s.DB.Where("is_active = ?", true).Find(&schedules).Error
	if err != nil {
		return nil, errors.Wrap(err, "gorm find error")
	}
	return schedules, nil
}

func (s *scheduleRepo) DeleteSchedule(id uuid.UUID) error {
	result := s.DB.Delete(&models.WaterSchedule{}, "id = ?", id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "gorm delete error")
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("schedule not found")
	}
	return nil
}
