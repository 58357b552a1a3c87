package db

import (
	"fmt"
	"log"

	"github.com/bluegridhq/bluegrid/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ReportRepository interface {
	SaveReport(report *models.Report) (*models.Report, error)
	FindReportByID(id uuid.UUID) (*models.Report, error)
	UpdateReport(report *models.Report) error
	GetReportsByReporter(userID uint) ([]models.Report, error)
	GetReportsByTechnician(technicianID uint) ([]models.Report, error)
	GetAllReports() ([]models.Report, error)
	CountOpenReportsByTechnician(technicianID uint) (int64, error)
	GetStatusCounts() ([]models.StatusCount, error)
	GetMonthlyCounts() ([]models.MonthlyCount, error)
	GetAverageResolutionHours() (float64, error)
	CountReports() (int64, error)
	CountReportsInStatuses(statuses []models.ReportStatus) (int64, error)
	GetFeedbackStatistics() (*models.FeedbackStatistics, error)
}

type reportRepo struct {
	DB *gorm.DB
}

func NewReportRepo(db *GormDB) ReportRepository {
	return &reportRepo{db.DB}
}

func (r *reportRepo) SaveReport(report *models.Report) (*models.Report, error) {
	if err := r.DB.Create(report).Error; err != nil {
		log.Printf("SaveReport error: %v", err)
		return nil, errors.Wrap(err, "gorm create error")
	}
	return report, nil
}

func (r *reportRepo) FindReportByID(id uuid.UUID) (*models.Report, error) {
	var report models.Report
	err := r.DB.Preload("Reporter").Preload("AssignedTechnician").
		Where("id = ?", id).First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("report not found")
		}
		return nil, errors.Wrap(err, "gorm find error")
	}
	return &report, nil
}

// UpdateReport persists the full row in one write. Lifecycle checks run
// before this is called, so a failed transition never reaches the database.
func (r *reportRepo) UpdateReport(report *models.Report) error {
	if err := r.DB.Save(report).Error; err != nil {
		log.Printf("UpdateReport error: %v", err)
		return errors.Wrap(err, "gorm save error")
	}
	return nil
}

func (r *reportRepo) GetReportsByReporter(userID uint) ([]models.Report, error) {
	var reports []models.Report
	err := r.DB.Preload("AssignedTechnician").
		Where("reporter_id = ?", userID).
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, errors.Wrap(err, "gorm find error")
	}
	return reports, nil
}

func (r *reportRepo) GetReportsByTechnician(technicianID uint) ([]models.Report, error) {
	var reports []models.Report
	err := r.DB.Preload("Reporter").
		Where("assigned_technician_id = ?", technicianID).
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, errors.Wrap(err, "gorm find error")
	}
	return reports, nil
}

func (r *reportRepo) GetAllReports() ([]models.Report, error) {
	var reports []models.Report
	err := r.DB.Preload("Reporter").Preload("AssignedTechnician").
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, errors.Wrap(err, "gorm find error")
	}
	return reports, nil
}

// CountOpenReportsByTechnician counts assigned reports still expecting work,
// i.e. everything outside completed/approved/rejected.
func (r *reportRepo) CountOpenReportsByTechnician(technicianID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Report{}).
		Where("assigned_technician_id = ?", technicianID).
		Where("status NOT IN ?", []models.ReportStatus{
			models.StatusCompleted, models.StatusApproved, models.StatusRejected,
		}).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "gorm count error")
	}
	return count, nil
}

func (r *reportRepo) GetStatusCounts() ([]models.StatusCount, error) {
	var counts []models.StatusCount
	err := r.DB.Model(&models.Report{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, errors.Wrap(err, "gorm scan error")
	}
	return counts, nil
}

func (r *reportRepo) GetMonthlyCounts() ([]models.MonthlyCount, error) {
	var counts []models.MonthlyCount
	err := r.DB.Model(&models.Report{}).
		Select("to_char(created_at, 'YYYY-MM') as month, COUNT(*) as count").
		Group("to_char(created_at, 'YYYY-MM')").
		Order("month").
		Scan(&counts).Error
	if err != nil {
		return nil, errors.Wrap(err, "gorm scan error")
	}
	return counts, nil
}

func (r *reportRepo) GetAverageResolutionHours() (float64, error) {
	var avg *float64
	err := r.DB.Model(&models.Report{}).
		Select("AVG(EXTRACT(EPOCH FROM (approved_at - created_at)) / 3600)").
		Where("approved_at IS NOT NULL").
		Scan(&avg).Error
	if err != nil {
		return 0, errors.Wrap(err, "gorm scan error")
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

func (r *reportRepo) CountReports() (int64, error) {
	var count int64
	if err := r.DB.Model(&models.Report{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "gorm count error")
	}
	return count, nil
}

func (r *reportRepo) CountReportsInStatuses(statuses []models.ReportStatus) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Report{}).
		Where("status IN ?", statuses).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "gorm count error")
	}
	return count, nil
}

func (r *reportRepo) GetFeedbackStatistics() (*models.FeedbackStatistics, error) {
	stats := &models.FeedbackStatistics{Histogram: make(map[int]int64)}

	err := r.DB.Model(&models.Report{}).
		Where("has_feedback = ?", true).
		Count(&stats.Count).Error
	if err != nil {
		return nil, errors.Wrap(err, "gorm count error")
	}
	if stats.Count == 0 {
		return stats, nil
	}

	var avg *float64
	err = r.DB.Model(&models.Report{}).
		Select("AVG(feedback_rating)").
		Where("has_feedback = ?", true).
		Scan(&avg).Error
	if err != nil {
		return nil, errors.Wrap(err, "gorm scan error")
	}
	if avg != nil {
		stats.AverageRating = *avg
	}

	rows := []struct {
		Rating int
		Count  int64
	}{}
	err = r.DB.Model(&models.Report{}).
		Select("feedback_rating as rating, COUNT(*) as count").
		Where("has_feedback = ?", true).
		Group("feedback_rating").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "gorm scan error")
	}
	for _, row := range rows {
		stats.Histogram[row.Rating] = row.Count
	}
	return stats, nil
}
