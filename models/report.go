package models

import (
	"time"

	"github.com/google/uuid"
)

// ReportStatus enumerates the report lifecycle states. The string values are
// stored verbatim in the reports table; code and schema must agree on them.
type ReportStatus string

const (
	StatusPending          ReportStatus = "pending"
	StatusAssigned         ReportStatus = "assigned"
	StatusInProgress       ReportStatus = "in_progress"
	StatusAwaitingApproval ReportStatus = "awaiting_approval"
	StatusCompleted        ReportStatus = "completed"
	StatusApproved         ReportStatus = "approved"
	StatusRejected         ReportStatus = "rejected"
)

// AllReportStatuses lists every lifecycle state, in forward-path order.
var AllReportStatuses = []ReportStatus{
	StatusPending,
	StatusAssigned,
	StatusInProgress,
	StatusAwaitingApproval,
	StatusCompleted,
	StatusApproved,
	StatusRejected,
}

// Valid reports whether s is one of the defined lifecycle states.
func (s ReportStatus) Valid() bool {
	for _, known := range AllReportStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Closed reports whether no further repair work is expected on the report.
// Closed reports do not block removal of their assigned technician.
func (s ReportStatus) Closed() bool {
	return s == StatusCompleted || s == StatusApproved || s == StatusRejected
}

// FeedbackEligible reports whether a resident may rate the repair.
func (s ReportStatus) FeedbackEligible() bool {
	return s == StatusCompleted || s == StatusApproved
}

// Report is a resident-filed pipe damage report tracked through the lifecycle.
type Report struct {
	ID                   uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
	ReporterID           uint         `json:"reporter_id" gorm:"not null;index"`
	Reporter             User         `json:"reporter" gorm:"foreignKey:ReporterID"`
	FullName             string       `json:"full_name"`
	Phone                string       `json:"phone"`
	Email                string       `json:"email"`
	LocationName         string       `json:"location_name"`
	Latitude             float64      `json:"latitude"`
	Longitude            float64      `json:"longitude"`
	PhotoURL             string       `json:"photo_url"`
	Description          string       `json:"description" gorm:"type:varchar(1000)"`
	Status               ReportStatus `json:"status" gorm:"type:varchar(32);default:'pending';index"`
	AssignedTechnicianID *uint        `json:"assigned_technician_id" gorm:"index"`
	AssignedTechnician   *User        `json:"assigned_technician,omitempty" gorm:"foreignKey:AssignedTechnicianID"`
	ProgressNotes        string       `json:"progress_notes"`
	CompletionNotes      string       `json:"completion_notes"`
	CompletionPhotoURL   string       `json:"completion_photo_url"`
	RejectionReason      string       `json:"rejection_reason"`
	ApprovedByID         *uint        `json:"approved_by_id"`
	CompletedAt          *time.Time   `json:"completed_at"`
	ApprovedAt           *time.Time   `json:"approved_at"`
	FeedbackRating       *int         `json:"feedback_rating"`
	FeedbackComment      string       `json:"feedback_comment"`
	HasFeedback          bool         `json:"has_feedback" gorm:"default:false"`
}

type CreateReportRequest struct {
	FullName     string  `json:"full_name" binding:"required,min=2" conform:"trim"`
	Phone        string  `json:"phone" binding:"required" conform:"trim"`
	Email        string  `json:"email" conform:"email"`
	LocationName string  `json:"location_name" conform:"trim"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Description  string  `json:"description" conform:"trim"`
}

type AssignReportRequest struct {
	TechnicianID uint `json:"technician_id" binding:"required"`
}

type ProgressUpdateRequest struct {
	Notes string `json:"notes" conform:"trim"`
}

type CompleteReportRequest struct {
	CompletionNotes string `json:"completion_notes" binding:"required" conform:"trim"`
}

type RejectReportRequest struct {
	Reason string `json:"reason" binding:"required" conform:"trim"`
}

type StatusOverrideRequest struct {
	Status string `json:"status" binding:"required"`
}

type FeedbackRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment" conform:"trim"`
}

// StatusCount is an analytics row: number of reports per lifecycle state.
type StatusCount struct {
	Status ReportStatus `json:"status"`
	Count  int64        `json:"count"`
}

// MonthlyCount is an analytics row: reports submitted per calendar month.
type MonthlyCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// ReportAnalytics aggregates the officer dashboard numbers.
type ReportAnalytics struct {
	Total                int64          `json:"total"`
	ByStatus             []StatusCount  `json:"by_status"`
	Monthly              []MonthlyCount `json:"monthly"`
	AvgResolutionHours   float64        `json:"avg_resolution_hours"`
	OpenReports          int64          `json:"open_reports"`
	AwaitingApprovalNow  int64          `json:"awaiting_approval"`
	ResolvedReports      int64          `json:"resolved_reports"`
}

// FeedbackStatistics summarizes resident ratings on closed reports.
type FeedbackStatistics struct {
	Count         int64         `json:"count"`
	AverageRating float64       `json:"average_rating"`
	Histogram     map[int]int64 `json:"histogram"`
}
