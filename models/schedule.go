package models

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleStatus enumerates the water-supply schedule states.
type ScheduleStatus string

const (
	ScheduleScheduled   ScheduleStatus = "scheduled"
	ScheduleActive      ScheduleStatus = "active"
	ScheduleClosed      ScheduleStatus = "closed"
	ScheduleInterrupted ScheduleStatus = "interrupted"
)

// WaterSchedule is a planned water-supply window for an area.
type WaterSchedule struct {
	ID                 uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	Area               string         `json:"area" gorm:"not null;index"`
	SupplyDate         string         `json:"supply_date"`
	OpenTime           string         `json:"open_time"`
	CloseTime          string         `json:"close_time"`
	Status             ScheduleStatus `json:"status" gorm:"type:varchar(32);default:'scheduled'"`
	IsActive           bool           `json:"is_active" gorm:"default:false"`
	InterruptionReason string         `json:"interruption_reason"`
	OpenedAt           *time.Time     `json:"opened_at"`
	ClosedAt           *time.Time     `json:"closed_at"`
	CreatedByID        uint           `json:"created_by_id"`
}

type CreateScheduleRequest struct {
	Area       string `json:"area" binding:"required" conform:"trim"`
	SupplyDate string `json:"supply_date" binding:"required"`
	OpenTime   string `json:"open_time" binding:"required"`
	CloseTime  string `json:"close_time" binding:"required"`
}

type InterruptScheduleRequest struct {
	Reason string `json:"reason" binding:"required" conform:"trim"`
}
