package services

import (
	"strings"
	"time"

	apiError "github.com/bluegridhq/bluegrid/errors"
	"github.com/bluegridhq/bluegrid/models"
	"github.com/bluegridhq/bluegrid/services/notifier"
)

// ReportOp names a lifecycle operation on a report.
type ReportOp string

const (
	OpAssign   ReportOp = "assign"
	OpAccept   ReportOp = "accept"
	OpProgress ReportOp = "progress"
	OpComplete ReportOp = "complete"
	OpApprove  ReportOp = "approve"
	OpReject   ReportOp = "reject"
)

// TransitionInput carries the operation-specific payload.
type TransitionInput struct {
	TechnicianID       uint
	Notes              string
	Reason             string
	CompletionPhotoURL string
}

// transitionRule is one edge of the report lifecycle. The table below is the
// single source of truth for which status moves are legal, who may perform
// them, and what they require and mutate; no handler re-derives any of it.
type transitionRule struct {
	from         models.ReportStatus
	to           models.ReportStatus
	role         string
	assigneeOnly bool
	check        func(in *TransitionInput) *apiError.Error
	apply        func(r *models.Report, in *TransitionInput, actorID uint, now time.Time)
	event        notifier.EventKind
}

var transitionRules = map[ReportOp]transitionRule{
	OpAssign: {
		from: models.StatusPending,
		to:   models.StatusAssigned,
		role: models.RolePanchayatOfficer,
		check: func(in *TransitionInput) *apiError.Error {
			if in.TechnicianID == 0 {
				return apiError.Validation("technician id is required")
			}
			return nil
		},
		apply: func(r *models.Report, in *TransitionInput, actorID uint, now time.Time) {
			technicianID := in.TechnicianID
			r.AssignedTechnicianID = &technicianID
		},
		event: notifier.EventReportAssigned,
	},
	OpAccept: {
		from:         models.StatusAssigned,
		to:           models.StatusInProgress,
		role:         models.RoleMaintenanceTech,
		assigneeOnly: true,
		event:        notifier.EventReportAccepted,
	},
	OpProgress: {
		from:         models.StatusInProgress,
		to:           models.StatusInProgress,
		role:         models.RoleMaintenanceTech,
		assigneeOnly: true,
		apply: func(r *models.Report, in *TransitionInput, actorID uint, now time.Time) {
			if notes := strings.TrimSpace(in.Notes); notes != "" {
				if r.ProgressNotes != "" {
					r.ProgressNotes += "\n"
				}
				r.ProgressNotes += notes
			}
		},
	},
	OpComplete: {
		from:         models.StatusInProgress,
		to:           models.StatusAwaitingApproval,
		role:         models.RoleMaintenanceTech,
		assigneeOnly: true,
		check: func(in *TransitionInput) *apiError.Error {
			if strings.TrimSpace(in.Notes) == "" {
				return apiError.Validation("completion notes are required")
			}
			return nil
		},
		apply: func(r *models.Report, in *TransitionInput, actorID uint, now time.Time) {
			r.CompletionNotes = strings.TrimSpace(in.Notes)
			r.CompletionPhotoURL = in.CompletionPhotoURL
			r.CompletedAt = &now
		},
		event: notifier.EventReportCompleted,
	},
	OpApprove: {
		from: models.StatusAwaitingApproval,
		to:   models.StatusApproved,
		role: models.RolePanchayatOfficer,
		apply: func(r *models.Report, in *TransitionInput, actorID uint, now time.Time) {
			r.ApprovedByID = &actorID
			r.ApprovedAt = &now
		},
		event: notifier.EventReportApproved,
	},
	OpReject: {
		from: models.StatusAwaitingApproval,
		to:   models.StatusRejected,
		role: models.RolePanchayatOfficer,
		check: func(in *TransitionInput) *apiError.Error {
			if strings.TrimSpace(in.Reason) == "" {
				return apiError.Validation("rejection reason is required")
			}
			return nil
		},
		apply: func(r *models.Report, in *TransitionInput, actorID uint, now time.Time) {
			r.RejectionReason = strings.TrimSpace(in.Reason)
		},
		event: notifier.EventReportRejected,
	},
}
