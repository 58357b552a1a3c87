package models

import "github.com/google/uuid"

// Role is one of the four fixed roles seeded at startup.
type Role struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name string    `gorm:"unique" json:"name"`
}

const (
	RoleResident            = "resident"
	RoleMaintenanceTech     = "maintenance_technician"
	RoleWaterFlowController = "water_flow_controller"
	RolePanchayatOfficer    = "panchayat_officer"
)

// AllRoles lists every role the system knows about.
var AllRoles = []string{
	RoleResident,
	RoleMaintenanceTech,
	RoleWaterFlowController,
	RolePanchayatOfficer,
}

// IsStaffRole reports whether the role names a utility-staff account that
// only an officer may create.
func IsStaffRole(name string) bool {
	switch name {
	case RoleMaintenanceTech, RoleWaterFlowController, RolePanchayatOfficer:
		return true
	}
	return false
}
