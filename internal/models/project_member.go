package models

import "time"

// ProjectRole is a member's privilege level inside a project.
type ProjectRole string

const (
	RoleViewer ProjectRole = "viewer"
	RoleEditor ProjectRole = "editor"
	RoleAdmin  ProjectRole = "admin"
)

var roleRanks = map[ProjectRole]int{
	RoleViewer: 0,
	RoleEditor: 1,
	RoleAdmin:  2,
}

// Rank returns the role's position in viewer < editor < admin, or -1 for an unknown role.
func (r ProjectRole) Rank() int {
	rank, ok := roleRanks[r]
	if !ok {
		return -1
	}
	return rank
}

// Valid reports whether r is one of the known roles.
func (r ProjectRole) Valid() bool {
	return r.Rank() >= 0
}

// AtLeast reports whether r grants everything required grants.
// An unknown role never satisfies a requirement.
func (r ProjectRole) AtLeast(required ProjectRole) bool {
	return r.Valid() && required.Valid() && r.Rank() >= required.Rank()
}

type ProjectMember struct {
	ProjectID uint64      `gorm:"primarykey" json:"project_id"`
	UserID    uint64      `gorm:"primarykey;index" json:"user_id"`
	Role      ProjectRole `gorm:"type:varchar(20);not null" json:"role"`
	JoinedAt  time.Time   `json:"joined_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"-"`
	User    User    `gorm:"foreignKey:UserID" json:"-"`
}
