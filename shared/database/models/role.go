package models

// Fixed role ids, seeded at startup and never deleted.
const (
	RoleSuperAdmin uint = 1
	RoleAdmin      uint = 2
	RoleUser       uint = 3
)

type Role struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:50;uniqueIndex;not null"`
}
