package models

import (
	"time"
)

type Company struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Description string    `json:"description" gorm:"size:355"`
	UserID      *uint     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	Active      bool      `json:"active" gorm:"default:true"`

	// Relations
	ContactUser *User  `json:"user" gorm:"foreignKey:UserID"`
	Users       []User `json:"users" gorm:"many2many:user_companies"`
}
