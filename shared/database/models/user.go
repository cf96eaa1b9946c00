package models

import (
	"time"
)

type User struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	Email            string    `json:"email" gorm:"size:120;uniqueIndex;not null"`
	Password         string    `json:"-" gorm:"size:128;not null"`
	Name             string    `json:"name" gorm:"size:120"`
	Lastname         string    `json:"lastname" gorm:"size:120"`
	RoleID           uint      `json:"role_id" gorm:"not null;default:3"`
	Active           bool      `json:"active" gorm:"default:true"`
	CreatedAt        time.Time `json:"created_at"`
	PrimaryCompanyID *uint     `json:"primary_company_id"`

	// Relations
	Role           Role      `json:"role" gorm:"foreignKey:RoleID"`
	PrimaryCompany *Company  `json:"primary_company" gorm:"foreignKey:PrimaryCompanyID"`
	Companies      []Company `json:"companies" gorm:"many2many:user_companies"`
}

// FullName returns "name lastname", dropping whichever part is empty.
func (u *User) FullName() string {
	if u.Name == "" {
		return u.Lastname
	}
	if u.Lastname == "" {
		return u.Name
	}
	return u.Name + " " + u.Lastname
}
