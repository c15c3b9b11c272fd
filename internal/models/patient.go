package models

import (
	"time"

	"gorm.io/gorm"
)

type Patient struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	Name          string `gorm:"size:120;not null" json:"name"`
	Email         string `gorm:"size:120" json:"email"`
	Age           int    `json:"age"`
	Gender        string `gorm:"size:20" json:"gender"`
	BloodGroup    string `gorm:"size:5" json:"blood_group"`
	WalletAddress string `gorm:"size:100;uniqueIndex;not null" json:"wallet_address"`

	ProfilePicture string `gorm:"size:255" json:"profile_picture"`

	Appointments []Appointment `gorm:"foreignKey:PatientID" json:"appointments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	newID(&p.ID)
	return nil
}
