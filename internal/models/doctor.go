package models

import (
	"time"

	"gorm.io/gorm"
)

type Specialty struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:80;uniqueIndex;not null" json:"name"`
}

type Doctor struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	Name          string `gorm:"size:120;not null" json:"name"`
	Email         string `gorm:"size:120" json:"email"`
	Age           int    `json:"age"`
	LicenseID     string `gorm:"size:60;uniqueIndex" json:"doctor_id"`
	WalletAddress string `gorm:"size:100;uniqueIndex;not null" json:"wallet_address"`

	ProfilePicture string `gorm:"size:255" json:"profile_picture"`
	Hospital       string `gorm:"size:120" json:"hospital"`
	Experience     int    `json:"experience"`
	Qualification  string `gorm:"size:120" json:"qualification"`
	Bio            string `gorm:"type:text" json:"bio"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	AvailableDays   []string `gorm:"serializer:json;type:text" json:"available_days"`
	ConsultancyFees float64  `json:"consultancy_fees"`
	AverageRating   float64  `gorm:"default:0" json:"average_rating"`

	Specialties []Specialty `gorm:"many2many:doctor_specialties;" json:"specialties"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *Doctor) BeforeCreate(tx *gorm.DB) error {
	newID(&d.ID)
	return nil
}
