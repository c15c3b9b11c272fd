package models

import (
	"time"

	"gorm.io/gorm"
)

type Appointment struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	PatientID string   `gorm:"type:uuid;not null;uniqueIndex:idx_appointment_slot" json:"patient_id"`
	Patient   *Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"patient,omitempty"`

	DoctorID string  `gorm:"type:uuid;not null;uniqueIndex:idx_appointment_slot" json:"doctor_id"`
	Doctor   *Doctor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"doctor,omitempty"`

	Date time.Time `gorm:"not null;uniqueIndex:idx_appointment_slot" json:"date"`

	AppointmentFee float64 `json:"appointment_fee"`
	AmountPaid     float64 `json:"amount_paid"`
	TxHash         string  `gorm:"size:120" json:"tx_hash"`

	Status   string `gorm:"size:20;default:'pending'" json:"status"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	Ticket *Ticket `gorm:"foreignKey:AppointmentID" json:"ticket,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	newID(&a.ID)
	return nil
}
