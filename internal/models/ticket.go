package models

import (
	"time"

	"gorm.io/gorm"
)

type Ticket struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	TicketNumber string `gorm:"size:32;uniqueIndex;not null" json:"ticket_number"`

	AppointmentID string       `gorm:"type:uuid;uniqueIndex;not null" json:"appointment_id"`
	Appointment   *Appointment `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE;" json:"appointment,omitempty"`

	Status    string    `gorm:"size:20;default:'pending';index" json:"status"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	Notes     *string   `gorm:"type:text" json:"notes,omitempty"`
	QRCode    string    `gorm:"size:512" json:"qr_code"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	newID(&t.ID)
	return nil
}

// TicketSequence holds the last number issued for a local calendar day.
type TicketSequence struct {
	Day        string `gorm:"size:8;primaryKey"`
	LastNumber int64  `gorm:"not null"`
}
