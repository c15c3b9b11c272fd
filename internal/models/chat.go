package models

import (
	"time"

	"gorm.io/gorm"
)

// Chat is keyed by the sorted participant pair. PatientID and DoctorID
// record the first sender and receiver, not roles.
type Chat struct {
	ID        string    `gorm:"size:80;primaryKey" json:"id"`
	PatientID string    `gorm:"size:64;index" json:"patient_id"`
	DoctorID  string    `gorm:"size:64;index" json:"doctor_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Message struct {
	ID       string    `gorm:"type:uuid;primaryKey" json:"id"`
	ChatID   string    `gorm:"size:80;index;not null" json:"chat_id"`
	Chat     *Chat     `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE;" json:"chat,omitempty"`
	SenderID string    `gorm:"size:64;not null" json:"sender_id"`
	Content  string    `gorm:"type:text" json:"content"`
	FileURL  string    `gorm:"size:512" json:"file_url"`
	FileType string    `gorm:"size:100" json:"file_type"`
	SentAt   time.Time `gorm:"index;not null" json:"sent_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	newID(&m.ID)
	return nil
}
