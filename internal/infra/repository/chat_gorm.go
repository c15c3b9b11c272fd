package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/careline-api/internal/chat"
	"github.com/BruksfildServices01/careline-api/internal/models"
)

type ChatGormRepository struct {
	db *gorm.DB
}

var _ chat.Store = (*ChatGormRepository)(nil)

func NewChatGormRepository(db *gorm.DB) *ChatGormRepository {
	return &ChatGormRepository{db: db}
}

// SaveMessage upserts the chat row, then appends the message. The first
// message of a pair decides which id lands in patient_id.
func (r *ChatGormRepository) SaveMessage(ctx context.Context, m chat.Message) error {
	chatID := chat.ChatID(m.Sender, m.Receiver)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Chat{
				ID:        chatID,
				PatientID: m.Sender,
				DoctorID:  m.Receiver,
			}).Error; err != nil {
			return err
		}

		return tx.Omit(clause.Associations).Create(&models.Message{
			ChatID:   chatID,
			SenderID: m.Sender,
			Content:  m.Message,
			FileURL:  m.FileURL,
			FileType: m.FileType,
			SentAt:   m.Timestamp,
		}).Error
	})
}

func (r *ChatGormRepository) ChatHistory(ctx context.Context, chatID string) ([]models.Message, error) {
	var out []models.Message
	err := r.db.WithContext(ctx).
		Preload("Chat").
		Where("chat_id = ?", chatID).
		Order("sent_at ASC").
		Find(&out).Error
	return out, err
}

func (r *ChatGormRepository) ParticipantHistory(ctx context.Context, participantID string) ([]models.Message, error) {
	var out []models.Message
	err := r.db.WithContext(ctx).
		Preload("Chat").
		Joins("JOIN chats ON chats.id = messages.chat_id").
		Where("chats.patient_id = ? OR chats.doctor_id = ?", participantID, participantID).
		Order("messages.sent_at ASC").
		Find(&out).Error
	return out, err
}
