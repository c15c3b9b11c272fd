package chat

import (
	"context"

	"github.com/BruksfildServices01/careline-api/internal/models"
)

type Store interface {
	// SaveMessage creates the chat if absent and appends the message.
	SaveMessage(ctx context.Context, m Message) error
	ChatHistory(ctx context.Context, chatID string) ([]models.Message, error)
	ParticipantHistory(ctx context.Context, participantID string) ([]models.Message, error)
}
