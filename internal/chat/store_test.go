package chat

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/BruksfildServices01/careline-api/internal/models"
)

// memoryStore mirrors the gorm store: chats are created on first message
// and history is ordered by sent time.
type memoryStore struct {
	mu       sync.Mutex
	chats    map[string]models.Chat
	messages []models.Message

	failContent string
	failHistory bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{chats: make(map[string]models.Chat)}
}

func (s *memoryStore) SaveMessage(_ context.Context, m Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failContent != "" && m.Message == s.failContent {
		return errors.New("write failed")
	}

	id := ChatID(m.Sender, m.Receiver)
	if _, ok := s.chats[id]; !ok {
		s.chats[id] = models.Chat{ID: id, PatientID: m.Sender, DoctorID: m.Receiver}
	}
	s.messages = append(s.messages, models.Message{
		ChatID:   id,
		SenderID: m.Sender,
		Content:  m.Message,
		SentAt:   m.Timestamp,
	})
	return nil
}

func (s *memoryStore) ChatHistory(_ context.Context, chatID string) ([]models.Message, error) {
	return s.filter(func(m models.Message) bool { return m.ChatID == chatID })
}

func (s *memoryStore) ParticipantHistory(_ context.Context, participantID string) ([]models.Message, error) {
	return s.filter(func(m models.Message) bool {
		c := s.chats[m.ChatID]
		return c.PatientID == participantID || c.DoctorID == participantID
	})
}

func (s *memoryStore) filter(keep func(models.Message) bool) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failHistory {
		return nil, errors.New("read failed")
	}

	var out []models.Message
	for _, m := range s.messages {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
	return out, nil
}

func (s *memoryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

type recordingBroadcaster struct {
	mu        sync.Mutex
	published []Envelope
}

func (b *recordingBroadcaster) Publish(_ context.Context, env Envelope) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, env)
	return nil
}

func (b *recordingBroadcaster) Subscribe(ctx context.Context, _ func(Envelope)) error {
	<-ctx.Done()
	return nil
}
