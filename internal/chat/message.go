package chat

import (
	"sort"
	"strings"
	"time"
)

// Message is a private message as sent by a client.
type Message struct {
	Sender     string    `json:"sender"`
	Receiver   string    `json:"receiver"`
	Message    string    `json:"message"`
	FileURL    string    `json:"file_url,omitempty"`
	FileType   string    `json:"file_type,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	SenderName string    `json:"sender_name,omitempty"`
	PatientID  string    `json:"patient_id,omitempty"`
}

// Received is the payload pushed to the receiver's socket.
type Received struct {
	Sender     string    `json:"sender"`
	Message    string    `json:"message"`
	FileURL    string    `json:"file_url,omitempty"`
	FileType   string    `json:"file_type,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	SenderName string    `json:"sender_name,omitempty"`
	PatientID  string    `json:"patient_id,omitempty"`
}

// ChatID is order independent: both directions of a conversation share it.
func ChatID(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, "-")
}
