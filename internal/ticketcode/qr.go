package ticketcode

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 300

type Uploader interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

type Payload struct {
	Ticket      string    `json:"ticket"`
	Appointment string    `json:"appointment"`
	Timestamp   time.Time `json:"timestamp"`
}

type QRGenerator struct {
	store Uploader
	nowFn func() time.Time
}

func NewQRGenerator(store Uploader, nowFn func() time.Time) *QRGenerator {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &QRGenerator{store: store, nowFn: nowFn}
}

// Encode renders the payload as a PNG with the highest recovery level.
func Encode(p Payload) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(string(data), qrcode.Highest, qrSize)
}

// Generate renders and uploads the QR image for a ticket, returning the
// object URL.
func (g *QRGenerator) Generate(ctx context.Context, number, appointmentID string) (string, error) {
	now := g.nowFn()

	png, err := Encode(Payload{
		Ticket:      number,
		Appointment: appointmentID,
		Timestamp:   now,
	})
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}

	key := fmt.Sprintf("qrcodes/%s-%d.png", number, now.UnixMilli())
	url, err := g.store.Put(ctx, key, png, "image/png")
	if err != nil {
		return "", fmt.Errorf("upload qr: %w", err)
	}
	return url, nil
}
