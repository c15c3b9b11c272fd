package ticketcode

import (
	"context"
	"fmt"
	"time"
)

type Sequencer interface {
	NextSequence(ctx context.Context, day string) (int64, error)
}

type Renderer interface {
	Generate(ctx context.Context, number, appointmentID string) (string, error)
}

type Issued struct {
	Number string
	QRCode string
}

// Issuer hands out the number and QR artifact of a new ticket. The clock
// decides the day key, so it must already be in the configured zone.
type Issuer struct {
	seq   Sequencer
	qr    Renderer
	nowFn func() time.Time
}

func NewIssuer(seq Sequencer, qr Renderer, nowFn func() time.Time) *Issuer {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &Issuer{seq: seq, qr: qr, nowFn: nowFn}
}

func (i *Issuer) Issue(ctx context.Context, appointmentID string) (Issued, error) {
	day := DayKey(i.nowFn())

	n, err := i.seq.NextSequence(ctx, day)
	if err != nil {
		return Issued{}, err
	}
	number := Number(day, n)

	url, err := i.qr.Generate(ctx, number, appointmentID)
	if err != nil {
		return Issued{}, fmt.Errorf("ticket %s: %w", number, err)
	}

	return Issued{Number: number, QRCode: url}, nil
}
