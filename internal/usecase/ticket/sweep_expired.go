package ticket

import (
	"context"
	"time"

	"github.com/BruksfildServices01/careline-api/internal/audit"
	domain "github.com/BruksfildServices01/careline-api/internal/domain/ticket"
)

// SweepExpired cancels every ticket past its window in one update. It is
// shared by the nightly job and the admin endpoint.
type SweepExpired struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	nowFn func() time.Time
}

func NewSweepExpired(
	repo domain.Repository,
	audit *audit.Dispatcher,
	nowFn func() time.Time,
) *SweepExpired {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &SweepExpired{repo: repo, audit: audit, nowFn: nowFn}
}

func (uc *SweepExpired) Execute(ctx context.Context) (int64, error) {
	n, err := uc.repo.CancelExpired(ctx, uc.nowFn())
	if err != nil {
		return 0, err
	}

	if n > 0 {
		uc.audit.Dispatch(audit.Event{
			Action:   "tickets_swept",
			Entity:   "ticket",
			Metadata: map[string]int64{"cancelled": n},
		})
	}
	return n, nil
}
