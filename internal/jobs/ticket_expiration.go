package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const (
	DefaultSweepSchedule = "0 0 * * *"
	sweepTimeout         = 2 * time.Minute
)

type Sweeper interface {
	Execute(ctx context.Context) (int64, error)
}

// TicketExpiration runs the expired ticket sweep on a cron schedule in
// the configured zone. A failed cycle is logged and the next one runs as
// usual.
type TicketExpiration struct {
	sweeper Sweeper
	log     zerolog.Logger
	loc     *time.Location
	cron    *cron.Cron
	entry   cron.EntryID
}

func NewTicketExpiration(
	sweeper Sweeper,
	schedule string,
	loc *time.Location,
	log zerolog.Logger,
) (*TicketExpiration, error) {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	if loc == nil {
		loc = time.Local
	}

	j := &TicketExpiration{
		sweeper: sweeper,
		log:     log.With().Str("job", "ticket_expiration").Logger(),
		loc:     loc,
	}

	cl := cronLogger{log: j.log}
	j.cron = cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl)),
	)

	id, err := j.cron.AddFunc(schedule, j.Run)
	if err != nil {
		return nil, fmt.Errorf("ticket expiration schedule %q: %w", schedule, err)
	}
	j.entry = id
	return j, nil
}

func (j *TicketExpiration) Start() {
	j.cron.Start()
	j.log.Info().Time("next_run", j.Next(time.Now())).Msg("ticket expiration job scheduled")
}

// Stop waits for a running sweep to finish or ctx to end.
func (j *TicketExpiration) Stop(ctx context.Context) {
	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Next is the first run strictly after t.
func (j *TicketExpiration) Next(t time.Time) time.Time {
	return j.cron.Entry(j.entry).Schedule.Next(t.In(j.loc))
}

// Run performs one sweep cycle.
func (j *TicketExpiration) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	start := time.Now()
	n, err := j.sweeper.Execute(ctx)
	if err != nil {
		j.log.Error().Err(err).Msg("ticket expiration sweep failed")
		return
	}
	j.log.Info().
		Int64("cancelled", n).
		Dur("took", time.Since(start)).
		Msg("ticket expiration sweep finished")
}

// cronLogger adapts zerolog to cron's logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
