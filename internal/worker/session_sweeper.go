package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// IdleSweeper discards in-memory state untouched since cutoff and reports
// how many entries were removed.
type IdleSweeper interface {
	SweepIdle(cutoff time.Time) int
}

// SessionSweeper periodically expires idle quiz sessions and conversations.
type SessionSweeper struct {
	targets  map[string]IdleSweeper
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

func NewSessionSweeper(ttl time.Duration, targets map[string]IdleSweeper, log zerolog.Logger) *SessionSweeper {
	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	return &SessionSweeper{
		targets:  targets,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
		log:      log.With().Str("component", "session_sweeper").Logger(),
	}
}

func (s *SessionSweeper) Start(ctx context.Context) {
	s.log.Info().Dur("ttl", s.ttl).Dur("interval", s.interval).Msg("SessionSweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce()
		}
	}
}

// SweepOnce runs a single pass over every target.
func (s *SessionSweeper) SweepOnce() int {
	cutoff := s.now().Add(-s.ttl)
	total := 0
	for name, target := range s.targets {
		if n := target.SweepIdle(cutoff); n > 0 {
			total += n
			s.log.Info().Str("target", name).Int("expired", n).Msg("Expired idle sessions")
		}
	}
	return total
}
