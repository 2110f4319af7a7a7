package session

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// StartScheduler runs the hub's periodic jobs: the background
// availability refresh (skipped when refresh is zero) and the idle
// session sweep.  The caller owns the returned scheduler and must shut
// it down.
func StartScheduler(h *Hub, refresh, idleTTL time.Duration, log *zap.Logger) (gocron.Scheduler, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	if refresh > 0 {
		_, err = s.NewJob(
			gocron.DurationJob(refresh),
			gocron.NewTask(func() {
				n := h.RefreshAvailability()
				log.Debug("availability refresh queued", zap.Int("sessions", n))
			}),
			gocron.WithName("availability-refresh"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			_ = s.Shutdown()
			return nil, err
		}
	}

	if idleTTL > 0 {
		_, err = s.NewJob(
			gocron.DurationJob(sweepInterval(idleTTL)),
			gocron.NewTask(func() { h.SweepIdle(idleTTL) }),
			gocron.WithName("idle-session-sweep"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			_ = s.Shutdown()
			return nil, err
		}
	}

	s.Start()
	log.Info("session scheduler started",
		zap.Duration("availability_refresh", refresh),
		zap.Duration("idle_ttl", idleTTL),
	)
	return s, nil
}

func sweepInterval(ttl time.Duration) time.Duration {
	d := ttl / 4
	if d < time.Second {
		d = time.Second
	}
	if d > time.Minute {
		d = time.Minute
	}
	return d
}
