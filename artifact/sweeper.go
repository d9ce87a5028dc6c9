package artifact

import (
	"context"
	"time"

	"github.com/hupe1980/promptdesk/core"
	"github.com/hupe1980/promptdesk/logging"
)

// SweeperOptions configures the retention sweeper.
type SweeperOptions struct {
	// TTL is how long an artifact survives after creation.
	TTL time.Duration
	// Interval is how often the sweep runs. It should be shorter than TTL
	// to bound staleness; in the worst case an artifact is served up to one
	// interval past its nominal TTL.
	Interval time.Duration
	// Logger receives sweep progress and per-entry failures.
	Logger logging.Logger
	// Now supplies the sweep clock; overridable for tests.
	Now func() time.Time
}

// Sweeper enforces a fixed time-to-live on the artifacts of a store. Each
// sweep is stateless: it derives everything from the current store contents
// and the wall clock, so nothing needs to be remembered across invocations
// and a missed sweep is simply caught up by the next one.
//
// A single entry failing to delete never aborts the sweep or escalates
// outside the sweep loop; the failure is logged and counted, and the sweep
// continues with the remaining entries.
type Sweeper struct {
	store    core.ArtifactStore
	ttl      time.Duration
	interval time.Duration
	logger   logging.Logger
	now      func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

// NewSweeper creates a sweeper for the given store. Defaults: 30 minute TTL,
// 1 minute sweep interval, no-op logger.
func NewSweeper(store core.ArtifactStore, optFns ...func(o *SweeperOptions)) *Sweeper {
	opts := SweeperOptions{
		TTL:      30 * time.Minute,
		Interval: time.Minute,
		Logger:   logging.NoOpLogger{},
		Now:      time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Sweeper{
		store:    store,
		ttl:      opts.TTL,
		interval: opts.Interval,
		logger:   opts.Logger,
		now:      opts.Now,
	}
}

// Start launches the periodic sweep loop. It returns immediately; the loop
// runs until Stop is called and holds no lock preventing concurrent store
// access. Calling Start on a running sweeper is a no-op.
func (s *Sweeper) Start() {
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.SweepOnce(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()

	s.logger.Info("retention sweeper started", "ttl", s.ttl.String(), "interval", s.interval.String())
}

// Stop cancels the sweep loop and waits for it to exit. Safe to call on a
// sweeper that was never started.
func (s *Sweeper) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.logger.Info("retention sweeper stopped")
}

// SweepOnce runs a single scan-and-delete cycle and returns the number of
// artifacts removed. Exposed so callers (and tests) can force a sweep without
// waiting for the ticker.
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	sweepsTotal.Inc()

	infos, err := s.store.List()
	if err != nil {
		sweepFailuresTotal.Inc()
		s.logger.Error("sweep failed to list artifacts", "error", err)
		return 0
	}

	now := s.now()
	removed := 0
	for _, info := range infos {
		select {
		case <-ctx.Done():
			return removed
		default:
		}

		if now.Sub(info.CreatedAt) < s.ttl {
			continue
		}
		if err := s.store.Delete(info.Key); err != nil {
			sweepFailuresTotal.Inc()
			s.logger.Warn("sweep failed to delete artifact", "key", info.Key, "error", err)
			continue
		}
		expiredTotal.Inc()
		removed++
	}

	artifactsLive.Set(float64(len(infos) - removed))

	if removed > 0 {
		s.logger.Info("retention sweep completed", "removed", removed, "scanned", len(infos))
	} else {
		s.logger.Debug("retention sweep completed", "removed", 0, "scanned", len(infos))
	}
	return removed
}
