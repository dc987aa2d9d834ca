package streak

import (
	"context"
	"sync"
	"time"

	"github.com/fardannozami/streak-limpo/internal/clock"
)

// AnchorFunc returns the current anchor, or false when none is known yet.
type AnchorFunc func() (time.Time, bool)

// Countdown recomputes Elapsed on a fixed interval until stopped.
type Countdown struct {
	clock    clock.Clock
	anchor   AnchorFunc
	interval time.Duration
	onTick   func(Duration)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewCountdown(c clock.Clock, anchor AnchorFunc, interval time.Duration, onTick func(Duration)) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{clock: c, anchor: anchor, interval: interval, onTick: onTick}
}

// Start runs the countdown until ctx is done or Stop is called. It ticks once
// immediately. Starting a running countdown is a no-op.
func (cd *Countdown) Start(ctx context.Context) {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	if cd.done != nil {
		return
	}

	ctx, cd.cancel = context.WithCancel(ctx)
	cd.done = make(chan struct{})
	go cd.run(ctx, cd.done)
}

func (cd *Countdown) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(cd.interval)
	defer ticker.Stop()

	cd.tick()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cd.tick()
		}
	}
}

func (cd *Countdown) tick() {
	anchor, ok := cd.anchor()
	if !ok {
		cd.onTick(Duration{})
		return
	}
	cd.onTick(Elapsed(anchor, cd.clock.Now()))
}

// Stop cancels the countdown and waits for the last tick to finish.
func (cd *Countdown) Stop() {
	cd.mu.Lock()
	cancel, done := cd.cancel, cd.done
	cd.cancel, cd.done = nil, nil
	cd.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
