// Package worker hosts the long-running background tasks of the server
// process.  Each worker is an explicit object with Start/Stop methods
// owned by main, never an implicit package-level timer, so tests can
// drive its lifecycle deterministically.
package worker

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/hotel-booking/internal/lock"
)

// ttlLockName guards the sweep across horizontally scaled instances.
// Matches the lock the original deployment registered in MySQL, so a
// rolling upgrade never runs two sweeps at once.
const ttlLockName = "booking_ttl_worker"

// BookingStore is the slice of the booking repository the reaper needs.
type BookingStore interface {
	// ExpireStalePending bulk-cancels pending bookings older than
	// ttlMinutes and returns the number of rows changed.
	ExpireStalePending(ctx context.Context, ttlMinutes int) (int64, error)
}

// TTLReaper periodically cancels pending bookings that outlived their
// time-to-live, reclaiming rooms held by abandoned checkouts.  Expiry is
// best effort: a booking is cancelled within one sweep interval after
// its TTL elapses, not at the exact instant.
type TTLReaper struct {
	store        BookingStore
	locker       lock.Locker
	ttlMinutes   int
	interval     time.Duration
	initialDelay time.Duration

	stop chan struct{}
	done chan struct{}
}

// NewTTLReaper builds a reaper.  ttlMinutes must be positive (the config
// layer disables the worker otherwise).  interval defaults to one minute
// and initialDelay to ten seconds when non-positive, mirroring the
// original deployment's cadence.
func NewTTLReaper(store BookingStore, locker lock.Locker, ttlMinutes int, interval, initialDelay time.Duration) *TTLReaper {
	if interval <= 0 {
		interval = time.Minute
	}
	if initialDelay <= 0 {
		initialDelay = 10 * time.Second
	}
	return &TTLReaper{
		store:        store,
		locker:       locker,
		ttlMinutes:   ttlMinutes,
		interval:     interval,
		initialDelay: initialDelay,
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// Start launches the sweep loop in its own goroutine.  The first sweep
// runs after the initial delay so the process finishes booting first;
// subsequent sweeps run on the fixed interval until Stop is called.
func (w *TTLReaper) Start() {
	go w.run()
	log.Printf("[ttl] booking TTL worker started (ttl=%dm interval=%s)", w.ttlMinutes, w.interval)
}

// Stop terminates the loop and waits for an in-flight sweep to finish.
// A sweep is never interrupted mid-tick.
func (w *TTLReaper) Stop() {
	close(w.stop)
	<-w.done
}

func (w *TTLReaper) run() {
	defer close(w.done)

	delay := time.NewTimer(w.initialDelay)
	defer delay.Stop()
	select {
	case <-delay.C:
	case <-w.stop:
		return
	}
	w.Sweep(context.Background())

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			w.Sweep(context.Background())
		case <-w.stop:
			return
		}
	}
}

// Sweep performs one scan-and-expire pass.  It acquires the named lock
// non-blocking and skips the tick entirely when another instance holds
// it.  Any error is logged and swallowed: the worker must outlive every
// failure and try again on the next tick.
func (w *TTLReaper) Sweep(ctx context.Context) {
	got, err := w.locker.TryAcquire(ctx, ttlLockName)
	if err != nil {
		log.Printf("[ttl] lock acquire failed: %v", err)
		return
	}
	if !got {
		// Another instance is sweeping.
		return
	}
	defer func() {
		if err := w.locker.Release(ctx, ttlLockName); err != nil {
			log.Printf("[ttl] lock release failed: %v", err)
		}
	}()

	n, err := w.store.ExpireStalePending(ctx, w.ttlMinutes)
	if err != nil {
		log.Printf("[ttl] sweep failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[ttl] auto-cancelled %d pending bookings older than %dm", n, w.ttlMinutes)
	}
}
