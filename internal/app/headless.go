package app

import (
	"context"
	"log"
	"time"

	"fleetmon/internal/dash"
)

// runHeadless drives the engine without a terminal: every refresh it
// ticks the controller, which rewrites the snapshot files, until the
// deadline passes or ctx is cancelled. The VPN command is not polled;
// snapshot headers report it as unavailable.
func runHeadless(ctx context.Context, ctrl *dash.Controller, quitAfter time.Duration) error {
	ticker := time.NewTicker(ctrl.Session().Refresh())
	defer ticker.Stop()

	var deadline <-chan time.Time
	if quitAfter > 0 {
		timer := time.NewTimer(quitAfter)
		defer timer.Stop()
		deadline = timer.C
	}

	log.Printf("headless: snapshots every %s", ctrl.Session().Refresh())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return nil
		case now := <-ticker.C:
			ctrl.Tick(now)
		}
	}
}
