package conversation

import (
	"log/slog"
	"time"

	"github.com/WWPCA/ieltsprep/internal/scheduler"
	"github.com/WWPCA/ieltsprep/internal/store"
)

// DefaultIdleWindow is how long a session may sit without activity before
// the reaper discards it. Abandoned sessions never finalize on their own.
const DefaultIdleWindow = 30 * time.Minute

// Reaper periodically deletes sessions whose last activity is older than
// the idle window.
type Reaper struct {
	store      store.Store
	idleWindow time.Duration
	sched      *scheduler.Scheduler
}

// NewReaper creates a reaper over the given store. A non-positive
// idleWindow falls back to DefaultIdleWindow.
func NewReaper(st store.Store, idleWindow time.Duration) *Reaper {
	if idleWindow <= 0 {
		idleWindow = DefaultIdleWindow
	}
	return &Reaper{store: st, idleWindow: idleWindow}
}

// Start schedules the sweep every five minutes.
func (r *Reaper) Start() error {
	r.sched = scheduler.NewScheduler()
	if err := r.sched.AddJob("@every 5m", r.sweep); err != nil {
		r.sched.Stop()
		return err
	}
	slog.Info("Reaper.Start: idle-session reaper started", "idleWindow", r.idleWindow)
	return nil
}

// Stop halts the scheduler. Running sweeps finish.
func (r *Reaper) Stop() {
	if r.sched == nil {
		return
	}
	r.sched.Stop()
	slog.Info("Reaper.Stop: idle-session reaper stopped")
}

// Sweep runs one reclamation pass immediately. Exposed for tests and for
// an eager pass at startup.
func (r *Reaper) Sweep() {
	r.sweep()
}

func (r *Reaper) sweep() {
	cutoff := time.Now().Add(-r.idleWindow)
	ids, err := r.store.ListIdleSessionIDs(cutoff)
	if err != nil {
		slog.Error("Reaper.sweep: failed to list idle sessions", "error", err)
		return
	}
	if len(ids) == 0 {
		return
	}

	reclaimed := 0
	for _, id := range ids {
		if err := r.store.DeleteSession(id); err != nil {
			slog.Warn("Reaper.sweep: failed to delete idle session", "sessionID", id, "error", err)
			continue
		}
		reclaimed++
	}
	slog.Info("Reaper.sweep: reclaimed idle sessions", "reclaimed", reclaimed, "candidates", len(ids))
}
