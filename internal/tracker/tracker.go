package tracker

import (
	"context"
	"sync"
	"time"

	"timetrack-be/internal/model"
	"timetrack-be/internal/pkg/apperrors"

	"github.com/google/uuid"
)

// MinEntrySeconds is the shortest session that may be saved as a time entry.
const MinEntrySeconds = 60

type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseRunning Phase = "running"
	PhasePaused  Phase = "paused"

	// phaseStopping is held while a Stop is writing the entry. The mutex is
	// released around that write, so the transient phase is what keeps a
	// concurrent Start/Pause/Stop from acting on the finalizing session.
	phaseStopping Phase = "stopping"
)

// EntrySink persists a finalized session. Implemented by the tracker service
// on top of the time-entry repository.
type EntrySink interface {
	SaveEntry(ctx context.Context, userID, projectID uuid.UUID, start, end time.Time, elapsedSeconds int) (*model.TimeEntry, error)
}

// Status is a point-in-time snapshot of a session.
type Status struct {
	Phase          Phase
	ProjectID      uuid.UUID
	ElapsedSeconds int
	StartTime      time.Time
}

// Tracker is one user's timer session: Idle -> Running -> (Paused <-> Running)
// -> stopped. Elapsed time accrues one second per tick while Running and
// accumulates across pauses; only a Start from Idle resets it. All state is
// guarded by one mutex, and the tick goroutine checks the phase under that
// same mutex, so a tick racing a Pause can never accrue after the transition.
type Tracker struct {
	mu sync.Mutex

	userID    uuid.UUID
	phase     Phase
	projectID uuid.UUID
	startTime time.Time
	elapsed   int

	sink     EntrySink
	now      func() time.Time
	interval time.Duration
	stopTick chan struct{}
}

type Option func(*Tracker)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithTickInterval replaces the one-second accrual interval, for tests.
func WithTickInterval(d time.Duration) Option {
	return func(t *Tracker) { t.interval = d }
}

func New(userID uuid.UUID, sink EntrySink, opts ...Option) *Tracker {
	t := &Tracker{
		userID:   userID,
		phase:    PhaseIdle,
		sink:     sink,
		now:      time.Now,
		interval: time.Second,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start begins or resumes accrual. Valid from Idle (fresh start time, elapsed
// reset to zero) or Paused (start time and elapsed kept).
func (t *Tracker) Start(projectID uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.phase == PhaseRunning {
		return apperrors.NewValidationError("session already running")
	}
	if t.phase == phaseStopping {
		return apperrors.NewValidationError("session is being stopped")
	}
	if t.phase == PhaseIdle {
		if projectID == uuid.Nil {
			return apperrors.NewValidationError("no project selected")
		}
		t.projectID = projectID
		t.startTime = t.now()
		t.elapsed = 0
	}
	// Resuming from Paused keeps the original project; a non-nil projectID on
	// resume must match it.
	if t.phase == PhasePaused && projectID != uuid.Nil && projectID != t.projectID {
		return apperrors.NewValidationError("another project is already being tracked")
	}

	t.phase = PhaseRunning
	t.startTicker()
	return nil
}

// Pause stops accrual without finalizing. No time entry is created.
func (t *Tracker) Pause() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.phase != PhaseRunning {
		return apperrors.NewValidationError("no running session")
	}

	t.stopTicker()
	t.phase = PhasePaused
	return nil
}

// Stop finalizes the session into a time entry. If the sink fails, the
// session rolls back to Running so no tracked time is lost; the caller sees
// the error and may retry.
func (t *Tracker) Stop(ctx context.Context) (*model.TimeEntry, error) {
	t.mu.Lock()

	if t.phase == PhaseIdle {
		t.mu.Unlock()
		return nil, apperrors.NewValidationError("no active session")
	}
	if t.phase == phaseStopping {
		t.mu.Unlock()
		return nil, apperrors.NewValidationError("session is being stopped")
	}
	if t.elapsed < MinEntrySeconds {
		t.mu.Unlock()
		return nil, apperrors.NewValidationError("minimum duration not met")
	}

	t.stopTicker()
	end := t.now()
	userID, projectID, start, elapsed := t.userID, t.projectID, t.startTime, t.elapsed
	t.phase = phaseStopping
	t.mu.Unlock()

	// The sink call runs outside the lock: it may block on the database, and
	// ticks are already stopped.
	entry, err := t.sink.SaveEntry(ctx, userID, projectID, start, end, elapsed)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		// A Discard that ran during the sink call already reset the session;
		// only roll back if the stop is still the one in charge.
		if t.phase == phaseStopping {
			t.phase = PhaseRunning
			t.startTicker()
		}
		return nil, apperrors.NewStorageError("save time entry", err)
	}

	if t.phase == phaseStopping {
		t.phase = PhaseIdle
		t.projectID = uuid.Nil
		t.startTime = time.Time{}
		t.elapsed = 0
	}
	return entry, nil
}

// Discard tears the session down without persisting anything. Safe to call in
// any phase, any number of times.
func (t *Tracker) Discard() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopTicker()
	t.phase = PhaseIdle
	t.projectID = uuid.Nil
	t.startTime = time.Time{}
	t.elapsed = 0
}

func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	return Status{
		Phase:          t.phase,
		ProjectID:      t.projectID,
		ElapsedSeconds: t.elapsed,
		StartTime:      t.startTime,
	}
}

// tick adds one second of elapsed time. A late tick delivered after the phase
// left Running is dropped here.
func (t *Tracker) tick() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.phase == PhaseRunning {
		t.elapsed++
	}
}

// startTicker launches the accrual goroutine. Caller must hold t.mu.
func (t *Tracker) startTicker() {
	if t.stopTick != nil {
		return
	}
	stop := make(chan struct{})
	t.stopTick = stop

	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				t.tick()
			case <-stop:
				return
			}
		}
	}()
}

// stopTicker cancels the accrual goroutine. Caller must hold t.mu.
func (t *Tracker) stopTicker() {
	if t.stopTick == nil {
		return
	}
	close(t.stopTick)
	t.stopTick = nil
}
