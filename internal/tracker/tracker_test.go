package tracker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"timetrack-be/internal/model"
	"timetrack-be/internal/pkg/apperrors"

	"github.com/google/uuid"
)

type fakeSink struct {
	failNext bool
	saved    []model.TimeEntry
}

func (s *fakeSink) SaveEntry(ctx context.Context, userID, projectID uuid.UUID, start, end time.Time, elapsedSeconds int) (*model.TimeEntry, error) {
	if s.failNext {
		s.failNext = false
		return nil, errors.New("connection refused")
	}
	entry := model.TimeEntry{
		Id:        uuid.New(),
		UserId:    userID,
		ProjectId: projectID,
		StartTime: start,
		EndTime:   &end,
	}
	s.saved = append(s.saved, entry)
	return &entry, nil
}

// newTestTracker returns a tracker whose background ticker never fires, so
// tests drive accrual through tick() deterministically.
func newTestTracker(sink EntrySink, now func() time.Time) *Tracker {
	opts := []Option{WithTickInterval(time.Hour)}
	if now != nil {
		opts = append(opts, WithClock(now))
	}
	return New(uuid.New(), sink, opts...)
}

func tickN(t *Tracker, n int) {
	for i := 0; i < n; i++ {
		t.tick()
	}
}

func TestStartValidation(t *testing.T) {
	tests := []struct {
		name      string
		projectID uuid.UUID
		wantErr   string
	}{
		{
			name:      "no project selected",
			projectID: uuid.Nil,
			wantErr:   "no project selected",
		},
		{
			name:      "valid project",
			projectID: uuid.New(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTracker(&fakeSink{}, nil)
			defer tr.Discard()

			err := tr.Start(tt.projectID)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Start() error = %v, want nil", err)
				}
				if got := tr.Status().Phase; got != PhaseRunning {
					t.Errorf("Phase = %v, want %v", got, PhaseRunning)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Fatalf("Start() error = %v, want %q", err, tt.wantErr)
			}
			if !apperrors.IsValidation(err) {
				t.Errorf("Start() error is not a ValidationError")
			}
			if got := tr.Status().Phase; got != PhaseIdle {
				t.Errorf("Phase after failed start = %v, want %v", got, PhaseIdle)
			}
		})
	}
}

func TestStartWhileRunning(t *testing.T) {
	tr := newTestTracker(&fakeSink{}, nil)
	defer tr.Discard()

	if err := tr.Start(uuid.New()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := tr.Start(uuid.New()); !apperrors.IsValidation(err) {
		t.Fatalf("second Start() error = %v, want ValidationError", err)
	}
}

func TestPauseResumeAccumulates(t *testing.T) {
	tr := newTestTracker(&fakeSink{}, nil)
	defer tr.Discard()

	projectID := uuid.New()
	if err := tr.Start(projectID); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	tickN(tr, 30)
	if err := tr.Pause(); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}

	// Ticks while paused must not accrue.
	tickN(tr, 10)
	if got := tr.Status().ElapsedSeconds; got != 30 {
		t.Fatalf("ElapsedSeconds while paused = %d, want 30", got)
	}

	if err := tr.Start(uuid.Nil); err != nil {
		t.Fatalf("resume Start() error = %v", err)
	}
	tickN(tr, 15)

	st := tr.Status()
	if st.ElapsedSeconds != 45 {
		t.Errorf("ElapsedSeconds after resume = %d, want 45", st.ElapsedSeconds)
	}
	if st.ProjectID != projectID {
		t.Errorf("ProjectID after resume = %v, want %v", st.ProjectID, projectID)
	}
}

func TestPauseFromIdle(t *testing.T) {
	tr := newTestTracker(&fakeSink{}, nil)
	if err := tr.Pause(); !apperrors.IsValidation(err) {
		t.Fatalf("Pause() from idle error = %v, want ValidationError", err)
	}
}

func TestStopMinimumDurationBoundary(t *testing.T) {
	tests := []struct {
		name    string
		ticks   int
		wantErr string
	}{
		{name: "59 seconds fails", ticks: 59, wantErr: "minimum duration not met"},
		{name: "60 seconds succeeds", ticks: 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &fakeSink{}
			tr := newTestTracker(sink, nil)
			defer tr.Discard()

			if err := tr.Start(uuid.New()); err != nil {
				t.Fatalf("Start() error = %v", err)
			}
			tickN(tr, tt.ticks)

			entry, err := tr.Stop(context.Background())
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("Stop() error = %v, want %q", err, tt.wantErr)
				}
				// The session stays running so nothing is lost.
				if got := tr.Status().Phase; got != PhaseRunning {
					t.Errorf("Phase after rejected stop = %v, want %v", got, PhaseRunning)
				}
				if got := tr.Status().ElapsedSeconds; got != tt.ticks {
					t.Errorf("ElapsedSeconds after rejected stop = %d, want %d", got, tt.ticks)
				}
				return
			}

			if err != nil {
				t.Fatalf("Stop() error = %v, want nil", err)
			}
			if entry == nil {
				t.Fatal("Stop() returned nil entry")
			}
			if len(sink.saved) != 1 {
				t.Fatalf("sink saved %d entries, want 1", len(sink.saved))
			}
			st := tr.Status()
			if st.Phase != PhaseIdle || st.ElapsedSeconds != 0 {
				t.Errorf("state after stop = %v/%d, want idle/0", st.Phase, st.ElapsedSeconds)
			}
		})
	}
}

func TestStopFromIdle(t *testing.T) {
	tr := newTestTracker(&fakeSink{}, nil)
	_, err := tr.Stop(context.Background())
	if err == nil || err.Error() != "no active session" {
		t.Fatalf("Stop() from idle error = %v, want %q", err, "no active session")
	}
}

func TestStopRollsBackOnStorageFailure(t *testing.T) {
	sink := &fakeSink{failNext: true}
	tr := newTestTracker(sink, nil)
	defer tr.Discard()

	if err := tr.Start(uuid.New()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	tickN(tr, 61)

	_, err := tr.Stop(context.Background())
	if !apperrors.IsStorage(err) {
		t.Fatalf("Stop() error = %v, want StorageError", err)
	}

	// Rolled back to Running and accrual continues from where it was.
	if got := tr.Status().Phase; got != PhaseRunning {
		t.Fatalf("Phase after failed save = %v, want %v", got, PhaseRunning)
	}
	tickN(tr, 2)
	if got := tr.Status().ElapsedSeconds; got != 63 {
		t.Errorf("ElapsedSeconds after failed save = %d, want 63", got)
	}

	// Retry succeeds and resets to Idle.
	entry, err := tr.Stop(context.Background())
	if err != nil {
		t.Fatalf("retry Stop() error = %v", err)
	}
	if entry == nil {
		t.Fatal("retry Stop() returned nil entry")
	}
	if got := tr.Status().Phase; got != PhaseIdle {
		t.Errorf("Phase after retry = %v, want %v", got, PhaseIdle)
	}
}

// blockingSink parks in SaveEntry until released, so tests can overlap other
// calls with an in-flight stop.
type blockingSink struct {
	entered chan struct{}
	release chan struct{}

	mu    sync.Mutex
	saved []model.TimeEntry
}

func newBlockingSink() *blockingSink {
	return &blockingSink{
		entered: make(chan struct{}, 2),
		release: make(chan struct{}),
	}
}

func (s *blockingSink) SaveEntry(ctx context.Context, userID, projectID uuid.UUID, start, end time.Time, elapsedSeconds int) (*model.TimeEntry, error) {
	s.entered <- struct{}{}
	<-s.release

	entry := model.TimeEntry{
		Id:        uuid.New(),
		UserId:    userID,
		ProjectId: projectID,
		StartTime: start,
		EndTime:   &end,
	}
	s.mu.Lock()
	s.saved = append(s.saved, entry)
	s.mu.Unlock()
	return &entry, nil
}

func (s *blockingSink) savedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

func TestStopConcurrentFinalizesOnce(t *testing.T) {
	sink := newBlockingSink()
	tr := newTestTracker(sink, nil)
	defer tr.Discard()

	if err := tr.Start(uuid.New()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	tickN(tr, 61)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func() {
			defer wg.Done()
			_, err := tr.Stop(context.Background())
			results <- err
		}()
	}

	// One stop reaches the sink; the loser must be rejected before the save
	// completes rather than queueing a second write.
	<-sink.entered
	close(sink.release)
	wg.Wait()
	close(results)

	var okCount, rejected int
	for err := range results {
		switch {
		case err == nil:
			okCount++
		case apperrors.IsValidation(err):
			rejected++
		default:
			t.Fatalf("Stop() error = %v, want nil or ValidationError", err)
		}
	}
	if okCount != 1 || rejected != 1 {
		t.Fatalf("stops = %d ok / %d rejected, want 1/1", okCount, rejected)
	}
	if got := sink.savedCount(); got != 1 {
		t.Fatalf("sink saved %d entries, want 1", got)
	}
	if got := tr.Status().Phase; got != PhaseIdle {
		t.Errorf("Phase after concurrent stops = %v, want %v", got, PhaseIdle)
	}
}

func TestStartRejectedWhileStopInFlight(t *testing.T) {
	sink := newBlockingSink()
	tr := newTestTracker(sink, nil)
	defer tr.Discard()

	if err := tr.Start(uuid.New()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	tickN(tr, 61)

	done := make(chan error, 1)
	go func() {
		_, err := tr.Stop(context.Background())
		done <- err
	}()
	<-sink.entered

	if err := tr.Start(uuid.New()); !apperrors.IsValidation(err) {
		t.Errorf("Start() during stop error = %v, want ValidationError", err)
	}
	if err := tr.Pause(); !apperrors.IsValidation(err) {
		t.Errorf("Pause() during stop error = %v, want ValidationError", err)
	}

	close(sink.release)
	if err := <-done; err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if got := sink.savedCount(); got != 1 {
		t.Fatalf("sink saved %d entries, want 1", got)
	}
}

func TestStopComputesEndFromClock(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	current := start
	clock := func() time.Time { return current }

	sink := &fakeSink{}
	tr := newTestTracker(sink, clock)
	defer tr.Discard()

	if err := tr.Start(uuid.New()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	tickN(tr, 61)
	current = start.Add(61 * time.Second)

	entry, err := tr.Stop(context.Background())
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if !entry.StartTime.Equal(start) {
		t.Errorf("StartTime = %v, want %v", entry.StartTime, start)
	}
	if got := entry.EndTime.Sub(entry.StartTime); got != 61*time.Second {
		t.Errorf("duration = %v, want 61s", got)
	}
}

func TestTickerStopsWhenLeavingRunning(t *testing.T) {
	// Real (fast) ticker: pause, then verify no accrual happens afterwards.
	tr := New(uuid.New(), &fakeSink{}, WithTickInterval(time.Millisecond))
	defer tr.Discard()

	if err := tr.Start(uuid.New()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if err := tr.Pause(); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}

	frozen := tr.Status().ElapsedSeconds
	time.Sleep(20 * time.Millisecond)
	if got := tr.Status().ElapsedSeconds; got != frozen {
		t.Errorf("ElapsedSeconds moved after pause: %d -> %d", frozen, got)
	}
}
