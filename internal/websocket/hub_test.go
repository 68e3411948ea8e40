package websocket

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"timetrack-be/internal/model"

	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// Fabricated client: registry and enqueue paths never touch the conn.
func newFakeClient(h *Hub, userID uuid.UUID) *Client {
	return NewClient(h, nil, userID)
}

func newTestHub() *Hub {
	return NewHub(nil, nopLogger{})
}

func TestRegisterLastWins(t *testing.T) {
	h := newTestHub()
	userID := uuid.New()

	a := newFakeClient(h, userID)
	b := newFakeClient(h, userID)

	h.Register(a)
	h.Register(b)

	got, ok := h.Lookup(userID)
	if !ok {
		t.Fatal("Lookup() found nothing after two registrations")
	}
	if got != b {
		t.Error("Lookup() returned the superseded handle, want the latest")
	}
}

func TestUnregisterStaleHandleIsNoop(t *testing.T) {
	h := newTestHub()
	userID := uuid.New()

	a := newFakeClient(h, userID)
	b := newFakeClient(h, userID)

	h.Register(a)
	h.Register(b)

	// The stale connection closes late; it must not blow away b.
	h.Unregister(a)

	got, ok := h.Lookup(userID)
	if !ok || got != b {
		t.Fatal("stale Unregister removed the current registration")
	}

	h.Unregister(b)
	if _, ok := h.Lookup(userID); ok {
		t.Error("Lookup() still finds a handle after current Unregister")
	}
}

func TestUnregisterAbsentUser(t *testing.T) {
	h := newTestHub()
	c := newFakeClient(h, uuid.New())
	// Must tolerate close events for never-registered connections.
	h.Unregister(c)
}

func TestRegisterUnregisterInterleavings(t *testing.T) {
	// For any sequence, Lookup returns the handle from the last Register not
	// followed by an Unregister of that exact handle.
	h := newTestHub()
	userID := uuid.New()

	a := newFakeClient(h, userID)
	b := newFakeClient(h, userID)
	c := newFakeClient(h, userID)

	h.Register(a)
	h.Unregister(a)
	h.Register(b)
	h.Register(c)
	h.Unregister(b) // stale
	h.Unregister(a) // stale

	got, ok := h.Lookup(userID)
	if !ok || got != c {
		t.Fatalf("Lookup() = %v, %v; want the last registered handle", got, ok)
	}
}

func TestSendDeliversOneFrame(t *testing.T) {
	h := newTestHub()
	userID := uuid.New()
	client := newFakeClient(h, userID)
	h.Register(client)

	notif := model.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      model.NotificationApproval,
		Message:   "entry approved",
		CreatedAt: time.Now(),
	}
	h.Send(userID, notif)

	select {
	case frame := <-client.send:
		var got model.Notification
		if err := json.Unmarshal(frame, &got); err != nil {
			t.Fatalf("frame is not valid JSON: %v", err)
		}
		if got.ID != notif.ID || got.Type != notif.Type || got.Message != notif.Message || got.Read {
			t.Errorf("frame = %+v, want fields of %+v", got, notif)
		}
	default:
		t.Fatal("no frame enqueued for an open registered channel")
	}

	// Exactly one frame.
	select {
	case <-client.send:
		t.Fatal("more than one frame enqueued for a single Send")
	default:
	}
}

type recordLogger struct {
	nopLogger
	warns []map[string]interface{}
}

func (l *recordLogger) Warn(module, message string, details map[string]interface{}) {
	l.warns = append(l.warns, details)
}

func TestSendToBackedUpChannelLogsChannelError(t *testing.T) {
	log := &recordLogger{}
	h := NewHub(nil, log)
	userID := uuid.New()
	client := newFakeClient(h, userID)
	h.Register(client)

	// No write pump draining in this test, so the buffer can be saturated.
	for i := 0; i < cap(client.send); i++ {
		if !client.enqueue([]byte("x")) {
			t.Fatalf("enqueue failed while filling buffer at %d", i)
		}
	}

	h.Send(userID, model.Notification{ID: uuid.New(), UserID: userID, Type: "APPROVAL", Message: "m"})

	if len(log.warns) != 1 {
		t.Fatalf("warn count = %d, want 1", len(log.warns))
	}
	errText, _ := log.warns[0]["error"].(string)
	if !strings.Contains(errText, "channel: push to user "+userID.String()) {
		t.Errorf("logged error = %q, want a channel push error for the user", errText)
	}
}

func TestSendToClosedChannelIsSwallowed(t *testing.T) {
	h := newTestHub()
	userID := uuid.New()
	client := newFakeClient(h, userID)
	h.Register(client)
	client.shutdown()

	// Must not panic and must not surface an error.
	h.Send(userID, model.Notification{ID: uuid.New(), UserID: userID, Type: "APPROVAL", Message: "m"})
}

func TestSendWithoutRegistration(t *testing.T) {
	h := newTestHub()
	h.Send(uuid.New(), model.Notification{ID: uuid.New(), Type: "APPROVAL", Message: "m"})
}
