package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore wd: %v", err)
		}
	})
}

func TestHandleMessageAppendsAuditLine(t *testing.T) {
	chdirTemp(t)

	ev := BookingEvent{
		EventID:    "e-1",
		Type:       EventBookingCreated,
		BookingID:  42,
		UserID:     7,
		RoomID:     3,
		Date:       "2025-07-01",
		StartTime:  "09:00:00",
		EndTime:    "10:00:00",
		OccurredAt: "2025-06-30T12:00:00Z",
	}
	body, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if err := handleMessage(body); err != nil {
		t.Fatalf("handleMessage: %v", err)
	}

	data, err := os.ReadFile(filepath.Join("logs", "booking.log"))
	if err != nil {
		t.Fatalf("read audit log: %v", err)
	}
	line := string(data)
	for _, want := range []string{EventBookingCreated, "booking_id=42", "user_id=7", "slot=09:00:00-10:00:00"} {
		if !strings.Contains(line, want) {
			t.Errorf("audit line %q missing %q", line, want)
		}
	}

	// A second event appends rather than truncates.
	ev.Type = EventBookingCancelled
	body, _ = json.Marshal(ev)
	if err := handleMessage(body); err != nil {
		t.Fatalf("handleMessage second event: %v", err)
	}
	data, _ = os.ReadFile(filepath.Join("logs", "booking.log"))
	if got := strings.Count(string(data), "\n"); got != 2 {
		t.Errorf("audit log has %d lines, want 2", got)
	}
}

func TestHandleMessageRejectsMalformedPayload(t *testing.T) {
	chdirTemp(t)

	if err := handleMessage([]byte("{")); err == nil {
		t.Error("malformed payload must be rejected")
	}
}
