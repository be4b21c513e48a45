package store

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	bolt "go.etcd.io/bbolt"

	"github.com/google/go-cmp/cmp"

	"github.com/gsbellu/mindfulday/internal/models"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	c, err := NewClient(filepath.Join(t.TempDir(), "mindfulday_test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	t.Cleanup(func() {
		_ = c.Close()
	})

	return c
}

func TestStateRoundTrip(t *testing.T) {
	c := newTestClient(t)

	want := &models.SessionState{
		CurrentActivityID:        "work",
		CurrentActivityStartTime: 5000,
		DayStartTime:             1000,
		IsDayStarted:             true,
		History: []models.HistoryEntry{
			{ActivityID: "wakeup", StartTime: 1000, EndTime: 5000, Duration: 4000},
		},
		Yesterday: &models.DaySnapshot{
			DayStartTime: 100,
			History: []models.HistoryEntry{
				{ActivityID: "work", StartTime: 100, EndTime: 400, Duration: 300},
			},
		},
		LastUpdatedBy: "device-a",
	}

	err := c.SaveState(want)
	if err != nil {
		t.Fatalf("saving state: %v", err)
	}

	got, err := c.State()
	if err != nil {
		t.Fatalf("loading state: %v", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestStateMissingReturnsNil(t *testing.T) {
	c := newTestClient(t)

	got, err := c.State()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != nil {
		t.Errorf("expected nil for a fresh store, got %+v", got)
	}
}

func TestStateCorruptRecordTreatedAsMissing(t *testing.T) {
	c := newTestClient(t)

	err := c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(stateBucket).Put(stateKey, []byte("{truncated"))
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := c.State()
	if err != nil {
		t.Fatalf("corrupt records should not error: %v", err)
	}

	if got != nil {
		t.Errorf("corrupt records should read as missing, got %+v", got)
	}
}

func TestSaveStateOverwrites(t *testing.T) {
	c := newTestClient(t)

	first := &models.SessionState{
		CurrentActivityID:        "work",
		CurrentActivityStartTime: 100,
		History:                  []models.HistoryEntry{},
	}

	second := &models.SessionState{
		CurrentActivityID:        "lunch",
		CurrentActivityStartTime: 700,
		History:                  []models.HistoryEntry{},
	}

	if err := c.SaveState(first); err != nil {
		t.Fatal(err)
	}

	if err := c.SaveState(second); err != nil {
		t.Fatal(err)
	}

	got, err := c.State()
	if err != nil {
		t.Fatal(err)
	}

	if got.CurrentActivityID != "lunch" {
		t.Errorf("expected the record to be overwritten whole, got %+v", got)
	}
}

func TestOpenWhileLocked(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "mindfulday_test.db")

	c, err := NewClient(dbPath)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	defer c.Close()

	_, err = NewClient(dbPath)
	if !errors.Is(err, errAlreadyRunning) {
		t.Errorf("a second open on a locked database should report "+
			"errAlreadyRunning, got %v", err)
	}
}

func TestDeviceIDStable(t *testing.T) {
	c := newTestClient(t)

	first, err := c.DeviceID()
	if err != nil {
		t.Fatalf("generating device id: %v", err)
	}

	if first == "" {
		t.Fatal("device id should not be empty")
	}

	second, err := c.DeviceID()
	if err != nil {
		t.Fatal(err)
	}

	if first != second {
		t.Errorf("device id must be stable: %q then %q", first, second)
	}
}

func TestSavedStateIsValidJSON(t *testing.T) {
	c := newTestClient(t)

	err := c.SaveState(models.NewSessionState())
	if err != nil {
		t.Fatal(err)
	}

	err = c.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(stateBucket).Get(stateKey)

		var decoded map[string]any

		return json.Unmarshal(raw, &decoded)
	})
	if err != nil {
		t.Errorf("stored record should be plain JSON: %v", err)
	}
}
