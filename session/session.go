// Package session implements the activity-session state machine. All
// mutation of the session record funnels through Machine.Transition so
// the record's invariants stay checkable in one place.
package session

import (
	"github.com/gsbellu/mindfulday/internal/models"
)

// Event describes what a transition did. Callers use it for logging
// and notifications without re-deriving the outcome from state diffs.
type Event struct {
	// Closed is the history entry created for the previously running
	// activity, or nil if nothing was running.
	Closed *models.HistoryEntry
	// Rotated reports that the day was archived into yesterday.
	Rotated bool
	// DayStarted reports that this transition began day tracking,
	// either via the wake activity or implicitly on the first tap.
	DayStarted bool
}

// Machine owns the single mutable session record.
//
// Machine is not safe for concurrent use. The UI event loop serializes
// taps, timer ticks, and incoming remote snapshots, which matches the
// single-threaded model the record was designed under.
type Machine struct {
	wakeID string
	state  *models.SessionState
}

// New creates a state machine around an existing record. A nil state
// starts from the default empty record.
func New(wakeID string, state *models.SessionState) *Machine {
	if state == nil {
		state = models.NewSessionState()
	}

	normalize(state)

	return &Machine{
		wakeID: wakeID,
		state:  state,
	}
}

// State returns the live session record. Callers must treat it as
// read-only; mutations go through Transition or Replace.
func (m *Machine) State() *models.SessionState {
	return m.state
}

// WakeID returns the activity id that triggers a day rotation.
func (m *Machine) WakeID() string {
	return m.wakeID
}

// Replace swaps in a whole new record in one step, e.g. a snapshot
// delivered by the remote subscription. The record is never merged
// field by field, which rules out torn states such as a current
// activity id paired with a stale start time.
func (m *Machine) Replace(state *models.SessionState) {
	if state == nil {
		state = models.NewSessionState()
	}

	normalize(state)

	m.state = state
}

// Transition records that the user selected an activity at the given
// instant (epoch milliseconds). It closes the running span if any,
// rotates the day when the wake activity is selected, and starts the
// selected activity as current.
//
// Selecting the activity that is already current is not special-cased:
// the running span is closed and an identical one reopens at now,
// resetting its displayed timer. This mirrors the documented behavior
// of the record's other clients and must be preserved.
func (m *Machine) Transition(selectedID string, now int64) Event {
	var ev Event

	s := m.state

	if selectedID == m.wakeID {
		ev.Closed = m.closeCurrent(now)

		if s.IsDayStarted || len(s.History) > 0 {
			s.Yesterday = &models.DaySnapshot{
				DayStartTime: s.DayStartTime,
				History:      append([]models.HistoryEntry{}, s.History...),
			}
			ev.Rotated = true
		}

		s.History = []models.HistoryEntry{}
		s.IsDayStarted = true
		s.DayStartTime = now
		s.CurrentActivityID = m.wakeID
		s.CurrentActivityStartTime = now

		ev.DayStarted = true

		return ev
	}

	if !s.IsDayStarted {
		s.IsDayStarted = true
		s.DayStartTime = now
		ev.DayStarted = true
	}

	ev.Closed = m.closeCurrent(now)

	s.CurrentActivityID = selectedID
	s.CurrentActivityStartTime = now

	return ev
}

// closeCurrent materializes a history entry for the running activity,
// if any, using now as the span boundary.
func (m *Machine) closeCurrent(now int64) *models.HistoryEntry {
	s := m.state

	if !s.Running() {
		return nil
	}

	entry := models.HistoryEntry{
		ActivityID: s.CurrentActivityID,
		StartTime:  s.CurrentActivityStartTime,
		EndTime:    now,
		Duration:   now - s.CurrentActivityStartTime,
	}

	s.History = append(s.History, entry)

	s.CurrentActivityID = ""
	s.CurrentActivityStartTime = 0

	return &entry
}

// normalize repairs records arriving from storage or the remote store.
// Some backends strip empty arrays, so a missing history decodes as
// nil; the rest of the program relies on it being non-nil.
func normalize(s *models.SessionState) {
	if s.History == nil {
		s.History = []models.HistoryEntry{}
	}

	if s.Yesterday != nil && s.Yesterday.History == nil {
		s.Yesterday.History = []models.HistoryEntry{}
	}
}
