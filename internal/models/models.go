// Package models defines the persisted data model shared by the local
// store and the remote record. Field names and the epoch-millisecond
// instants match the wire format written by other clients of the same
// document, so they must not change.
package models

// ActivityDef describes one activity button. Definitions are owned by
// the catalog and are read-only from the tracker's perspective.
type ActivityDef struct {
	ID                    string `json:"id"`
	Label                 string `json:"label"`
	Icon                  string `json:"icon"`
	TargetDurationMinutes int    `json:"targetDurationMinutes,omitempty"`
}

// HistoryEntry is one completed activity span. It is created exactly
// once, when the activity is superseded, and never modified afterwards.
type HistoryEntry struct {
	ActivityID string `json:"activityId"`
	StartTime  int64  `json:"startTime"`
	EndTime    int64  `json:"endTime"`
	Duration   int64  `json:"duration"`
}

// DaySnapshot is a frozen copy of a finished day, replaced wholesale on
// each day rotation.
type DaySnapshot struct {
	DayStartTime int64          `json:"dayStartTime"`
	History      []HistoryEntry `json:"history"`
}

// SessionState is the single mutable record of what is happening right
// now. A zero instant or empty string means "not set".
//
// Invariants:
//   - CurrentActivityID is set iff CurrentActivityStartTime is set.
//   - If IsDayStarted is false, DayStartTime is zero.
//   - History never contains an entry for CurrentActivityID's running
//     span; that entry is materialized only when the activity ends.
type SessionState struct {
	CurrentActivityID        string         `json:"currentActivityId,omitempty"`
	CurrentActivityStartTime int64          `json:"currentActivityStartTime,omitempty"`
	DayStartTime             int64          `json:"dayStartTime,omitempty"`
	IsDayStarted             bool           `json:"isDayStarted"`
	History                  []HistoryEntry `json:"history"`
	Yesterday                *DaySnapshot   `json:"yesterday,omitempty"`
	LastUpdatedBy            string         `json:"lastUpdatedBy,omitempty"`
}

// NewSessionState returns the default state for a fresh device.
func NewSessionState() *SessionState {
	return &SessionState{
		History: []HistoryEntry{},
	}
}

// Clone returns a deep copy of the state. The adapter hands copies to
// goroutines performing remote writes so the event loop can keep
// mutating the original.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}

	clone := *s

	clone.History = append([]HistoryEntry{}, s.History...)

	if s.Yesterday != nil {
		y := *s.Yesterday
		y.History = append([]HistoryEntry{}, s.Yesterday.History...)
		clone.Yesterday = &y
	}

	return &clone
}

// Running reports whether an activity is currently being timed.
func (s *SessionState) Running() bool {
	return s.CurrentActivityID != ""
}

// CurrentElapsed returns the in-progress span's elapsed milliseconds,
// or zero when no activity is running.
func (s *SessionState) CurrentElapsed(now int64) int64 {
	if !s.Running() {
		return 0
	}

	return now - s.CurrentActivityStartTime
}

// DayElapsed returns the elapsed milliseconds since the day began, or
// zero when the day has not started.
func (s *SessionState) DayElapsed(now int64) int64 {
	if !s.IsDayStarted || s.DayStartTime == 0 {
		return 0
	}

	return now - s.DayStartTime
}
