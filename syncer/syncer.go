// Package syncer implements the persistence and synchronization policy
// for the session record: a durable local copy, a shared remote record
// overwritten whole on every change, and last-write-wins reconciliation
// with device-id echo suppression.
package syncer

import (
	"context"
	"log/slog"
	"time"

	"github.com/gsbellu/mindfulday/internal/models"
	"github.com/gsbellu/mindfulday/remote"
	"github.com/gsbellu/mindfulday/session"
	"github.com/gsbellu/mindfulday/store"
)

const remoteWriteTimeout = 10 * time.Second

// Syncer wires the state machine to local storage and the remote
// record. A nil Remote disables sync; the tracker then runs
// local-only.
type Syncer struct {
	machine  *session.Machine
	db       store.DB
	remote   remote.Remote
	deviceID string
}

// New creates a sync adapter around the given machine.
func New(
	machine *session.Machine,
	db store.DB,
	rem remote.Remote,
	deviceID string,
) *Syncer {
	return &Syncer{
		machine:  machine,
		db:       db,
		remote:   rem,
		deviceID: deviceID,
	}
}

// DeviceID returns the local device identifier used to tag writes.
func (s *Syncer) DeviceID() string {
	return s.deviceID
}

// LoadLocal replaces the machine's state with the locally stored
// record, if one exists. This is the fast path at startup so the UI
// has something to show before the remote fetch completes.
func (s *Syncer) LoadLocal() {
	state, err := s.db.State()
	if err != nil {
		slog.Warn("loading local state", slog.Any("error", err))
		return
	}

	if state != nil {
		s.machine.Replace(state)
	}
}

// FetchRemote performs the one-shot startup fetch. A present remote
// record unconditionally replaces the local state, including any
// local-only changes made since LoadLocal; the remote copy is the
// source of truth.
func (s *Syncer) FetchRemote(ctx context.Context) error {
	if s.remote == nil {
		return nil
	}

	state, err := s.remote.Load(ctx)
	if err != nil {
		return err
	}

	if state != nil {
		s.machine.Replace(state)
	}

	return nil
}

// Apply processes a record delivered by the remote subscription. An
// update tagged with this device's own id is an echo of a prior write
// and is dropped; anything else replaces the local state wholesale.
// It reports whether the state changed.
func (s *Syncer) Apply(incoming *models.SessionState) bool {
	if incoming == nil {
		return false
	}

	if incoming.LastUpdatedBy == s.deviceID {
		return false
	}

	s.machine.Replace(incoming)

	return true
}

// Persist writes the current state locally and publishes it to the
// remote record. The local write is synchronous and best-effort; its
// error is returned for callers that want it but may be ignored. The
// remote write is initiated before returning and completes in the
// background, with failures logged and otherwise swallowed so a dead
// network never blocks activity logging.
func (s *Syncer) Persist() error {
	state := s.machine.State()
	state.LastUpdatedBy = s.deviceID

	err := s.db.SaveState(state)
	if err != nil {
		slog.Warn("saving local state", slog.Any("error", err))
	}

	if s.remote != nil {
		snapshot := state.Clone()

		go func() {
			ctx, cancel := context.WithTimeout(
				context.Background(),
				remoteWriteTimeout,
			)
			defer cancel()

			werr := s.remote.Save(ctx, snapshot)
			if werr != nil {
				slog.Warn("publishing remote state", slog.Any("error", werr))
			}
		}()
	}

	return err
}

// Subscribe exposes the remote change stream, or nil when sync is
// disabled. Callers pass received records to Apply.
func (s *Syncer) Subscribe(
	ctx context.Context,
) (<-chan *models.SessionState, error) {
	if s.remote == nil {
		return nil, nil
	}

	return s.remote.Subscribe(ctx)
}
