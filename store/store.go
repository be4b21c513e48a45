// Package store connects to the local data store holding the session
// record and the device identity.
package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/gsbellu/mindfulday/internal/models"
)

var pathToDB string

var errAlreadyRunning = errors.New(
	"is MindfulDay already running? Only one instance can be active at a time",
)

var (
	stateBucket  = []byte("state")
	deviceBucket = []byte("device")
	stateKey     = []byte("session")
	deviceKey    = []byte("id")
)

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
}

func (c *Client) SaveState(s *models.SessionState) error {
	value, err := json.Marshal(s)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(stateBucket).Put(stateKey, value)
	})
}

func (c *Client) State() (*models.SessionState, error) {
	var state *models.SessionState

	err := c.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(stateBucket).Get(stateKey)
		if len(b) == 0 {
			return nil
		}

		var s models.SessionState

		if uerr := json.Unmarshal(b, &s); uerr != nil {
			// a corrupt record is recovered from by starting over
			slog.Warn(
				"discarding malformed session record",
				slog.Any("error", uerr),
			)

			return nil
		}

		state = &s

		return nil
	})

	return state, err
}

func (c *Client) DeviceID() (string, error) {
	var id string

	err := c.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(deviceBucket)

		existing := b.Get(deviceKey)
		if len(existing) > 0 {
			id = string(existing)
			return nil
		}

		id = uuid.NewString()

		return b.Put(deviceKey, []byte(id))
	})

	return id, err
}

func (c *Client) Open() error {
	db, err := openDB(pathToDB)
	if err != nil {
		return err
	}

	*c = Client{
		db,
	}

	return nil
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		// a held file lock surfaces as a timeout after Options.Timeout
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, errAlreadyRunning
		}

		return nil, err
	}

	return db, nil
}

// NewClient returns a wrapper to a BoltDB connection.
func NewClient(dbPath string) (*Client, error) {
	pathToDB = dbPath

	db, err := openDB(pathToDB)
	if err != nil {
		return nil, err
	}
	// Create the necessary buckets for storing data if they do not exist already
	err = db.Update(func(tx *bolt.Tx) error {
		_, err = tx.CreateBucketIfNotExists(stateBucket)
		if err != nil {
			return err
		}

		_, err = tx.CreateBucketIfNotExists(deviceBucket)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		db,
	}, nil
}
