// Package remote reads and writes the shared session record. The
// record is a single JSON document at a fixed path; it is always read
// and written whole, never patched, so devices cannot observe a torn
// state.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gsbellu/mindfulday/internal/models"
)

const (
	requestTimeout = 10 * time.Second
	retryDelay     = 5 * time.Second
)

// Remote is the shared-record interface. It exists so the last-write-
// wins policy can later be swapped for a stronger merge without
// touching the state machine.
type Remote interface {
	// Load fetches the current record, or nil if none exists.
	Load(ctx context.Context) (*models.SessionState, error)
	// Save overwrites the record with the given state.
	Save(ctx context.Context, s *models.SessionState) error
	// Subscribe streams record snapshots as other devices write them.
	// The channel is closed when ctx is cancelled.
	Subscribe(ctx context.Context) (<-chan *models.SessionState, error)
}

// HTTPRemote talks to a Realtime-Database-style REST backend: GET and
// PUT of <base><path>.json, and a text/event-stream subscription that
// delivers a `put` event for every write to the document.
type HTTPRemote struct {
	client  *http.Client
	baseURL string
	path    string
}

// NewHTTP creates a remote client for the record at baseURL + path.
func NewHTTP(baseURL, path string) *HTTPRemote {
	return &HTTPRemote{
		client:  &http.Client{Timeout: requestTimeout},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		path:    path,
	}
}

func (r *HTTPRemote) url() string {
	return fmt.Sprintf("%s%s.json", r.baseURL, r.path)
}

func (r *HTTPRemote) Load(ctx context.Context) (*models.SessionState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote load: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return decodeState(body)
}

func (r *HTTPRemote) Save(ctx context.Context, s *models.SessionState) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPut,
		r.url(),
		bytes.NewReader(payload),
	)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("remote save: unexpected status %s", resp.Status)
	}

	return nil
}

// decodeState parses a record body. The backend serves the JSON null
// literal for an absent document.
func decodeState(body []byte) (*models.SessionState, error) {
	if len(bytes.TrimSpace(body)) == 0 ||
		bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil, nil
	}

	var s models.SessionState

	err := json.Unmarshal(body, &s)
	if err != nil {
		return nil, fmt.Errorf("decoding remote record: %w", err)
	}

	return &s, nil
}
