package remote

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gsbellu/mindfulday/internal/models"
)

// putEvent is the payload of a streamed `put` event: the path that
// changed relative to the subscribed document, and its new contents.
type putEvent struct {
	Path string          `json:"path"`
	Data json.RawMessage `json:"data"`
}

func (r *HTTPRemote) Subscribe(
	ctx context.Context,
) (<-chan *models.SessionState, error) {
	updates := make(chan *models.SessionState)

	go func() {
		defer close(updates)

		for {
			err := r.stream(ctx, updates)
			if err == nil || errors.Is(err, context.Canceled) {
				return
			}

			slog.Warn(
				"remote subscription dropped",
				slog.Any("error", err),
			)

			select {
			case <-ctx.Done():
				return
			case <-time.After(retryDelay):
			}
		}
	}()

	return updates, nil
}

// stream holds one event-stream connection open, delivering full-record
// snapshots until the connection drops or ctx is cancelled.
func (r *HTTPRemote) stream(
	ctx context.Context,
	updates chan<- *models.SessionState,
) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url(), nil)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "text/event-stream")

	// the subscription connection stays open indefinitely, so the
	// default client timeout cannot apply here
	client := &http.Client{}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	var (
		event string
		data  []string
	)

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case line == "":
			// blank line dispatches the buffered event; multi-line data
			// fields are concatenated per the event-stream format
			if len(data) > 0 {
				state, ok := r.decodeEvent(event, strings.Join(data, "\n"))
				if ok {
					select {
					case updates <- state:
					case <-ctx.Done():
						return ctx.Err()
					}
				}
			}

			event = ""
			data = data[:0]
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return errors.New("event stream closed by server")
}

// decodeEvent extracts a full-record snapshot from a stream event.
// Only root-level put events qualify: writers always overwrite the
// whole document, so partial paths and patch events are not expected
// and are skipped rather than merged.
func (r *HTTPRemote) decodeEvent(
	event, data string,
) (*models.SessionState, bool) {
	if event != "put" {
		return nil, false
	}

	var p putEvent

	err := json.Unmarshal([]byte(data), &p)
	if err != nil {
		slog.Warn("malformed stream event", slog.Any("error", err))
		return nil, false
	}

	if p.Path != "/" {
		slog.Debug("skipping non-root stream event", slog.String("path", p.Path))
		return nil, false
	}

	state, err := decodeState(p.Data)
	if err != nil {
		slog.Warn("malformed stream record", slog.Any("error", err))
		return nil, false
	}

	if state == nil {
		// record deleted remotely; nothing to apply
		return nil, false
	}

	return state, true
}
