package updates

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Subscription is a stream of live updates for one job.
type Subscription interface {
	// Events returns the event stream. The channel closes when the
	// underlying transport ends, cleanly or not.
	Events() <-chan Event

	// Err reports the transport error that ended the stream, if any.
	Err() error

	// Close tears down the transport. Safe to call more than once.
	Close() error
}

// Client dials job-scoped update channels on the clip server.
type Client struct {
	baseURL string
	path    string
	dialer  *websocket.Dialer
	logger  *log.Logger
}

// NewClient creates an update channel client for the given server base URL.
//
// The http(s) scheme is rewritten to ws(s); path defaults to "/updates".
func NewClient(baseURL, path string, logger *log.Logger) *Client {
	if path == "" {
		path = "/updates"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		path:    "/" + strings.Trim(path, "/"),
		dialer:  websocket.DefaultDialer,
		logger:  logger,
	}
}

// Subscribe opens the update channel for one job.
//
// Events for any other job id sharing the channel are dropped here rather
// than in each consumer.
func (c *Client) Subscribe(ctx context.Context, jobID string) (Subscription, error) {
	wsURL, err := c.channelURL(jobID)
	if err != nil {
		return nil, err
	}

	conn, _, err := c.dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect update channel: %w", err)
	}

	sub := &wsSubscription{
		conn:   conn,
		jobID:  jobID,
		events: make(chan Event, 16),
		done:   make(chan struct{}),
		logger: c.logger,
	}
	go sub.readLoop()

	return sub, nil
}

func (c *Client) channelURL(jobID string) (string, error) {
	u, err := url.Parse(c.baseURL + c.path)
	if err != nil {
		return "", fmt.Errorf("invalid update channel URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported update channel scheme: %s", u.Scheme)
	}

	q := u.Query()
	q.Set("job_id", jobID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// wsSubscription reads frames off a websocket, filters by job id, and fans
// them into a buffered channel consumed by the UI event loop.
type wsSubscription struct {
	conn   *websocket.Conn
	jobID  string
	events chan Event
	done   chan struct{}
	logger *log.Logger

	mu     sync.Mutex
	err    error
	closed bool
}

func (s *wsSubscription) Events() <-chan Event { return s.events }

func (s *wsSubscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *wsSubscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.done)
	return s.conn.Close()
}

func (s *wsSubscription) readLoop() {
	defer close(s.events)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.mu.Lock()
			if !s.closed {
				s.err = err
			}
			s.mu.Unlock()
			return
		}

		ev, ok := parseEvent(data)
		if !ok {
			continue
		}
		if ev.JobID != "" && ev.JobID != s.jobID {
			if s.logger != nil {
				s.logger.Debug("dropping cross-job event", "job_id", ev.JobID)
			}
			continue
		}

		// Close must unblock this send when the consumer stopped draining.
		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}
