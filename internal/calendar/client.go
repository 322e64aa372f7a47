package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	calv3 "google.golang.org/api/calendar/v3"

	"agendabot/internal/googleauth"
	"agendabot/internal/logging"
	"agendabot/internal/request"
)

const defaultBaseURL = "https://www.googleapis.com/calendar/v3"

const primaryEventsPath = "/calendars/primary/events"

// Client talks to the Calendar API for the primary calendar. Every call runs
// under a request.Policy; an expired-token 401 is refreshed and replayed once
// before the generic retry classification sees it.
type Client struct {
	creds   *googleauth.Store
	exec    *request.Executor
	http    *http.Client
	logger  *slog.Logger
	baseURL string
}

// NewClient creates a Client backed by creds for tokens and exec for retries.
func NewClient(creds *googleauth.Store, exec *request.Executor, logger *slog.Logger) *Client {
	return NewClientWithBaseURL(creds, exec, logger, defaultBaseURL)
}

// NewClientWithBaseURL is NewClient with a custom API base URL, for tests
// against a fake backend.
func NewClientWithBaseURL(creds *googleauth.Store, exec *request.Executor, logger *slog.Logger, baseURL string) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		creds:   creds,
		exec:    exec,
		http:    &http.Client{},
		logger:  logger,
		baseURL: baseURL,
	}
}

// ListDay fetches the events of day's UTC calendar date, expanded to single
// instances and ordered by start time.
func (c *Client) ListDay(ctx context.Context, policy request.Policy, day time.Time) ([]*calv3.Event, error) {
	dayUTC := day.UTC()
	min := time.Date(dayUTC.Year(), dayUTC.Month(), dayUTC.Day(), 0, 0, 0, 0, time.UTC)
	max := time.Date(dayUTC.Year(), dayUTC.Month(), dayUTC.Day(), 23, 59, 59, 0, time.UTC)

	q := url.Values{}
	q.Set("timeMin", min.Format(time.RFC3339))
	q.Set("timeMax", max.Format(time.RFC3339))
	q.Set("singleEvents", "true")
	q.Set("orderBy", "startTime")

	var result calv3.Events
	err := c.exec.Do(ctx, policy, func(ctx context.Context) error {
		return c.call(ctx, http.MethodGet, primaryEventsPath+"?"+q.Encode(), nil, &result)
	})
	if err != nil {
		return nil, err
	}
	c.logger.Debug("fetched events",
		logging.Operation("list_day"),
		slog.Int("count", len(result.Items)))
	return result.Items, nil
}

// CreateEvent inserts ev into the primary calendar and returns the created
// event as the server stored it.
func (c *Client) CreateEvent(ctx context.Context, policy request.Policy, ev *calv3.Event) (*calv3.Event, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encoding event: %w", err)
	}

	var created calv3.Event
	err = c.exec.Do(ctx, policy, func(ctx context.Context) error {
		return c.call(ctx, http.MethodPost, primaryEventsPath, body, &created)
	})
	if err != nil {
		return nil, err
	}
	c.logger.Info("created event",
		logging.Operation("create_event"),
		slog.String("event_id", created.Id))
	return &created, nil
}

// call performs one attempt: obtain a token, send the request, and on a 401
// refresh the token and replay exactly once. A failed refresh surfaces as an
// AuthError, which the retry loop never retries.
func (c *Client) call(ctx context.Context, method, path string, body []byte, out any) error {
	tok, err := c.creds.Obtain(ctx, false)
	if err != nil {
		return err
	}

	resp, err := c.send(ctx, method, path, body, tok.AccessToken)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		refreshed, rerr := c.creds.Refresh(ctx)
		if rerr != nil {
			return rerr
		}
		c.logger.Debug("token rejected, replaying after refresh",
			logging.Operation("token_replay"))
		resp, err = c.send(ctx, method, path, body, refreshed.AccessToken)
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &request.StatusError{
			Code:   resp.StatusCode,
			Status: resp.Status,
			Body:   strings.TrimSpace(string(detail)),
		}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding calendar response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body []byte, accessToken string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.http.Do(req)
}
