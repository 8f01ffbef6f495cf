package tfl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/travigo/crowding/pkg/ctdf"
)

const DefaultBaseURL = "https://api.tfl.gov.uk"

// TfL is protected by cloudflare and it gets angry when no user agent is set
const defaultUserAgent = "curl/7.54.1"

// Transport performs a single HTTP call, *http.Client satisfies it
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientConfig struct {
	BaseURL   string
	AppKey    string
	UserAgent string

	Transport Transport
	Policy    RetryPolicy
}

// Client talks to the TfL crowding API. It holds no per-request state and is safe for concurrent use.
type Client struct {
	baseURL   string
	appKey    string
	userAgent string

	transport Transport
	policy    RetryPolicy
}

func NewClient(config ClientConfig) *Client {
	client := &Client{
		baseURL:   config.BaseURL,
		appKey:    config.AppKey,
		userAgent: config.UserAgent,
		transport: config.Transport,
		policy:    config.Policy,
	}

	if client.baseURL == "" {
		client.baseURL = DefaultBaseURL
	}
	if client.userAgent == "" {
		client.userAgent = defaultUserAgent
	}
	if client.transport == nil {
		// Timeouts are applied per attempt through the request context
		client.transport = &http.Client{}
	}
	if client.policy == (RetryPolicy{}) {
		client.policy = DefaultRetryPolicy
	}
	if client.policy.Timeout <= 0 {
		client.policy.Timeout = DefaultRetryPolicy.Timeout
	}

	return client
}

func (c *Client) Policy() RetryPolicy {
	return c.policy
}

// FetchCrowding returns the live crowding body for a station on a line, retrying transient failures.
// The body is returned as received, any non-2xx response becomes an *UpstreamError.
func (c *Client) FetchCrowding(ctx context.Context, lineID string, stationID string, direction ctdf.Direction) (*ctdf.RawCrowdingRecord, error) {
	requestURL, displayURL, err := c.crowdingURL(lineID, stationID, direction)
	if err != nil {
		return nil, &UpstreamError{Kind: ErrorKindInvalidRequest, URL: displayURL, Err: err}
	}

	attempt := 0
	record, err := backoff.RetryNotifyWithData(
		func() (*ctdf.RawCrowdingRecord, error) {
			attempt++

			record, err := c.fetchOnce(ctx, requestURL, displayURL)
			if err != nil {
				var upstreamError *UpstreamError
				if errors.As(err, &upstreamError) && !upstreamError.Temporary() {
					return nil, backoff.Permanent(err)
				}
				return nil, err
			}

			return record, nil
		},
		c.policy.backOff(ctx),
		func(err error, wait time.Duration) {
			log.Warn().
				Err(err).
				Str("url", displayURL).
				Int("attempt", attempt).
				Dur("wait", wait).
				Msg("Retrying TfL crowding request")
		},
	)

	if err != nil {
		var upstreamError *UpstreamError
		if errors.As(err, &upstreamError) {
			return nil, upstreamError
		}

		// The callers context ended between attempts
		kind := ErrorKindOther
		if errors.Is(err, context.DeadlineExceeded) {
			kind = ErrorKindTimeout
		}
		return nil, &UpstreamError{Kind: kind, URL: displayURL, Err: err}
	}

	log.Debug().
		Str("url", displayURL).
		Int("attempts", attempt).
		Int("bytes", len(record.Body)).
		Msg("Fetched TfL crowding data")

	return record, nil
}

func (c *Client) fetchOnce(ctx context.Context, requestURL string, displayURL string) (*ctdf.RawCrowdingRecord, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.policy.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &UpstreamError{Kind: ErrorKindInvalidRequest, URL: displayURL, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.transport.Do(req)
	if err != nil {
		return nil, transportError(displayURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(displayURL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{
			Kind:       kindForStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			URL:        displayURL,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	return &ctdf.RawCrowdingRecord{
		Body:       body,
		URL:        displayURL,
		StatusCode: resp.StatusCode,
		FetchedAt:  time.Now(),
	}, nil
}

// crowdingURL returns the full request URL and a copy without the app key for logs and errors
func (c *Client) crowdingURL(lineID string, stationID string, direction ctdf.Direction) (string, string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", c.baseURL, fmt.Errorf("parsing base url: %w", err)
	}

	base = base.JoinPath("crowding", stationID, "Live")

	query := url.Values{}
	query.Set("line", lineID)
	query.Set("direction", string(direction))
	base.RawQuery = query.Encode()
	displayURL := base.String()

	if c.appKey != "" {
		query.Set("app_key", c.appKey)
	}
	base.RawQuery = query.Encode()

	return base.String(), displayURL, nil
}

func transportError(displayURL string, err error) *UpstreamError {
	kind := ErrorKindOther

	var netError net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netError) && netError.Timeout()) {
		kind = ErrorKindTimeout
	}

	return &UpstreamError{Kind: kind, URL: displayURL, Err: err}
}

func kindForStatus(statusCode int) ErrorKind {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return ErrorKindUnauthorized
	case statusCode == http.StatusTooManyRequests:
		return ErrorKindOther
	case statusCode >= 400 && statusCode < 500:
		return ErrorKindInvalidRequest
	default:
		return ErrorKindOther
	}
}
