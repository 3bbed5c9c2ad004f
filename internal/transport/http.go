// Package transport executes HTTP requests against the LINE servers.
// Album calls go through Do, which speaks JSON; RPC calls go through Post,
// which moves opaque bytes.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/vicentereig/line-cli/internal/types"
)

// maxErrorBody caps how much of a failed response is kept on StatusError.
const maxErrorBody = 4096

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

type Client struct {
	httpClient *http.Client
	logger     zerolog.Logger
}

func New(timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("component", "transport").Logger(),
	}
}

// NewForTesting creates a Client that sends everything through rt.
func NewForTesting(rt http.RoundTripper, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Transport: rt},
		logger:     logger,
	}
}

// Do performs req and returns the decoded JSON reply. Numbers decode as
// json.Number so large ids survive intact.
func (c *Client) Do(ctx context.Context, req types.Request) (any, error) {
	target := req.URL
	if len(req.Query) > 0 {
		q, err := EncodeQuery(req.Query)
		if err != nil {
			return nil, err
		}
		if encoded := q.Encode(); encoded != "" {
			target += "?" + encoded
		}
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")

	raw, err := c.roundTrip(httpReq)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode %s %s response: %w", req.Method, req.URL, err)
	}
	return out, nil
}

// Post sends body to target and returns the raw reply bytes.
func (c *Client) Post(ctx context.Context, target string, headers types.Headers, body []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}
	return c.roundTrip(httpReq)
}

func (c *Client) roundTrip(req *http.Request) ([]byte, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("method", req.Method).Str("url", req.URL.Redacted()).Msg("request failed")
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.Redacted()).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(raw) > maxErrorBody {
			raw = raw[:maxErrorBody]
		}
		c.logger.Warn().Str("method", req.Method).Str("url", req.URL.Redacted()).Int("status", resp.StatusCode).Msg("unexpected status")
		return nil, &StatusError{
			Method:     req.Method,
			URL:        req.URL.Redacted(),
			StatusCode: resp.StatusCode,
			Body:       raw,
		}
	}
	return raw, nil
}

// EncodeQuery turns params into url.Values. Nil values are left out of the
// query string.
func EncodeQuery(params types.Params) (url.Values, error) {
	q := url.Values{}
	for k, v := range params {
		s, ok, err := queryValue(v)
		if err != nil {
			return nil, fmt.Errorf("query parameter %s: %w", k, err)
		}
		if ok {
			q.Set(k, s)
		}
	}
	return q, nil
}

func queryValue(v any) (string, bool, error) {
	switch x := v.(type) {
	case nil:
		return "", false, nil
	case *string:
		if x == nil {
			return "", false, nil
		}
		return *x, true, nil
	case string:
		return x, true, nil
	case bool:
		return strconv.FormatBool(x), true, nil
	case int:
		return strconv.Itoa(x), true, nil
	case int64:
		return strconv.FormatInt(x, 10), true, nil
	case fmt.Stringer:
		return x.String(), true, nil
	}
	// Named string types such as types.OrderBy.
	if s, ok := stringKind(v); ok {
		return s, true, nil
	}
	return "", false, fmt.Errorf("unsupported value type %T", v)
}

func stringKind(v any) (string, bool) {
	switch x := v.(type) {
	case types.OrderBy:
		return string(x), true
	case types.FilterType:
		return string(x), true
	case types.ViewType:
		return string(x), true
	case types.LikeType:
		return string(x), true
	case types.ReferrerType:
		return string(x), true
	}
	return "", false
}
