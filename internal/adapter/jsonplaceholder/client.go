package jsonplaceholder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

var (
	baseURL = "https://jsonplaceholder.typicode.com"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     zerolog.Logger
}

func NewClient(base string, timeout time.Duration, logger zerolog.Logger) *Client {
	if base == "" {
		base = baseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    base,
		logger:     logger,
	}
}

func (c *Client) logRequest(req *http.Request) {
	if c.logger.GetLevel() > zerolog.DebugLevel {
		return
	}
	dump, _ := httputil.DumpRequestOut(req, false)
	c.logger.Debug().Str("request", string(dump)).Msg("upstream request")
}

func (c *Client) logResponse(resp *http.Response, body []byte) {
	c.logger.Debug().
		Str("status", resp.Status).
		Int("bytes", len(body)).
		Msg("upstream response")
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
}

func (c *Client) doRequest(ctx context.Context, method, urlStr string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, urlStr, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	c.logRequest(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	c.logResponse(resp, body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return body, nil
}

// GetUsers lists users. limit <= 0 asks for all of them.
func (c *Client) GetUsers(ctx context.Context, limit int) ([]userResponse, error) {
	u, err := url.Parse(c.baseURL + "/users")
	if err != nil {
		return nil, err
	}
	if limit > 0 {
		q := u.Query()
		q.Set("_limit", strconv.Itoa(limit))
		u.RawQuery = q.Encode()
	}

	body, err := c.doRequest(ctx, http.MethodGet, u.String())
	if err != nil {
		return nil, err
	}

	var result []userResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if result == nil {
		return nil, fmt.Errorf("%w: body is not a JSON array", ErrMalformedPayload)
	}
	return result, nil
}
