package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"booklib/pkg/circuitbreaker"
)

// Client talks to the remote library service. Authorized calls pass
// Authorization: Bearer <token>; the token source is consulted per request
// so a login or logout in the same process takes effect immediately.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	token      func() string
}

// NewClient builds a client for the service at baseURL. token may be nil
// for unauthenticated use.
func NewClient(baseURL string, token func() string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		breaker: circuitbreaker.New(3, 30*time.Second),
		token:   token,
	}
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// do issues one request and decodes the answer into out (when non-nil).
// Transport failures and 5xx answers count against the circuit breaker;
// 4xx answers are the server talking to us and do not.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = bytes.NewBuffer(data)
	}

	var status int
	var respBody []byte

	err := c.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, method, target, payload)
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Request-Id", uuid.New().String())
		if c.token != nil {
			if token := c.token(); token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		respBody, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		status = resp.StatusCode
		if status >= http.StatusInternalServerError {
			return c.asAPIError(status, respBody)
		}
		return nil
	}, nil)
	if err != nil {
		return err
	}

	if status >= http.StatusBadRequest {
		return c.asAPIError(status, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode the response: %w", err)
		}
	}
	return nil
}

func (c *Client) asAPIError(status int, body []byte) *APIError {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)
	message := eb.Message
	if message == "" {
		message = eb.Error
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return &APIError{Status: status, Code: eb.Code, Message: message}
}
