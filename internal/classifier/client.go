// Package classifier provides the HTTP client for the remote sentiment
// classification service.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/f3rmion/senti/internal/sentiment"
)

const (
	// DefaultEndpoint is the public sentiment API.
	DefaultEndpoint = "https://sentiment-tech-api.onrender.com/api/v1/sentiment"
	DefaultTimeout  = 30 * time.Second

	maxResponseBytes = 1 << 20
)

// Client talks to the sentiment classification service.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// request is the body sent to the service.
type request struct {
	Text string `json:"text"`
}

// response is the envelope returned by the service.
type response struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Data    *struct {
		Prevision    string   `json:"prevision"`
		Probabilidad *float64 `json:"probabilidad"`
	} `json:"data"`
}

// TransportError reports a failure to reach the service or to understand its
// response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// ApplicationError reports a response the service marked as failed.
type ApplicationError struct {
	Status  int
	Message string
}

func (e *ApplicationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Error %d", e.Status)
}

// NewClient creates a client for endpoint. A zero timeout uses DefaultTimeout.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Endpoint returns the URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Classify sends text to the service and returns its classification.
// Errors are either *TransportError or *ApplicationError.
func (c *Client) Classify(ctx context.Context, text string) (sentiment.Result, error) {
	body, err := json.Marshal(request{Text: text})
	if err != nil {
		return sentiment.Result{}, &TransportError{Op: "marshaling request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return sentiment.Result{}, &TransportError{Op: "creating request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return sentiment.Result{}, &TransportError{Op: "making request", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return sentiment.Result{}, &TransportError{Op: "reading response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiResp response
		// The failure body is optional; a missing or invalid one falls back to the status.
		_ = json.Unmarshal(respBody, &apiResp)
		return sentiment.Result{}, &ApplicationError{
			Status:  resp.StatusCode,
			Message: strings.TrimSpace(apiResp.Message),
		}
	}

	var apiResp response
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return sentiment.Result{}, &TransportError{Op: "decoding response", Err: err}
	}

	if apiResp.Success != nil && !*apiResp.Success {
		return sentiment.Result{}, &ApplicationError{
			Status:  resp.StatusCode,
			Message: strings.TrimSpace(apiResp.Message),
		}
	}

	if apiResp.Data == nil || apiResp.Data.Probabilidad == nil {
		return sentiment.Result{}, &TransportError{Op: "decoding response", Err: errors.New("missing prediction data")}
	}

	p := *apiResp.Data.Probabilidad
	if p < 0 || p > 1 {
		return sentiment.Result{}, &TransportError{
			Op:  "decoding response",
			Err: fmt.Errorf("probability %v out of range", p),
		}
	}

	return sentiment.Result{
		Label:       apiResp.Data.Prevision,
		Probability: sentiment.Percent(p),
	}, nil
}
