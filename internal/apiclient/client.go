// Package apiclient talks to the remote consultation service over JSON/HTTP.
package apiclient

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

	"github.com/rs/zerolog"

	"github.com/mrsinham/triagewizard/internal/intake"
)

// DefaultBaseURL is the public e-Likita consultation service.
const DefaultBaseURL = "https://e-likita-backend-eedl.onrender.com/api"

// IdempotencyHeader carries the session key on every write.
const IdempotencyHeader = "Idempotency-Key"

// Error is a non-2xx response from the service.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("apiclient: status %d", e.StatusCode)
	}
	return fmt.Sprintf("apiclient: status %d: %s", e.StatusCode, e.Message)
}

// Client implements intake.Service.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

var _ intake.Service = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("apiclient: invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("apiclient: unsupported scheme in base URL %q", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service root without trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

type patientResponse struct {
	Success bool           `json:"success"`
	Data    intake.Patient `json:"data"`
}

// CreatePatient registers p and returns it with its service identifier.
func (c *Client) CreatePatient(ctx context.Context, p intake.Patient) (intake.Patient, error) {
	var res patientResponse
	if err := c.do(ctx, http.MethodPost, "/patients", p, &res); err != nil {
		return intake.Patient{}, err
	}
	return res.Data, nil
}

// CreateConsultation records a consultation for an existing patient.
func (c *Client) CreateConsultation(ctx context.Context, req intake.ConsultationRequest) (intake.Consultation, error) {
	var res intake.Consultation
	if err := c.do(ctx, http.MethodPost, "/consultations", req, &res); err != nil {
		return intake.Consultation{}, err
	}
	return res, nil
}

// ConsultationSummary fetches the assessed consultation.
func (c *Client) ConsultationSummary(ctx context.Context, id string) (intake.Consultation, error) {
	if id == "" {
		return intake.Consultation{}, fmt.Errorf("apiclient: empty consultation id")
	}
	var res intake.Consultation
	path := "/consultations/" + url.PathEscape(id) + "/summary"
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return intake.Consultation{}, err
	}
	return res, nil
}

func (c *Client) do(ctx context.Context, method, path string, req, res any) error {
	var body io.Reader
	if req != nil {
		b := &bytes.Buffer{}
		if err := json.NewEncoder(b).Encode(req); err != nil {
			return fmt.Errorf("apiclient: encode %s: %w", path, err)
		}
		body = b
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if key := intake.IdempotencyKey(ctx); key != "" && method != http.MethodGet {
		httpReq.Header.Set(IdempotencyHeader, key)
	}

	start := time.Now()
	httpRes, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	defer httpRes.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", httpRes.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("request")

	if httpRes.StatusCode >= 200 && httpRes.StatusCode < 300 {
		if res == nil {
			return nil
		}
		if err := json.NewDecoder(httpRes.Body).Decode(res); err != nil {
			return fmt.Errorf("apiclient: decode %s: %w", path, err)
		}
		return nil
	}

	e := &Error{StatusCode: httpRes.StatusCode}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(httpRes.Body, 1<<16)).Decode(&payload); err == nil {
		e.Message = payload.Message
	}
	return e
}
