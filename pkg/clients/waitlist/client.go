package waitlist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zeroprint/waitlist/pkg/models"
)

// DefaultEndpoint is the registration endpoint used when none is configured
const DefaultEndpoint = "http://localhost:3400/waitlist/register"

const (
	defaultTimeout = 10 * time.Second
	// bodies larger than this are not expected from the endpoint
	maxResponseBytes = 1 << 20
	// cap on how much of an error body ends up in the error text
	maxErrorBody = 512
)

// ErrMalformedResponse marks a 2xx answer whose body is not the expected JSON object
var ErrMalformedResponse = errors.New("malformed response")

// Client defines the interface for interacting with the waitlist registration API
type Client interface {
	Register(ctx context.Context, req models.RegistrationRequest) (models.RegistrationResponse, error)
}

// StatusError is returned when the endpoint answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("error from waitlist API: status %d: %s", e.StatusCode, e.Body)
}

// Option customises a client
type Option func(*clientImpl)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientImpl) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds a single registration call
func WithTimeout(d time.Duration) Option {
	return func(c *clientImpl) {
		if d > 0 {
			c.timeout = d
		}
	}
}

type clientImpl struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
	tracer     trace.Tracer
}

// NewClient creates a new waitlist registration client
func NewClient(endpoint string, opts ...Option) Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &clientImpl{
		endpoint:   endpoint,
		timeout:    defaultTimeout,
		httpClient: &http.Client{},
		tracer:     otel.Tracer("github.com/zeroprint/waitlist/pkg/clients/waitlist"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *clientImpl) Register(ctx context.Context, data models.RegistrationRequest) (resp models.RegistrationResponse, err error) {
	ctx, span := c.tracer.Start(ctx, "waitlist.register",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", http.MethodPost),
			attribute.String("url.full", c.endpoint),
			attribute.String("waitlist.interest", data.Interest),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	jsonPayload, err := json.Marshal(data)
	if err != nil {
		return resp, fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonPayload))
	if err != nil {
		return resp, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return resp, fmt.Errorf("error submitting registration: %w", err)
	}
	defer httpResp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", httpResp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return resp, fmt.Errorf("error reading response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return resp, &StatusError{StatusCode: httpResp.StatusCode, Body: truncate(body, maxErrorBody)}
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return resp, nil
	}

	if err := json.Unmarshal(body, &resp); err != nil {
		return models.RegistrationResponse{}, fmt.Errorf("error parsing response: %w", errors.Join(ErrMalformedResponse, err))
	}

	return resp, nil
}

func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}
