package httppublisher

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/AntonStoeckl/ironbank-snapshot-go/bank"
)

const (
	// DefaultEndpoint is the bank-items endpoint snapshots are sent to.
	DefaultEndpoint = "http://localhost:8080/api/bank-items"

	// DefaultTimeout bounds the whole exchange when the default HTTP client is used.
	DefaultTimeout = 10 * time.Second

	headerContentType      = "Content-Type"
	headerAccept           = "Accept"
	contentTypeJSONUTF8    = "application/json; utf-8"
	acceptJSON             = "application/json"
	logMsgSendFailed       = "error sending bank items"
	logMsgResponseReceived = "response from server"
	logMsgRequestCompleted = "bank items request completed"
	logMsgInvalidSnapshot  = "refusing to send invalid bank snapshot"
	logAttrError           = "error"
	logAttrEndpoint        = "endpoint"
	logAttrPlayerName      = "player_name"
	logAttrItemCount       = "item_count"
	logAttrStatus          = "status"
	logAttrResponse        = "response"
	logAttrDurationMS      = "duration_ms"
)

var (
	// ErrEmptyEndpoint is returned when an empty endpoint URL is supplied.
	ErrEmptyEndpoint = errors.New("empty endpoint supplied")

	// ErrNilHTTPClient is returned when a nil HTTP client is supplied.
	ErrNilHTTPClient = errors.New("nil http client supplied")

	// ErrNonPositiveTimeout is returned when a zero or negative timeout is supplied.
	ErrNonPositiveTimeout = errors.New("timeout must be positive")

	// ErrBuildingRequestFailed is returned when the HTTP request cannot be built.
	ErrBuildingRequestFailed = errors.New("building request failed")

	// ErrSendingSnapshotFailed is returned when the transport fails.
	ErrSendingSnapshotFailed = errors.New("sending snapshot failed")

	// ErrReadingResponseFailed is returned when the response body cannot be read.
	ErrReadingResponseFailed = errors.New("reading response failed")
)

// Logger interface for operational logging, warnings, and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Publisher sends snapshots to the bank-items endpoint.
type Publisher struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
	logger   Logger
}

// Option defines a functional option for configuring Publisher.
type Option func(*Publisher) error

// WithEndpoint sets the URL snapshots are posted to.
func WithEndpoint(endpoint string) Option {
	return func(p *Publisher) error {
		if endpoint == "" {
			return ErrEmptyEndpoint
		}

		p.endpoint = endpoint

		return nil
	}
}

// WithHTTPClient sets the HTTP client. The client's own timeout applies, WithTimeout is ignored.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Publisher) error {
		if client == nil {
			return ErrNilHTTPClient
		}

		p.client = client

		return nil
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Publisher) error {
		if timeout <= 0 {
			return ErrNonPositiveTimeout
		}

		p.timeout = timeout

		return nil
	}
}

// WithLogger sets the logger for the Publisher.
//
// Debug level: request durations
// Info level: response text from the server
// Error level: transport failures, which Publish swallows.
func WithLogger(logger Logger) Option {
	return func(p *Publisher) error {
		p.logger = logger
		return nil
	}
}

// NewPublisher creates a new Publisher with optional configuration.
func NewPublisher(options ...Option) (Publisher, error) {
	p := Publisher{
		endpoint: DefaultEndpoint,
		timeout:  DefaultTimeout,
	}

	for _, option := range options {
		if err := option(&p); err != nil {
			return Publisher{}, err
		}
	}

	if p.client == nil {
		p.client = &http.Client{Timeout: p.timeout}
	}

	return p, nil
}

// Endpoint returns the URL snapshots are posted to.
func (p Publisher) Endpoint() string {
	return p.endpoint
}

// Publish sends the snapshot and logs the outcome. Failures never reach the caller.
func (p Publisher) Publish(ctx context.Context, snapshot bank.Snapshot) {
	if err := snapshot.Validate(); err != nil {
		if p.logger != nil {
			p.logger.Warn(logMsgInvalidSnapshot, logAttrError, err.Error())
		}

		return
	}

	response, err := p.Send(ctx, snapshot)
	if err != nil {
		if p.logger != nil {
			p.logger.Error(
				logMsgSendFailed,
				logAttrError, err.Error(),
				logAttrEndpoint, p.endpoint,
				logAttrPlayerName, snapshot.PlayerName,
			)
		}

		return
	}

	if p.logger != nil {
		p.logger.Info(logMsgResponseReceived, logAttrResponse, response, logAttrItemCount, snapshot.ItemCount())
	}
}

// Send posts the snapshot as one blocking request and returns the response body as text.
// The status code is not interpreted.
func (p Publisher) Send(ctx context.Context, snapshot bank.Snapshot) (string, error) {
	body, marshalErr := BuildEnvelope(snapshot).Marshal()
	if marshalErr != nil {
		return "", marshalErr
	}

	req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if reqErr != nil {
		return "", errors.Join(ErrBuildingRequestFailed, reqErr)
	}
	req.Header.Set(headerContentType, contentTypeJSONUTF8)
	req.Header.Set(headerAccept, acceptJSON)

	start := time.Now()
	resp, doErr := p.client.Do(req)
	if doErr != nil {
		return "", errors.Join(ErrSendingSnapshotFailed, doErr)
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(resp.Body)
	duration := time.Since(start)

	if p.logger != nil {
		p.logger.Debug(
			logMsgRequestCompleted,
			logAttrStatus, resp.StatusCode,
			logAttrDurationMS, durationToMilliseconds(duration),
		)
	}

	if readErr != nil {
		return "", errors.Join(ErrReadingResponseFailed, readErr)
	}

	return joinTrimmedLines(string(raw)), nil
}

// joinTrimmedLines concatenates the trimmed lines of s.
func joinTrimmedLines(s string) string {
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		b.WriteString(strings.TrimSpace(line))
	}

	return b.String()
}

// durationToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
