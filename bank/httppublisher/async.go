package httppublisher

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/AntonStoeckl/ironbank-snapshot-go/bank"
)

const (
	logMsgPublishDropped = "bank snapshot dropped, publisher busy"
	logMsgPublishClosed  = "bank snapshot dropped, publisher closed"
)

var (
	// ErrNilPublisher is returned when a nil publisher is supplied.
	ErrNilPublisher = errors.New("nil publisher supplied")

	// ErrNonPositiveMaxInFlight is returned when maxInFlight is zero or negative.
	ErrNonPositiveMaxInFlight = errors.New("max in-flight publishes must be positive")
)

// SnapshotPublisher is the blocking publish step the AsyncPublisher delegates to.
type SnapshotPublisher interface {
	Publish(ctx context.Context, snapshot bank.Snapshot)
}

// AsyncPublisher runs publishes on background goroutines so the caller never waits for the network.
//
// At most maxInFlight publishes run at once. A snapshot arriving while all slots are busy
// is dropped with a warning, there is no queue.
type AsyncPublisher struct {
	publisher   SnapshotPublisher
	maxInFlight int64
	slots       *semaphore.Weighted
	logger      Logger

	mu     sync.Mutex
	closed bool
}

// AsyncOption defines a functional option for configuring AsyncPublisher.
type AsyncOption func(*AsyncPublisher) error

// WithAsyncLogger sets the logger for the AsyncPublisher.
func WithAsyncLogger(logger Logger) AsyncOption {
	return func(a *AsyncPublisher) error {
		a.logger = logger
		return nil
	}
}

// NewAsyncPublisher creates a new AsyncPublisher delegating to publisher.
func NewAsyncPublisher(publisher SnapshotPublisher, maxInFlight int, options ...AsyncOption) (*AsyncPublisher, error) {
	if publisher == nil {
		return nil, ErrNilPublisher
	}

	if maxInFlight <= 0 {
		return nil, ErrNonPositiveMaxInFlight
	}

	a := &AsyncPublisher{
		publisher:   publisher,
		maxInFlight: int64(maxInFlight),
		slots:       semaphore.NewWeighted(int64(maxInFlight)),
	}

	for _, option := range options {
		if err := option(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Publish starts the publish in the background and returns immediately.
// The caller's context cancellation is not propagated, the transport timeout bounds the send.
func (a *AsyncPublisher) Publish(ctx context.Context, snapshot bank.Snapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		a.warn(logMsgPublishClosed, snapshot)
		return
	}

	if !a.slots.TryAcquire(1) {
		a.warn(logMsgPublishDropped, snapshot)
		return
	}

	detached := context.WithoutCancel(ctx)
	go func() {
		defer a.slots.Release(1)
		a.publisher.Publish(detached, snapshot)
	}()
}

// Close stops accepting snapshots and waits until all in-flight publishes have finished
// or ctx is done.
func (a *AsyncPublisher) Close(ctx context.Context) error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()

	if err := a.slots.Acquire(ctx, a.maxInFlight); err != nil {
		return err
	}
	a.slots.Release(a.maxInFlight)

	return nil
}

func (a *AsyncPublisher) warn(msg string, snapshot bank.Snapshot) {
	if a.logger != nil {
		a.logger.Warn(msg, logAttrPlayerName, snapshot.PlayerName, logAttrItemCount, snapshot.ItemCount())
	}
}
