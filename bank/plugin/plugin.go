package plugin

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AntonStoeckl/ironbank-snapshot-go/bank"
)

const (
	logMsgStarted          = "iron bank plugin started"
	logMsgStopped          = "iron bank plugin stopped"
	logMsgEventIgnored     = "widget group ignored"
	logMsgNotStarted       = "bank event ignored, plugin not started"
	logMsgSaveFailed       = "failed to save bank snapshot"
	logMsgPlayerUnknown    = "local player unknown, bank snapshot not published"
	logMsgPanelCloseFailed = "failed to close panel"
	logAttrError           = "error"
	logAttrGroupID         = "group_id"
	logAttrItemCount       = "item_count"
)

var (
	ErrNilExtractor        = errors.New("nil extractor supplied")
	ErrNilPublisher        = errors.New("nil publisher supplied")
	ErrNilSnapshotStore    = errors.New("nil snapshot store supplied")
	ErrNilPlayerSource     = errors.New("nil player source supplied")
	ErrNilPanelFactory     = errors.New("nil panel factory supplied")
	ErrAlreadyStarted      = errors.New("plugin already started")
	ErrCreatingPanelFailed = errors.New("creating panel failed")
)

// Extractor produces the current bank content. It is satisfied by bank.Extractor.
type Extractor interface {
	Extract(ctx context.Context) bank.ItemRecords
}

// Publisher sends a snapshot and never reports failure to the caller.
// It is satisfied by httppublisher.Publisher and *httppublisher.AsyncPublisher.
type Publisher interface {
	Publish(ctx context.Context, snapshot bank.Snapshot)
}

// SnapshotStore keeps the last extracted records locally. It is satisfied by filecodec.Codec.
type SnapshotStore interface {
	Save(records bank.ItemRecords) error
	Load() bank.ItemRecords
}

// PlayerSource reports the display name of the logged-in player.
type PlayerSource interface {
	LocalPlayerName() (string, bool)
}

// PlayerSourceFunc adapts an ordinary function to the PlayerSource interface.
type PlayerSourceFunc func() (string, bool)

// LocalPlayerName calls f().
func (f PlayerSourceFunc) LocalPlayerName() (string, bool) {
	return f()
}

// Panel is the display component owned by the Plugin.
type Panel interface {
	bank.DisplayAdapter
	Close() error
}

// PanelFactory creates the Panel during StartUp.
type PanelFactory func() (Panel, error)

// Dependencies are the collaborators a Plugin needs.
type Dependencies struct {
	Extractor    Extractor
	Publisher    Publisher
	Store        SnapshotStore
	Players      PlayerSource
	PanelFactory PanelFactory
}

// Logger interface for operational logging, warnings, and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Option defines a functional option for configuring Plugin.
type Option func(*Plugin) error

// WithLogger sets the logger for the Plugin.
func WithLogger(logger Logger) Option {
	return func(p *Plugin) error {
		p.logger = logger
		return nil
	}
}

// WithClock overrides time.Now for snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Plugin) error {
		p.now = now
		return nil
	}
}

// Plugin is the lifecycle manager of the bank snapshot pipeline.
// It implements bank.WidgetLoadedHandler.
type Plugin struct {
	deps   Dependencies
	logger Logger
	now    func() time.Time

	mu    sync.Mutex
	panel Panel
}

var _ bank.WidgetLoadedHandler = (*Plugin)(nil)

// NewPlugin creates a new Plugin with optional configuration.
func NewPlugin(deps Dependencies, options ...Option) (*Plugin, error) {
	switch {
	case deps.Extractor == nil:
		return nil, ErrNilExtractor
	case deps.Publisher == nil:
		return nil, ErrNilPublisher
	case deps.Store == nil:
		return nil, ErrNilSnapshotStore
	case deps.Players == nil:
		return nil, ErrNilPlayerSource
	case deps.PanelFactory == nil:
		return nil, ErrNilPanelFactory
	}

	p := &Plugin{
		deps: deps,
		now:  time.Now,
	}

	for _, option := range options {
		if err := option(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// StartUp creates the panel and shows the previously saved snapshot on it.
func (p *Plugin) StartUp(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.panel != nil {
		return ErrAlreadyStarted
	}

	panel, err := p.deps.PanelFactory()
	if err != nil {
		return errors.Join(ErrCreatingPanelFailed, err)
	}

	records := p.deps.Store.Load()
	panel.Render(records)
	p.panel = panel

	if p.logger != nil {
		p.logger.Info(logMsgStarted, logAttrItemCount, len(records))
	}

	return nil
}

// ShutDown closes the panel. Calling it on a stopped Plugin is a no-op.
func (p *Plugin) ShutDown(_ context.Context) error {
	p.mu.Lock()
	panel := p.panel
	p.panel = nil
	p.mu.Unlock()

	if panel == nil {
		return nil
	}

	if err := panel.Close(); err != nil {
		if p.logger != nil {
			p.logger.Warn(logMsgPanelCloseFailed, logAttrError, err.Error())
		}

		return err
	}

	if p.logger != nil {
		p.logger.Info(logMsgStopped)
	}

	return nil
}

// HandleWidgetLoaded takes and publishes a snapshot when the bank interface becomes visible.
// Events for other widget groups, and any event while the Plugin is not started, are ignored.
// Nothing in here fails the host's event path.
func (p *Plugin) HandleWidgetLoaded(ctx context.Context, event bank.WidgetLoaded) {
	if !event.IsBank() {
		if p.logger != nil {
			p.logger.Debug(logMsgEventIgnored, logAttrGroupID, event.GroupID)
		}

		return
	}

	if !p.started() {
		if p.logger != nil {
			p.logger.Debug(logMsgNotStarted, logAttrGroupID, event.GroupID)
		}

		return
	}

	records := p.deps.Extractor.Extract(ctx)

	if err := p.deps.Store.Save(records); err != nil {
		if p.logger != nil {
			p.logger.Warn(logMsgSaveFailed, logAttrError, err.Error())
		}
	}

	p.render(records)

	playerName, known := p.deps.Players.LocalPlayerName()
	snapshot, err := bank.BuildSnapshot(playerName, records, p.now())
	if !known || err != nil {
		if p.logger != nil {
			p.logger.Warn(logMsgPlayerUnknown, logAttrItemCount, len(records))
		}

		return
	}

	p.deps.Publisher.Publish(ctx, snapshot)
}

func (p *Plugin) started() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.panel != nil
}

func (p *Plugin) render(records bank.ItemRecords) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.panel != nil {
		p.panel.Render(records)
	}
}
