package bank

import (
	"context"
)

const (
	logMsgContainerNotFound = "bank container not found"
	logMsgNameUnresolved    = "item name could not be resolved"
	logMsgExtracted         = "bank snapshot extracted"
	logAttrError            = "error"
	logAttrContainerID      = "container_id"
	logAttrItemID           = "item_id"
	logAttrItemCount        = "item_count"
	logAttrSkippedSlots     = "skipped_slots"
)

// Extractor walks the bank item container of a WidgetSource and turns its occupied slots
// into an ordered sequence of ItemRecords with resolved display names.
type Extractor struct {
	source      WidgetSource
	resolver    NameResolver
	containerID int
	logger      Logger
}

// ExtractorOption defines a functional option for configuring Extractor.
type ExtractorOption func(*Extractor) error

// WithContainerID sets the packed widget id of the container to walk.
// The default is BankItemContainerID.
func WithContainerID(containerID int) ExtractorOption {
	return func(e *Extractor) error {
		e.containerID = containerID
		return nil
	}
}

// WithExtractorLogger sets the logger for the Extractor.
//
// Debug level: missing container, per-pass counts
// Warn level: item names that could not be resolved.
//
// When the logger also implements ContextualLogger, the context-aware methods are used.
func WithExtractorLogger(logger Logger) ExtractorOption {
	return func(e *Extractor) error {
		e.logger = logger
		return nil
	}
}

// NewExtractor creates a new Extractor with optional configuration.
func NewExtractor(source WidgetSource, resolver NameResolver, options ...ExtractorOption) (Extractor, error) {
	if source == nil {
		return Extractor{}, ErrNilWidgetSource
	}

	if resolver == nil {
		return Extractor{}, ErrNilNameResolver
	}

	e := Extractor{
		source:      source,
		resolver:    resolver,
		containerID: BankItemContainerID,
	}

	for _, option := range options {
		if err := option(&e); err != nil {
			return Extractor{}, err
		}
	}

	return e, nil
}

// Extract reads the container and returns one ItemRecord per slot with a non-negative id,
// in the container's native child order.
//
// A container that is not open yields an empty sequence. A name that cannot be resolved
// degrades to whatever the NameResolver returned, it never aborts the pass.
func (e Extractor) Extract(ctx context.Context) ItemRecords {
	records := make(ItemRecords, 0)

	container, found := e.source.Container(e.containerID)
	if !found || container == nil {
		e.logDebug(ctx, logMsgContainerNotFound, logAttrContainerID, e.containerID)
		return records
	}

	skipped := 0
	for _, slot := range container.Children() {
		if slot.ID < 0 || slot.ItemID < 0 {
			skipped++
			continue
		}

		quantity := slot.Quantity
		if quantity < 0 {
			quantity = 0
		}

		name, resolveErr := e.resolver.ResolveName(ctx, slot.ItemID)
		if resolveErr != nil {
			e.logWarn(ctx, logMsgNameUnresolved, logAttrItemID, slot.ItemID, logAttrError, resolveErr.Error())
		}

		record, buildErr := BuildItemRecord(slot.ItemID, quantity, name)
		if buildErr != nil {
			skipped++
			continue
		}

		records = append(records, record)
	}

	e.logDebug(ctx, logMsgExtracted, logAttrItemCount, len(records), logAttrSkippedSlots, skipped)

	return records
}

func (e Extractor) logDebug(ctx context.Context, msg string, args ...any) {
	if e.logger == nil {
		return
	}

	if contextual, ok := e.logger.(ContextualLogger); ok {
		contextual.DebugContext(ctx, msg, args...)
		return
	}

	e.logger.Debug(msg, args...)
}

func (e Extractor) logWarn(ctx context.Context, msg string, args ...any) {
	if e.logger == nil {
		return
	}

	if contextual, ok := e.logger.(ContextualLogger); ok {
		contextual.WarnContext(ctx, msg, args...)
		return
	}

	e.logger.Warn(msg, args...)
}
