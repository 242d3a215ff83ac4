package bank

import (
	"context"
)

// Slot is one direct child of a widget container.
// A negative ID denotes an empty slot.
type Slot struct {
	ID       int
	ItemID   int
	Quantity int
}

// Container is a rendered UI element holding zero or more item slots.
type Container interface {
	Children() []Slot
}

// WidgetSource exposes the widget tree of the running game client.
//
// Container returns false when the container is not currently open or rendered.
type WidgetSource interface {
	Container(containerID int) (Container, bool)
}

// WidgetLoaded is delivered by the host when a widget group has just become visible.
type WidgetLoaded struct {
	GroupID int
}

// IsBank reports whether the loaded group is the bank interface.
func (e WidgetLoaded) IsBank() bool {
	return e.GroupID == BankGroupID
}

// WidgetLoadedHandler is the single-method subscription the host dispatches WidgetLoaded events to.
//
// The host owns the event loop and calls HandleWidgetLoaded on its own dispatch thread.
type WidgetLoadedHandler interface {
	HandleWidgetLoaded(ctx context.Context, event WidgetLoaded)
}

// DisplayAdapter renders a sequence of ItemRecords. It is fire and forget.
type DisplayAdapter interface {
	Render(records ItemRecords)
}
