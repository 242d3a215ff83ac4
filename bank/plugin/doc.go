// Package plugin wires the bank snapshot pipeline into the host client's lifecycle.
//
// The host calls StartUp once, dispatches WidgetLoaded events to HandleWidgetLoaded on its
// own event thread, and calls ShutDown once. The Plugin owns exactly one Panel for its
// lifetime: it is created in StartUp, shows the previously saved snapshot, and is closed
// in ShutDown.
//
// When the bank interface becomes visible, the Plugin extracts the bank content, saves it
// locally, renders it, and publishes it. Whether publishing blocks the event thread is
// decided by the Publisher handed in: httppublisher.Publisher blocks, httppublisher.AsyncPublisher does not.
package plugin
