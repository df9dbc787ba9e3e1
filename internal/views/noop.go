package views

import "context"

// Noop discards view reports. Used when no catalog server is configured.
type Noop struct{}

func (Noop) Report(context.Context, Report) error { return nil }

var _ Interface = Noop{}
