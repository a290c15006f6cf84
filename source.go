package airtable_timeline

import (
	"context"
	"errors"
	"time"
)

var ErrTransport = errors.New("transport error")
var ErrDecode = errors.New("response decoding error")
var ErrMissingConfig = errors.New("missing configuration")

// Source reads every record of a table, in table order.
type Source interface {
	Name() string
	ReadAll(ctx context.Context) ([]RawRecord, error)
}

// Throttle is called between two successive page requests.
type Throttle interface {
	Wait(ctx context.Context) error
}

// FixedDelay waits a constant duration between pages.
type FixedDelay time.Duration

// DefaultDelay keeps us under the Airtable limit of five requests per second.
const DefaultDelay = FixedDelay(150 * time.Millisecond)

func (d FixedDelay) Wait(ctx context.Context) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(time.Duration(d))
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NoDelay never waits.
type NoDelay struct{}

func (NoDelay) Wait(context.Context) error { return nil }

// PageObserver is notified after each page has been decoded.
type PageObserver interface {
	ObservePage(records int)
}

func throttleOrDefault(t Throttle) Throttle {
	if t == nil {
		return DefaultDelay
	}
	return t
}

func observePage(o PageObserver, records int) {
	if o != nil {
		o.ObservePage(records)
	}
}
