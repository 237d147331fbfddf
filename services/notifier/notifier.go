// Package notifier delivers finished deal records to the outside world.
package notifier

import (
	"context"
	"errors"

	"sjsage522/winedealworker/internal/deal"
)

// Notifier consumes one enriched deal record.
type Notifier interface {
	// Notify delivers the deal. Implementations retry internally; a
	// returned error means delivery ultimately failed.
	Notify(ctx context.Context, d *deal.EnrichedDeal) error

	// Close releases any held connections.
	Close() error
}

// Multi fans one deal out to several notifiers. Every notifier gets the
// deal even when an earlier one fails; the errors are joined.
type Multi struct {
	notifiers []Notifier
}

var _ Notifier = (*Multi)(nil)

// NewMulti combines notifiers into one.
func NewMulti(notifiers ...Notifier) *Multi {
	return &Multi{notifiers: notifiers}
}

// Notify delivers to every notifier.
func (m *Multi) Notify(ctx context.Context, d *deal.EnrichedDeal) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, d); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every notifier.
func (m *Multi) Close() error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
