package notifier

import (
	"context"

	"sjsage522/winedealworker/internal/deal"
	"sjsage522/winedealworker/logger"
)

// LogNotifier writes deals to the application log. It is the sink of last
// resort when no external channel is configured.
type LogNotifier struct{}

var _ Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Notify logs the deal.
func (n *LogNotifier) Notify(_ context.Context, d *deal.EnrichedDeal) error {
	logger.ForNotifier().Info().
		Str("deal", d.String()).
		Str("url", d.URL).
		Bool("has_rating_data", d.HasRatingData()).
		Msg("New deal")
	return nil
}

// Close is a no-op.
func (n *LogNotifier) Close() error {
	return nil
}
