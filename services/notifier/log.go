package notifier

import (
	"auctionhunter/logger"
)

// LogNotifier writes alerts to the structured log. It is the default
// sink when no delivery channel is configured.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier creates a notifier backed by the process log.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{log: logger.ForNotifier()}
}

// Notify logs one alert at info level.
func (n *LogNotifier) Notify(alert Alert) error {
	n.log.Info().
		Str("listing_id", alert.Listing.ID).
		Str("source", alert.Listing.Source).
		Str("tier", string(alert.Score.Tier)).
		Int64("profit_cents", int64(alert.Score.Profit)).
		Msg(FormatAlert(alert))
	return nil
}

// NotifySummary logs the run digest.
func (n *LogNotifier) NotifySummary(query string, alerts []Alert, totalScanned int) error {
	n.log.Info().
		Str("query", query).
		Int("deals", len(alerts)).
		Int("scanned", totalScanned).
		Msg(FormatSummary(query, alerts, totalScanned))
	return nil
}
