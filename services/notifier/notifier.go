package notifier

import (
	"fmt"
	"strings"

	"auctionhunter/internal/listing"
	"auctionhunter/internal/scoring"
)

// Alert is one deal ready to send, pairing the parsed listing with
// its score.
type Alert struct {
	Listing *listing.Listing   `json:"listing"`
	Score   *scoring.DealScore `json:"score"`
}

// Notifier delivers deal alerts to a human.
type Notifier interface {
	// Notify delivers one alert
	Notify(alert Alert) error

	// NotifySummary delivers an end-of-run summary
	NotifySummary(query string, alerts []Alert, totalScanned int) error
}

// FormatAlert renders one alert as a message.
func FormatAlert(a Alert) string {
	emoji := "💰"
	if a.Score.Tier == scoring.TierGreat {
		emoji = "🔥"
	}

	marginPct := 0.0
	if a.Score.Margin != nil {
		marginPct = *a.Score.Margin * 100
	}

	timeLeft := "unknown"
	if a.Listing.TimeRemaining != nil {
		timeLeft = *a.Listing.TimeRemaining
	}

	return fmt.Sprintf(`%s Deal Alert!

%s

Price: $%.2f + $%.2f ship
Total: $%.2f
Est. Profit: $%.2f (%.0f%%)
Condition: %s
Ends: %s

%s`,
		emoji,
		truncate(a.Listing.Title, 80),
		a.Listing.CurrentPrice.Dollars(),
		a.Listing.ShippingCost.Dollars(),
		a.Score.TotalCost.Dollars(),
		a.Score.Profit.Dollars(),
		marginPct,
		string(a.Listing.Condition),
		timeLeft,
		a.Listing.URL,
	)
}

// FormatSummary renders the end-of-run digest. The top five alerts are
// listed individually; the rest are counted.
func FormatSummary(query string, alerts []Alert, totalScanned int) string {
	if len(alerts) == 0 {
		return fmt.Sprintf("🔍 %s - no profitable deals found from %d items.", query, totalScanned)
	}

	great := 0
	for _, a := range alerts {
		if a.Score.Tier == scoring.TierGreat {
			great++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎯 Auction Hunt: %s\n", query)
	fmt.Fprintf(&b, "Found %d deals (%d great) from %d items\n", len(alerts), great, totalScanned)

	shown := alerts
	if len(shown) > 5 {
		shown = shown[:5]
	}
	for _, a := range shown {
		emoji := "💰"
		if a.Score.Tier == scoring.TierGreat {
			emoji = "🔥"
		}
		fmt.Fprintf(&b, "\n%s $%.0f profit | $%.0f total\n", emoji, a.Score.Profit.Dollars(), a.Score.TotalCost.Dollars())
		fmt.Fprintf(&b, "   %s\n", truncate(a.Listing.Title, 45))
	}

	if len(alerts) > 5 {
		fmt.Fprintf(&b, "\n%d more deals not shown", len(alerts)-5)
	}

	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
