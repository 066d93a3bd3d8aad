package listing

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Cents is a fixed-point monetary amount in US cents.
type Cents int64

// Dollars returns the amount as a floating-point dollar value.
func (c Cents) Dollars() float64 {
	return float64(c) / 100
}

// String formats the amount as "$x.yy".
func (c Cents) String() string {
	return fmt.Sprintf("$%.2f", c.Dollars())
}

// FromDollars converts a dollar amount to Cents, rounding to the nearest cent.
func FromDollars(d float64) Cents {
	return Cents(math.Round(d * 100))
}

// Percent returns p percent of the amount, rounded to the nearest cent.
func (c Cents) Percent(p float64) Cents {
	return Cents(math.Round(float64(c) * p / 100))
}

var amountRegexp = regexp.MustCompile(`[\d,]+(?:\.\d{1,2})?`)

// ParseCents extracts the first monetary amount from noisy price text.
// Tolerates currency symbols, thousands separators and trailing qualifiers
// such as "or Best Offer" or "to $X" ranges (the lower bound wins).
func ParseCents(raw string) (Cents, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty price text")
	}

	match := amountRegexp.FindString(s)
	if match == "" {
		return 0, fmt.Errorf("no numeric amount in %q", raw)
	}

	d, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", match, err)
	}
	return FromDollars(d), nil
}

// Condition classifies the physical state of a listed item.
type Condition string

const (
	ConditionNew      Condition = "new"
	ConditionUsed     Condition = "used"
	ConditionForParts Condition = "for-parts"
	ConditionUnknown  Condition = "unknown"
)

// conditionTable maps marketplace condition phrases to conditions.
// Matching is case-insensitive substring, first match in declaration
// order wins; more specific phrases therefore come first.
var conditionTable = []struct {
	phrase string
	cond   Condition
}{
	{"for parts", ConditionForParts},
	{"parts only", ConditionForParts},
	{"not working", ConditionForParts},
	{"salvage", ConditionForParts},
	{"brand new", ConditionNew},
	{"open box", ConditionUsed},
	{"pre-owned", ConditionUsed},
	{"refurbished", ConditionUsed},
	{"renewed", ConditionUsed},
	{"used", ConditionUsed},
	{"new", ConditionNew},
}

// ConditionFromText maps free-form condition text to a Condition,
// defaulting to unknown. It never fails.
func ConditionFromText(text string) Condition {
	lower := strings.ToLower(text)
	for _, entry := range conditionTable {
		if strings.Contains(lower, entry.phrase) {
			return entry.cond
		}
	}
	return ConditionUnknown
}

// Raw is one unparsed result fragment as captured from the marketplace
// results page, in native result order.
type Raw struct {
	Source   string
	URL      string
	Fragment string
	Position int
}

// Listing is a normalized auction/sale entry extracted from a result page.
type Listing struct {
	ID            string    `json:"id"`
	Source        string    `json:"source"`
	Title         string    `json:"title"`
	CurrentPrice  Cents     `json:"current_price"`
	ShippingCost  Cents     `json:"shipping_cost"`
	BidCount      *int      `json:"bid_count,omitempty"`
	TimeRemaining *string   `json:"time_remaining,omitempty"`
	Condition     Condition `json:"condition"`
	Seller        string    `json:"seller,omitempty"`
	URL           string    `json:"url"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// Key returns the dedup identity (source, id) as a single string.
func (l *Listing) Key() string {
	return l.Source + ":" + l.ID
}
