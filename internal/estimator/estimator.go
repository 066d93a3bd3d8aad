package estimator

import (
	"regexp"
	"strings"

	"auctionhunter/internal/listing"
)

// Confidence qualifies a retail estimate.
type Confidence string

const (
	ConfidenceHigh Confidence = "high"
	ConfidenceLow  Confidence = "low"
)

// PriceEstimate is the estimated fair retail value for a listing.
// EstimatedRetail is nil when no keyword matched: downstream scoring
// treats a nil estimate as "cannot score", never as zero.
type PriceEstimate struct {
	ListingID       string         `json:"listing_id"`
	EstimatedRetail *listing.Cents `json:"estimated_retail,omitempty"`
	Confidence      Confidence     `json:"confidence"`
	MatchedKeyword  string         `json:"matched_keyword,omitempty"`
}

// Entry maps a keyword phrase to an estimated retail value.
type Entry struct {
	Phrase string
	Retail listing.Cents
}

// Table is the injectable keyword-to-price configuration. Entries are
// scanned for the longest phrase matching the title; equal-length matches
// break by earliest table position. Accessory phrases suppress estimation
// unless an anchor phrase marks the title as a primary item.
type Table struct {
	Entries     []Entry
	Accessories []string
	Anchors     []string
}

// Estimator maps listing titles to retail estimates against a fixed table.
type Estimator struct {
	table Table
}

// New creates an estimator over the given table.
func New(table Table) *Estimator {
	return &Estimator{table: table}
}

var tokenRegexp = regexp.MustCompile(`[a-z0-9]+`)

func tokenize(s string) []string {
	return tokenRegexp.FindAllString(strings.ToLower(s), -1)
}

// containsPhrase reports whether the phrase tokens appear contiguously
// in the title tokens.
func containsPhrase(titleTokens, phraseTokens []string) bool {
	if len(phraseTokens) == 0 || len(phraseTokens) > len(titleTokens) {
		return false
	}
outer:
	for i := 0; i+len(phraseTokens) <= len(titleTokens); i++ {
		for j, pt := range phraseTokens {
			if titleTokens[i+j] != pt {
				continue outer
			}
		}
		return true
	}
	return false
}

// Estimate resolves a retail estimate for the listing title. A phrase
// match yields high confidence; no match yields a nil estimate and low
// confidence. The estimator never fabricates a number.
func (e *Estimator) Estimate(l *listing.Listing) PriceEstimate {
	est := PriceEstimate{
		ListingID:  l.ID,
		Confidence: ConfidenceLow,
	}

	titleTokens := tokenize(l.Title)
	if len(titleTokens) == 0 {
		return est
	}

	if e.isAccessory(titleTokens) {
		return est
	}

	bestIdx := -1
	bestTokens := 0
	bestLen := 0
	for i, entry := range e.table.Entries {
		phraseTokens := tokenize(entry.Phrase)
		if !containsPhrase(titleTokens, phraseTokens) {
			continue
		}
		// Longest phrase wins: token count first, then raw length.
		// Ties keep the earliest table position.
		if len(phraseTokens) > bestTokens ||
			(len(phraseTokens) == bestTokens && len(entry.Phrase) > bestLen) {
			bestIdx = i
			bestTokens = len(phraseTokens)
			bestLen = len(entry.Phrase)
		}
	}

	if bestIdx < 0 {
		return est
	}

	retail := e.table.Entries[bestIdx].Retail
	est.EstimatedRetail = &retail
	est.Confidence = ConfidenceHigh
	est.MatchedKeyword = e.table.Entries[bestIdx].Phrase
	return est
}

// isAccessory reports whether the title describes an accessory rather
// than a primary item worth estimating.
func (e *Estimator) isAccessory(titleTokens []string) bool {
	accessory := false
	for _, phrase := range e.table.Accessories {
		if containsPhrase(titleTokens, tokenize(phrase)) {
			accessory = true
			break
		}
	}
	if !accessory {
		return false
	}
	for _, phrase := range e.table.Anchors {
		if containsPhrase(titleTokens, tokenize(phrase)) {
			return false
		}
	}
	return true
}
