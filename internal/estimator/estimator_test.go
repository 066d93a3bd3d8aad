package estimator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctionhunter/internal/listing"
)

func fixtureTable() Table {
	return Table{
		Entries: []Entry{
			{"macbook pro 16", 200000},
			{"macbook pro", 120000},
			{"macbook", 80000},
			{"thinkpad x1", 45000},
			{"thinkpad", 30000},
			// Duplicate phrase: the earlier table position must win
			{"pixel 8", 50000},
			{"pixel 8", 99900},
		},
		Accessories: []string{"charger", "case", "lot of"},
		Anchors:     []string{"macbook", "thinkpad"},
	}
}

func estimate(t *testing.T, title string) PriceEstimate {
	t.Helper()
	e := New(fixtureTable())
	return e.Estimate(&listing.Listing{ID: "1", Title: title})
}

func TestEstimateLongestPhraseWins(t *testing.T) {
	est := estimate(t, "Apple MacBook Pro 16 inch 2023")
	require.NotNil(t, est.EstimatedRetail)
	assert.Equal(t, listing.Cents(200000), *est.EstimatedRetail)
	assert.Equal(t, "macbook pro 16", est.MatchedKeyword)
	assert.Equal(t, ConfidenceHigh, est.Confidence)
}

func TestEstimateFallsBackToShorterPhrase(t *testing.T) {
	est := estimate(t, "MacBook Pro 14 inch")
	require.NotNil(t, est.EstimatedRetail)
	assert.Equal(t, listing.Cents(120000), *est.EstimatedRetail)
	assert.Equal(t, "macbook pro", est.MatchedKeyword)
}

func TestEstimateNoMatchIsNil(t *testing.T) {
	est := estimate(t, "Vintage typewriter, working")
	assert.Nil(t, est.EstimatedRetail)
	assert.Equal(t, ConfidenceLow, est.Confidence)
	assert.Empty(t, est.MatchedKeyword)
}

func TestEstimateMatchingIsCaseInsensitiveAndPunctuationTolerant(t *testing.T) {
	est := estimate(t, "THINKPAD-X1 Carbon, used, no charger")
	require.NotNil(t, est.EstimatedRetail)
	assert.Equal(t, listing.Cents(45000), *est.EstimatedRetail)
}

func TestEstimatePhraseMustBeContiguous(t *testing.T) {
	// "thinkpad ... x1" with tokens between must not match "thinkpad x1"
	est := estimate(t, "thinkpad carbon x1")
	require.NotNil(t, est.EstimatedRetail)
	assert.Equal(t, "thinkpad", est.MatchedKeyword)
	assert.Equal(t, listing.Cents(30000), *est.EstimatedRetail)
}

func TestEstimateAccessorySuppressed(t *testing.T) {
	est := estimate(t, "Laptop charger 65W universal")
	assert.Nil(t, est.EstimatedRetail)
	assert.Equal(t, ConfidenceLow, est.Confidence)
}

func TestEstimateAnchorOverridesAccessory(t *testing.T) {
	est := estimate(t, "ThinkPad X1 Carbon, used, no charger")
	require.NotNil(t, est.EstimatedRetail)
	assert.Equal(t, listing.Cents(45000), *est.EstimatedRetail)
}

func TestEstimateTieBreaksByTablePosition(t *testing.T) {
	est := estimate(t, "Google Pixel 8 128GB")
	require.NotNil(t, est.EstimatedRetail)
	assert.Equal(t, listing.Cents(50000), *est.EstimatedRetail)
}

func TestEstimateEmptyTitle(t *testing.T) {
	est := estimate(t, "")
	assert.Nil(t, est.EstimatedRetail)
}

func TestDefaultTableOrdering(t *testing.T) {
	e := New(DefaultTable)

	est := e.Estimate(&listing.Listing{ID: "1", Title: "MacBook Pro 16 M3 Max"})
	require.NotNil(t, est.EstimatedRetail)
	assert.Equal(t, listing.Cents(200000), *est.EstimatedRetail)

	est = e.Estimate(&listing.Listing{ID: "2", Title: "Nintendo Switch OLED bundle"})
	require.NotNil(t, est.EstimatedRetail)
	assert.Equal(t, listing.Cents(35000), *est.EstimatedRetail)

	est = e.Estimate(&listing.Listing{ID: "3", Title: "Lot of 5 USB cables"})
	assert.Nil(t, est.EstimatedRetail)
}
