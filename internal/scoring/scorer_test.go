package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctionhunter/internal/estimator"
	"auctionhunter/internal/listing"
)

func estimateOf(id string, retail listing.Cents) estimator.PriceEstimate {
	return estimator.PriceEstimate{
		ListingID:       id,
		EstimatedRetail: &retail,
		Confidence:      estimator.ConfidenceHigh,
	}
}

func TestScoreThinkPadScenario(t *testing.T) {
	// $180 price + $15 shipping + 10% fee = $213 total cost;
	// $450 estimate gives $237 profit at 0.527 margin.
	s := NewScorer(10)
	l := &listing.Listing{
		ID:           "1",
		Title:        "ThinkPad X1 Carbon, used, no charger",
		CurrentPrice: 18000,
		ShippingCost: 1500,
	}

	score := s.Score(l, estimateOf("1", 45000))
	require.NotNil(t, score)
	assert.Equal(t, listing.Cents(1800), score.PlatformFee)
	assert.Equal(t, listing.Cents(21300), score.TotalCost)
	assert.Equal(t, listing.Cents(23700), score.Profit)
	require.NotNil(t, score.Margin)
	assert.InDelta(t, 0.527, *score.Margin, 0.001)
	require.NotNil(t, score.ROI)
	assert.InDelta(t, 1.113, *score.ROI, 0.001)
	assert.Equal(t, TierGreat, score.Tier)
}

func TestScoreNilEstimate(t *testing.T) {
	s := NewScorer(13)
	l := &listing.Listing{ID: "1", CurrentPrice: 5000}

	score := s.Score(l, estimator.PriceEstimate{ListingID: "1", Confidence: estimator.ConfidenceLow})
	assert.Nil(t, score)
}

func TestTierBoundariesAreStrict(t *testing.T) {
	// Profit exactly $30.00 and margin exactly 0.25 must be none.
	s := NewScorer(0)
	l := &listing.Listing{ID: "1", CurrentPrice: 9000, ShippingCost: 0}

	score := s.Score(l, estimateOf("1", 12000))
	require.NotNil(t, score)
	assert.Equal(t, listing.Cents(3000), score.Profit)
	require.NotNil(t, score.Margin)
	assert.Equal(t, 0.25, *score.Margin)
	assert.Equal(t, TierNone, score.Tier)
}

func TestTierGoodRequiresBothThresholds(t *testing.T) {
	s := NewScorer(0)

	// Profit above $30 but margin at 0.25 exactly: still none.
	score := s.Score(&listing.Listing{ID: "1", CurrentPrice: 9060}, estimateOf("1", 12080))
	require.NotNil(t, score)
	assert.Equal(t, listing.Cents(3020), score.Profit)
	assert.Equal(t, 0.25, *score.Margin)
	assert.Equal(t, TierNone, score.Tier)

	// Profit $30.01 and margin just above 0.25: good.
	score = s.Score(&listing.Listing{ID: "2", CurrentPrice: 8999}, estimateOf("2", 12000))
	require.NotNil(t, score)
	assert.Equal(t, listing.Cents(3001), score.Profit)
	assert.Equal(t, TierGood, score.Tier)
}

func TestTierGreatEvaluatedBeforeGood(t *testing.T) {
	s := NewScorer(0)

	// Profit $100 at 0.5 margin satisfies both tiers; great wins.
	score := s.Score(&listing.Listing{ID: "1", CurrentPrice: 10000}, estimateOf("1", 20000))
	require.NotNil(t, score)
	assert.Equal(t, TierGreat, score.Tier)

	// High profit but thin margin: not great, and margin also below good.
	score = s.Score(&listing.Listing{ID: "2", CurrentPrice: 90000}, estimateOf("2", 100000))
	require.NotNil(t, score)
	assert.Equal(t, listing.Cents(10000), score.Profit)
	assert.Equal(t, TierNone, score.Tier)
}

func TestNegativeProfit(t *testing.T) {
	s := NewScorer(13)
	l := &listing.Listing{ID: "1", CurrentPrice: 50000, ShippingCost: 2000}

	score := s.Score(l, estimateOf("1", 30000))
	require.NotNil(t, score)
	assert.Less(t, int64(score.Profit), int64(0))
	assert.Equal(t, TierNone, score.Tier)
}

func TestROINilWhenTotalCostZero(t *testing.T) {
	s := NewScorer(0)
	l := &listing.Listing{ID: "1", CurrentPrice: 0, ShippingCost: 0}

	score := s.Score(l, estimateOf("1", 10000))
	require.NotNil(t, score)
	assert.Nil(t, score.ROI)
	require.NotNil(t, score.Margin)
	assert.Equal(t, 1.0, *score.Margin)
}

func TestFeeRoundsToNearestCent(t *testing.T) {
	s := NewScorer(13)
	l := &listing.Listing{ID: "1", CurrentPrice: 17999}

	score := s.Score(l, estimateOf("1", 45000))
	require.NotNil(t, score)
	// 13% of $179.99 is $23.3987, rounded to $23.40.
	assert.Equal(t, listing.Cents(2340), score.PlatformFee)
}
