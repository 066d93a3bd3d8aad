package scoring

import (
	"auctionhunter/internal/estimator"
	"auctionhunter/internal/listing"
)

// Tier is the coarse profitability classification of a deal.
type Tier string

const (
	TierNone  Tier = "none"
	TierGood  Tier = "good"
	TierGreat Tier = "great"
)

// Tier thresholds. Strict inequalities: a deal at exactly the threshold
// does not qualify.
const (
	greatProfitFloor = listing.Cents(7500)
	greatMarginFloor = 0.40
	goodProfitFloor  = listing.Cents(3000)
	goodMarginFloor  = 0.25
)

// DealScore is the profitability assessment of a single listing.
// Margin and ROI are nil when their denominator is not positive.
type DealScore struct {
	ListingID   string        `json:"listing_id"`
	TotalCost   listing.Cents `json:"total_cost"`
	PlatformFee listing.Cents `json:"platform_fee"`
	Profit      listing.Cents `json:"profit"`
	Margin      *float64      `json:"margin,omitempty"`
	ROI         *float64      `json:"roi,omitempty"`
	Tier        Tier          `json:"tier"`
}

// Scorer computes deal scores under a fixed platform-fee model.
type Scorer struct {
	feePercent float64
}

// NewScorer creates a scorer charging feePercent of the current price
// as marketplace and payment fees.
func NewScorer(feePercent float64) *Scorer {
	return &Scorer{feePercent: feePercent}
}

// Score computes profitability for a listing against its estimate.
// Returns nil when the estimate is unavailable: an unestimated listing
// cannot be scored, it is not a zero-profit deal.
func (s *Scorer) Score(l *listing.Listing, est estimator.PriceEstimate) *DealScore {
	if est.EstimatedRetail == nil {
		return nil
	}
	retail := *est.EstimatedRetail

	fee := l.CurrentPrice.Percent(s.feePercent)
	totalCost := l.CurrentPrice + l.ShippingCost + fee
	profit := retail - totalCost

	score := &DealScore{
		ListingID:   l.ID,
		TotalCost:   totalCost,
		PlatformFee: fee,
		Profit:      profit,
	}

	if retail > 0 {
		margin := float64(profit) / float64(retail)
		score.Margin = &margin
	}
	if totalCost > 0 {
		roi := float64(profit) / float64(totalCost)
		score.ROI = &roi
	}

	score.Tier = tierOf(profit, score.Margin)
	return score
}

// tierOf evaluates great before good so a deal lands in the highest
// tier it qualifies for.
func tierOf(profit listing.Cents, margin *float64) Tier {
	if margin == nil {
		return TierNone
	}
	if profit > greatProfitFloor && *margin > greatMarginFloor {
		return TierGreat
	}
	if profit > goodProfitFloor && *margin > goodMarginFloor {
		return TierGood
	}
	return TierNone
}
