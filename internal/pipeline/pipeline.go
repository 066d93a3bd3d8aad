package pipeline

import (
	"time"

	"auctionhunter/internal/estimator"
	"auctionhunter/internal/listing"
	"auctionhunter/internal/scoring"
)

// Stage identifies how far a run has progressed.
type Stage string

const (
	StageFetching  Stage = "fetching"
	StageParsing   Stage = "parsing"
	StageScoring   Stage = "scoring"
	StageFiltering Stage = "filtering"
	StageEmitting  Stage = "emitting"
	StageDone      Stage = "done"
	StageErrored   Stage = "errored"
)

// Deal is one emitted alert: the listing, the retail estimate behind
// it and the resulting score.
type Deal struct {
	Listing  *listing.Listing        `json:"listing"`
	Estimate estimator.PriceEstimate `json:"estimate"`
	Score    *scoring.DealScore      `json:"score"`
}

// Summary accounts for every fetched card. Fetched equals Parsed plus
// ParseFailures; nothing is dropped silently.
type Summary struct {
	RunID     string        `json:"run_id"`
	Query     string        `json:"query"`
	Stage     Stage         `json:"stage"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`

	Fetched int `json:"fetched"`
	Parsed  int `json:"parsed"`
	Scored  int `json:"scored"`
	Emitted int `json:"emitted"`

	ParseFailures  int `json:"parse_failures"`
	NoEstimate     int `json:"no_estimate"`
	BelowMinProfit int `json:"below_min_profit"`
	AlreadySeen    int `json:"already_seen"`
}

// Result is what one run hands back to the caller.
type Result struct {
	Deals   []Deal  `json:"deals"`
	Summary Summary `json:"summary"`
}
