package pipeline

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"auctionhunter/helpers"
	"auctionhunter/internal/estimator"
	"auctionhunter/internal/fetcher"
	"auctionhunter/internal/listing"
	"auctionhunter/internal/scoring"
	"auctionhunter/logger"
	pkgerr "auctionhunter/pkg/errors"
	"auctionhunter/services/notifier"
	"auctionhunter/services/publisher"
	"auctionhunter/services/seen"
)

// SearchFetcher yields raw result-card fragments for a query.
type SearchFetcher interface {
	Fetch(ctx context.Context, query string, opts fetcher.Options) ([]listing.Raw, error)
}

// FeedSink receives every emitted deal, most recent runs first.
type FeedSink interface {
	Add(deal Deal)
}

// Deps wires the run-time collaborators of a Hunter. Publisher,
// Notifier and Feed are optional; nil disables them.
type Deps struct {
	Fetcher   SearchFetcher
	Parser    *listing.Parser
	Estimator *estimator.Estimator
	Scorer    *scoring.Scorer
	Store     seen.Store
	Publisher publisher.Publisher
	Notifier  notifier.Notifier
	Feed      FeedSink
}

// Hunter drives one query through fetch, parse, score, filter and
// emit. Safe for concurrent Hunt calls; the only shared mutable state
// is the seen store and the last-run summary.
type Hunter struct {
	deps        Deps
	searchOpts  fetcher.Options
	concurrency int

	mu   sync.Mutex
	last *Summary
}

// NewHunter creates a Hunter.
func NewHunter(deps Deps, searchOpts fetcher.Options, concurrency int) *Hunter {
	return &Hunter{
		deps:        deps,
		searchOpts:  searchOpts,
		concurrency: concurrency,
	}
}

// LastSummary returns a copy of the most recent run summary, or nil
// before the first run.
func (h *Hunter) LastSummary() *Summary {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.last == nil {
		return nil
	}
	cp := *h.last
	return &cp
}

func (h *Hunter) track(s *Summary, stage Stage) {
	s.Stage = stage
	h.mu.Lock()
	cp := *s
	h.last = &cp
	h.mu.Unlock()
}

// Hunt runs the full pipeline for one query. minProfit is the profit
// floor in cents; notify routes survivors through the notifier.
func (h *Hunter) Hunt(ctx context.Context, query string, minProfit listing.Cents, notify bool) (*Result, error) {
	log := logger.ForPipeline(query)
	start := time.Now()

	summary := &Summary{
		RunID:     uuid.NewString(),
		Query:     query,
		StartedAt: start,
	}
	fail := func(err error) (*Result, error) {
		summary.Duration = time.Since(start)
		h.track(summary, StageErrored)
		return nil, err
	}

	// Fetching
	h.track(summary, StageFetching)
	raws, err := h.deps.Fetcher.Fetch(ctx, query, h.searchOpts)
	if err != nil {
		return fail(err)
	}
	summary.Fetched = len(raws)
	log.Info().Int("fetched", len(raws)).Msg("fetched result cards")

	// Parsing and scoring fan out over a bounded pool; slots keep the
	// native result order.
	h.track(summary, StageParsing)
	deals := make([]*Deal, len(raws))
	pool := helpers.NewWorkerPool(h.concurrency)
	for i := range raws {
		i := i
		pool.Submit(func() {
			l, err := h.deps.Parser.Parse(raws[i])
			if err != nil {
				log.Debug().Int("position", raws[i].Position).Err(err).Msg("dropped unparseable card")
				return
			}
			est := h.deps.Estimator.Estimate(l)
			deals[i] = &Deal{
				Listing:  l,
				Estimate: est,
				Score:    h.deps.Scorer.Score(l, est),
			}
		})
	}
	pool.Wait()

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	h.track(summary, StageScoring)
	for _, d := range deals {
		if d == nil {
			summary.ParseFailures++
			continue
		}
		summary.Parsed++
		if d.Score != nil {
			summary.Scored++
		}
	}

	// Filtering: unscored first, then the profit floor, then dedup.
	h.track(summary, StageFiltering)
	var survivors []Deal
	for _, d := range deals {
		if d == nil {
			continue
		}
		if d.Score == nil {
			summary.NoEstimate++
			continue
		}
		if d.Score.Profit < minProfit {
			summary.BelowMinProfit++
			continue
		}
		alreadySeen, err := h.deps.Store.HasSeen(ctx, d.Listing.Source, d.Listing.ID)
		if err != nil {
			return fail(pkgerr.NewStore("dedup lookup failed", err))
		}
		if alreadySeen {
			summary.AlreadySeen++
			continue
		}
		survivors = append(survivors, *d)
	}

	sort.Slice(survivors, func(i, j int) bool {
		a, b := survivors[i].Score, survivors[j].Score
		if a.Profit != b.Profit {
			return a.Profit > b.Profit
		}
		if a.TotalCost != b.TotalCost {
			return a.TotalCost < b.TotalCost
		}
		return survivors[i].Listing.ID < survivors[j].Listing.ID
	})

	// Emitting: publish, notify, then mark. A listing is only marked
	// seen once its alert is out the door.
	h.track(summary, StageEmitting)
	for _, d := range survivors {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}

		h.emitToFeed(d, log)
		if notify && h.deps.Notifier != nil {
			if err := h.deps.Notifier.Notify(notifier.Alert{Listing: d.Listing, Score: d.Score}); err != nil {
				log.Warn().Err(err).Str("listing_id", d.Listing.ID).Msg("notify failed")
			}
		}
		if err := h.deps.Store.MarkSeen(ctx, d.Listing.Source, d.Listing.ID, time.Now()); err != nil {
			return fail(pkgerr.NewStore("mark seen failed", err))
		}
		summary.Emitted++
	}

	if notify && h.deps.Notifier != nil {
		alerts := make([]notifier.Alert, 0, len(survivors))
		for _, d := range survivors {
			alerts = append(alerts, notifier.Alert{Listing: d.Listing, Score: d.Score})
		}
		if err := h.deps.Notifier.NotifySummary(query, alerts, summary.Fetched); err != nil {
			log.Warn().Err(err).Msg("summary notify failed")
		}
	}

	summary.Duration = time.Since(start)
	h.track(summary, StageDone)

	log.Info().
		Int("fetched", summary.Fetched).
		Int("parsed", summary.Parsed).
		Int("scored", summary.Scored).
		Int("emitted", summary.Emitted).
		Dur("duration", summary.Duration).
		Msg("hunt complete")

	return &Result{Deals: survivors, Summary: *summary}, nil
}

// emitToFeed hands the deal to the feed sink and the stream
// publisher. Publisher failures degrade the feed, not the run.
func (h *Hunter) emitToFeed(d Deal, log *logger.Logger) {
	if h.deps.Feed != nil {
		h.deps.Feed.Add(d)
	}
	if h.deps.Publisher == nil {
		return
	}
	payload, err := json.Marshal(d)
	if err != nil {
		log.Warn().Err(err).Str("listing_id", d.Listing.ID).Msg("deal encode failed")
		return
	}
	if err := h.deps.Publisher.Publish("deal", payload); err != nil {
		log.Warn().Err(err).Str("listing_id", d.Listing.ID).Msg("feed publish failed")
	}
}
