package api

import (
	"sync"

	"auctionhunter/internal/pipeline"
)

// Feed is a bounded in-memory ring of recently emitted deals, newest
// first. It implements pipeline.FeedSink.
type Feed struct {
	mu    sync.RWMutex
	deals []pipeline.Deal
	size  int
}

// NewFeed creates a feed holding at most size deals.
func NewFeed(size int) *Feed {
	if size < 1 {
		size = 1
	}
	return &Feed{size: size}
}

// Add appends a deal, evicting the oldest past capacity.
func (f *Feed) Add(deal pipeline.Deal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deals = append(f.deals, deal)
	if len(f.deals) > f.size {
		f.deals = f.deals[len(f.deals)-f.size:]
	}
}

// Recent returns the stored deals, newest first.
func (f *Feed) Recent() []pipeline.Deal {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]pipeline.Deal, len(f.deals))
	for i, d := range f.deals {
		out[len(f.deals)-1-i] = d
	}
	return out
}

// Len returns the number of stored deals.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.deals)
}
