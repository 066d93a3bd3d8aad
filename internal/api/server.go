package api

import (
	"encoding/json"
	"net/http"

	"auctionhunter/internal/pipeline"
	"auctionhunter/logger"
)

// RunReporter exposes the most recent pipeline run.
type RunReporter interface {
	LastSummary() *pipeline.Summary
}

// Server is the read-only HTTP surface: liveness plus the recent-deal
// feed.
type Server struct {
	feed     *Feed
	reporter RunReporter
	log      *logger.Logger
}

// NewServer creates a Server over the feed and run reporter.
func NewServer(feed *Feed, reporter RunReporter) *Server {
	return &Server{
		feed:     feed,
		reporter: reporter,
		log:      logger.ForAPI(),
	}
}

// Router registers the HTTP routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/deals", s.dealsHandler)
	return mux
}

type healthResponse struct {
	Status  string            `json:"status"`
	LastRun *pipeline.Summary `json:"last_run,omitempty"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := healthResponse{Status: "ok"}
	if s.reporter != nil {
		resp.LastRun = s.reporter.LastSummary()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type dealsResponse struct {
	Count int             `json:"count"`
	Deals []pipeline.Deal `json:"deals"`
}

func (s *Server) dealsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	deals := s.feed.Recent()
	if deals == nil {
		deals = []pipeline.Deal{}
	}
	s.writeJSON(w, http.StatusOK, dealsResponse{Count: len(deals), Deals: deals})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn().Err(err).Msg("response encode failed")
	}
}
