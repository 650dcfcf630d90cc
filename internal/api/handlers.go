package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/harborlight/ipsearch/internal/history"
	"github.com/harborlight/ipsearch/internal/records"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
	historyTimeout     = 3 * time.Second
)

// searchPatents handles POST /v1/patents/search. Malformed JSON is a 400;
// everything else, including a query no adapter could serve, is a 200 whose
// envelope names the source that answered.
func (s *Server) searchPatents(w http.ResponseWriter, r *http.Request) {
	if s.searcher == nil {
		writeError(w, http.StatusServiceUnavailable, "search engine unavailable")
		return
	}
	var q records.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	recs, sourceUsed := s.searcher.SearchPatents(r.Context(), q)
	if recs == nil {
		recs = []records.PatentRecord{}
	}
	writeJSON(w, http.StatusOK, patentSearchResponse{
		Kind:       string(records.KindPatent),
		Query:      q.Text,
		SourceUsed: sourceUsed,
		Count:      len(recs),
		Records:    recs,
	})
}

// searchTrademarks handles POST /v1/trademarks/search with the same contract
// as searchPatents.
func (s *Server) searchTrademarks(w http.ResponseWriter, r *http.Request) {
	if s.searcher == nil {
		writeError(w, http.StatusServiceUnavailable, "search engine unavailable")
		return
	}
	var q records.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	recs, sourceUsed := s.searcher.SearchTrademarks(r.Context(), q)
	if recs == nil {
		recs = []records.TrademarkRecord{}
	}
	writeJSON(w, http.StatusOK, trademarkSearchResponse{
		Kind:       string(records.KindTrademark),
		Query:      q.Text,
		SourceUsed: sourceUsed,
		Count:      len(recs),
		Records:    recs,
	})
}

// getStatus handles GET /v1/status/{kind}/{id}. The checker itself never
// fails, so the only error surface is an unknown kind segment.
func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	if s.status == nil {
		writeError(w, http.StatusServiceUnavailable, "status checker unavailable")
		return
	}
	kind, err := records.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid kind")
		return
	}
	rec := s.status.Check(r.Context(), kind, chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, statusResponse{
		SourceUsed: rec.Source,
		Record:     rec,
	})
}

// crawl handles POST /v1/crawl. Invalid member URLs do not fail the request;
// they come back as failed results in position.
func (s *Server) crawl(w http.ResponseWriter, r *http.Request) {
	if s.crawler == nil {
		writeError(w, http.StatusServiceUnavailable, "crawler unavailable")
		return
	}
	var req crawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.URLs) == 0 {
		writeError(w, http.StatusBadRequest, "urls required")
		return
	}
	results := s.crawler.CrawlMultiple(r.Context(), req.URLs)
	succeeded := 0
	for _, res := range results {
		if res.Success {
			succeeded++
		}
		if s.metrics != nil {
			s.metrics.ObserveCrawl(res.Success)
		}
	}
	writeJSON(w, http.StatusOK, crawlResponse{
		SourceUsed: records.SourceDelegate,
		Count:      len(results),
		Succeeded:  succeeded,
		Results:    results,
	})
}

// recentSearches handles GET /v1/searches/recent?limit=. It returns a JSON
// object {"searches": [...]} on success, 400 for an invalid limit, or 500 if
// the history store fails.
func (s *Server) recentSearches(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, defaultRecentLimit, maxRecentLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), historyTimeout)
	defer cancel()

	recs, err := s.history.RecentSearches(ctx, limit)
	if err != nil {
		s.logger.Error("list recent searches failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list searches")
		return
	}
	if recs == nil {
		recs = []history.SearchRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"searches": recs})
}

func parseLimit(r *http.Request, def, maxLimit int) (int, error) {
	limStr := r.URL.Query().Get("limit")
	if limStr == "" {
		return def, nil
	}
	val, err := strconv.Atoi(limStr)
	if err != nil || val <= 0 {
		return 0, errors.New("invalid limit")
	}
	if val > maxLimit {
		val = maxLimit
	}
	return val, nil
}

type crawlRequest struct {
	URLs []string `json:"urls"`
}

type patentSearchResponse struct {
	Kind       string                 `json:"kind"`
	Query      string                 `json:"query"`
	SourceUsed string                 `json:"sourceUsed"`
	Count      int                    `json:"count"`
	Records    []records.PatentRecord `json:"records"`
}

type trademarkSearchResponse struct {
	Kind       string                    `json:"kind"`
	Query      string                    `json:"query"`
	SourceUsed string                    `json:"sourceUsed"`
	Count      int                       `json:"count"`
	Records    []records.TrademarkRecord `json:"records"`
}

type statusResponse struct {
	SourceUsed string               `json:"sourceUsed"`
	Record     records.StatusRecord `json:"record"`
}

type crawlResponse struct {
	SourceUsed string                `json:"sourceUsed"`
	Count      int                   `json:"count"`
	Succeeded  int                   `json:"succeeded"`
	Results    []records.CrawlResult `json:"results"`
}
