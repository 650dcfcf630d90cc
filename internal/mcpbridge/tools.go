package mcpbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harborlight/ipsearch/internal/records"
)

// SearchPatentsInput is the input schema for the search_patents tool.
type SearchPatentsInput struct {
	Query              string `json:"query" jsonschema:"free-text query: an invention description, keywords, or a patent number"`
	Inventor           string `json:"inventor,omitempty" jsonschema:"inventor name filter, best effort"`
	Applicant          string `json:"applicant,omitempty" jsonschema:"applicant or assignee name filter, best effort"`
	DateFrom           string `json:"dateFrom,omitempty" jsonschema:"earliest filing date, ISO format YYYY-MM-DD"`
	DateTo             string `json:"dateTo,omitempty" jsonschema:"latest filing date, ISO format YYYY-MM-DD"`
	Status             string `json:"status,omitempty" jsonschema:"prosecution status filter, or all"`
	ClassificationCode string `json:"classificationCode,omitempty" jsonschema:"CPC or USPC classification code"`
	Limit              int    `json:"limit,omitempty" jsonschema:"maximum records to return, 1-100, default 20"`
}

func (in SearchPatentsInput) toQuery() records.SearchQuery {
	return records.SearchQuery{
		Text:               in.Query,
		Inventor:           in.Inventor,
		Applicant:          in.Applicant,
		DateFrom:           in.DateFrom,
		DateTo:             in.DateTo,
		Status:             in.Status,
		ClassificationCode: in.ClassificationCode,
		Limit:              in.Limit,
	}
}

// SearchPatentsOutput is the output schema for the search_patents tool.
type SearchPatentsOutput struct {
	Kind       string                 `json:"kind"`
	Query      string                 `json:"query"`
	SourceUsed string                 `json:"sourceUsed"`
	Count      int                    `json:"count"`
	Records    []records.PatentRecord `json:"records"`
}

// SearchTrademarksInput is the input schema for the search_trademarks tool.
type SearchTrademarksInput struct {
	Query         string `json:"query" jsonschema:"mark text or free-text query"`
	Owner         string `json:"owner,omitempty" jsonschema:"mark owner name filter, best effort"`
	DateFrom      string `json:"dateFrom,omitempty" jsonschema:"earliest filing date, ISO format YYYY-MM-DD"`
	DateTo        string `json:"dateTo,omitempty" jsonschema:"latest filing date, ISO format YYYY-MM-DD"`
	Status        string `json:"status,omitempty" jsonschema:"registration status filter, or all"`
	GoodsServices string `json:"goodsServices,omitempty" jsonschema:"goods and services description filter"`
	Limit         int    `json:"limit,omitempty" jsonschema:"maximum records to return, 1-100, default 20"`
}

func (in SearchTrademarksInput) toQuery() records.SearchQuery {
	return records.SearchQuery{
		Text:          in.Query,
		Owner:         in.Owner,
		DateFrom:      in.DateFrom,
		DateTo:        in.DateTo,
		Status:        in.Status,
		GoodsServices: in.GoodsServices,
		Limit:         in.Limit,
	}
}

// SearchTrademarksOutput is the output schema for the search_trademarks tool.
type SearchTrademarksOutput struct {
	Kind       string                    `json:"kind"`
	Query      string                    `json:"query"`
	SourceUsed string                    `json:"sourceUsed"`
	Count      int                       `json:"count"`
	Records    []records.TrademarkRecord `json:"records"`
}

// CheckStatusInput is the input schema for the check_status tool.
type CheckStatusInput struct {
	Kind string `json:"kind" jsonschema:"filing kind: patent or trademark"`
	ID   string `json:"id" jsonschema:"patent number, application number, or trademark serial number"`
}

// CheckStatusOutput is the output schema for the check_status tool.
type CheckStatusOutput struct {
	SourceUsed string               `json:"sourceUsed"`
	Record     records.StatusRecord `json:"record"`
}

// CrawlMultipleInput is the input schema for the crawl_multiple tool.
type CrawlMultipleInput struct {
	URLs []string `json:"urls" jsonschema:"absolute URLs to crawl, processed in batches of five"`
}

// CrawlMultipleOutput is the output schema for the crawl_multiple tool.
type CrawlMultipleOutput struct {
	SourceUsed string                `json:"sourceUsed"`
	Count      int                   `json:"count"`
	Succeeded  int                   `json:"succeeded"`
	Results    []records.CrawlResult `json:"results"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_patents",
		Description: "Search USPTO patent records. Falls back through browser automation, an external index, and delegated extraction; always answers and names the source used.",
	}, s.handleSearchPatents)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_trademarks",
		Description: "Search USPTO trademark records. Same fallback chain and guarantees as search_patents.",
	}, s.handleSearchTrademarks)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_status",
		Description: "Look up the prosecution status of one patent or trademark filing. Never fails: unreachable registries yield a deterministic fallback record.",
	}, s.handleCheckStatus)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "crawl_multiple",
		Description: "Crawl a list of URLs through the delegated extraction process, classifying and extracting IP-related content from each.",
	}, s.handleCrawlMultiple)
}

func (s *Server) handleSearchPatents(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	in SearchPatentsInput,
) (*mcp.CallToolResult, SearchPatentsOutput, error) {
	recs, sourceUsed := s.searcher.SearchPatents(ctx, in.toQuery())
	if recs == nil {
		recs = []records.PatentRecord{}
	}
	out := SearchPatentsOutput{
		Kind:       string(records.KindPatent),
		Query:      in.Query,
		SourceUsed: sourceUsed,
		Count:      len(recs),
		Records:    recs,
	}
	summary := fmt.Sprintf("%d patent records for %q (source: %s)", len(recs), in.Query, sourceUsed)
	return textResult(summary, out), out, nil
}

func (s *Server) handleSearchTrademarks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	in SearchTrademarksInput,
) (*mcp.CallToolResult, SearchTrademarksOutput, error) {
	recs, sourceUsed := s.searcher.SearchTrademarks(ctx, in.toQuery())
	if recs == nil {
		recs = []records.TrademarkRecord{}
	}
	out := SearchTrademarksOutput{
		Kind:       string(records.KindTrademark),
		Query:      in.Query,
		SourceUsed: sourceUsed,
		Count:      len(recs),
		Records:    recs,
	}
	summary := fmt.Sprintf("%d trademark records for %q (source: %s)", len(recs), in.Query, sourceUsed)
	return textResult(summary, out), out, nil
}

func (s *Server) handleCheckStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	in CheckStatusInput,
) (*mcp.CallToolResult, CheckStatusOutput, error) {
	if s.status == nil {
		return nil, CheckStatusOutput{}, errors.New("status checker unavailable")
	}
	kind, err := records.ParseKind(in.Kind)
	if err != nil {
		return nil, CheckStatusOutput{}, err
	}
	rec := s.status.Check(ctx, kind, in.ID)
	out := CheckStatusOutput{SourceUsed: rec.Source, Record: rec}
	summary := fmt.Sprintf("%s %s: %s (source: %s)", kind, in.ID, rec.Status, rec.Source)
	return textResult(summary, out), out, nil
}

func (s *Server) handleCrawlMultiple(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	in CrawlMultipleInput,
) (*mcp.CallToolResult, CrawlMultipleOutput, error) {
	if s.crawler == nil {
		return nil, CrawlMultipleOutput{}, errors.New("crawler unavailable")
	}
	if len(in.URLs) == 0 {
		return nil, CrawlMultipleOutput{}, errors.New("urls required")
	}
	results := s.crawler.CrawlMultiple(ctx, in.URLs)
	succeeded := 0
	for _, res := range results {
		if res.Success {
			succeeded++
		}
	}
	out := CrawlMultipleOutput{
		SourceUsed: records.SourceDelegate,
		Count:      len(results),
		Succeeded:  succeeded,
		Results:    results,
	}
	summary := fmt.Sprintf("crawled %d URLs, %d succeeded", len(results), succeeded)
	return textResult(summary, out), out, nil
}

// textResult pairs a one-line human summary with the pretty-printed JSON
// payload, so clients that ignore structured content still see everything.
func textResult(summary string, payload any) *mcp.CallToolResult {
	text := summary
	if body, err := json.MarshalIndent(payload, "", "  "); err == nil {
		text = summary + "\n\n" + string(body)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
