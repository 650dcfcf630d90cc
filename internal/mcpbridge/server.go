// Package mcpbridge exposes the acquisition service to MCP clients over
// stdio. Tools mirror the HTTP surface one to one: search_patents,
// search_trademarks, check_status, and crawl_multiple.
package mcpbridge

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/harborlight/ipsearch/internal/records"
)

const (
	serverName = "ipsearch"

	// Version is reported to MCP clients during initialization.
	Version = "1.0.0"
)

// Searcher runs orchestrated patent and trademark searches.
type Searcher interface {
	SearchPatents(ctx context.Context, q records.SearchQuery) ([]records.PatentRecord, string)
	SearchTrademarks(ctx context.Context, q records.SearchQuery) ([]records.TrademarkRecord, string)
}

// StatusChecker looks up the prosecution status of one filing.
type StatusChecker interface {
	Check(ctx context.Context, kind records.Kind, id string) records.StatusRecord
}

// BulkCrawler hands a set of URLs to the delegated extraction process.
type BulkCrawler interface {
	CrawlMultiple(ctx context.Context, urls []string) []records.CrawlResult
}

// Server bridges tool calls to the search engine, status checker, and
// crawler.
type Server struct {
	searcher Searcher
	status   StatusChecker
	crawler  BulkCrawler
	server   *mcp.Server
	logger   *zap.Logger
}

// New constructs the bridge and registers its tools. The searcher is
// required; status and crawler tools answer with an error when their backing
// component is missing.
func New(searcher Searcher, status StatusChecker, crawler BulkCrawler, logger *zap.Logger) (*Server, error) {
	if searcher == nil {
		return nil, errors.New("mcpbridge: searcher is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		searcher: searcher,
		status:   status,
		crawler:  crawler,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    serverName,
			Version: Version,
		}, nil),
		logger: logger,
	}
	s.registerTools()
	return s, nil
}

// Run serves MCP over stdio until the context is canceled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server started", zap.String("transport", "stdio"))
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
