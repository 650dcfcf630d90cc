// Package api hosts the HTTP server, middleware, and REST handlers for the
// acquisition service. Notable routes:
//   - GET /healthz and /readyz for Kubernetes probes.
//   - GET /metrics for Prometheus scraping.
//   - POST /v1/patents/search and /v1/trademarks/search for orchestrated
//     searches; the response envelope always names the source that served it.
//   - GET /v1/status/{kind}/{id} for prosecution status lookups.
//   - POST /v1/crawl for bulk delegated extraction.
//   - GET /v1/searches/recent for search history.
package api
