// Package main hosts the ipsearch executable.
//
// Architecture overview:
//   - Search orchestration: internal/search.Engine normalizes each query,
//     walks the configured adapter chain in priority order, and stops at the
//     first adapter that returns records. When every adapter fails or comes
//     back empty, internal/fallback synthesizes deterministic guidance
//     records, so a search never surfaces an error.
//   - Acquisition adapters: internal/source/browser drives a hardened
//     Chromedp session with human-paced typing and pauses,
//     internal/source/gpatents queries the public patent index over a
//     rate-limited Colly client, and internal/source/delegate hands URLs to
//     an external extraction process fed structured JSON over stdin.
//   - Surfaces: internal/api serves the chi HTTP API with health probes and
//     Prometheus metrics; internal/mcpbridge exposes the same operations as
//     MCP tools over stdio; this package's cobra commands run one-shot
//     searches, status lookups and bulk crawls from the terminal.
//   - Persistence & fanout: search history lands in Postgres (pgx) or
//     memory, raw payloads are archived to GCS or local disk, and completed
//     searches are published to Pub/Sub when configured.
//   - Plumbing: Viper populates config from file and IPSEARCH_* env vars,
//     zap provides structured logging, and internal/app wires the graph and
//     tears it down on shutdown.
package main

import (
	"github.com/harborlight/ipsearch/cmd"
)

// main defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
