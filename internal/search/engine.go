// Package search implements the fallback orchestrator: a priority-ordered
// walk over acquisition adapters that turns a raw query into canonical
// records. The walk stops at the first adapter whose output survives
// normalization; exhaustion is answered by the static fallback dataset, so a
// search never returns an error and always reports which source answered.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/harborlight/ipsearch/internal/archive"
	csystem "github.com/harborlight/ipsearch/internal/clock/system"
	"github.com/harborlight/ipsearch/internal/events"
	"github.com/harborlight/ipsearch/internal/fallback"
	"github.com/harborlight/ipsearch/internal/hash/sha256"
	"github.com/harborlight/ipsearch/internal/history"
	iduuid "github.com/harborlight/ipsearch/internal/id/uuid"
	"github.com/harborlight/ipsearch/internal/metrics"
	"github.com/harborlight/ipsearch/internal/records"
	"github.com/harborlight/ipsearch/internal/source"
)

// Clock returns the current time (injectable for tests).
type Clock interface {
	Now() time.Time
}

// IDGenerator mints search IDs (UUIDs).
type IDGenerator interface {
	NewID() (string, error)
}

// Config controls orchestration behavior.
type Config struct {
	// AdapterTimeout bounds a single adapter attempt.
	AdapterTimeout time.Duration `mapstructure:"adapter_timeout"`
	// PersistTimeout bounds each best-effort post-search step.
	PersistTimeout time.Duration `mapstructure:"persist_timeout"`
}

func (c *Config) applyDefaults() {
	if c.AdapterTimeout <= 0 {
		c.AdapterTimeout = 2 * time.Minute
	}
	if c.PersistTimeout <= 0 {
		c.PersistTimeout = 5 * time.Second
	}
}

// Engine orchestrates the adapter walk. The sources slice is the priority
// order; reordering it is configuration, not code. Safe for concurrent use:
// all fields are read-only after construction and the injected dependencies
// are themselves concurrency-safe.
type Engine struct {
	cfg     Config
	sources []source.Source
	gen     *fallback.Generator
	history history.Store
	archive archive.Store
	events  events.Publisher
	metrics *metrics.Metrics
	clock   Clock
	ids     IDGenerator
	logger  *zap.Logger
}

// New constructs an Engine. Sources are walked in slice order. The history,
// archive and events dependencies may be nil and degrade to no-ops; a nil
// metrics handle disables instrumentation; nil clock and id generators take
// the real implementations.
func New(
	sources []source.Source,
	gen *fallback.Generator,
	hist history.Store,
	arch archive.Store,
	pub events.Publisher,
	met *metrics.Metrics,
	clk Clock,
	ids IDGenerator,
	cfg Config,
	logger *zap.Logger,
) *Engine {
	cfg.applyDefaults()
	if gen == nil {
		gen = fallback.New()
	}
	if hist == nil {
		hist = history.NoOp{}
	}
	if arch == nil {
		arch = archive.NoOp{}
	}
	if pub == nil {
		pub = events.NoOp{}
	}
	if clk == nil {
		clk = csystem.New()
	}
	if ids == nil {
		ids = iduuid.NewUUIDGenerator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:     cfg,
		sources: sources,
		gen:     gen,
		history: hist,
		archive: arch,
		events:  pub,
		metrics: met,
		clock:   clk,
		ids:     ids,
		logger:  logger,
	}
}

// SearchPatents runs one orchestrated patent search. The returned source is
// the identifier of the adapter that answered, "fallback" when every adapter
// failed or came back empty, or "none" when the query was rejected before
// any adapter ran.
func (e *Engine) SearchPatents(ctx context.Context, q records.SearchQuery) ([]records.PatentRecord, string) {
	q.Kind = records.KindPatent
	started := e.clock.Now()

	norm, ok := e.admit(q, started)
	if !ok {
		return []records.PatentRecord{}, records.SourceNone
	}

	winner, raw, outcomes := e.acquire(ctx, norm, func(r records.Raw) bool {
		return len(records.NormalizePatents(r)) > 0
	})

	var recs []records.PatentRecord
	sourceUsed := winner
	if winner == "" {
		sourceUsed = records.SourceFallback
		recs = e.gen.Patents(norm)
	} else {
		recs = records.DedupePatents(records.NormalizePatents(raw))
	}
	if len(recs) > norm.Limit {
		recs = recs[:norm.Limit]
	}

	e.finish(ctx, norm, sourceUsed, len(recs), started, raw, outcomes)
	return recs, sourceUsed
}

// SearchTrademarks is the trademark counterpart of SearchPatents.
func (e *Engine) SearchTrademarks(ctx context.Context, q records.SearchQuery) ([]records.TrademarkRecord, string) {
	q.Kind = records.KindTrademark
	started := e.clock.Now()

	norm, ok := e.admit(q, started)
	if !ok {
		return []records.TrademarkRecord{}, records.SourceNone
	}

	winner, raw, outcomes := e.acquire(ctx, norm, func(r records.Raw) bool {
		return len(records.NormalizeTrademarks(r)) > 0
	})

	var recs []records.TrademarkRecord
	sourceUsed := winner
	if winner == "" {
		sourceUsed = records.SourceFallback
		recs = e.gen.Trademarks(norm)
	} else {
		recs = records.DedupeTrademarks(records.NormalizeTrademarks(raw))
	}
	if len(recs) > norm.Limit {
		recs = recs[:norm.Limit]
	}

	e.finish(ctx, norm, sourceUsed, len(recs), started, raw, outcomes)
	return recs, sourceUsed
}

// admit validates and canonicalizes the query. A false return means the
// search is answered immediately with no records and sourceUsed "none".
func (e *Engine) admit(q records.SearchQuery, started time.Time) (records.SearchQuery, bool) {
	norm, err := records.NormalizeQuery(q)
	if err != nil {
		e.observeRejection(string(q.Kind), started)
		e.logger.Info("query rejected",
			zap.String("kind", string(q.Kind)),
			zap.Error(err),
		)
		return records.SearchQuery{}, false
	}
	if norm.IsEmpty() {
		e.observeRejection(string(q.Kind), started)
		e.logger.Debug("query carries nothing to search on", zap.String("kind", string(q.Kind)))
		return records.SearchQuery{}, false
	}
	return norm, true
}

func (e *Engine) observeRejection(kind string, started time.Time) {
	if e.metrics != nil {
		e.metrics.ObserveSearch(kind, records.SourceNone, e.clock.Now().Sub(started))
	}
}

// acquire walks the strategy list in priority order and returns the name and
// raw output of the first adapter whose result keep accepts, along with the
// outcome of every attempt made. An empty winner means exhaustion. Errors
// and panics never escape: they become failed outcomes and the walk moves
// on.
func (e *Engine) acquire(ctx context.Context, q records.SearchQuery, keep func(records.Raw) bool) (string, records.Raw, []source.Outcome) {
	outcomes := make([]source.Outcome, 0, len(e.sources))
	for _, src := range e.sources {
		if ctx.Err() != nil {
			break
		}
		started := e.clock.Now()
		raw, err := e.attempt(ctx, src, q)
		out := source.Outcome{
			Adapter: src.Name(),
			Success: err == nil,
			Records: raw.Count(),
			Elapsed: e.clock.Now().Sub(started),
		}
		if err != nil {
			out.Err = err.Error()
		}
		outcomes = append(outcomes, out)
		e.observeAttempt(out)

		if err == nil && keep(raw) {
			return src.Name(), raw, outcomes
		}
	}
	return "", records.Raw{}, outcomes
}

// attempt runs one adapter under the per-adapter timeout. A panicking
// adapter is reported as an ordinary error.
func (e *Engine) attempt(ctx context.Context, src source.Source, q records.SearchQuery) (raw records.Raw, err error) {
	actx, cancel := context.WithTimeout(ctx, e.cfg.AdapterTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			raw = records.Raw{}
			err = fmt.Errorf("adapter %s panicked: %v", src.Name(), r)
		}
	}()

	raw, err = src.Search(actx, q)
	if err != nil {
		return records.Raw{}, fmt.Errorf("adapter %s: %w", src.Name(), err)
	}
	return raw, nil
}

func (e *Engine) observeAttempt(out source.Outcome) {
	if e.metrics != nil {
		outcome := "failed"
		switch {
		case out.Success && out.Records > 0:
			outcome = "ok"
		case out.Success:
			outcome = "empty"
		}
		e.metrics.ObserveAdapter(out.Adapter, outcome, out.Elapsed)
	}
	if out.Success {
		e.logger.Debug("adapter attempt",
			zap.String("adapter", out.Adapter),
			zap.Int("records", out.Records),
			zap.Duration("elapsed", out.Elapsed),
		)
		return
	}
	e.logger.Warn("adapter attempt failed",
		zap.String("adapter", out.Adapter),
		zap.Duration("elapsed", out.Elapsed),
		zap.String("error", out.Err),
	)
}

// finish runs the best-effort post-search steps inline: metrics, the search
// log line, history, archiving the winning raw payload, and the search
// event. Each step is bounded by its own timeout, detached from the request
// context so a client disconnect does not lose the record; failures are
// logged with the search ID and dropped.
func (e *Engine) finish(
	ctx context.Context,
	q records.SearchQuery,
	sourceUsed string,
	count int,
	started time.Time,
	raw records.Raw,
	outcomes []source.Outcome,
) {
	elapsed := e.clock.Now().Sub(started)
	if e.metrics != nil {
		e.metrics.ObserveSearch(string(q.Kind), sourceUsed, elapsed)
	}

	id, err := e.ids.NewID()
	if err != nil {
		e.logger.Warn("search id generation failed", zap.Error(err))
		return
	}
	e.logger.Info("search completed",
		zap.String("search_id", id),
		zap.String("kind", string(q.Kind)),
		zap.String("source_used", sourceUsed),
		zap.Int("records", count),
		zap.Int("attempts", len(outcomes)),
		zap.Duration("elapsed", elapsed),
	)

	hctx, hcancel := e.persistCtx(ctx)
	err = e.history.SaveSearch(hctx, history.SearchRecord{
		ID:          id,
		Kind:        string(q.Kind),
		Query:       q.Text,
		SourceUsed:  sourceUsed,
		RecordCount: count,
		ElapsedMS:   elapsed.Milliseconds(),
		CreatedAt:   started,
	})
	hcancel()
	if err != nil {
		e.logger.Warn("history save failed", zap.String("search_id", id), zap.Error(err))
	}

	e.archiveRaw(ctx, id, sourceUsed, raw)

	ectx, ecancel := e.persistCtx(ctx)
	err = e.events.Publish(ectx, events.SearchEvent{
		SearchID:    id,
		Kind:        string(q.Kind),
		Query:       q.Text,
		SourceUsed:  sourceUsed,
		RecordCount: count,
		ElapsedMS:   elapsed.Milliseconds(),
		Timestamp:   e.clock.Now(),
	})
	ecancel()
	if err != nil {
		e.logger.Warn("event publish failed", zap.String("search_id", id), zap.Error(err))
	}
}

// archiveRaw stores the winning adapter payload under a key carrying a
// digest fragment of the payload. Fallback responses carry no raw payload,
// so exhausted searches archive nothing.
func (e *Engine) archiveRaw(ctx context.Context, id, sourceUsed string, raw records.Raw) {
	if raw.Empty() {
		return
	}
	data, err := json.Marshal(raw)
	if err != nil {
		e.logger.Warn("archive payload encode failed", zap.String("search_id", id), zap.Error(err))
		return
	}
	key := fmt.Sprintf("searches/%s/%s-%s.json", id, sourceUsed, sha256.KeyFragment(data))
	actx, cancel := e.persistCtx(ctx)
	defer cancel()
	if _, err := e.archive.Put(actx, key, "application/json", data); err != nil {
		e.logger.Warn("archive write failed", zap.String("search_id", id), zap.Error(err))
	}
}

// persistCtx detaches from the caller's cancelation but keeps a bound, so
// post-search persistence survives a client disconnect without ever hanging
// the response path.
func (e *Engine) persistCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), e.cfg.PersistTimeout)
}
