// Package ledger is the reconciliation engine. It admits expenses and
// settlements, cascades expense deletion into settlements, and derives
// balance views from the stored records on every call.
//
// Every operation takes the caller's user ID explicitly and runs as one
// storage transaction: reads share a single snapshot, writes are
// serializable, so a settlement's balance check and its insert cannot
// interleave with another write.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/storage"
)

const tracerName = "github.com/mmynk/splitledger/internal/ledger"

// GroupSettlementPolicy decides how grouped settlements are bounded.
type GroupSettlementPolicy string

const (
	// PolicyUnbounded checks only that both parties belong to the group.
	PolicyUnbounded GroupSettlementPolicy = "unbounded"
	// PolicyBounded also rejects grouped settlements that exceed the
	// outstanding group balance between the two parties.
	PolicyBounded GroupSettlementPolicy = "bounded"
)

// ParsePolicy parses a policy name. The empty string selects PolicyUnbounded.
func ParsePolicy(s string) (GroupSettlementPolicy, error) {
	switch GroupSettlementPolicy(s) {
	case "", PolicyUnbounded:
		return PolicyUnbounded, nil
	case PolicyBounded:
		return PolicyBounded, nil
	}
	return "", fmt.Errorf("unknown group settlement policy %q", s)
}

// Defaults for the activity feed.
const (
	DefaultActivityWindow = 50
	DefaultActivityLimit  = 20
)

// Options configures an Engine. The zero value is usable.
type Options struct {
	GroupSettlementPolicy GroupSettlementPolicy

	// ActivityWindow is how many of the most recent expenses the feed
	// scans; ActivityLimit caps how many it returns.
	ActivityWindow int
	ActivityLimit  int

	Metrics *metrics.Collector
	Tracer  trace.Tracer
	Logger  *slog.Logger

	// Observer receives every balance adjustment made by read views. When
	// nil, adjustments are logged at debug level if the logger enables it.
	Observer calculator.Observer

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Engine runs ledger operations against a Store.
type Engine struct {
	store    storage.Store
	policy   GroupSettlementPolicy
	window   int
	limit    int
	metrics  *metrics.Collector
	tracer   trace.Tracer
	logger   *slog.Logger
	observer calculator.Observer
	now      func() time.Time
}

// New creates an Engine.
func New(store storage.Store, opts Options) *Engine {
	e := &Engine{
		store:    store,
		policy:   opts.GroupSettlementPolicy,
		window:   opts.ActivityWindow,
		limit:    opts.ActivityLimit,
		metrics:  opts.Metrics,
		tracer:   opts.Tracer,
		logger:   opts.Logger,
		observer: opts.Observer,
		now:      opts.Now,
	}
	if e.policy == "" {
		e.policy = PolicyUnbounded
	}
	if e.window <= 0 {
		e.window = DefaultActivityWindow
	}
	if e.limit <= 0 {
		e.limit = DefaultActivityLimit
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer(tracerName)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// write runs fn in a serializable transaction, traced and counted as op.
func (e *Engine) write(ctx context.Context, op, callerID string, fn func(context.Context, storage.Tx) error) error {
	err := e.run(ctx, op, callerID, e.store.WriteTx, fn)
	result := metrics.ResultOK
	if err != nil {
		result = KindName(err)
	}
	e.metrics.Write(op, result)
	return err
}

// read runs fn against one snapshot, traced and counted as op.
func (e *Engine) read(ctx context.Context, op, callerID string, fn func(context.Context, storage.Tx) error) error {
	err := e.run(ctx, op, callerID, e.store.ReadTx, fn)
	if err == nil {
		e.metrics.Read(op)
	}
	return err
}

func (e *Engine) run(
	ctx context.Context,
	op, callerID string,
	tx func(context.Context, func(storage.Tx) error) error,
	fn func(context.Context, storage.Tx) error,
) error {
	defer e.metrics.Observe(op, time.Now())

	ctx, span := e.tracer.Start(ctx, "ledger."+op, trace.WithAttributes(
		attribute.String("ledger.caller_id", callerID),
	))
	defer span.End()

	err := tx(ctx, func(t storage.Tx) error { return fn(ctx, t) })
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var lerr *Error
		if !errors.As(err, &lerr) {
			e.logger.ErrorContext(ctx, "ledger operation failed", "operation", op, "error", err)
		}
	}
	return err
}

// observe returns the observer for one read view, or nil when nobody
// listens.
func (e *Engine) observe(ctx context.Context, view string) calculator.Observer {
	if e.observer != nil {
		return e.observer
	}
	if !e.logger.Enabled(ctx, slog.LevelDebug) {
		return nil
	}
	return func(a calculator.Adjustment) {
		e.logger.LogAttrs(ctx, slog.LevelDebug, "balance adjustment",
			slog.String("view", view),
			slog.String("counterparty", a.Counterparty),
			slog.String("source", string(a.Source)),
			slog.String("record_id", a.RecordID),
			slog.Float64("delta", a.Delta),
			slog.Float64("balance", a.Balance),
		)
	}
}

// lookup maps storage.ErrNotFound onto ErrNotFound and passes other
// errors through.
func lookup(err error, what, id string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return notFound("%s %s not found", what, id)
	}
	return err
}
