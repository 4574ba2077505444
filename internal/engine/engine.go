// Package engine implements the SmartBook reconciliation engine: it
// ingests L3 per-order updates, L2 snapshots and trade prints, proposes
// provisional "guess" mutations when one feed leads another, and repairs
// the book when a lagging feed confirms or contradicts a guess.
package engine

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"smartbook/internal/book"
	"smartbook/internal/common"
	"smartbook/internal/trades"
)

// DefaultExecutionProbability is the bias the spec documents for a lone
// L2 reduction observed with no L3 confirmation. New does not apply it
// implicitly — callers that want it must set Config.ExecutionProbability
// themselves (see cmd/smartbook's flag default).
const DefaultExecutionProbability = 0.3

// Config is the engine's tuning surface. ExecutionProbability is the
// only knob the spec names; Seed and TradeCapacity round out what a
// constructor needs to be fully deterministic and reproducible.
//
// ExecutionProbability and Seed have no implicit default inside New: 0
// is a legitimate value for both (0 forces the cancel/modify branch
// deterministically; seed 0 is as valid as any other seed), so a caller
// that wants the spec's documented default of 0.3 must set it
// explicitly — see the CLI flag default in cmd/smartbook.
type Config struct {
	// ExecutionProbability biases guessOrderReduction's Bernoulli draw.
	// Must be in [0,1].
	ExecutionProbability float64
	// Seed drives the engine's own RNG, bound at construction time so
	// a run is reproducible end to end.
	Seed int64
	// TradeCapacity is the reserve hint passed to the trade container.
	TradeCapacity int
}

// Engine is the ReconciliationEngine (a.k.a. OrderBook) from the design:
// it owns the reconciled SmartBook, a literal mirror of the raw L3 feed,
// the last L2 snapshot and the trade history, plus the in-flight guesses
// it is tracking.
type Engine struct {
	smartBook *book.L3Book
	rawL3     *book.L3Book
	l2Book    *book.L2Book
	tradeLog  *trades.Container

	guesses           map[common.OrderID]*common.OrderInfo
	aggressors        []common.OrderInfo
	guessedExecutions []common.OrderID

	nextSyntheticID common.OrderID

	executionProbability float64
	rng                  *rand.Rand

	callbacks Callbacks
	logger    zerolog.Logger
}

// New constructs an Engine ready to process events. A zero Config runs
// with ExecutionProbability 0 (guessOrderReduction always takes the
// cancel/modify branch) and Seed 0 — both legitimate, deterministic
// settings, not stand-ins for "use the spec's default".
func New(cfg Config) *Engine {
	runID := uuid.New()
	return &Engine{
		smartBook:            book.New("SmartBook"),
		rawL3:                book.New("L3Book"),
		l2Book:               book.NewL2Book(),
		tradeLog:             trades.New(cfg.TradeCapacity),
		guesses:              make(map[common.OrderID]*common.OrderInfo),
		nextSyntheticID:      -1,
		executionProbability: cfg.ExecutionProbability,
		rng:                  rand.New(rand.NewSource(cfg.Seed)),
		logger:               log.With().Str("runID", runID.String()).Str("component", "engine").Logger(),
	}
}

// SetCallbacks installs the four hook slots consumers use to observe the
// engine's guessed and confirmed mutations.
func (e *Engine) SetCallbacks(cb Callbacks) {
	e.callbacks = cb
}

// SmartBook returns the engine's reconciled, best-effort per-order view.
func (e *Engine) SmartBook() *book.L3Book { return e.smartBook }

// RawL3Book returns the literal mirror of the L3 feed, never touched by
// guesses.
func (e *Engine) RawL3Book() *book.L3Book { return e.rawL3 }

// L2Book returns the last received aggregated snapshot.
func (e *Engine) L2Book() *book.L2Book { return e.l2Book }

// Trades returns the trade print history.
func (e *Engine) Trades() *trades.Container { return e.tradeLog }

// Guesses returns a snapshot of the provisional mutations currently
// tracked, keyed by order id. Exposed for tests and diagnostics only —
// callers must not mutate the returned records.
func (e *Engine) Guesses() map[common.OrderID]common.OrderInfo {
	out := make(map[common.OrderID]common.OrderInfo, len(e.guesses))
	for id, info := range e.guesses {
		out[id] = *info
	}
	return out
}

// Aggressors returns a snapshot of the pending marketable-order records
// awaiting their ADD+CANCEL pair on the L3 feed.
func (e *Engine) Aggressors() []common.OrderInfo {
	out := make([]common.OrderInfo, len(e.aggressors))
	copy(out, e.aggressors)
	return out
}

// drawExecutionBranch decides, for a single order touched by
// guessOrderReduction, whether to guess an execution or a cancel/modify.
// The draw happens only in the open interval (0,1); at the endpoints the
// branch is forced, so tests relying on executionProbability 0 or 1 are
// deterministic.
func (e *Engine) drawExecutionBranch() bool {
	switch {
	case e.executionProbability <= 0:
		return false
	case e.executionProbability >= 1:
		return true
	default:
		return e.rng.Float64() < e.executionProbability
	}
}

func (e *Engine) allocSyntheticID() common.OrderID {
	id := e.nextSyntheticID
	e.nextSyntheticID--
	return id
}
