// Package host executes ledger operations. It owns the serialization the
// ledger aggregate requires, stamps caller identity and time onto every call,
// buffers emitted records until the operation commits, and persists state and
// records through the store after each mutation.
package host

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pflow-xyz/go-ledger/event"
	"github.com/pflow-xyz/go-ledger/ledger"
	"github.com/pflow-xyz/go-ledger/store"
)

// Clock supplies the timestamp stamped onto each call, in seconds.
type Clock func() uint64

// SystemClock reads the wall clock.
func SystemClock() uint64 { return uint64(time.Now().Unix()) }

// Config assembles a host.
type Config struct {
	// Store persists state and records when non-nil; a nil store runs the
	// ledger purely in memory.
	Store *store.Store

	// Clock defaults to SystemClock.
	Clock Clock

	Logger zerolog.Logger
}

// Host drives a single ledger instance. All operations serialize on an
// internal mutex; records emitted by an operation become visible (and
// durable) only after the operation returns successfully.
type Host struct {
	mu      sync.Mutex
	ledger  *ledger.Ledger
	store   *store.Store
	journal *event.Memory
	pending []event.Record
	clock   Clock
	log     zerolog.Logger
	session string
}

// New builds a host around a fresh ledger, rehydrating from the store when it
// holds a previously saved state.
func New(cfg Config) (*Host, error) {
	if cfg.Clock == nil {
		cfg.Clock = SystemClock
	}
	session := uuid.NewString()

	h := &Host{
		ledger:  ledger.New(),
		store:   cfg.Store,
		journal: &event.Memory{},
		clock:   cfg.Clock,
		log:     cfg.Logger.With().Str("session", session).Logger(),
		session: session,
	}
	h.ledger.SetEmitter(emitterFunc(func(rec event.Record) {
		h.pending = append(h.pending, rec)
	}))

	if cfg.Store != nil {
		st, err := cfg.Store.LoadState(context.Background())
		switch {
		case errors.Is(err, store.ErrNoState):
			h.log.Info().Msg("no saved state, starting empty")
		case err != nil:
			return nil, fmt.Errorf("host: load state: %w", err)
		default:
			h.ledger.RestoreState(st)
			h.log.Info().
				Str("name", st.Name).
				Uint64("seq", st.Seq).
				Msg("state restored")
		}
	}
	return h, nil
}

type emitterFunc func(event.Record)

func (f emitterFunc) Emit(rec event.Record) { f(rec) }

// Session returns the host's session id, used to correlate log lines.
func (h *Host) Session() string { return h.session }

// Journal returns the in-memory record journal. Records appear in commit
// order; failed operations contribute nothing.
func (h *Host) Journal() *event.Memory { return h.journal }

// Execute runs a mutating operation as caller. On success the buffered
// records are journaled and, with a store attached, state and records are
// persisted before Execute returns. On failure the ledger and the journal
// are untouched. The ledger handed to fn must not escape the closure.
func (h *Host) Execute(ctx context.Context, caller common.Address, op string, fn func(*ledger.Ledger, ledger.Call) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	call := ledger.Call{Caller: caller, Now: h.clock()}
	h.pending = h.pending[:0]

	if err := fn(h.ledger, call); err != nil {
		h.pending = h.pending[:0]
		h.log.Warn().
			Str("op", op).
			Str("caller", caller.Hex()).
			Err(err).
			Msg("operation rejected")
		return err
	}

	committed := make([]event.Record, len(h.pending))
	copy(committed, h.pending)
	h.pending = h.pending[:0]

	if h.store != nil {
		root, err := h.store.SaveState(ctx, h.ledger.ExportState())
		if err != nil {
			return fmt.Errorf("host: persist state after %s: %w", op, err)
		}
		if err := h.store.AppendRecords(ctx, committed); err != nil {
			return fmt.Errorf("host: persist records after %s: %w", op, err)
		}
		h.log.Info().
			Str("op", op).
			Str("caller", caller.Hex()).
			Int("records", len(committed)).
			Str("commitment", root.Hex()).
			Msg("operation committed")
	} else {
		h.log.Info().
			Str("op", op).
			Str("caller", caller.Hex()).
			Int("records", len(committed)).
			Msg("operation committed")
	}

	for _, rec := range committed {
		h.journal.Emit(rec)
	}
	return nil
}

// View runs a read-only function against the ledger under the host's lock.
// The function must not mutate the ledger.
func (h *Host) View(fn func(*ledger.Ledger)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(h.ledger)
}

// Initialize runs the one-time setup as the configured owner.
func (h *Host) Initialize(ctx context.Context, caller common.Address, cfg ledger.Config) error {
	return h.Execute(ctx, caller, "initialize", func(l *ledger.Ledger, call ledger.Call) error {
		return l.Initialize(call, cfg)
	})
}
