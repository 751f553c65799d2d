// Package ledger implements a fungible-asset ledger as a single-threaded,
// invariant-preserving state machine. The execution host supplies caller
// identity and timestamps through Call, serializes operations, and collects
// the structured records the ledger emits. Every operation validates all of
// its preconditions before mutating any state, so a failed call leaves the
// ledger exactly as it found it.
package ledger

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/pflow-xyz/go-ledger/event"
)

// DefaultOwnershipTransferDelay is the time-lock applied to ownership
// transfers when the config does not override it: 48 hours, in seconds.
const DefaultOwnershipTransferDelay uint64 = 48 * 60 * 60

// Call carries the per-operation context supplied by the host.
type Call struct {
	Caller common.Address
	Now    uint64
}

// Config describes the one-time initialization parameters.
type Config struct {
	Name          string
	Symbol        string
	Decimals      uint8
	InitialSupply *uint256.Int   // nil or zero mints nothing
	Owner         common.Address // must be non-zero

	// OwnershipTransferDelay is the time-lock in seconds for the two-step
	// ownership transfer. Zero selects DefaultOwnershipTransferDelay.
	OwnershipTransferDelay uint64

	// LargeTransferThreshold enables transfer monitoring when non-nil:
	// transfers at or above it emit an informational record.
	LargeTransferThreshold *uint256.Int
}

// Validate checks the config for an initialization call.
func (c Config) Validate() error {
	if c.Owner == (common.Address{}) {
		return ErrZeroAddress
	}
	return nil
}

// AllowanceKey addresses an allowance entry: what spender may move on behalf
// of owner.
type AllowanceKey struct {
	Owner   common.Address
	Spender common.Address
}

// RoleKey addresses a role membership entry.
type RoleKey struct {
	Role    Role
	Account common.Address
}

// Ledger is the balance, allowance, and supply accounting aggregate together
// with its access-control, compliance, time-lock, and snapshot state. It is
// exclusively owned: the host must serialize calls.
type Ledger struct {
	initialized bool
	name        string
	symbol      string
	decimals    uint8

	totalSupply *uint256.Int
	balances    map[common.Address]*uint256.Int
	allowances  map[AllowanceKey]*uint256.Int

	owner      common.Address
	roles      map[RoleKey]bool
	roleAdmins map[Role]Role

	paused bool

	blacklistEnabled bool
	blacklist        map[common.Address]bool
	whitelistEnabled bool
	whitelist        map[common.Address]bool

	largeTransferThreshold *uint256.Int

	supplyCap    *uint256.Int
	supplyCapSet bool

	pendingOwner        common.Address
	ownershipUnlockTime uint64
	ownershipDelay      uint64

	guardian       common.Address
	emergencyAdmin common.Address

	nextSnapshotID    uint64
	currentSnapshotID uint64
	snapshots         map[uint64]*snapshotTable

	emitter event.Emitter
	seq     uint64
}

// New creates an empty, uninitialized ledger.
func New() *Ledger {
	return &Ledger{
		totalSupply:    uint256.NewInt(0),
		balances:       make(map[common.Address]*uint256.Int),
		allowances:     make(map[AllowanceKey]*uint256.Int),
		roles:          make(map[RoleKey]bool),
		roleAdmins:     make(map[Role]Role),
		blacklist:      make(map[common.Address]bool),
		whitelist:      make(map[common.Address]bool),
		snapshots:      make(map[uint64]*snapshotTable),
		ownershipDelay: DefaultOwnershipTransferDelay,
		nextSnapshotID: 1,
	}
}

// SetEmitter installs the record sink. A nil emitter disables emission.
func (l *Ledger) SetEmitter(e event.Emitter) {
	l.emitter = e
}

// Initialize sets metadata, wires the role hierarchy, seats the owner, and
// mints the initial supply. It can run exactly once.
func (l *Ledger) Initialize(call Call, cfg Config) error {
	if l.initialized {
		return ErrAlreadyInitialized
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	l.name = cfg.Name
	l.symbol = cfg.Symbol
	l.decimals = cfg.Decimals
	l.owner = cfg.Owner
	l.ownershipDelay = cfg.OwnershipTransferDelay
	if l.ownershipDelay == 0 {
		l.ownershipDelay = DefaultOwnershipTransferDelay
	}
	if cfg.LargeTransferThreshold != nil {
		l.largeTransferThreshold = cfg.LargeTransferThreshold.Clone()
	}

	// Role wiring: the admin role administers itself and every well-known
	// role, including the default admin role.
	l.roleAdmins[DefaultAdminRole] = AdminRole
	l.roleAdmins[AdminRole] = AdminRole
	l.roleAdmins[MinterRole] = AdminRole
	l.roleAdmins[PauserRole] = AdminRole
	l.roles[RoleKey{DefaultAdminRole, cfg.Owner}] = true
	l.roles[RoleKey{AdminRole, cfg.Owner}] = true

	if cfg.InitialSupply != nil && !cfg.InitialSupply.IsZero() {
		l.balances[cfg.Owner] = cfg.InitialSupply.Clone()
		l.totalSupply = cfg.InitialSupply.Clone()
		l.emit(call.Now, event.Transfer, map[string]any{
			"from":   common.Address{}.Hex(),
			"to":     cfg.Owner.Hex(),
			"amount": cfg.InitialSupply.Dec(),
		})
	}

	l.initialized = true
	l.emit(call.Now, event.OwnershipTransferred, map[string]any{
		"previousOwner": common.Address{}.Hex(),
		"newOwner":      cfg.Owner.Hex(),
	})
	return nil
}

// Initialized reports whether Initialize has run.
func (l *Ledger) Initialized() bool { return l.initialized }

// Name returns the asset name.
func (l *Ledger) Name() string { return l.name }

// Symbol returns the asset symbol.
func (l *Ledger) Symbol() string { return l.symbol }

// Decimals returns the display precision.
func (l *Ledger) Decimals() uint8 { return l.decimals }

// TotalSupply returns the current total supply.
func (l *Ledger) TotalSupply() *uint256.Int { return l.totalSupply.Clone() }

// BalanceOf returns the balance of account; absent accounts hold zero.
func (l *Ledger) BalanceOf(account common.Address) *uint256.Int {
	return l.balance(account).Clone()
}

// Owner returns the current owner, or the zero address after renunciation.
func (l *Ledger) Owner() common.Address { return l.owner }

// Paused reports whether value-moving operations are suspended.
func (l *Ledger) Paused() bool { return l.paused }

// Pause suspends all value-moving operations. Owner only.
func (l *Ledger) Pause(call Call) error {
	if err := l.requireOwner(call); err != nil {
		return err
	}
	return l.pause(call)
}

// Unpause resumes value-moving operations. Owner only.
func (l *Ledger) Unpause(call Call) error {
	if err := l.requireOwner(call); err != nil {
		return err
	}
	return l.unpause(call)
}

// PauseWithRole is the role-gated pause: pauser role or owner.
func (l *Ledger) PauseWithRole(call Call) error {
	if err := l.requires(call, CapabilityPause); err != nil {
		return err
	}
	return l.pause(call)
}

// UnpauseWithRole is the role-gated unpause: pauser role or owner.
func (l *Ledger) UnpauseWithRole(call Call) error {
	if err := l.requires(call, CapabilityPause); err != nil {
		return err
	}
	return l.unpause(call)
}

func (l *Ledger) pause(call Call) error {
	if l.paused {
		return ErrContractPaused
	}
	l.paused = true
	l.emit(call.Now, event.Paused, map[string]any{"account": call.Caller.Hex()})
	return nil
}

func (l *Ledger) unpause(call Call) error {
	if !l.paused {
		return ErrNotContractPaused
	}
	l.paused = false
	l.emit(call.Now, event.Unpaused, map[string]any{"account": call.Caller.Hex()})
	return nil
}

// emit hands a record to the installed emitter, stamping the next sequence
// number. Mutating operations must emit only after all checks have passed.
func (l *Ledger) emit(now uint64, name string, attrs map[string]any) {
	if l.emitter == nil {
		return
	}
	l.seq++
	l.emitter.Emit(event.Record{Seq: l.seq, Name: name, Time: now, Attributes: attrs})
}
