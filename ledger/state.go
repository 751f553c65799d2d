package ledger

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// State is a full export of the ledger's data, detached from the aggregate.
// The storage layer persists and reloads it; the commitment layer hashes it.
// All values are clones, so a State never aliases live ledger memory.
type State struct {
	Initialized bool
	Name        string
	Symbol      string
	Decimals    uint8

	TotalSupply *uint256.Int
	Balances    map[common.Address]*uint256.Int
	Allowances  map[AllowanceKey]*uint256.Int

	Owner      common.Address
	Roles      map[RoleKey]bool
	RoleAdmins map[Role]Role

	Paused bool

	BlacklistEnabled bool
	Blacklist        map[common.Address]bool
	WhitelistEnabled bool
	Whitelist        map[common.Address]bool

	LargeTransferThreshold *uint256.Int

	SupplyCap    *uint256.Int
	SupplyCapSet bool

	PendingOwner        common.Address
	OwnershipUnlockTime uint64
	OwnershipDelay      uint64

	Guardian       common.Address
	EmergencyAdmin common.Address

	NextSnapshotID    uint64
	CurrentSnapshotID uint64
	Snapshots         map[uint64]SnapshotState

	Seq uint64
}

// SnapshotState is the exported form of one captured snapshot.
type SnapshotState struct {
	Supply   *uint256.Int
	Balances map[common.Address]*uint256.Int
}

// ExportState copies the whole ledger into a State.
func (l *Ledger) ExportState() *State {
	s := &State{
		Initialized: l.initialized,
		Name:        l.name,
		Symbol:      l.symbol,
		Decimals:    l.decimals,

		TotalSupply: l.totalSupply.Clone(),
		Balances:    cloneBalances(l.balances),
		Allowances:  make(map[AllowanceKey]*uint256.Int, len(l.allowances)),

		Owner:      l.owner,
		Roles:      make(map[RoleKey]bool, len(l.roles)),
		RoleAdmins: make(map[Role]Role, len(l.roleAdmins)),

		Paused: l.paused,

		BlacklistEnabled: l.blacklistEnabled,
		Blacklist:        cloneSet(l.blacklist),
		WhitelistEnabled: l.whitelistEnabled,
		Whitelist:        cloneSet(l.whitelist),

		SupplyCapSet: l.supplyCapSet,

		PendingOwner:        l.pendingOwner,
		OwnershipUnlockTime: l.ownershipUnlockTime,
		OwnershipDelay:      l.ownershipDelay,

		Guardian:       l.guardian,
		EmergencyAdmin: l.emergencyAdmin,

		NextSnapshotID:    l.nextSnapshotID,
		CurrentSnapshotID: l.currentSnapshotID,
		Snapshots:         make(map[uint64]SnapshotState, len(l.snapshots)),

		Seq: l.seq,
	}
	if l.largeTransferThreshold != nil {
		s.LargeTransferThreshold = l.largeTransferThreshold.Clone()
	}
	if l.supplyCapSet {
		s.SupplyCap = l.supplyCap.Clone()
	}
	for k, v := range l.allowances {
		s.Allowances[k] = v.Clone()
	}
	for k, v := range l.roles {
		s.Roles[k] = v
	}
	for k, v := range l.roleAdmins {
		s.RoleAdmins[k] = v
	}
	for id, table := range l.snapshots {
		s.Snapshots[id] = SnapshotState{
			Supply:   table.supply.Clone(),
			Balances: cloneBalances(table.balances),
		}
	}
	return s
}

// RestoreState replaces the ledger's data with the given State. Meant for
// rehydrating a freshly constructed ledger from storage; the emitter and any
// previous in-memory data are not carried over.
func (l *Ledger) RestoreState(s *State) {
	l.initialized = s.Initialized
	l.name = s.Name
	l.symbol = s.Symbol
	l.decimals = s.Decimals

	l.totalSupply = uint256.NewInt(0)
	if s.TotalSupply != nil {
		l.totalSupply = s.TotalSupply.Clone()
	}
	l.balances = cloneBalances(s.Balances)
	l.allowances = make(map[AllowanceKey]*uint256.Int, len(s.Allowances))
	for k, v := range s.Allowances {
		l.allowances[k] = v.Clone()
	}

	l.owner = s.Owner
	l.roles = make(map[RoleKey]bool, len(s.Roles))
	for k, v := range s.Roles {
		l.roles[k] = v
	}
	l.roleAdmins = make(map[Role]Role, len(s.RoleAdmins))
	for k, v := range s.RoleAdmins {
		l.roleAdmins[k] = v
	}

	l.paused = s.Paused

	l.blacklistEnabled = s.BlacklistEnabled
	l.blacklist = cloneSet(s.Blacklist)
	l.whitelistEnabled = s.WhitelistEnabled
	l.whitelist = cloneSet(s.Whitelist)

	l.largeTransferThreshold = nil
	if s.LargeTransferThreshold != nil {
		l.largeTransferThreshold = s.LargeTransferThreshold.Clone()
	}

	l.supplyCapSet = s.SupplyCapSet
	l.supplyCap = nil
	if s.SupplyCapSet && s.SupplyCap != nil {
		l.supplyCap = s.SupplyCap.Clone()
	}

	l.pendingOwner = s.PendingOwner
	l.ownershipUnlockTime = s.OwnershipUnlockTime
	l.ownershipDelay = s.OwnershipDelay

	l.guardian = s.Guardian
	l.emergencyAdmin = s.EmergencyAdmin

	l.nextSnapshotID = s.NextSnapshotID
	if l.nextSnapshotID == 0 {
		l.nextSnapshotID = 1
	}
	l.currentSnapshotID = s.CurrentSnapshotID
	l.snapshots = make(map[uint64]*snapshotTable, len(s.Snapshots))
	for id, snap := range s.Snapshots {
		table := &snapshotTable{
			supply:   uint256.NewInt(0),
			balances: cloneBalances(snap.Balances),
		}
		if snap.Supply != nil {
			table.supply = snap.Supply.Clone()
		}
		l.snapshots[id] = table
	}

	l.seq = s.Seq
}

func cloneBalances(src map[common.Address]*uint256.Int) map[common.Address]*uint256.Int {
	out := make(map[common.Address]*uint256.Int, len(src))
	for k, v := range src {
		out[k] = v.Clone()
	}
	return out
}

func cloneSet(src map[common.Address]bool) map[common.Address]bool {
	out := make(map[common.Address]bool, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
