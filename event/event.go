// Package event defines the structured records the ledger emits and the
// sinks that collect them. Records are the ledger's observable log output;
// delivery and retention are the host's concern.
package event

// Record is a single structured log record: an event name plus typed fields.
type Record struct {
	Seq        uint64         `json:"seq"`
	Name       string         `json:"name"`
	Time       uint64         `json:"time"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Emitter receives records as operations commit.
type Emitter interface {
	Emit(Record)
}

// Multi fans a record out to several emitters in order.
type Multi []Emitter

// Emit sends the record to every emitter.
func (m Multi) Emit(rec Record) {
	for _, e := range m {
		e.Emit(rec)
	}
}

// Record names emitted by the ledger.
const (
	Transfer                    = "Transfer"
	Approval                    = "Approval"
	OwnershipTransferred        = "OwnershipTransferred"
	OwnershipTransferInitiated  = "OwnershipTransferInitiated"
	OwnershipTransferCancelled  = "OwnershipTransferCancelled"
	OwnershipTransferDelaySet   = "OwnershipTransferDelaySet"
	Paused                      = "Paused"
	Unpaused                    = "Unpaused"
	RoleGranted                 = "RoleGranted"
	RoleRevoked                 = "RoleRevoked"
	RoleAdminChanged            = "RoleAdminChanged"
	Blacklisted                 = "Blacklisted"
	UnBlacklisted               = "UnBlacklisted"
	BlacklistEnabled            = "BlacklistEnabled"
	WhitelistUpdated            = "WhitelistUpdated"
	SnapshotCreated             = "SnapshotCreated"
	SnapshotFinalized           = "SnapshotFinalized"
	SupplyCapSet                = "SupplyCapSet"
	LargeTransfer               = "LargeTransfer"
	LargeTransferThresholdSet   = "LargeTransferThresholdSet"
	GuardianSet                 = "GuardianSet"
	EmergencyAdminSet           = "EmergencyAdminSet"
	EmergencyOwnershipRecovered = "EmergencyOwnershipRecovered"
)
