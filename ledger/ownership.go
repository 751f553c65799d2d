package ledger

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/pflow-xyz/go-ledger/event"
)

// PendingOwner returns the account of an in-flight time-locked transfer, or
// the zero address when none is pending.
func (l *Ledger) PendingOwner() common.Address { return l.pendingOwner }

// OwnershipUnlockTime returns the unlock timestamp of the pending transfer,
// or zero when none is pending.
func (l *Ledger) OwnershipUnlockTime() uint64 { return l.ownershipUnlockTime }

// OwnershipTransferDelay returns the configured time-lock in seconds.
func (l *Ledger) OwnershipTransferDelay() uint64 { return l.ownershipDelay }

// Guardian returns the guardian account, or zero when unset.
func (l *Ledger) Guardian() common.Address { return l.guardian }

// EmergencyAdmin returns the emergency admin account, or zero when unset.
func (l *Ledger) EmergencyAdmin() common.Address { return l.emergencyAdmin }

// TransferOwnership replaces the owner immediately, without a time-lock.
// Any pending time-locked transfer is cancelled first so that ownership
// succession is never ambiguous.
func (l *Ledger) TransferOwnership(call Call, newOwner common.Address) error {
	if err := l.requireOwner(call); err != nil {
		return err
	}
	if newOwner == (common.Address{}) {
		return ErrZeroAddress
	}
	l.cancelPending(call.Now)
	previous := l.owner
	l.owner = newOwner
	l.emitOwnershipTransferred(call.Now, previous, newOwner)
	return nil
}

// RenounceOwnership sets the owner to the zero address permanently. Any
// pending time-locked transfer is cancelled.
func (l *Ledger) RenounceOwnership(call Call) error {
	if err := l.requireOwner(call); err != nil {
		return err
	}
	l.cancelPending(call.Now)
	previous := l.owner
	l.owner = common.Address{}
	l.emitOwnershipTransferred(call.Now, previous, common.Address{})
	return nil
}

// InitiateOwnershipTransfer starts a time-locked transfer: the new owner may
// accept once the configured delay has elapsed. An already-pending transfer
// is silently superseded.
func (l *Ledger) InitiateOwnershipTransfer(call Call, newOwner common.Address) error {
	if err := l.requireOwner(call); err != nil {
		return err
	}
	if newOwner == (common.Address{}) {
		return ErrZeroAddress
	}
	l.cancelPending(call.Now)
	l.pendingOwner = newOwner
	l.ownershipUnlockTime = call.Now + l.ownershipDelay
	l.emit(call.Now, event.OwnershipTransferInitiated, map[string]any{
		"pendingOwner": newOwner.Hex(),
		"unlockTime":   l.ownershipUnlockTime,
	})
	return nil
}

// AcceptOwnership completes a time-locked transfer. Only the pending owner
// may call it, and only at or after the unlock time. This is the only path
// through which a time-locked transfer takes effect.
func (l *Ledger) AcceptOwnership(call Call) error {
	if l.pendingOwner == (common.Address{}) {
		return ErrNoPendingOwnershipTransfer
	}
	if call.Caller != l.pendingOwner {
		return &NotOwnerError{Caller: call.Caller, Owner: l.pendingOwner}
	}
	if call.Now < l.ownershipUnlockTime {
		return &NotYetUnlockableError{Now: call.Now, UnlockTime: l.ownershipUnlockTime}
	}
	previous := l.owner
	l.owner = l.pendingOwner
	l.pendingOwner = common.Address{}
	l.ownershipUnlockTime = 0
	l.emitOwnershipTransferred(call.Now, previous, l.owner)
	return nil
}

// CancelOwnershipTransfer aborts a pending time-locked transfer. Owner only.
func (l *Ledger) CancelOwnershipTransfer(call Call) error {
	if err := l.requireOwner(call); err != nil {
		return err
	}
	if l.pendingOwner == (common.Address{}) {
		return ErrNoPendingOwnershipTransfer
	}
	l.cancelPending(call.Now)
	return nil
}

// SetOwnershipTransferDelay reconfigures the time-lock for future transfers.
// A transfer already pending keeps its original unlock time. Owner only.
func (l *Ledger) SetOwnershipTransferDelay(call Call, seconds uint64) error {
	if err := l.requireOwner(call); err != nil {
		return err
	}
	l.ownershipDelay = seconds
	l.emit(call.Now, event.OwnershipTransferDelaySet, map[string]any{"delay": seconds})
	return nil
}

// SetGuardian installs (or, with the zero address, clears) the guardian: an
// account that may pause the ledger but holds no other authority. Owner only.
func (l *Ledger) SetGuardian(call Call, guardian common.Address) error {
	if err := l.requireOwner(call); err != nil {
		return err
	}
	l.guardian = guardian
	l.emit(call.Now, event.GuardianSet, map[string]any{"guardian": guardian.Hex()})
	return nil
}

// GuardianPause is the guardian's escalation path: pause without owner or
// pauser-role authority.
func (l *Ledger) GuardianPause(call Call) error {
	if l.guardian == (common.Address{}) || call.Caller != l.guardian {
		return &AccessDeniedError{Account: call.Caller, Role: GuardianRole}
	}
	return l.pause(call)
}

// SetEmergencyAdmin installs (or clears) the emergency admin. Owner only.
func (l *Ledger) SetEmergencyAdmin(call Call, admin common.Address) error {
	if err := l.requireOwner(call); err != nil {
		return err
	}
	l.emergencyAdmin = admin
	l.emit(call.Now, event.EmergencyAdminSet, map[string]any{"admin": admin.Hex()})
	return nil
}

// EmergencyRecoverOwnership reseats the owner without the owner's consent.
// Only the emergency admin may call it; the recovery path exists for key
// compromise, so it also clears any pending time-locked transfer.
func (l *Ledger) EmergencyRecoverOwnership(call Call, newOwner common.Address) error {
	if l.emergencyAdmin == (common.Address{}) || call.Caller != l.emergencyAdmin {
		return &AccessDeniedError{Account: call.Caller, Role: EmergencyRole}
	}
	if newOwner == (common.Address{}) {
		return ErrZeroAddress
	}
	l.cancelPending(call.Now)
	previous := l.owner
	l.owner = newOwner
	l.emit(call.Now, event.EmergencyOwnershipRecovered, map[string]any{
		"previousOwner": previous.Hex(),
		"newOwner":      newOwner.Hex(),
	})
	l.emitOwnershipTransferred(call.Now, previous, newOwner)
	return nil
}

// cancelPending clears pending transfer state, emitting a cancellation
// record if one was in flight. Both fields clear together.
func (l *Ledger) cancelPending(now uint64) {
	if l.pendingOwner == (common.Address{}) {
		return
	}
	cancelled := l.pendingOwner
	l.pendingOwner = common.Address{}
	l.ownershipUnlockTime = 0
	l.emit(now, event.OwnershipTransferCancelled, map[string]any{
		"pendingOwner": cancelled.Hex(),
	})
}

func (l *Ledger) emitOwnershipTransferred(now uint64, previous, next common.Address) {
	l.emit(now, event.OwnershipTransferred, map[string]any{
		"previousOwner": previous.Hex(),
		"newOwner":      next.Hex(),
	})
}
