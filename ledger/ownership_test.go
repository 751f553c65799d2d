package ledger

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/pflow-xyz/go-ledger/event"
)

func TestTransferOwnershipImmediate(t *testing.T) {
	l, _ := newTestLedger(t)

	if err := l.TransferOwnership(Call{Caller: bob, Now: 2}, bob); !errors.Is(err, ErrNotOwner) {
		t.Errorf("transfer by non-owner = %v, want ErrNotOwner", err)
	}
	if err := l.TransferOwnership(Call{Caller: alice, Now: 2}, common.Address{}); !errors.Is(err, ErrZeroAddress) {
		t.Errorf("transfer to zero = %v, want ErrZeroAddress", err)
	}

	if err := l.TransferOwnership(Call{Caller: alice, Now: 3}, bob); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if l.Owner() != bob {
		t.Errorf("Owner() = %s, want %s", l.Owner().Hex(), bob.Hex())
	}
	// The old owner carries no residual authority.
	if err := l.Pause(Call{Caller: alice, Now: 4}); !errors.Is(err, ErrNotOwner) {
		t.Errorf("old owner pause = %v, want ErrNotOwner", err)
	}
}

func TestRenounceOwnership(t *testing.T) {
	l, _ := newTestLedger(t)

	if err := l.RenounceOwnership(Call{Caller: alice, Now: 2}); err != nil {
		t.Fatalf("renounce: %v", err)
	}
	if l.Owner() != (common.Address{}) {
		t.Errorf("Owner() = %s, want zero", l.Owner().Hex())
	}
	// With a zero owner, owner-gated operations reject everyone, including
	// callers claiming the zero address.
	if err := l.Pause(Call{Caller: common.Address{}, Now: 3}); !errors.Is(err, ErrNotOwner) {
		t.Errorf("pause after renounce = %v, want ErrNotOwner", err)
	}
}

func TestTimeLockedOwnershipTransfer(t *testing.T) {
	l, _ := newTestLedger(t)

	if err := l.InitiateOwnershipTransfer(Call{Caller: alice, Now: 1000}, bob); err != nil {
		t.Fatalf("initiate: %v", err)
	}
	wantUnlock := uint64(1000) + DefaultOwnershipTransferDelay // 173800
	if got := l.OwnershipUnlockTime(); got != wantUnlock {
		t.Fatalf("unlock time = %d, want %d", got, wantUnlock)
	}
	if l.PendingOwner() != bob {
		t.Fatalf("pending owner = %s, want %s", l.PendingOwner().Hex(), bob.Hex())
	}

	// Too early: one second before the unlock.
	err := l.AcceptOwnership(Call{Caller: bob, Now: wantUnlock - 1})
	if !errors.Is(err, ErrOwnershipNotYetUnlockable) {
		t.Fatalf("early accept = %v, want ErrOwnershipNotYetUnlockable", err)
	}
	var detail *NotYetUnlockableError
	if !errors.As(err, &detail) {
		t.Fatalf("err %T does not unwrap to *NotYetUnlockableError", err)
	}
	if detail.UnlockTime != wantUnlock {
		t.Errorf("detail unlock = %d, want %d", detail.UnlockTime, wantUnlock)
	}

	// Wrong caller at the right time.
	if err := l.AcceptOwnership(Call{Caller: carol, Now: wantUnlock}); !errors.Is(err, ErrNotOwner) {
		t.Errorf("accept by non-pending = %v, want ErrNotOwner", err)
	}

	// Exactly at the unlock time succeeds.
	if err := l.AcceptOwnership(Call{Caller: bob, Now: wantUnlock}); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if l.Owner() != bob {
		t.Errorf("Owner() = %s, want %s", l.Owner().Hex(), bob.Hex())
	}
	if l.PendingOwner() != (common.Address{}) || l.OwnershipUnlockTime() != 0 {
		t.Error("pending state not cleared after accept")
	}
}

func TestAcceptWithoutPendingTransfer(t *testing.T) {
	l, _ := newTestLedger(t)
	if err := l.AcceptOwnership(Call{Caller: bob, Now: 2}); !errors.Is(err, ErrNoPendingOwnershipTransfer) {
		t.Errorf("accept with nothing pending = %v, want ErrNoPendingOwnershipTransfer", err)
	}
}

func TestCancelOwnershipTransfer(t *testing.T) {
	l, journal := newTestLedger(t)

	if err := l.CancelOwnershipTransfer(Call{Caller: alice, Now: 2}); !errors.Is(err, ErrNoPendingOwnershipTransfer) {
		t.Errorf("cancel with nothing pending = %v, want ErrNoPendingOwnershipTransfer", err)
	}

	if err := l.InitiateOwnershipTransfer(Call{Caller: alice, Now: 3}, bob); err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if err := l.CancelOwnershipTransfer(Call{Caller: alice, Now: 4}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if l.PendingOwner() != (common.Address{}) {
		t.Error("pending owner not cleared")
	}
	if got := len(journal.ByName(event.OwnershipTransferCancelled)); got != 1 {
		t.Errorf("cancellation records = %d, want 1", got)
	}

	// The cancelled transfer can never complete.
	unlock := uint64(3) + DefaultOwnershipTransferDelay
	if err := l.AcceptOwnership(Call{Caller: bob, Now: unlock + 1}); !errors.Is(err, ErrNoPendingOwnershipTransfer) {
		t.Errorf("accept after cancel = %v, want ErrNoPendingOwnershipTransfer", err)
	}
}

func TestInitiateSupersedesPendingTransfer(t *testing.T) {
	l, journal := newTestLedger(t)

	if err := l.InitiateOwnershipTransfer(Call{Caller: alice, Now: 100}, bob); err != nil {
		t.Fatalf("initiate bob: %v", err)
	}
	if err := l.InitiateOwnershipTransfer(Call{Caller: alice, Now: 200}, carol); err != nil {
		t.Fatalf("initiate carol: %v", err)
	}

	if l.PendingOwner() != carol {
		t.Errorf("pending owner = %s, want %s", l.PendingOwner().Hex(), carol.Hex())
	}
	if got := l.OwnershipUnlockTime(); got != 200+DefaultOwnershipTransferDelay {
		t.Errorf("unlock = %d, want %d", got, 200+DefaultOwnershipTransferDelay)
	}
	// The superseded transfer shows as a cancellation.
	if got := len(journal.ByName(event.OwnershipTransferCancelled)); got != 1 {
		t.Errorf("cancellation records = %d, want 1", got)
	}
}

func TestImmediateTransferClearsPending(t *testing.T) {
	l, _ := newTestLedger(t)

	if err := l.InitiateOwnershipTransfer(Call{Caller: alice, Now: 100}, bob); err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if err := l.TransferOwnership(Call{Caller: alice, Now: 200}, carol); err != nil {
		t.Fatalf("immediate transfer: %v", err)
	}
	if l.Owner() != carol {
		t.Fatalf("Owner() = %s, want %s", l.Owner().Hex(), carol.Hex())
	}
	if l.PendingOwner() != (common.Address{}) {
		t.Error("pending transfer survived an immediate transfer")
	}
}

func TestSetOwnershipTransferDelay(t *testing.T) {
	l, _ := newTestLedger(t)

	if err := l.SetOwnershipTransferDelay(Call{Caller: alice, Now: 2}, 600); err != nil {
		t.Fatalf("set delay: %v", err)
	}
	if err := l.InitiateOwnershipTransfer(Call{Caller: alice, Now: 1000}, bob); err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if got := l.OwnershipUnlockTime(); got != 1600 {
		t.Errorf("unlock = %d, want 1600", got)
	}

	// Changing the delay later does not move an in-flight unlock.
	if err := l.SetOwnershipTransferDelay(Call{Caller: alice, Now: 1100}, 10); err != nil {
		t.Fatalf("re-set delay: %v", err)
	}
	if got := l.OwnershipUnlockTime(); got != 1600 {
		t.Errorf("unlock after delay change = %d, want 1600", got)
	}
}

func TestGuardianPause(t *testing.T) {
	l, _ := newTestLedger(t)

	if err := l.GuardianPause(Call{Caller: bob, Now: 2}); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("guardian pause with no guardian = %v, want ErrAccessDenied", err)
	}

	if err := l.SetGuardian(Call{Caller: bob, Now: 2}, bob); !errors.Is(err, ErrNotOwner) {
		t.Errorf("set guardian by non-owner = %v, want ErrNotOwner", err)
	}
	if err := l.SetGuardian(Call{Caller: alice, Now: 3}, bob); err != nil {
		t.Fatalf("set guardian: %v", err)
	}
	if l.Guardian() != bob {
		t.Fatalf("Guardian() = %s, want %s", l.Guardian().Hex(), bob.Hex())
	}

	if err := l.GuardianPause(Call{Caller: bob, Now: 4}); err != nil {
		t.Fatalf("guardian pause: %v", err)
	}
	if !l.Paused() {
		t.Error("not paused after guardian pause")
	}
	// The guardian can pause but not unpause.
	if err := l.UnpauseWithRole(Call{Caller: bob, Now: 5}); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("guardian unpause = %v, want ErrAccessDenied", err)
	}
}

func TestEmergencyRecoverOwnership(t *testing.T) {
	l, _ := newTestLedger(t)

	if err := l.EmergencyRecoverOwnership(Call{Caller: carol, Now: 2}, carol); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("recover with no emergency admin = %v, want ErrAccessDenied", err)
	}

	if err := l.SetEmergencyAdmin(Call{Caller: alice, Now: 3}, carol); err != nil {
		t.Fatalf("set emergency admin: %v", err)
	}
	// A pending transfer to mallory must die with the recovery.
	if err := l.InitiateOwnershipTransfer(Call{Caller: alice, Now: 4}, mallory); err != nil {
		t.Fatalf("initiate: %v", err)
	}

	if err := l.EmergencyRecoverOwnership(Call{Caller: carol, Now: 5}, bob); err != nil {
		t.Fatalf("recover: %v", err)
	}
	if l.Owner() != bob {
		t.Errorf("Owner() = %s, want %s", l.Owner().Hex(), bob.Hex())
	}
	if l.PendingOwner() != (common.Address{}) {
		t.Error("pending transfer survived emergency recovery")
	}
	if err := l.EmergencyRecoverOwnership(Call{Caller: carol, Now: 6}, common.Address{}); !errors.Is(err, ErrZeroAddress) {
		t.Errorf("recover to zero = %v, want ErrZeroAddress", err)
	}
}
