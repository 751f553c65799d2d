package ledger

import (
	"testing"
)

func TestExportRestoreRoundTrip(t *testing.T) {
	l, _ := newTestLedger(t)

	// Touch every corner of the state.
	if err := l.Transfer(Call{Caller: alice, Now: 2}, bob, amount(1000)); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if err := l.Approve(Call{Caller: alice, Now: 3}, carol, amount(77)); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := l.GrantRole(Call{Caller: alice, Now: 4}, MinterRole, bob); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := l.Blacklist(Call{Caller: alice, Now: 5}, mallory); err != nil {
		t.Fatalf("blacklist: %v", err)
	}
	if err := l.SetBlacklistEnabled(Call{Caller: alice, Now: 5}, true); err != nil {
		t.Fatalf("enable blacklist: %v", err)
	}
	if err := l.SetSupplyCap(Call{Caller: alice, Now: 6}, amount(5_000_000)); err != nil {
		t.Fatalf("cap: %v", err)
	}
	if err := l.InitiateOwnershipTransfer(Call{Caller: alice, Now: 7}, carol); err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if err := l.SetGuardian(Call{Caller: alice, Now: 8}, bob); err != nil {
		t.Fatalf("guardian: %v", err)
	}
	if _, err := l.Snapshot(Call{Caller: alice, Now: 9}); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	restored := New()
	restored.RestoreState(l.ExportState())

	if restored.Name() != l.Name() || restored.Symbol() != l.Symbol() || restored.Decimals() != l.Decimals() {
		t.Error("metadata did not survive the round trip")
	}
	if !restored.TotalSupply().Eq(l.TotalSupply()) {
		t.Errorf("supply = %s, want %s", restored.TotalSupply().Dec(), l.TotalSupply().Dec())
	}
	checkBalance(t, restored, bob, 1000)
	if got := restored.Allowance(alice, carol); !got.Eq(amount(77)) {
		t.Errorf("allowance = %s, want 77", got.Dec())
	}
	if !restored.HasRole(MinterRole, bob) {
		t.Error("minter role lost")
	}
	if !restored.IsBlacklisted(mallory) || !restored.BlacklistEnabled() {
		t.Error("blacklist state lost")
	}
	if cap, ok := restored.SupplyCap(); !ok || !cap.Eq(amount(5_000_000)) {
		t.Error("supply cap lost")
	}
	if restored.PendingOwner() != carol || restored.OwnershipUnlockTime() != l.OwnershipUnlockTime() {
		t.Error("pending ownership transfer lost")
	}
	if restored.Guardian() != bob {
		t.Error("guardian lost")
	}
	if restored.CurrentSnapshotID() != 1 {
		t.Errorf("current snapshot = %d, want 1", restored.CurrentSnapshotID())
	}
	if got, err := restored.BalanceOfAt(bob, 1); err != nil || !got.Eq(amount(1000)) {
		t.Errorf("snapshot balance = %v/%v, want 1000/nil", got, err)
	}

	// A restored ledger continues exactly where the exported one stopped.
	if err := restored.Transfer(Call{Caller: bob, Now: 10}, carol, amount(500)); err != nil {
		t.Fatalf("transfer on restored ledger: %v", err)
	}
	checkBalance(t, restored, carol, 500)
}

func TestExportIsDetached(t *testing.T) {
	l, _ := newTestLedger(t)

	snapshot := l.ExportState()
	if err := l.Transfer(Call{Caller: alice, Now: 2}, bob, amount(123)); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if got, ok := snapshot.Balances[alice]; !ok || !got.Eq(amount(1_000_000)) {
		t.Error("export must not track post-export mutations")
	}
	if got, ok := snapshot.Balances[bob]; ok && !got.IsZero() {
		t.Error("export must not track post-export mutations")
	}
}
