package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/pflow-xyz/go-ledger/event"
	"github.com/pflow-xyz/go-ledger/ledger"
)

var (
	alice = common.HexToAddress("0x1111111111111111111111111111111111111111")
	bob   = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// populatedLedger builds a ledger with activity across every table.
func populatedLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l := ledger.New()
	call := func(now uint64) ledger.Call { return ledger.Call{Caller: alice, Now: now} }

	err := l.Initialize(call(1), ledger.Config{
		Name:          "Store Token",
		Symbol:        "STO",
		Decimals:      6,
		InitialSupply: uint256.NewInt(10_000),
		Owner:         alice,
	})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := l.Transfer(call(2), bob, uint256.NewInt(1_500)); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if err := l.Approve(call(3), bob, uint256.NewInt(42)); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if err := l.GrantRole(call(4), ledger.MinterRole, bob); err != nil {
		t.Fatalf("GrantRole: %v", err)
	}
	if err := l.Blacklist(call(5), common.HexToAddress("0x9999999999999999999999999999999999999999")); err != nil {
		t.Fatalf("Blacklist: %v", err)
	}
	if err := l.SetSupplyCap(call(6), uint256.NewInt(100_000)); err != nil {
		t.Fatalf("SetSupplyCap: %v", err)
	}
	if _, err := l.Snapshot(call(7)); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	return l
}

func TestLoadStateOnFreshDatabase(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.LoadState(context.Background()); !errors.Is(err, ErrNoState) {
		t.Errorf("LoadState on fresh db = %v, want ErrNoState", err)
	}
	if _, err := s.Commitment(context.Background()); !errors.Is(err, ErrNoState) {
		t.Errorf("Commitment on fresh db = %v, want ErrNoState", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	l := populatedLedger(t)

	exported := l.ExportState()
	root, err := s.SaveState(ctx, exported)
	if err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	if root == (common.Hash{}) {
		t.Fatal("SaveState returned the zero commitment")
	}

	stored, err := s.Commitment(ctx)
	if err != nil {
		t.Fatalf("Commitment: %v", err)
	}
	if stored != root {
		t.Errorf("Commitment = %s, want %s", stored.Hex(), root.Hex())
	}

	loaded, err := s.LoadState(ctx)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}

	restored := ledger.New()
	restored.RestoreState(loaded)

	if restored.Name() != "Store Token" || restored.Symbol() != "STO" || restored.Decimals() != 6 {
		t.Error("metadata did not survive persistence")
	}
	if !restored.BalanceOf(bob).Eq(uint256.NewInt(1_500)) {
		t.Errorf("bob balance = %s, want 1500", restored.BalanceOf(bob).Dec())
	}
	if !restored.Allowance(alice, bob).Eq(uint256.NewInt(42)) {
		t.Errorf("allowance = %s, want 42", restored.Allowance(alice, bob).Dec())
	}
	if !restored.HasRole(ledger.MinterRole, bob) {
		t.Error("minter role lost in persistence")
	}
	if cap, ok := restored.SupplyCap(); !ok || !cap.Eq(uint256.NewInt(100_000)) {
		t.Error("supply cap lost in persistence")
	}
	if restored.CurrentSnapshotID() != 1 {
		t.Errorf("current snapshot = %d, want 1", restored.CurrentSnapshotID())
	}
	if got, err := restored.BalanceOfAt(bob, 1); err != nil || !got.Eq(uint256.NewInt(1_500)) {
		t.Errorf("snapshot balance = %v/%v, want 1500/nil", got, err)
	}

	// Identical state reloads to an identical commitment.
	root2, err := s.SaveState(ctx, restored.ExportState())
	if err != nil {
		t.Fatalf("second SaveState: %v", err)
	}
	if root2 != root {
		t.Errorf("commitment drifted across save/load: %s vs %s", root2.Hex(), root.Hex())
	}
}

func TestSaveStateReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	l := populatedLedger(t)

	if _, err := s.SaveState(ctx, l.ExportState()); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := l.Transfer(ledger.Call{Caller: bob, Now: 10}, alice, uint256.NewInt(1_500)); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if _, err := s.SaveState(ctx, l.ExportState()); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, err := s.LoadState(ctx)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	// bob's row must be gone, not stale.
	if bal, ok := loaded.Balances[bob]; ok && !bal.IsZero() {
		t.Errorf("stale bob balance %s survived the second save", bal.Dec())
	}
}

func TestAppendAndReadRecords(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	recs := []event.Record{
		{Seq: 1, Name: event.Transfer, Time: 5, Attributes: map[string]any{"amount": "10"}},
		{Seq: 2, Name: event.Approval, Time: 6},
		{Seq: 3, Name: event.Transfer, Time: 7},
	}
	if err := s.AppendRecords(ctx, recs); err != nil {
		t.Fatalf("AppendRecords: %v", err)
	}
	if err := s.AppendRecords(ctx, nil); err != nil {
		t.Errorf("AppendRecords(nil) = %v, want nil", err)
	}

	got, err := s.Records(ctx, 0, 0)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Records = %d, want 3", len(got))
	}
	if got[0].Name != event.Transfer || got[0].Attributes["amount"] != "10" {
		t.Errorf("record 0 = %+v", got[0])
	}

	// Pagination.
	tail, err := s.Records(ctx, 1, 1)
	if err != nil {
		t.Fatalf("Records(after=1, limit=1): %v", err)
	}
	if len(tail) != 1 || tail[0].Seq != 2 {
		t.Errorf("paged records = %+v, want single seq 2", tail)
	}

	// Replaying a sequence number is rejected.
	if err := s.AppendRecords(ctx, recs[:1]); err == nil {
		t.Error("duplicate seq append should fail")
	}
}
