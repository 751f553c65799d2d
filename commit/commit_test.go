package commit

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/pflow-xyz/go-ledger/ledger"
)

var (
	acctA = common.HexToAddress("0x1111111111111111111111111111111111111111")
	acctB = common.HexToAddress("0x2222222222222222222222222222222222222222")
	acctC = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

func stateWith(balances map[common.Address]*uint256.Int, supply uint64) *ledger.State {
	return &ledger.State{
		Balances:    balances,
		TotalSupply: uint256.NewInt(supply),
	}
}

func TestRootIsDeterministic(t *testing.T) {
	s := stateWith(map[common.Address]*uint256.Int{
		acctA: uint256.NewInt(100),
		acctB: uint256.NewInt(200),
		acctC: uint256.NewInt(300),
	}, 600)

	first := Root(s)
	for i := 0; i < 10; i++ {
		if got := Root(s); got != first {
			t.Fatalf("Root changed across calls: %s vs %s", got.Hex(), first.Hex())
		}
	}
	if first == (common.Hash{}) {
		t.Error("non-empty state must not commit to the zero hash")
	}
}

func TestRootSensitivity(t *testing.T) {
	base := stateWith(map[common.Address]*uint256.Int{
		acctA: uint256.NewInt(100),
		acctB: uint256.NewInt(200),
	}, 300)
	baseRoot := Root(base)

	t.Run("balance change", func(t *testing.T) {
		s := stateWith(map[common.Address]*uint256.Int{
			acctA: uint256.NewInt(101),
			acctB: uint256.NewInt(200),
		}, 300)
		if Root(s) == baseRoot {
			t.Error("changing a balance must change the root")
		}
	})

	t.Run("holder change", func(t *testing.T) {
		s := stateWith(map[common.Address]*uint256.Int{
			acctA: uint256.NewInt(100),
			acctC: uint256.NewInt(200),
		}, 300)
		if Root(s) == baseRoot {
			t.Error("moving a balance to another account must change the root")
		}
	})

	t.Run("supply change", func(t *testing.T) {
		s := stateWith(map[common.Address]*uint256.Int{
			acctA: uint256.NewInt(100),
			acctB: uint256.NewInt(200),
		}, 301)
		if Root(s) == baseRoot {
			t.Error("changing the supply must change the root")
		}
	})
}

func TestEmptyState(t *testing.T) {
	empty := stateWith(map[common.Address]*uint256.Int{}, 0)
	// The empty commitment is stable and distinct from a funded one.
	if Root(empty) != Root(stateWith(nil, 0)) {
		t.Error("nil and empty balance tables must commit identically")
	}
	funded := stateWith(map[common.Address]*uint256.Int{acctA: uint256.NewInt(1)}, 1)
	if Root(empty) == Root(funded) {
		t.Error("empty and funded states must not collide")
	}
}

func TestSnapshotRootMatchesEquivalentState(t *testing.T) {
	balances := map[common.Address]*uint256.Int{
		acctA: uint256.NewInt(5),
		acctB: uint256.NewInt(7),
	}
	snap := ledger.SnapshotState{Supply: uint256.NewInt(12), Balances: balances}
	s := stateWith(balances, 12)

	if SnapshotRoot(snap) != Root(s) {
		t.Error("a snapshot and a state with identical balances and supply must commit identically")
	}
}

func TestOddLeafCount(t *testing.T) {
	// Three holders exercises the odd-level carry in the tree fold.
	s := stateWith(map[common.Address]*uint256.Int{
		acctA: uint256.NewInt(1),
		acctB: uint256.NewInt(2),
		acctC: uint256.NewInt(3),
	}, 6)
	if Root(s) == (common.Hash{}) {
		t.Error("odd leaf count must still produce a commitment")
	}
}
