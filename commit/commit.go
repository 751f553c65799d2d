// Package commit computes a succinct commitment to the ledger's balance
// state: a MiMC Merkle root over the (account, balance) pairs plus the total
// supply. MiMC over bn254 keeps the commitment cheap to re-verify inside an
// arithmetic circuit, so the same root can later anchor a proof system
// without changing the storage format.
package commit

import (
	"bytes"
	"sort"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/pflow-xyz/go-ledger/ledger"
)

// Root commits to a state export. The commitment covers the balance table
// and the total supply; two states with the same balances and supply commit
// to the same root regardless of map iteration order.
func Root(s *ledger.State) common.Hash {
	return commitBalances(s.Balances, s.TotalSupply)
}

// SnapshotRoot commits to one captured snapshot.
func SnapshotRoot(snap ledger.SnapshotState) common.Hash {
	return commitBalances(snap.Balances, snap.Supply)
}

func commitBalances(balances map[common.Address]*uint256.Int, supply *uint256.Int) common.Hash {
	leaves := make([]fr.Element, 0, len(balances))
	accounts := make([]common.Address, 0, len(balances))
	for account := range balances {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return bytes.Compare(accounts[i][:], accounts[j][:]) < 0
	})
	for _, account := range accounts {
		leaves = append(leaves, leaf(account, balances[account]))
	}

	root := merkleRoot(leaves)
	sup := element(supply)

	h := mimc.NewMiMC()
	writeElement(h, root)
	writeElement(h, sup)
	return digest(h.Sum(nil))
}

// leaf hashes one (account, balance) pair.
func leaf(account common.Address, balance *uint256.Int) fr.Element {
	var key fr.Element
	key.SetBytes(account[:])
	val := element(balance)

	h := mimc.NewMiMC()
	writeElement(h, key)
	writeElement(h, val)
	var out fr.Element
	out.SetBytes(h.Sum(nil))
	return out
}

// merkleRoot folds the leaves pairwise until one element remains. An odd
// level carries its last element up unhashed; an empty tree commits to zero.
func merkleRoot(leaves []fr.Element) fr.Element {
	if len(leaves) == 0 {
		return fr.Element{}
	}
	level := leaves
	for len(level) > 1 {
		next := make([]fr.Element, 0, (len(level)+1)/2)
		for i := 0; i+1 < len(level); i += 2 {
			h := mimc.NewMiMC()
			writeElement(h, level[i])
			writeElement(h, level[i+1])
			var parent fr.Element
			parent.SetBytes(h.Sum(nil))
			next = append(next, parent)
		}
		if len(level)%2 == 1 {
			next = append(next, level[len(level)-1])
		}
		level = next
	}
	return level[0]
}

// element reduces a 256-bit amount into the bn254 scalar field. Reduction is
// injective for all realistic supplies (anything below ~2^253).
func element(v *uint256.Int) fr.Element {
	var e fr.Element
	if v != nil {
		b := v.Bytes32()
		e.SetBytes(b[:])
	}
	return e
}

type hasher interface {
	Write(p []byte) (int, error)
}

func writeElement(h hasher, e fr.Element) {
	b := e.Bytes()
	h.Write(b[:])
}

func digest(sum []byte) common.Hash {
	var out common.Hash
	copy(out[common.HashLength-len(sum):], sum)
	return out
}
