package ledger

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// balanceStage overlays pending writes on top of the live balance table so a
// multi-step batch can be validated and applied without touching the ledger
// until every step has passed.
type balanceStage struct {
	l       *Ledger
	pending map[common.Address]*uint256.Int
}

func newBalanceStage(l *Ledger) *balanceStage {
	return &balanceStage{l: l, pending: make(map[common.Address]*uint256.Int)}
}

func (s *balanceStage) get(a common.Address) *uint256.Int {
	if v, ok := s.pending[a]; ok {
		return v
	}
	return s.l.balance(a)
}

func (s *balanceStage) set(a common.Address, v *uint256.Int) {
	s.pending[a] = v
}

// commit flushes the staged writes into the live table.
func (s *balanceStage) commit() {
	for account, v := range s.pending {
		s.l.setBalance(account, v)
	}
}

// BatchTransfer moves amounts[i] from the caller to recipients[i] for every i,
// all-or-nothing: a failure at any step leaves every balance untouched.
// Records are emitted only after the whole batch commits.
func (l *Ledger) BatchTransfer(call Call, recipients []common.Address, amounts []*uint256.Int) error {
	if l.paused {
		return ErrContractPaused
	}
	if len(recipients) != len(amounts) {
		return ErrBatchLengthMismatch
	}

	for i, to := range recipients {
		if to == (common.Address{}) {
			return ErrZeroAddress
		}
		if err := l.checkCompliance(call.Caller, to); err != nil {
			return err
		}
		if amounts[i] == nil {
			return ErrInvalidAmount
		}
	}

	stage := newBalanceStage(l)
	for i, to := range recipients {
		if amounts[i].IsZero() {
			continue
		}
		if err := moveBalances(stage, call.Caller, to, amounts[i]); err != nil {
			return err
		}
	}
	stage.commit()

	for i, to := range recipients {
		l.emitTransfer(call.Now, call.Caller, to, amounts[i])
		l.monitorTransfer(call.Now, call.Caller, to, amounts[i])
	}
	return nil
}

// BatchApprove overwrites the caller's allowance for spenders[i] with
// amounts[i] for every i. Validation runs over the whole batch before any
// allowance is written. Approvals work while paused, matching Approve.
func (l *Ledger) BatchApprove(call Call, spenders []common.Address, amounts []*uint256.Int) error {
	if len(spenders) != len(amounts) {
		return ErrBatchLengthMismatch
	}
	for i, spender := range spenders {
		if spender == (common.Address{}) {
			return ErrZeroAddress
		}
		if amounts[i] == nil {
			return ErrInvalidAmount
		}
	}
	for i, spender := range spenders {
		l.setAllowance(call.Caller, spender, amounts[i].Clone())
		l.emitApproval(call.Now, call.Caller, spender, amounts[i])
	}
	return nil
}
