package ledger

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/pflow-xyz/go-ledger/event"
)

// Allowance returns what spender may still move on behalf of owner.
func (l *Ledger) Allowance(owner, spender common.Address) *uint256.Int {
	return l.allowance(owner, spender).Clone()
}

func (l *Ledger) allowance(owner, spender common.Address) *uint256.Int {
	if v, ok := l.allowances[AllowanceKey{owner, spender}]; ok {
		return v
	}
	return uint256.NewInt(0)
}

func (l *Ledger) setAllowance(owner, spender common.Address, v *uint256.Int) {
	key := AllowanceKey{owner, spender}
	if v.IsZero() {
		delete(l.allowances, key)
		return
	}
	l.allowances[key] = v
}

// checkAllowance validates a pending consumption of amount and returns the
// value to store afterwards, without writing anything.
func (l *Ledger) checkAllowance(owner, spender common.Address, amount *uint256.Int) (*uint256.Int, error) {
	current := l.allowance(owner, spender)
	if current.Cmp(amount) < 0 {
		return nil, &InsufficientAllowanceError{Allowance: current.Clone(), Required: amount.Clone()}
	}
	remaining, underflow := new(uint256.Int).SubOverflow(current, amount)
	if underflow {
		return nil, &InsufficientAllowanceError{Allowance: current.Clone(), Required: amount.Clone()}
	}
	return remaining, nil
}

// Approve overwrites the allowance from the caller to spender.
//
// Overwriting rather than adjusting is racy by nature: a spender observing
// two approvals in flight can spend under both values. Callers that care
// should use IncreaseAllowance/DecreaseAllowance instead.
func (l *Ledger) Approve(call Call, spender common.Address, amount *uint256.Int) error {
	if spender == (common.Address{}) {
		return ErrZeroAddress
	}
	l.setAllowance(call.Caller, spender, amount.Clone())
	l.emitApproval(call.Now, call.Caller, spender, amount)
	return nil
}

// IncreaseAllowance atomically raises the allowance by delta.
func (l *Ledger) IncreaseAllowance(call Call, spender common.Address, delta *uint256.Int) error {
	if spender == (common.Address{}) {
		return ErrZeroAddress
	}
	current := l.allowance(call.Caller, spender)
	raised, overflow := new(uint256.Int).AddOverflow(current, delta)
	if overflow {
		return ErrInvalidAmount
	}
	l.setAllowance(call.Caller, spender, raised)
	l.emitApproval(call.Now, call.Caller, spender, raised)
	return nil
}

// DecreaseAllowance atomically lowers the allowance by delta.
func (l *Ledger) DecreaseAllowance(call Call, spender common.Address, delta *uint256.Int) error {
	if spender == (common.Address{}) {
		return ErrZeroAddress
	}
	lowered, err := l.checkAllowance(call.Caller, spender, delta)
	if err != nil {
		return err
	}
	l.setAllowance(call.Caller, spender, lowered)
	l.emitApproval(call.Now, call.Caller, spender, lowered)
	return nil
}

func (l *Ledger) emitApproval(now uint64, owner, spender common.Address, amount *uint256.Int) {
	l.emit(now, event.Approval, map[string]any{
		"owner":   owner.Hex(),
		"spender": spender.Hex(),
		"amount":  amount.Dec(),
	})
}
