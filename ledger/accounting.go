package ledger

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/pflow-xyz/go-ledger/event"
)

// balance returns the stored balance for account, or zero if absent.
func (l *Ledger) balance(account common.Address) *uint256.Int {
	if v, ok := l.balances[account]; ok {
		return v
	}
	return uint256.NewInt(0)
}

// setBalance stores a balance, deleting the entry when it reaches zero so
// that absence and a zero balance stay equivalent.
func (l *Ledger) setBalance(account common.Address, v *uint256.Int) {
	if v.IsZero() {
		delete(l.balances, account)
		return
	}
	l.balances[account] = v
}

type balanceView interface {
	get(common.Address) *uint256.Int
	set(common.Address, *uint256.Int)
}

type liveBalances struct{ l *Ledger }

func (b liveBalances) get(a common.Address) *uint256.Int { return b.l.balance(a) }

func (b liveBalances) set(a common.Address, v *uint256.Int) { b.l.setBalance(a, v) }

// moveBalances debits from and credits to on the given view, checking every
// step. Validation happens before any write; a self-transfer only validates.
func moveBalances(view balanceView, from, to common.Address, amount *uint256.Int) error {
	fromBal := view.get(from)
	if fromBal.Cmp(amount) < 0 {
		return &InsufficientBalanceError{Balance: fromBal.Clone(), Required: amount.Clone()}
	}
	if from == to {
		// Net zero; writing both legs would double-apply.
		return nil
	}
	newFrom, underflow := new(uint256.Int).SubOverflow(fromBal, amount)
	if underflow {
		return &InsufficientBalanceError{Balance: fromBal.Clone(), Required: amount.Clone()}
	}
	// Credit overflow is unreachable below the 256-bit ceiling as long as the
	// sum of balances equals total supply, which itself is overflow-checked
	// on mint. The check stays as an invariant guard; tripping it means the
	// conservation invariant was already broken.
	newTo, overflow := new(uint256.Int).AddOverflow(view.get(to), amount)
	if overflow {
		return ErrInvalidAmount
	}
	view.set(from, newFrom)
	view.set(to, newTo)
	return nil
}

// Transfer moves amount from the caller to another account. A zero amount is
// a no-op that still emits a record.
func (l *Ledger) Transfer(call Call, to common.Address, amount *uint256.Int) error {
	if l.paused {
		return ErrContractPaused
	}
	if to == (common.Address{}) {
		return ErrZeroAddress
	}
	if err := l.checkCompliance(call.Caller, to); err != nil {
		return err
	}
	if amount.IsZero() {
		l.emitTransfer(call.Now, call.Caller, to, amount)
		return nil
	}
	if err := moveBalances(liveBalances{l}, call.Caller, to, amount); err != nil {
		return err
	}
	l.emitTransfer(call.Now, call.Caller, to, amount)
	l.monitorTransfer(call.Now, call.Caller, to, amount)
	return nil
}

// TransferFrom moves amount from an account to another, consuming the
// caller's allowance. The allowance decrement and the balance debit commit
// together or not at all.
func (l *Ledger) TransferFrom(call Call, from, to common.Address, amount *uint256.Int) error {
	if l.paused {
		return ErrContractPaused
	}
	if to == (common.Address{}) {
		return ErrZeroAddress
	}
	if err := l.checkCompliance(from, to); err != nil {
		return err
	}
	if amount.IsZero() {
		l.emitTransfer(call.Now, from, to, amount)
		return nil
	}

	newAllowance, err := l.checkAllowance(from, call.Caller, amount)
	if err != nil {
		return err
	}
	fromBal := l.balance(from)
	if fromBal.Cmp(amount) < 0 {
		return &InsufficientBalanceError{Balance: fromBal.Clone(), Required: amount.Clone()}
	}

	l.setAllowance(from, call.Caller, newAllowance)
	if err := moveBalances(liveBalances{l}, from, to, amount); err != nil {
		// Unreachable after the balance check above; kept so a future edit
		// cannot silently commit half the step.
		return err
	}
	l.emitTransfer(call.Now, from, to, amount)
	l.monitorTransfer(call.Now, from, to, amount)
	return nil
}

// Mint creates amount for an account. Legacy owner-only path.
func (l *Ledger) Mint(call Call, to common.Address, amount *uint256.Int) error {
	if err := l.requireOwner(call); err != nil {
		return err
	}
	return l.mint(call, to, amount)
}

// MintWithChecks creates amount for an account; callable by minter-role
// holders as well as the owner.
func (l *Ledger) MintWithChecks(call Call, to common.Address, amount *uint256.Int) error {
	if err := l.requires(call, CapabilityMint); err != nil {
		return err
	}
	return l.mint(call, to, amount)
}

func (l *Ledger) mint(call Call, to common.Address, amount *uint256.Int) error {
	if l.paused {
		return ErrContractPaused
	}
	if to == (common.Address{}) {
		return ErrZeroAddress
	}
	if err := l.checkCompliance(common.Address{}, to); err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}

	newSupply, overflow := new(uint256.Int).AddOverflow(l.totalSupply, amount)
	if overflow {
		return ErrInvalidAmount
	}
	if l.supplyCapSet && newSupply.Cmp(l.supplyCap) > 0 {
		return &SupplyCapExceededError{Supply: l.totalSupply.Clone(), Cap: l.supplyCap.Clone()}
	}
	newBal, overflow := new(uint256.Int).AddOverflow(l.balance(to), amount)
	if overflow {
		return ErrInvalidAmount
	}

	l.setBalance(to, newBal)
	l.totalSupply = newSupply
	l.emitTransfer(call.Now, common.Address{}, to, amount)
	return nil
}

// Burn destroys amount from the caller's balance.
func (l *Ledger) Burn(call Call, amount *uint256.Int) error {
	if l.paused {
		return ErrContractPaused
	}
	if err := l.checkCompliance(call.Caller, common.Address{}); err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}
	return l.burn(call.Now, call.Caller, amount)
}

// BurnFrom destroys amount from another account, consuming the caller's
// allowance first. Allowance and balance are validated together before
// either is touched.
func (l *Ledger) BurnFrom(call Call, from common.Address, amount *uint256.Int) error {
	if l.paused {
		return ErrContractPaused
	}
	if from == (common.Address{}) {
		return ErrZeroAddress
	}
	if err := l.checkCompliance(from, common.Address{}); err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}

	newAllowance, err := l.checkAllowance(from, call.Caller, amount)
	if err != nil {
		return err
	}
	bal := l.balance(from)
	if bal.Cmp(amount) < 0 {
		return &InsufficientBalanceError{Balance: bal.Clone(), Required: amount.Clone()}
	}

	l.setAllowance(from, call.Caller, newAllowance)
	return l.burn(call.Now, from, amount)
}

// burn commits a validated supply decrease for account.
func (l *Ledger) burn(now uint64, from common.Address, amount *uint256.Int) error {
	bal := l.balance(from)
	newBal, underflow := new(uint256.Int).SubOverflow(bal, amount)
	if underflow {
		return &InsufficientBalanceError{Balance: bal.Clone(), Required: amount.Clone()}
	}
	newSupply, underflow := new(uint256.Int).SubOverflow(l.totalSupply, amount)
	if underflow {
		return ErrInvalidAmount
	}
	l.setBalance(from, newBal)
	l.totalSupply = newSupply
	l.emitTransfer(now, from, common.Address{}, amount)
	return nil
}

// SupplyCap returns the cap and whether it is enabled.
func (l *Ledger) SupplyCap() (*uint256.Int, bool) {
	if !l.supplyCapSet {
		return nil, false
	}
	return l.supplyCap.Clone(), true
}

// SetSupplyCap enables the supply cap on first call. Once set, the cap can
// only be lowered, and never below the current total supply. Owner only.
func (l *Ledger) SetSupplyCap(call Call, cap *uint256.Int) error {
	if err := l.requireOwner(call); err != nil {
		return err
	}
	if cap.Cmp(l.totalSupply) < 0 {
		return ErrCannotDecreaseSupplyCap
	}
	if l.supplyCapSet && cap.Cmp(l.supplyCap) > 0 {
		return ErrCannotDecreaseSupplyCap
	}
	l.supplyCap = cap.Clone()
	l.supplyCapSet = true
	l.emit(call.Now, event.SupplyCapSet, map[string]any{"cap": cap.Dec()})
	return nil
}

func (l *Ledger) emitTransfer(now uint64, from, to common.Address, amount *uint256.Int) {
	l.emit(now, event.Transfer, map[string]any{
		"from":   from.Hex(),
		"to":     to.Hex(),
		"amount": amount.Dec(),
	})
}
