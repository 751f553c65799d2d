package ledger

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var (
	// Validation errors
	ErrZeroAddress         = errors.New("ledger: zero address")
	ErrInvalidAmount       = errors.New("ledger: invalid amount")
	ErrBatchLengthMismatch = errors.New("ledger: batch length mismatch")

	// Insufficiency errors
	ErrInsufficientBalance   = errors.New("ledger: insufficient balance")
	ErrInsufficientAllowance = errors.New("ledger: insufficient allowance")

	// Access errors
	ErrNotOwner           = errors.New("ledger: caller is not the owner")
	ErrAccessDenied       = errors.New("ledger: access denied")
	ErrRoleAlreadyGranted = errors.New("ledger: role already granted")
	ErrRoleAlreadyRevoked = errors.New("ledger: role already revoked")

	// State-gate errors
	ErrContractPaused        = errors.New("ledger: contract is paused")
	ErrNotContractPaused     = errors.New("ledger: contract is not paused")
	ErrAddressBlacklisted    = errors.New("ledger: address is blacklisted")
	ErrAddressNotBlacklisted = errors.New("ledger: address is not blacklisted")

	// Capacity errors
	ErrSupplyCapExceeded       = errors.New("ledger: supply cap exceeded")
	ErrCannotDecreaseSupplyCap = errors.New("ledger: supply cap can only be lowered, and never below the current supply")

	// Time-lock errors
	ErrNoPendingOwnershipTransfer = errors.New("ledger: no pending ownership transfer")
	ErrOwnershipNotYetUnlockable  = errors.New("ledger: ownership transfer not yet unlockable")

	// Snapshot errors
	ErrSnapshotInProgress = errors.New("ledger: snapshot already in progress")
	ErrSnapshotNotFound   = errors.New("ledger: snapshot not found")

	// Lifecycle errors
	ErrAlreadyInitialized = errors.New("ledger: already initialized")
)

// InsufficientBalanceError reports a debit that exceeds the available balance.
// errors.Is(err, ErrInsufficientBalance) matches it.
type InsufficientBalanceError struct {
	Balance  *uint256.Int
	Required *uint256.Int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%v: have %s, need %s", ErrInsufficientBalance, e.Balance.Dec(), e.Required.Dec())
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// InsufficientAllowanceError reports a consumption that exceeds the stored allowance.
type InsufficientAllowanceError struct {
	Allowance *uint256.Int
	Required  *uint256.Int
}

func (e *InsufficientAllowanceError) Error() string {
	return fmt.Sprintf("%v: have %s, need %s", ErrInsufficientAllowance, e.Allowance.Dec(), e.Required.Dec())
}

func (e *InsufficientAllowanceError) Unwrap() error { return ErrInsufficientAllowance }

// NotOwnerError reports a caller that is not the ledger owner.
type NotOwnerError struct {
	Caller common.Address
	Owner  common.Address
}

func (e *NotOwnerError) Error() string {
	return fmt.Sprintf("%v: caller %s, owner %s", ErrNotOwner, e.Caller.Hex(), e.Owner.Hex())
}

func (e *NotOwnerError) Unwrap() error { return ErrNotOwner }

// AccessDeniedError reports a caller that lacks a required role.
type AccessDeniedError struct {
	Account common.Address
	Role    Role
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("%v: account %s is missing role %s", ErrAccessDenied, e.Account.Hex(), e.Role.Hex())
}

func (e *AccessDeniedError) Unwrap() error { return ErrAccessDenied }

// AddressBlacklistedError reports a blacklisted endpoint on a gated operation.
type AddressBlacklistedError struct {
	Account common.Address
}

func (e *AddressBlacklistedError) Error() string {
	return fmt.Sprintf("%v: %s", ErrAddressBlacklisted, e.Account.Hex())
}

func (e *AddressBlacklistedError) Unwrap() error { return ErrAddressBlacklisted }

// SupplyCapExceededError reports a mint that would push the supply past the cap.
type SupplyCapExceededError struct {
	Supply *uint256.Int
	Cap    *uint256.Int
}

func (e *SupplyCapExceededError) Error() string {
	return fmt.Sprintf("%v: supply %s, cap %s", ErrSupplyCapExceeded, e.Supply.Dec(), e.Cap.Dec())
}

func (e *SupplyCapExceededError) Unwrap() error { return ErrSupplyCapExceeded }

// NotYetUnlockableError reports an ownership acceptance before the unlock time.
type NotYetUnlockableError struct {
	Now        uint64
	UnlockTime uint64
}

func (e *NotYetUnlockableError) Error() string {
	return fmt.Sprintf("%v: now %d, unlocks at %d", ErrOwnershipNotYetUnlockable, e.Now, e.UnlockTime)
}

func (e *NotYetUnlockableError) Unwrap() error { return ErrOwnershipNotYetUnlockable }
