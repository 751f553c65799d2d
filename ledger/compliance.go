package ledger

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/pflow-xyz/go-ledger/event"
)

// BlacklistEnabled reports whether the blacklist gate is active.
func (l *Ledger) BlacklistEnabled() bool { return l.blacklistEnabled }

// IsBlacklisted reports whether account is on the blacklist. Membership is
// tracked even while the gate is disabled.
func (l *Ledger) IsBlacklisted(account common.Address) bool {
	return l.blacklist[account]
}

// SetBlacklistEnabled toggles the blacklist gate. Owner only.
func (l *Ledger) SetBlacklistEnabled(call Call, enabled bool) error {
	if err := l.requireOwner(call); err != nil {
		return err
	}
	l.blacklistEnabled = enabled
	l.emit(call.Now, event.BlacklistEnabled, map[string]any{"enabled": enabled})
	return nil
}

// Blacklist adds account to the blacklist. Owner only; the zero address is
// never a valid target, and double-adding is rejected.
func (l *Ledger) Blacklist(call Call, account common.Address) error {
	if err := l.requireOwner(call); err != nil {
		return err
	}
	if account == (common.Address{}) {
		return ErrZeroAddress
	}
	if l.blacklist[account] {
		return &AddressBlacklistedError{Account: account}
	}
	l.blacklist[account] = true
	l.emit(call.Now, event.Blacklisted, map[string]any{"account": account.Hex()})
	return nil
}

// Unblacklist removes account from the blacklist. Owner only.
func (l *Ledger) Unblacklist(call Call, account common.Address) error {
	if err := l.requireOwner(call); err != nil {
		return err
	}
	if account == (common.Address{}) {
		return ErrZeroAddress
	}
	if !l.blacklist[account] {
		return ErrAddressNotBlacklisted
	}
	delete(l.blacklist, account)
	l.emit(call.Now, event.UnBlacklisted, map[string]any{"account": account.Hex()})
	return nil
}

// WhitelistEnabled reports whether whitelist mode is flagged on.
func (l *Ledger) WhitelistEnabled() bool { return l.whitelistEnabled }

// IsWhitelisted reports whitelist membership for account.
func (l *Ledger) IsWhitelisted(account common.Address) bool {
	return l.whitelist[account]
}

// SetWhitelistEnabled toggles whitelist mode. Owner only.
func (l *Ledger) SetWhitelistEnabled(call Call, enabled bool) error {
	if err := l.requireOwner(call); err != nil {
		return err
	}
	l.whitelistEnabled = enabled
	l.emit(call.Now, event.WhitelistUpdated, map[string]any{"enabled": enabled})
	return nil
}

// SetWhitelisted updates whitelist membership for account. Owner only.
func (l *Ledger) SetWhitelisted(call Call, account common.Address, listed bool) error {
	if err := l.requireOwner(call); err != nil {
		return err
	}
	if account == (common.Address{}) {
		return ErrZeroAddress
	}
	if listed {
		l.whitelist[account] = true
	} else {
		delete(l.whitelist, account)
	}
	l.emit(call.Now, event.WhitelistUpdated, map[string]any{
		"account": account.Hex(),
		"listed":  listed,
	})
	return nil
}

// checkCompliance is the pre-condition gate in front of every value-moving
// operation. The zero address stands in for mint/burn endpoints and can
// never be blacklisted.
func (l *Ledger) checkCompliance(from, to common.Address) error {
	if l.blacklistEnabled {
		if l.blacklist[from] {
			return &AddressBlacklistedError{Account: from}
		}
		if l.blacklist[to] {
			return &AddressBlacklistedError{Account: to}
		}
	}
	// Whitelist membership is tracked but not yet enforced here.
	// TODO: filter transfers on the whitelist once whitelist mode gets
	// activation criteria.
	return nil
}

// LargeTransferThreshold returns the monitoring threshold, or nil when
// monitoring is disabled.
func (l *Ledger) LargeTransferThreshold() *uint256.Int {
	if l.largeTransferThreshold == nil {
		return nil
	}
	return l.largeTransferThreshold.Clone()
}

// SetLargeTransferThreshold configures transfer monitoring. Owner only; nil
// disables it.
func (l *Ledger) SetLargeTransferThreshold(call Call, threshold *uint256.Int) error {
	if err := l.requireOwner(call); err != nil {
		return err
	}
	attrs := map[string]any{}
	if threshold == nil {
		l.largeTransferThreshold = nil
		attrs["threshold"] = ""
	} else {
		l.largeTransferThreshold = threshold.Clone()
		attrs["threshold"] = threshold.Dec()
	}
	l.emit(call.Now, event.LargeTransferThresholdSet, attrs)
	return nil
}

// monitorTransfer emits an informational record for transfers at or above
// the threshold. Monitoring never rejects.
func (l *Ledger) monitorTransfer(now uint64, from, to common.Address, amount *uint256.Int) {
	if l.largeTransferThreshold == nil || amount.Cmp(l.largeTransferThreshold) < 0 {
		return
	}
	l.emit(now, event.LargeTransfer, map[string]any{
		"from":   from.Hex(),
		"to":     to.Hex(),
		"amount": amount.Dec(),
	})
}
