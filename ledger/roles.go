package ledger

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/pflow-xyz/go-ledger/event"
)

// Role identifies a grantable capability. Each role is administered by
// exactly one role (possibly itself); the zero value is the default admin
// role.
type Role common.Hash

// Hex returns the role identifier as a 0x-prefixed hex string.
func (r Role) Hex() string { return common.Hash(r).Hex() }

// Well-known roles. Identifiers are keccak256 of the role name, so they are
// stable across deployments and match the conventional on-chain constants.
var (
	DefaultAdminRole = Role{}
	AdminRole        = Role(crypto.Keccak256Hash([]byte("ADMIN_ROLE")))
	MinterRole       = Role(crypto.Keccak256Hash([]byte("MINTER_ROLE")))
	PauserRole       = Role(crypto.Keccak256Hash([]byte("PAUSER_ROLE")))
	GuardianRole     = Role(crypto.Keccak256Hash([]byte("GUARDIAN_ROLE")))
	EmergencyRole    = Role(crypto.Keccak256Hash([]byte("EMERGENCY_ADMIN_ROLE")))
)

// Capability names an intent that an operation declares, so call sites do
// not branch over owner-versus-role ad hoc. The owner always qualifies;
// otherwise the mapped role must be held.
type Capability int

const (
	CapabilityMint Capability = iota
	CapabilityPause
)

func (c Capability) role() Role {
	switch c {
	case CapabilityMint:
		return MinterRole
	case CapabilityPause:
		return PauserRole
	}
	return DefaultAdminRole
}

// HasRole reports whether account holds role.
func (l *Ledger) HasRole(role Role, account common.Address) bool {
	return l.roles[RoleKey{role, account}]
}

// RoleAdmin returns the role that administers role. Unconfigured roles fall
// back to the default admin role.
func (l *Ledger) RoleAdmin(role Role) Role {
	return l.roleAdmins[role]
}

// requireOwner rejects callers other than the current owner. A renounced
// (zero) owner authorizes nobody.
func (l *Ledger) requireOwner(call Call) error {
	if l.owner == (common.Address{}) || call.Caller != l.owner {
		return &NotOwnerError{Caller: call.Caller, Owner: l.owner}
	}
	return nil
}

// requires authorizes a capability: owner, or holder of the capability's
// role. Role and owner authority are independent; neither implies the other.
func (l *Ledger) requires(call Call, c Capability) error {
	if l.owner != (common.Address{}) && call.Caller == l.owner {
		return nil
	}
	if l.HasRole(c.role(), call.Caller) {
		return nil
	}
	return &AccessDeniedError{Account: call.Caller, Role: c.role()}
}

// requireRole rejects callers that do not hold role.
func (l *Ledger) requireRole(call Call, role Role) error {
	if !l.HasRole(role, call.Caller) {
		return &AccessDeniedError{Account: call.Caller, Role: role}
	}
	return nil
}

// GrantRole grants role to account. The caller must hold the role's admin
// role. Granting an already-held role is rejected, not ignored, so that
// double-grant bugs surface immediately instead of masking a configuration
// error.
func (l *Ledger) GrantRole(call Call, role Role, account common.Address) error {
	if account == (common.Address{}) {
		return ErrZeroAddress
	}
	if err := l.requireRole(call, l.RoleAdmin(role)); err != nil {
		return err
	}
	key := RoleKey{role, account}
	if l.roles[key] {
		return ErrRoleAlreadyGranted
	}
	l.roles[key] = true
	l.emit(call.Now, event.RoleGranted, map[string]any{
		"role":    role.Hex(),
		"account": account.Hex(),
		"sender":  call.Caller.Hex(),
	})
	return nil
}

// RevokeRole removes role from account. The caller must hold the role's
// admin role; revoking a role that is not held is rejected.
func (l *Ledger) RevokeRole(call Call, role Role, account common.Address) error {
	if account == (common.Address{}) {
		return ErrZeroAddress
	}
	if err := l.requireRole(call, l.RoleAdmin(role)); err != nil {
		return err
	}
	key := RoleKey{role, account}
	if !l.roles[key] {
		return ErrRoleAlreadyRevoked
	}
	delete(l.roles, key)
	l.emit(call.Now, event.RoleRevoked, map[string]any{
		"role":    role.Hex(),
		"account": account.Hex(),
		"sender":  call.Caller.Hex(),
	})
	return nil
}

// RenounceRole drops one of the caller's own roles. No admin check:
// self-removal cannot escalate privilege.
func (l *Ledger) RenounceRole(call Call, role Role) error {
	key := RoleKey{role, call.Caller}
	if !l.roles[key] {
		return ErrRoleAlreadyRevoked
	}
	delete(l.roles, key)
	l.emit(call.Now, event.RoleRevoked, map[string]any{
		"role":    role.Hex(),
		"account": call.Caller.Hex(),
		"sender":  call.Caller.Hex(),
	})
	return nil
}

// SetRoleAdmin repoints the admin role that gates grant/revoke for role.
// The caller must hold the current admin role.
func (l *Ledger) SetRoleAdmin(call Call, role, admin Role) error {
	if err := l.requireRole(call, l.RoleAdmin(role)); err != nil {
		return err
	}
	previous := l.RoleAdmin(role)
	l.roleAdmins[role] = admin
	l.emit(call.Now, event.RoleAdminChanged, map[string]any{
		"role":          role.Hex(),
		"previousAdmin": previous.Hex(),
		"newAdmin":      admin.Hex(),
	})
	return nil
}
