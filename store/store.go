// Package store persists ledger state and emitted records in SQLite. The
// schema is normalized per concern (balances, allowances, roles, lists,
// snapshots, records); state saves are whole-state replacements inside one
// transaction, which keeps the on-disk state consistent with the in-memory
// aggregate after every committed operation.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	_ "modernc.org/sqlite"

	"github.com/pflow-xyz/go-ledger/commit"
	"github.com/pflow-xyz/go-ledger/event"
	"github.com/pflow-xyz/go-ledger/ledger"
)

// ErrNoState marks a database that has never seen a state save.
var ErrNoState = errors.New("store: no saved state")

const schema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS balances (
	account TEXT PRIMARY KEY,
	amount  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS allowances (
	owner   TEXT NOT NULL,
	spender TEXT NOT NULL,
	amount  TEXT NOT NULL,
	PRIMARY KEY (owner, spender)
);
CREATE TABLE IF NOT EXISTS roles (
	role    TEXT NOT NULL,
	account TEXT NOT NULL,
	PRIMARY KEY (role, account)
);
CREATE TABLE IF NOT EXISTS role_admins (
	role  TEXT PRIMARY KEY,
	admin TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS blacklist (
	account TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS whitelist (
	account TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS snapshots (
	id         INTEGER PRIMARY KEY,
	supply     TEXT NOT NULL,
	commitment TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS snapshot_balances (
	snapshot_id INTEGER NOT NULL,
	account     TEXT NOT NULL,
	amount      TEXT NOT NULL,
	PRIMARY KEY (snapshot_id, account)
);
CREATE TABLE IF NOT EXISTS records (
	seq        INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	time       INTEGER NOT NULL,
	attributes TEXT NOT NULL
);
`

// Store is a SQLite-backed persistence layer. Safe for concurrent use to the
// extent database/sql is; state saves serialize on the write transaction.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	// modernc's driver serializes on a single connection; more would trade
	// "database is locked" errors for no throughput.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// SaveState replaces the persisted state with a full export and returns the
// commitment root stored alongside it.
func (s *Store) SaveState(ctx context.Context, st *ledger.State) (common.Hash, error) {
	root := commit.Root(st)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return common.Hash{}, fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{
		"balances", "allowances", "roles", "role_admins",
		"blacklist", "whitelist", "snapshots", "snapshot_balances",
	} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return common.Hash{}, fmt.Errorf("store: clear %s: %w", table, err)
		}
	}

	meta := map[string]string{
		"initialized":         boolStr(st.Initialized),
		"name":                st.Name,
		"symbol":              st.Symbol,
		"decimals":            strconv.Itoa(int(st.Decimals)),
		"total_supply":        amountStr(st.TotalSupply),
		"owner":               st.Owner.Hex(),
		"paused":              boolStr(st.Paused),
		"blacklist_enabled":   boolStr(st.BlacklistEnabled),
		"whitelist_enabled":   boolStr(st.WhitelistEnabled),
		"supply_cap_set":      boolStr(st.SupplyCapSet),
		"supply_cap":          amountStr(st.SupplyCap),
		"transfer_threshold":  amountStr(st.LargeTransferThreshold),
		"pending_owner":       st.PendingOwner.Hex(),
		"unlock_time":         strconv.FormatUint(st.OwnershipUnlockTime, 10),
		"ownership_delay":     strconv.FormatUint(st.OwnershipDelay, 10),
		"guardian":            st.Guardian.Hex(),
		"emergency_admin":     st.EmergencyAdmin.Hex(),
		"next_snapshot_id":    strconv.FormatUint(st.NextSnapshotID, 10),
		"current_snapshot_id": strconv.FormatUint(st.CurrentSnapshotID, 10),
		"seq":                 strconv.FormatUint(st.Seq, 10),
		"commitment":          root.Hex(),
	}
	for key, value := range meta {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
			key, value); err != nil {
			return common.Hash{}, fmt.Errorf("store: meta %s: %w", key, err)
		}
	}

	for account, amount := range st.Balances {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO balances (account, amount) VALUES (?, ?)",
			account.Hex(), amount.Dec()); err != nil {
			return common.Hash{}, fmt.Errorf("store: balance: %w", err)
		}
	}
	for key, amount := range st.Allowances {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO allowances (owner, spender, amount) VALUES (?, ?, ?)",
			key.Owner.Hex(), key.Spender.Hex(), amount.Dec()); err != nil {
			return common.Hash{}, fmt.Errorf("store: allowance: %w", err)
		}
	}
	for key, held := range st.Roles {
		if !held {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO roles (role, account) VALUES (?, ?)",
			key.Role.Hex(), key.Account.Hex()); err != nil {
			return common.Hash{}, fmt.Errorf("store: role: %w", err)
		}
	}
	for role, admin := range st.RoleAdmins {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO role_admins (role, admin) VALUES (?, ?)",
			role.Hex(), admin.Hex()); err != nil {
			return common.Hash{}, fmt.Errorf("store: role admin: %w", err)
		}
	}
	for account, listed := range st.Blacklist {
		if !listed {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO blacklist (account) VALUES (?)", account.Hex()); err != nil {
			return common.Hash{}, fmt.Errorf("store: blacklist: %w", err)
		}
	}
	for account, listed := range st.Whitelist {
		if !listed {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO whitelist (account) VALUES (?)", account.Hex()); err != nil {
			return common.Hash{}, fmt.Errorf("store: whitelist: %w", err)
		}
	}
	for id, snap := range st.Snapshots {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO snapshots (id, supply, commitment) VALUES (?, ?, ?)",
			id, amountStr(snap.Supply), commit.SnapshotRoot(snap).Hex()); err != nil {
			return common.Hash{}, fmt.Errorf("store: snapshot: %w", err)
		}
		for account, amount := range snap.Balances {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO snapshot_balances (snapshot_id, account, amount) VALUES (?, ?, ?)",
				id, account.Hex(), amount.Dec()); err != nil {
				return common.Hash{}, fmt.Errorf("store: snapshot balance: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return common.Hash{}, fmt.Errorf("store: commit: %w", err)
	}
	return root, nil
}

// LoadState reads the persisted state. Returns ErrNoState when the database
// has never been saved to.
func (s *Store) LoadState(ctx context.Context) (*ledger.State, error) {
	meta, err := s.loadMeta(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := meta["initialized"]; !ok {
		return nil, ErrNoState
	}

	st := &ledger.State{
		Initialized:      meta["initialized"] == "1",
		Name:             meta["name"],
		Symbol:           meta["symbol"],
		Paused:           meta["paused"] == "1",
		BlacklistEnabled: meta["blacklist_enabled"] == "1",
		WhitelistEnabled: meta["whitelist_enabled"] == "1",
		SupplyCapSet:     meta["supply_cap_set"] == "1",
		Owner:            common.HexToAddress(meta["owner"]),
		PendingOwner:     common.HexToAddress(meta["pending_owner"]),
		Guardian:         common.HexToAddress(meta["guardian"]),
		EmergencyAdmin:   common.HexToAddress(meta["emergency_admin"]),

		Balances:   make(map[common.Address]*uint256.Int),
		Allowances: make(map[ledger.AllowanceKey]*uint256.Int),
		Roles:      make(map[ledger.RoleKey]bool),
		RoleAdmins: make(map[ledger.Role]ledger.Role),
		Blacklist:  make(map[common.Address]bool),
		Whitelist:  make(map[common.Address]bool),
		Snapshots:  make(map[uint64]ledger.SnapshotState),
	}

	dec, err := strconv.Atoi(meta["decimals"])
	if err != nil {
		return nil, fmt.Errorf("store: decimals: %w", err)
	}
	st.Decimals = uint8(dec)
	if st.TotalSupply, err = parseAmount(meta["total_supply"]); err != nil {
		return nil, err
	}
	if st.SupplyCapSet {
		if st.SupplyCap, err = parseAmount(meta["supply_cap"]); err != nil {
			return nil, err
		}
	}
	if meta["transfer_threshold"] != "" {
		if st.LargeTransferThreshold, err = parseAmount(meta["transfer_threshold"]); err != nil {
			return nil, err
		}
	}
	if st.OwnershipUnlockTime, err = strconv.ParseUint(meta["unlock_time"], 10, 64); err != nil {
		return nil, fmt.Errorf("store: unlock_time: %w", err)
	}
	if st.OwnershipDelay, err = strconv.ParseUint(meta["ownership_delay"], 10, 64); err != nil {
		return nil, fmt.Errorf("store: ownership_delay: %w", err)
	}
	if st.NextSnapshotID, err = strconv.ParseUint(meta["next_snapshot_id"], 10, 64); err != nil {
		return nil, fmt.Errorf("store: next_snapshot_id: %w", err)
	}
	if st.CurrentSnapshotID, err = strconv.ParseUint(meta["current_snapshot_id"], 10, 64); err != nil {
		return nil, fmt.Errorf("store: current_snapshot_id: %w", err)
	}
	if st.Seq, err = strconv.ParseUint(meta["seq"], 10, 64); err != nil {
		return nil, fmt.Errorf("store: seq: %w", err)
	}

	if err := s.loadBalances(ctx, st.Balances); err != nil {
		return nil, err
	}
	if err := s.loadAllowances(ctx, st); err != nil {
		return nil, err
	}
	if err := s.loadRoles(ctx, st); err != nil {
		return nil, err
	}
	if err := s.loadList(ctx, "blacklist", st.Blacklist); err != nil {
		return nil, err
	}
	if err := s.loadList(ctx, "whitelist", st.Whitelist); err != nil {
		return nil, err
	}
	if err := s.loadSnapshots(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Commitment returns the root stored with the last state save.
func (s *Store) Commitment(ctx context.Context) (common.Hash, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM meta WHERE key = 'commitment'").Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return common.Hash{}, ErrNoState
	}
	if err != nil {
		return common.Hash{}, fmt.Errorf("store: commitment: %w", err)
	}
	return common.HexToHash(value), nil
}

// AppendRecords persists emitted records. Sequence numbers are the primary
// key, so replaying the same batch is an error rather than a duplicate.
func (s *Store) AppendRecords(ctx context.Context, recs []event.Record) error {
	if len(recs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	for _, rec := range recs {
		attrs, err := json.Marshal(rec.Attributes)
		if err != nil {
			return fmt.Errorf("store: record %d attributes: %w", rec.Seq, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO records (seq, name, time, attributes) VALUES (?, ?, ?, ?)",
			rec.Seq, rec.Name, rec.Time, string(attrs)); err != nil {
			return fmt.Errorf("store: record %d: %w", rec.Seq, err)
		}
	}
	return tx.Commit()
}

// Records returns up to limit records with seq > afterSeq, in order. A limit
// of zero or less means no limit.
func (s *Store) Records(ctx context.Context, afterSeq uint64, limit int) ([]event.Record, error) {
	query := "SELECT seq, name, time, attributes FROM records WHERE seq > ? ORDER BY seq"
	args := []any{afterSeq}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: records: %w", err)
	}
	defer rows.Close()

	var out []event.Record
	for rows.Next() {
		var rec event.Record
		var attrs string
		if err := rows.Scan(&rec.Seq, &rec.Name, &rec.Time, &attrs); err != nil {
			return nil, fmt.Errorf("store: records: %w", err)
		}
		if attrs != "" && attrs != "null" {
			if err := json.Unmarshal([]byte(attrs), &rec.Attributes); err != nil {
				return nil, fmt.Errorf("store: record %d attributes: %w", rec.Seq, err)
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) loadMeta(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM meta")
	if err != nil {
		return nil, fmt.Errorf("store: meta: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("store: meta: %w", err)
		}
		meta[key] = value
	}
	return meta, rows.Err()
}

func (s *Store) loadBalances(ctx context.Context, dst map[common.Address]*uint256.Int) error {
	rows, err := s.db.QueryContext(ctx, "SELECT account, amount FROM balances")
	if err != nil {
		return fmt.Errorf("store: balances: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var account, amount string
		if err := rows.Scan(&account, &amount); err != nil {
			return fmt.Errorf("store: balances: %w", err)
		}
		v, err := parseAmount(amount)
		if err != nil {
			return err
		}
		dst[common.HexToAddress(account)] = v
	}
	return rows.Err()
}

func (s *Store) loadAllowances(ctx context.Context, st *ledger.State) error {
	rows, err := s.db.QueryContext(ctx, "SELECT owner, spender, amount FROM allowances")
	if err != nil {
		return fmt.Errorf("store: allowances: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var owner, spender, amount string
		if err := rows.Scan(&owner, &spender, &amount); err != nil {
			return fmt.Errorf("store: allowances: %w", err)
		}
		v, err := parseAmount(amount)
		if err != nil {
			return err
		}
		key := ledger.AllowanceKey{
			Owner:   common.HexToAddress(owner),
			Spender: common.HexToAddress(spender),
		}
		st.Allowances[key] = v
	}
	return rows.Err()
}

func (s *Store) loadRoles(ctx context.Context, st *ledger.State) error {
	rows, err := s.db.QueryContext(ctx, "SELECT role, account FROM roles")
	if err != nil {
		return fmt.Errorf("store: roles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var role, account string
		if err := rows.Scan(&role, &account); err != nil {
			return fmt.Errorf("store: roles: %w", err)
		}
		key := ledger.RoleKey{
			Role:    ledger.Role(common.HexToHash(role)),
			Account: common.HexToAddress(account),
		}
		st.Roles[key] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	admins, err := s.db.QueryContext(ctx, "SELECT role, admin FROM role_admins")
	if err != nil {
		return fmt.Errorf("store: role admins: %w", err)
	}
	defer admins.Close()

	for admins.Next() {
		var role, admin string
		if err := admins.Scan(&role, &admin); err != nil {
			return fmt.Errorf("store: role admins: %w", err)
		}
		st.RoleAdmins[ledger.Role(common.HexToHash(role))] = ledger.Role(common.HexToHash(admin))
	}
	return admins.Err()
}

func (s *Store) loadList(ctx context.Context, table string, dst map[common.Address]bool) error {
	rows, err := s.db.QueryContext(ctx, "SELECT account FROM "+table)
	if err != nil {
		return fmt.Errorf("store: %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var account string
		if err := rows.Scan(&account); err != nil {
			return fmt.Errorf("store: %s: %w", table, err)
		}
		dst[common.HexToAddress(account)] = true
	}
	return rows.Err()
}

func (s *Store) loadSnapshots(ctx context.Context, st *ledger.State) error {
	rows, err := s.db.QueryContext(ctx, "SELECT id, supply FROM snapshots")
	if err != nil {
		return fmt.Errorf("store: snapshots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uint64
		var supply string
		if err := rows.Scan(&id, &supply); err != nil {
			return fmt.Errorf("store: snapshots: %w", err)
		}
		v, err := parseAmount(supply)
		if err != nil {
			return err
		}
		st.Snapshots[id] = ledger.SnapshotState{
			Supply:   v,
			Balances: make(map[common.Address]*uint256.Int),
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	bals, err := s.db.QueryContext(ctx,
		"SELECT snapshot_id, account, amount FROM snapshot_balances")
	if err != nil {
		return fmt.Errorf("store: snapshot balances: %w", err)
	}
	defer bals.Close()

	for bals.Next() {
		var id uint64
		var account, amount string
		if err := bals.Scan(&id, &account, &amount); err != nil {
			return fmt.Errorf("store: snapshot balances: %w", err)
		}
		v, err := parseAmount(amount)
		if err != nil {
			return err
		}
		snap, ok := st.Snapshots[id]
		if !ok {
			return fmt.Errorf("store: snapshot balance for unknown snapshot %d", id)
		}
		snap.Balances[common.HexToAddress(account)] = v
	}
	return bals.Err()
}

func parseAmount(dec string) (*uint256.Int, error) {
	if dec == "" {
		return uint256.NewInt(0), nil
	}
	v, err := uint256.FromDecimal(dec)
	if err != nil {
		return nil, fmt.Errorf("store: amount %q: %w", dec, err)
	}
	return v, nil
}

func amountStr(v *uint256.Int) string {
	if v == nil {
		return ""
	}
	return v.Dec()
}

func boolStr(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
