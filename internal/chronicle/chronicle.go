// Package chronicle keeps a queryable SQLite index of every relationship
// record ever constructed, plus the simulation's event log. The default DSN
// is an in-memory database; nothing is written to disk unless a file DSN is
// configured.
package chronicle

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hearth/internal/engine"
	"github.com/talgya/hearth/internal/relations"
)

// DB wraps a SQLite connection for the relationship history index.
type DB struct {
	conn *sqlx.DB
}

// Row is a snapshot of a record taken when it was constructed.
type Row struct {
	Seq             int64           `db:"seq"`
	ID              string          `db:"id"`
	OwnerID         uint64          `db:"owner_id"`
	SubjectID       uint64          `db:"subject_id"`
	Kind            string          `db:"kind"`
	Label           string          `db:"label"`
	PrecededBy      string          `db:"preceded_by"`
	FormedAt        uint64          `db:"formed_at"`
	MetTick         sql.NullInt64   `db:"met_tick"`
	MetQ            sql.NullInt64   `db:"met_q"`
	MetR            sql.NullInt64   `db:"met_r"`
	Compatibility   sql.NullFloat64 `db:"compatibility"`
	ChargeIncrement sql.NullFloat64 `db:"charge_increment"`
	Charge          sql.NullFloat64 `db:"charge"`
	SparkIncrement  sql.NullFloat64 `db:"spark_increment"`
	Spark           sql.NullFloat64 `db:"spark"`
}

// Open opens or creates the index at the given DSN, e.g.
// "file:hearth?mode=memory&cache=shared".
func Open(dsn string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open chronicle: %w", err)
	}
	// A single connection keeps an in-memory database alive and serializes writes.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		owner_id INTEGER NOT NULL,
		subject_id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		label TEXT NOT NULL DEFAULT '',
		preceded_by TEXT NOT NULL DEFAULT '',
		formed_at INTEGER NOT NULL,
		met_tick INTEGER,
		met_q INTEGER,
		met_r INTEGER,
		compatibility REAL,
		charge_increment REAL,
		charge REAL,
		spark_increment REAL,
		spark REAL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_records_pair ON records(owner_id, subject_id);
	CREATE INDEX IF NOT EXISTS idx_records_kind ON records(kind);
	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// rowFor snapshots rec as it is right now.
func rowFor(rec relations.Record) Row {
	base := rec.Base()
	row := Row{
		ID:        base.ID.String(),
		OwnerID:   uint64(base.Owner.ID),
		SubjectID: uint64(base.Subject.ID),
		Kind:      rec.Kind().String(),
		FormedAt:  base.FormedAt,
	}
	if base.PrecededBy != nil {
		row.PrecededBy = base.PrecededBy.Base().ID.String()
	}
	if base.WhenTheyMet != nil {
		row.MetTick = sql.NullInt64{Int64: int64(*base.WhenTheyMet), Valid: true}
	}
	if base.WhereTheyMet != nil {
		row.MetQ = sql.NullInt64{Int64: int64(base.WhereTheyMet.Q), Valid: true}
		row.MetR = sql.NullInt64{Int64: int64(base.WhereTheyMet.R), Valid: true}
	}
	if c, ok := relations.ChargeOf(rec); ok {
		row.ChargeIncrement = sql.NullFloat64{Float64: c.Increment, Valid: true}
		row.Charge = sql.NullFloat64{Float64: c.Value, Valid: true}
	}
	switch r := rec.(type) {
	case *relations.Kinship:
		row.Label = r.Relationship
	case *relations.Acquaintance:
		row.Compatibility = sql.NullFloat64{Float64: r.Compatibility, Valid: true}
		row.SparkIncrement = sql.NullFloat64{Float64: r.Spark.Increment, Valid: true}
		row.Spark = sql.NullFloat64{Float64: r.Spark.Value, Valid: true}
	}
	return row
}

// RecordRelationship appends a snapshot of rec to the index.
func (db *DB) RecordRelationship(rec relations.Record) error {
	row := rowFor(rec)
	_, err := db.conn.NamedExec(`INSERT INTO records
		(id, owner_id, subject_id, kind, label, preceded_by, formed_at,
		 met_tick, met_q, met_r, compatibility, charge_increment, charge,
		 spark_increment, spark)
		VALUES (:id, :owner_id, :subject_id, :kind, :label, :preceded_by, :formed_at,
		 :met_tick, :met_q, :met_r, :compatibility, :charge_increment, :charge,
		 :spark_increment, :spark)`, row)
	if err != nil {
		return fmt.Errorf("insert record %s: %w", row.ID, err)
	}
	return nil
}

// Hook returns a relations.Hook that indexes each record as it is
// registered. Failures are logged to logger (slog.Default when nil), not
// returned: the index is secondary to the in-memory chain.
func (db *DB) Hook(logger *slog.Logger) relations.Hook {
	if logger == nil {
		logger = slog.Default()
	}
	return func(rec relations.Record) {
		if err := db.RecordRelationship(rec); err != nil {
			logger.Error("chronicle write failed",
				"kind", rec.Kind().String(), "id", rec.Base().ID.String(), "error", err)
		}
	}
}

// Chain returns every record indexed for the owner/subject pair, oldest first.
func (db *DB) Chain(owner, subject uint64) ([]Row, error) {
	var rows []Row
	err := db.conn.Select(&rows,
		"SELECT * FROM records WHERE owner_id = ? AND subject_id = ? ORDER BY seq",
		owner, subject,
	)
	if err != nil {
		return nil, fmt.Errorf("chain %d→%d: %w", owner, subject, err)
	}
	return rows, nil
}

// CountByKind tallies every record ever constructed by kind.
func (db *DB) CountByKind() (map[string]int, error) {
	var rows []struct {
		Kind  string `db:"kind"`
		Count int    `db:"n"`
	}
	if err := db.conn.Select(&rows, "SELECT kind, COUNT(*) AS n FROM records GROUP BY kind"); err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Kind] = r.Count
	}
	return counts, nil
}

// LongestChains returns the owner/subject pairs with the most records.
func (db *DB) LongestChains(limit int) ([]ChainLength, error) {
	var out []ChainLength
	err := db.conn.Select(&out, `SELECT owner_id, subject_id, COUNT(*) AS length
		FROM records GROUP BY owner_id, subject_id
		ORDER BY length DESC, owner_id, subject_id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("longest chains: %w", err)
	}
	return out, nil
}

// ChainLength is the number of records indexed for one pair.
type ChainLength struct {
	OwnerID   uint64 `db:"owner_id"`
	SubjectID uint64 `db:"subject_id"`
	Length    int    `db:"length"`
}

// SaveEvents appends events to the database.
func (db *DB) SaveEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (tick, description, category) VALUES (?, ?, ?)",
			e.Tick, e.Description, e.Category,
		)
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}

	return tx.Commit()
}

// RecentEvents returns the most recent N events, newest first.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT tick, description, category FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}

// SaveMeta stores a key-value pair in run metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}
