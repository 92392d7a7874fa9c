// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means you need a C compiler installed and
// cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code, so it works everywhere Go works. This
// matters for an app that gets copied onto a small VM and run as a single
// binary.
package sqlite

import (
	"database/sql"
	"fmt"

	// Blank import registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides the repository methods.
// One struct implements all four repository interfaces; the tables are far
// too entangled (invites join users, comments join users) to gain anything
// from splitting the type.
type DB struct {
	conn *sql.DB
}

// New opens the database, applies pragmas, and runs the startup migration.
//
// dbPath can be a file path or ":memory:" (used by the tests). sql.Open does
// not actually connect, so Ping is called to surface a bad path or
// permissions problem immediately rather than on the first query.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in progress, which is
	// what a web server needs from SQLite.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. The server defers this on shutdown so
// the WAL is flushed and the file lock released.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema and adapts older database files to the current
// column set without losing data.
//
// The app has been deployed against database files from several earlier
// versions, so the migration has to handle three generations of schema:
//
//  1. fresh file: CREATE TABLE IF NOT EXISTS does everything
//  2. invites without the anonymous-guest columns: columns are added one by
//     one via pragma_table_info checks
//  3. invites with a NOT NULL user_id, or comments without comment_name:
//     SQLite cannot ALTER a column's nullability, so the table is rebuilt
//     (create new, copy rows, drop old, rename)
//
// Every step is idempotent; running migrate on an up-to-date file is a
// no-op.
func (db *DB) migrate() error {
	if err := db.createTables(); err != nil {
		return err
	}
	if err := db.migrateInvites(); err != nil {
		return err
	}
	if err := db.migrateComments(); err != nil {
		return err
	}
	return db.seedDefaultEvent()
}

func (db *DB) createTables() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			name          TEXT NOT NULL,
			email         TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			is_admin      BOOLEAN NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS events (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			title        TEXT NOT NULL,
			description  TEXT,
			host         TEXT,
			datetime     TEXT,
			location     TEXT,
			registry1    TEXT,
			registry2    TEXT,
			header_image TEXT,
			card_theme   TEXT DEFAULT 'ocean'
		);

		CREATE TABLE IF NOT EXISTS invites (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id     INTEGER NOT NULL,
			user_id      INTEGER,
			rsvp         TEXT,
			adults_qty   INTEGER DEFAULT 1,
			kids_qty     INTEGER DEFAULT 0,
			guest_name   TEXT,
			guest_email  TEXT,
			guest_phone  TEXT,
			is_anonymous BOOLEAN DEFAULT 0,
			FOREIGN KEY (event_id) REFERENCES events(id),
			FOREIGN KEY (user_id) REFERENCES users(id)
		);

		CREATE TABLE IF NOT EXISTS comments (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id     INTEGER NOT NULL,
			user_id      INTEGER,
			comment      TEXT NOT NULL,
			comment_name TEXT,
			timestamp    REAL NOT NULL,
			FOREIGN KEY (event_id) REFERENCES events(id),
			FOREIGN KEY (user_id) REFERENCES users(id)
		);

		CREATE INDEX IF NOT EXISTS idx_invites_event_id ON invites(event_id);
		CREATE INDEX IF NOT EXISTS idx_comments_event_id ON comments(event_id);
	`)
	if err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// migrateInvites brings the invites table of an older database file up to
// the current shape: the anonymous-guest columns are added, and if user_id
// is still NOT NULL the table is rebuilt so anonymous RSVPs can be stored.
func (db *DB) migrateInvites() error {
	columns := []struct {
		name       string
		definition string
	}{
		{"adults_qty", "INTEGER DEFAULT 1"},
		{"kids_qty", "INTEGER DEFAULT 0"},
		{"guest_name", "TEXT"},
		{"guest_email", "TEXT"},
		{"guest_phone", "TEXT"},
		{"is_anonymous", "BOOLEAN DEFAULT 0"},
	}
	for _, col := range columns {
		if err := db.addColumnIfNotExists("invites", col.name, col.definition); err != nil {
			return fmt.Errorf("adding %s to invites: %w", col.name, err)
		}
	}

	notNull, err := db.columnIsNotNull("invites", "user_id")
	if err != nil {
		return fmt.Errorf("inspecting invites.user_id: %w", err)
	}
	if !notNull {
		return nil
	}

	// Rebuild in a transaction so a crash mid-migration cannot leave the
	// database without an invites table. COALESCE backfills quantities that
	// predate the columns.
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("starting invites rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		CREATE TABLE invites_new (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id     INTEGER NOT NULL,
			user_id      INTEGER,
			rsvp         TEXT,
			adults_qty   INTEGER DEFAULT 1,
			kids_qty     INTEGER DEFAULT 0,
			guest_name   TEXT,
			guest_email  TEXT,
			guest_phone  TEXT,
			is_anonymous BOOLEAN DEFAULT 0,
			FOREIGN KEY (event_id) REFERENCES events(id),
			FOREIGN KEY (user_id) REFERENCES users(id)
		);
	`); err != nil {
		return fmt.Errorf("creating invites_new: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO invites_new (id, event_id, user_id, rsvp, adults_qty, kids_qty,
		                         guest_name, guest_email, guest_phone, is_anonymous)
		SELECT id, event_id, user_id, rsvp,
		       COALESCE(adults_qty, 1), COALESCE(kids_qty, 0),
		       guest_name, guest_email, guest_phone, COALESCE(is_anonymous, 0)
		FROM invites;
	`); err != nil {
		return fmt.Errorf("copying invites: %w", err)
	}

	if _, err := tx.Exec(`DROP TABLE invites`); err != nil {
		return fmt.Errorf("dropping old invites: %w", err)
	}
	if _, err := tx.Exec(`ALTER TABLE invites_new RENAME TO invites`); err != nil {
		return fmt.Errorf("renaming invites_new: %w", err)
	}
	if _, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_invites_event_id ON invites(event_id)`); err != nil {
		return fmt.Errorf("recreating invites index: %w", err)
	}

	return tx.Commit()
}

// migrateComments rebuilds the comments table when it predates anonymous
// comments (no comment_name column).
func (db *DB) migrateComments() error {
	var count int
	err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info('comments') WHERE name = 'comment_name'`,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("inspecting comments: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("starting comments rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		CREATE TABLE comments_new (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id     INTEGER NOT NULL,
			user_id      INTEGER,
			comment      TEXT NOT NULL,
			comment_name TEXT,
			timestamp    REAL NOT NULL,
			FOREIGN KEY (event_id) REFERENCES events(id),
			FOREIGN KEY (user_id) REFERENCES users(id)
		);
	`); err != nil {
		return fmt.Errorf("creating comments_new: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO comments_new (id, event_id, user_id, comment, timestamp)
		SELECT id, event_id, user_id, comment, timestamp FROM comments;
	`); err != nil {
		return fmt.Errorf("copying comments: %w", err)
	}

	if _, err := tx.Exec(`DROP TABLE comments`); err != nil {
		return fmt.Errorf("dropping old comments: %w", err)
	}
	if _, err := tx.Exec(`ALTER TABLE comments_new RENAME TO comments`); err != nil {
		return fmt.Errorf("renaming comments_new: %w", err)
	}
	if _, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_comments_event_id ON comments(event_id)`); err != nil {
		return fmt.Errorf("recreating comments index: %w", err)
	}

	return tx.Commit()
}

// seedDefaultEvent inserts the initial invitation when the events table is
// empty, so a fresh deployment has something to show at /event/1.
func (db *DB) seedDefaultEvent() error {
	var count int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		return fmt.Errorf("counting events: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err := db.conn.Exec(`
		INSERT INTO events (title, description, host, datetime, location,
		                    registry1, registry2, header_image, card_theme)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		"A little pearl is on the way",
		"Celebrate with us over love, laughter, and lunch as we await our baby's arrival.",
		"Rohan",
		"2025-10-04T11:00:00",
		"Beaver Lake Park - Lodge, 25101 SE 24th St, Sammamish, WA 98075",
		"https://www.babylist.com",
		"https://www.amazon.com",
		"header.png",
		"ocean",
	)
	if err != nil {
		return fmt.Errorf("seeding default event: %w", err)
	}
	return nil
}

// addColumnIfNotExists adds a column to a table only if it doesn't already
// exist, which makes ALTER TABLE migrations idempotent.
func (db *DB) addColumnIfNotExists(table, column, definition string) error {
	var count int
	err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`,
		table, column,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking column %s.%s: %w", table, column, err)
	}
	if count > 0 {
		return nil
	}
	_, err = db.conn.Exec(fmt.Sprintf(
		`ALTER TABLE %s ADD COLUMN %s %s`, table, column, definition,
	))
	return err
}

// columnIsNotNull reports whether a column carries a NOT NULL constraint.
func (db *DB) columnIsNotNull(table, column string) (bool, error) {
	var notNull int
	err := db.conn.QueryRow(
		`SELECT "notnull" FROM pragma_table_info(?) WHERE name = ?`,
		table, column,
	).Scan(&notNull)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return notNull != 0, nil
}
