// Package sqlite provides a SQLite-backed memory.Driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/papercomputeco/callmem/pkg/memory"
)

const schema = `
CREATE TABLE IF NOT EXISTS memories (
	id         TEXT PRIMARY KEY,
	owner_id   TEXT NOT NULL,
	kind       TEXT NOT NULL,
	text       TEXT NOT NULL,
	metadata   TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_memories_owner ON memories (owner_id, created_at);
`

// Driver implements memory.Driver on a single SQLite database file.
type Driver struct {
	db *sql.DB
}

// NewDriver opens (and migrates) the database at dbPath. The dbPath can be a
// file path or ":memory:".
func NewDriver(dbPath string) (*Driver, error) {
	// Open the database using the github.com/mattn/go-sqlite3 driver (registered as "sqlite3")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Driver{db: db}, nil
}

// Add upserts the document as one row.
func (d *Driver) Add(ctx context.Context, doc *memory.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	id := doc.ID
	if id == "" {
		id = memory.DocumentID(doc.OwnerID, doc.ConversationID, doc.Kind)
	}

	metadata, err := json.Marshal(doc.Metadata())
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO memories (id, owner_id, kind, text, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET text = excluded.text, metadata = excluded.metadata`,
		id, doc.OwnerID, string(doc.Kind), doc.Text(), string(metadata), doc.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("inserting memory: %w", err)
	}

	return nil
}

// GetAll returns the owner's memories oldest first.
func (d *Driver) GetAll(ctx context.Context, ownerID string) ([]memory.Memory, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, owner_id, text, metadata, created_at
		FROM memories
		WHERE owner_id = ?
		ORDER BY created_at ASC, rowid ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying memories: %w", err)
	}
	defer rows.Close()

	var out []memory.Memory
	for rows.Next() {
		var (
			m         memory.Memory
			metadata  string
			createdAt int64
		)
		if err := rows.Scan(&m.ID, &m.OwnerID, &m.Text, &metadata, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning memory: %w", err)
		}
		if err := json.Unmarshal([]byte(metadata), &m.Metadata); err != nil {
			return nil, fmt.Errorf("decoding metadata of %s: %w", m.ID, err)
		}
		m.CreatedAt = time.UnixMilli(createdAt).UTC()
		out = append(out, m)
	}

	return out, rows.Err()
}

// Search ranks the owner's memories lexically.
func (d *Driver) Search(ctx context.Context, query, ownerID string, limit int) ([]memory.Memory, error) {
	all, err := d.GetAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return memory.RankLexical(query, all, limit), nil
}

// Close closes the database.
func (d *Driver) Close() error {
	return d.db.Close()
}

var _ memory.Driver = (*Driver)(nil)
