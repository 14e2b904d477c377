// Package sqlite implements repository.Repository on a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"smallworld/internal/repository"
)

// Repository implements repository.Repository using SQLite.
type Repository struct {
	db *sql.DB
}

var _ repository.Repository = (*Repository)(nil)

// New opens (or creates) the database at dbPath and runs migrations.
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single writer; WAL keeps readers unblocked during frame persistence.
	if _, err := db.Exec(`PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 5000;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure database: %w", err)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS positions (
		node_id TEXT PRIMARY KEY,
		x REAL NOT NULL,
		y REAL NOT NULL,
		pinned INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := r.db.Exec(schema)
	return err
}

// SavePositions upserts positions in a single transaction.
func (r *Repository) SavePositions(ctx context.Context, positions []repository.Position) error {
	if len(positions) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO positions (node_id, x, y, pinned, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(node_id) DO UPDATE SET
			x = excluded.x,
			y = excluded.y,
			pinned = excluded.pinned,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range positions {
		if _, err := stmt.ExecContext(ctx, p.NodeID, p.X, p.Y, boolToInt(p.Pinned)); err != nil {
			return fmt.Errorf("save position for %s: %w", p.NodeID, err)
		}
	}

	return tx.Commit()
}

// LoadPositions returns all stored positions.
func (r *Repository) LoadPositions(ctx context.Context) ([]repository.Position, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT node_id, x, y, pinned FROM positions`)
	if err != nil {
		return nil, fmt.Errorf("query positions: %w", err)
	}
	defer rows.Close()

	var out []repository.Position
	for rows.Next() {
		var p repository.Position
		var pinned int
		if err := rows.Scan(&p.NodeID, &p.X, &p.Y, &pinned); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		p.Pinned = pinned != 0
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeletePositions removes positions for the given node ids.
func (r *Repository) DeletePositions(ctx context.Context, nodeIDs []string) error {
	if len(nodeIDs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `DELETE FROM positions WHERE node_id = ?`)
	if err != nil {
		return fmt.Errorf("prepare delete: %w", err)
	}
	defer stmt.Close()

	for _, id := range nodeIDs {
		if _, err := stmt.ExecContext(ctx, id); err != nil {
			return fmt.Errorf("delete position for %s: %w", id, err)
		}
	}

	return tx.Commit()
}

// Clear removes all stored positions.
func (r *Repository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM positions`); err != nil {
		return fmt.Errorf("clear positions: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (r *Repository) Close() error {
	return r.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
