package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dukerupert/homebase/internal/model"
)

// MaxArchiveEntries caps how many history rows a single List returns.
const MaxArchiveEntries = 50

type ArchiveStore struct {
	db *sql.DB
}

func NewArchiveStore(db *sql.DB) *ArchiveStore {
	return &ArchiveStore{db: db}
}

func (s *ArchiveStore) Append(e model.ArchiveEntry) error {
	return appendArchive(s.db, e)
}

// List returns archive entries newest first. An empty entity lists all
// entities. limit is clamped to MaxArchiveEntries.
func (s *ArchiveStore) List(entity string, limit int) ([]model.ArchiveEntry, error) {
	if limit <= 0 || limit > MaxArchiveEntries {
		limit = MaxArchiveEntries
	}

	query := `SELECT id, entity, entity_id, action, label, detail, actor, archived_at FROM archive_log`
	var args []any
	if entity != "" {
		query += ` WHERE entity = ?`
		args = append(args, entity)
	}
	query += ` ORDER BY archived_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list archive: %w", err)
	}
	defer rows.Close()

	var entries []model.ArchiveEntry
	for rows.Next() {
		var e model.ArchiveEntry
		var detail string
		if err := rows.Scan(&e.ID, &e.Entity, &e.EntityID, &e.Action, &e.Label, &detail, &e.Actor, &e.ArchivedAt); err != nil {
			return nil, fmt.Errorf("scan archive entry: %w", err)
		}
		if detail != "" && detail != "{}" {
			if err := json.Unmarshal([]byte(detail), &e.Detail); err != nil {
				return nil, fmt.Errorf("decode archive detail %d: %w", e.ID, err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func appendArchive(ex execer, e model.ArchiveEntry) error {
	detail := []byte("{}")
	if len(e.Detail) > 0 {
		var err error
		detail, err = json.Marshal(e.Detail)
		if err != nil {
			return fmt.Errorf("encode archive detail: %w", err)
		}
	}
	_, err := ex.Exec(
		`INSERT INTO archive_log (entity, entity_id, action, label, detail, actor) VALUES (?, ?, ?, ?, ?, ?)`,
		e.Entity, e.EntityID, e.Action, e.Label, string(detail), e.Actor,
	)
	if err != nil {
		return fmt.Errorf("append archive: %w", err)
	}
	return nil
}
