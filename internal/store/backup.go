package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dukerupert/homebase/internal/model"
)

const backupCols = `id, filename, s3_key, size_bytes, status, error_message, started_at, completed_at, created_at`

// BackupStore records backup runs. Rows are plain history: they are not
// entity rows and never go through the recycle bin.
type BackupStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewBackupStore(db *sql.DB) *BackupStore {
	return &BackupStore{db: db, now: time.Now}
}

func scanBackup(sc scanner) (*model.Backup, error) {
	var (
		b         model.Backup
		errMsg    sql.NullString
		started   sql.NullTime
		completed sql.NullTime
	)
	if err := sc.Scan(&b.ID, &b.Filename, &b.S3Key, &b.SizeBytes, &b.Status, &errMsg, &started, &completed, &b.CreatedAt); err != nil {
		return nil, err
	}
	b.ErrorMessage = errMsg.String
	if started.Valid {
		b.StartedAt = &started.Time
	}
	if completed.Valid {
		b.CompletedAt = &completed.Time
	}
	return &b, nil
}

// Create records a pending backup for the object key.
func (s *BackupStore) Create(filename, key string) (*model.Backup, error) {
	now := s.now().UTC()
	result, err := s.db.Exec(
		`INSERT INTO backups (filename, s3_key, status, started_at, created_at) VALUES (?, ?, ?, ?, ?)`,
		filename, key, model.BackupStatusPending, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create backup: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create backup: %w", err)
	}
	return s.Get(id)
}

// Get returns the backup with id, or ErrNotFound.
func (s *BackupStore) Get(id int64) (*model.Backup, error) {
	b, err := scanBackup(s.db.QueryRow(`SELECT `+backupCols+` FROM backups WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("backup %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get backup %d: %w", id, err)
	}
	return b, nil
}

// List returns up to limit backups, newest first.
func (s *BackupStore) List(limit int) ([]model.Backup, error) {
	rows, err := s.db.Query(`SELECT `+backupCols+` FROM backups ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	defer rows.Close()

	backups := []model.Backup{}
	for rows.Next() {
		b, err := scanBackup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan backup: %w", err)
		}
		backups = append(backups, *b)
	}
	return backups, rows.Err()
}

// MarkUploading moves a pending backup to uploading.
func (s *BackupStore) MarkUploading(id int64) error {
	return s.setStatus(id, `status = ?`, model.BackupStatusUploading)
}

// Finish closes a run. A nil runErr completes it with its size; otherwise
// it is marked failed with the error text.
func (s *BackupStore) Finish(id, sizeBytes int64, runErr error) error {
	if runErr != nil {
		return s.setStatus(id, `status = ?, error_message = ?`, model.BackupStatusFailed, runErr.Error())
	}
	return s.setStatus(id, `status = ?, size_bytes = ?, completed_at = ?, error_message = NULL`,
		model.BackupStatusCompleted, sizeBytes, s.now().UTC())
}

func (s *BackupStore) setStatus(id int64, set string, args ...any) error {
	result, err := s.db.Exec(`UPDATE backups SET `+set+` WHERE id = ?`, append(args, id)...)
	if err != nil {
		return fmt.Errorf("update backup %d: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("update backup %d: %w", id, ErrNotFound)
	}
	return nil
}

// Expire deletes records created before the cutoff and returns their
// object keys so the caller can remove the objects too.
func (s *BackupStore) Expire(before time.Time) ([]string, error) {
	rows, err := s.db.Query(`DELETE FROM backups WHERE created_at < ? RETURNING s3_key`, before.UTC())
	if err != nil {
		return nil, fmt.Errorf("expire backups: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan expired key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// LatestCompleted returns the most recent successful backup, or nil when
// there is none.
func (s *BackupStore) LatestCompleted() (*model.Backup, error) {
	b, err := scanBackup(s.db.QueryRow(
		`SELECT `+backupCols+` FROM backups WHERE status = ? ORDER BY completed_at DESC, id DESC LIMIT 1`,
		model.BackupStatusCompleted,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest completed backup: %w", err)
	}
	return b, nil
}
