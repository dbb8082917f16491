package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hoodreport/api/internal/report"
)

// RemoteStore is the synced visit log. Unlike the local cache it keys rows
// strictly by server id, so one client can accumulate many visits.
type RemoteStore struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

func NewRemoteStore(db *sql.DB, log *zap.SugaredLogger) *RemoteStore {
	return &RemoteStore{db: db, log: log}
}

func (s *RemoteStore) DB() *sql.DB {
	return s.db
}

// EnsureSchema creates the tables on startup. The record itself is stored as
// jsonb so schema drift in the report shape never needs a migration.
func (s *RemoteStore) EnsureSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS reports (
			id UUID PRIMARY KEY,
			owner_id TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			data JSONB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS reports_owner_idx ON reports (owner_id, created_at DESC);

		CREATE TABLE IF NOT EXISTS technicians (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			passcode_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Upsert writes a report to the visit log. A record carrying a remote id
// updates that row if the owner matches; anything else inserts a fresh row
// under a new id. The returned row carries the id the caller should keep.
func (s *RemoteStore) Upsert(ctx context.Context, ownerID string, rec report.Record) (StoredReport, error) {
	if rec.RemoteID != "" {
		stored, err := s.update(ctx, ownerID, rec)
		if err == nil || !errors.Is(err, ErrNotFound) {
			return stored, err
		}
		// The row is gone; fall through and insert a new one.
	}
	return s.insert(ctx, ownerID, rec)
}

func (s *RemoteStore) update(ctx context.Context, ownerID string, rec report.Record) (StoredReport, error) {
	rec.OwnerID = ownerID
	data, err := json.Marshal(rec)
	if err != nil {
		return StoredReport{}, fmt.Errorf("encode report: %w", err)
	}

	var stored StoredReport
	err = s.db.QueryRowContext(ctx, `
		UPDATE reports SET data = $3, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
		RETURNING id, owner_id, created_at
	`, rec.RemoteID, ownerID, data).Scan(&stored.ID, &stored.OwnerID, &stored.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		exists, existsErr := s.exists(ctx, rec.RemoteID)
		if existsErr != nil {
			return StoredReport{}, existsErr
		}
		if exists {
			return StoredReport{}, ErrPermissionDenied
		}
		return StoredReport{}, ErrNotFound
	}
	if err != nil {
		return StoredReport{}, fmt.Errorf("update report: %w", err)
	}
	stored.Record = rec
	return stored, nil
}

func (s *RemoteStore) insert(ctx context.Context, ownerID string, rec report.Record) (StoredReport, error) {
	id := uuid.NewString()
	rec.RemoteID = id
	rec.OwnerID = ownerID
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return StoredReport{}, fmt.Errorf("encode report: %w", err)
	}

	var stored StoredReport
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO reports (id, owner_id, created_at, data)
		VALUES ($1, $2, $3, $4)
		RETURNING id, owner_id, created_at
	`, id, ownerID, rec.CreatedAt, data).Scan(&stored.ID, &stored.OwnerID, &stored.CreatedAt)
	if err != nil {
		return StoredReport{}, fmt.Errorf("insert report: %w", err)
	}
	stored.Record = rec
	return stored, nil
}

func (s *RemoteStore) exists(ctx context.Context, id string) (bool, error) {
	var found bool
	err := s.db.QueryRowContext(ctx, `SELECT TRUE FROM reports WHERE id = $1`, id).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check report: %w", err)
	}
	return found, nil
}

// ListAll returns the owner's visit log, newest first.
func (s *RemoteStore) ListAll(ctx context.Context, ownerID string) ([]StoredReport, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, created_at, data
		FROM reports
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []StoredReport
	for rows.Next() {
		var stored StoredReport
		var data []byte
		if err := rows.Scan(&stored.ID, &stored.OwnerID, &stored.CreatedAt, &data); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		rec, err := report.DecodeRecord(data)
		if err != nil {
			s.log.Warnw("skipping undecodable report row", "id", stored.ID, "error", err)
			continue
		}
		rec.RemoteID = stored.ID
		rec.OwnerID = stored.OwnerID
		stored.Record = rec
		out = append(out, stored)
	}
	return out, rows.Err()
}

// Delete removes a row the owner holds and returns the stored record so the
// caller can clean up its uploaded media.
func (s *RemoteStore) Delete(ctx context.Context, ownerID, id string) (report.Record, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `
		DELETE FROM reports WHERE id = $1 AND owner_id = $2 RETURNING data
	`, id, ownerID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		exists, existsErr := s.exists(ctx, id)
		if existsErr != nil {
			return report.Record{}, existsErr
		}
		if exists {
			return report.Record{}, ErrPermissionDenied
		}
		return report.Record{}, ErrNotFound
	}
	if err != nil {
		return report.Record{}, fmt.Errorf("delete report: %w", err)
	}
	rec, err := report.DecodeRecord(data)
	if err != nil {
		// The row is gone either way; media cleanup just loses its references.
		s.log.Warnw("deleted report row was undecodable, skipping media cleanup", "id", id, "error", err)
		return report.Record{}, nil
	}
	return rec, nil
}

// CreateTechnician enrolls an account. Emails are stored lowercased so login
// is case-insensitive.
func (s *RemoteStore) CreateTechnician(ctx context.Context, email, name, passcodeHash string) (Technician, error) {
	tech := Technician{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Name:         strings.TrimSpace(name),
		PasscodeHash: passcodeHash,
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO technicians (id, email, name, passcode_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, tech.ID, tech.Email, tech.Name, tech.PasscodeHash).Scan(&tech.CreatedAt)
	if err != nil {
		return Technician{}, fmt.Errorf("create technician: %w", err)
	}
	return tech, nil
}

// TechnicianByEmail looks up an account for login.
func (s *RemoteStore) TechnicianByEmail(ctx context.Context, email string) (Technician, error) {
	var tech Technician
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, passcode_hash, created_at
		FROM technicians WHERE email = $1
	`, strings.ToLower(strings.TrimSpace(email))).Scan(
		&tech.ID, &tech.Email, &tech.Name, &tech.PasscodeHash, &tech.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Technician{}, ErrNotFound
	}
	if err != nil {
		return Technician{}, fmt.Errorf("lookup technician: %w", err)
	}
	return tech, nil
}
