package store

import (
	"errors"
	"time"

	"hoodreport/api/internal/report"
)

// ErrNotFound is returned when a report id does not exist remotely.
var ErrNotFound = errors.New("report not found")

// ErrPermissionDenied is returned when a report exists but belongs to a
// different technician account.
var ErrPermissionDenied = errors.New("report belongs to another account")

// StoredReport is a remote row: the server-assigned id plus the full record.
type StoredReport struct {
	ID        string
	CreatedAt time.Time
	OwnerID   string
	Record    report.Record
}

// Technician is an enrolled account that can sync reports.
type Technician struct {
	ID           string
	Email        string
	Name         string
	PasscodeHash string
	CreatedAt    time.Time
}
