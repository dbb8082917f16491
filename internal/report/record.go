// Package report defines the canonical record for a single inspection visit:
// client identity, technician metadata, checklist groups, comments, photos,
// signature, and lifecycle fields.
package report

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Operator-convenience defaults applied to a fresh record.
const (
	DefaultTechnician    = "Anoir Boukhriss"
	DefaultCertification = "#AB159.1"
)

// ClientInfo identifies the client a report is written for. Name, email, and
// phone are required for submission; the address fields are optional.
type ClientInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
}

// TechnicianInfo carries technician and scheduling metadata. Everything here
// is optional; dates are stored as ISO "2006-01-02" strings and times as
// "15:04" strings, both formatted only at render time.
type TechnicianInfo struct {
	Name           string `json:"name"`
	Certification  string `json:"certification"`
	ServiceDate    string `json:"serviceDate"`
	NextService    string `json:"nextService"`
	ScheduledTime  string `json:"scheduledTime"`
	ArrivalTime    string `json:"arrivalTime"`
	DepartureTime  string `json:"departureTime"`
	FanBeltNumber  string `json:"fanBeltNumber,omitempty"`
	LadderOrLift   string `json:"ladderOrLift,omitempty"`
	Representative string `json:"ownerRepresentative,omitempty"`
	ReportDate     string `json:"reportDate,omitempty"`
	AdditionalInfo string `json:"additionalInfo,omitempty"`
}

// Comments holds one free-text note per checklist section, independent of the
// boolean answers.
type Comments struct {
	HoodType         string `json:"hoodType"`
	FanType          string `json:"fanType"`
	PreCleaning      string `json:"preCleaning"`
	ServicePerformed string `json:"servicePerformed"`
	AreasNotCleaned  string `json:"areasNotCleaned"`
	PostCleaning     string `json:"postCleaning"`
}

// Record is the full data object describing one inspection visit.
type Record struct {
	Client     ClientInfo     `json:"client"`
	Technician TechnicianInfo `json:"technician"`
	Checklist  Checklist      `json:"checklist"`
	Comments   Comments       `json:"comments"`
	Photos     PhotoSet       `json:"photos"`
	Services   ServiceSet     `json:"selectedServices"`
	CreatedAt  time.Time      `json:"createdAt"`

	// RemoteID is the server-assigned row id once the record has been stored
	// remotely; OwnerID is the enrolled technician who created it.
	RemoteID string `json:"remoteId,omitempty"`
	OwnerID  string `json:"ownerId,omitempty"`
}

// New returns an empty record with the operator-convenience defaults set.
func New() Record {
	return Record{
		Technician: TechnicianInfo{
			Name:          DefaultTechnician,
			Certification: DefaultCertification,
			ServiceDate:   time.Now().Format("2006-01-02"),
		},
		CreatedAt: time.Now().UTC(),
	}
}

// Identity is the dedup key for the local store: the normalized
// (email, name) tuple. The remote store keys by server id instead.
type Identity struct {
	Email string
	Name  string
}

// Identity returns the record's normalized identity tuple.
func (r Record) Identity() Identity {
	return Identity{
		Email: strings.ToLower(strings.TrimSpace(r.Client.Email)),
		Name:  strings.TrimSpace(r.Client.Name),
	}
}

// Match reports whether two identity tuples refer to the same client.
func (id Identity) Match(other Identity) bool {
	return id.Email == other.Email && id.Name == other.Name
}

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError names the first field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrNoClient is returned when a record carries no client identity at all.
var ErrNoClient = errors.New("report has no client identity")

// Validate checks the fields required for form submission: name, email, and
// phone non-blank after trimming, and a plausible email shape.
func (r Record) Validate() error {
	if err := r.ValidateForExport(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Client.Phone) == "" {
		return &ValidationError{Field: "phone", Message: "client phone is required"}
	}
	return nil
}

// ValidateForExport checks only what the export pipeline requires: a
// non-blank name and a well-shaped email.
func (r Record) ValidateForExport() error {
	if strings.TrimSpace(r.Client.Name) == "" {
		return &ValidationError{Field: "name", Message: "client name is required"}
	}
	email := strings.TrimSpace(r.Client.Email)
	if email == "" {
		return &ValidationError{Field: "email", Message: "client email is required"}
	}
	if !emailShape.MatchString(email) {
		return &ValidationError{Field: "email", Message: "client email is not a valid address"}
	}
	return nil
}
