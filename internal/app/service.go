// Package app wires the report pipeline together and exposes it over HTTP:
// local drafts, remote sync with photo uploads, suggestions, export, mail.
package app

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"hoodreport/api/internal/auth"
	"hoodreport/api/internal/directory"
	"hoodreport/api/internal/export"
	"hoodreport/api/internal/media"
	"hoodreport/api/internal/report"
	"hoodreport/api/internal/storage"
	"hoodreport/api/internal/store"
)

// Exporter runs the PDF pipeline for a record.
type Exporter interface {
	Export(ctx context.Context, rec report.Record) (*export.Result, error)
}

// Mailer delivers a finished report to the client.
type Mailer interface {
	IsConfigured() bool
	SendReport(to, clientName string, pdf []byte, filename string) error
}

// Service is the application facade. The remote store, object storage, and
// mailer are optional; nil fields disable their operations with a clear
// error instead of failing at startup.
type Service struct {
	log *zap.SugaredLogger

	local      *store.LocalStore
	remote     *store.RemoteStore
	blobs      *storage.Storage
	dir        *directory.Service
	normalizer *media.Normalizer
	exporter   Exporter
	mail       Mailer

	tokenSecret []byte
	tokenTTL    time.Duration
}

type Options struct {
	Log         *zap.SugaredLogger
	Local       *store.LocalStore
	Remote      *store.RemoteStore
	Blobs       *storage.Storage
	Directory   *directory.Service
	Normalizer  *media.Normalizer
	Exporter    Exporter
	Mail        Mailer
	TokenSecret string
	TokenTTL    time.Duration
}

func NewService(opts Options) *Service {
	return &Service{
		log:         opts.Log,
		local:       opts.Local,
		remote:      opts.Remote,
		blobs:       opts.Blobs,
		dir:         opts.Directory,
		normalizer:  opts.Normalizer,
		exporter:    opts.Exporter,
		mail:        opts.Mail,
		tokenSecret: []byte(opts.TokenSecret),
		tokenTTL:    opts.TokenTTL,
	}
}

// SaveLocal validates and writes a report into the latest-per-client cache,
// then refreshes the suggestion directory from the new cache contents.
func (s *Service) SaveLocal(ctx context.Context, rec report.Record) error {
	if err := rec.Validate(); err != nil {
		return asDomainError(err)
	}
	if err := s.local.Save(ctx, rec); err != nil {
		return asDomainError(err)
	}
	s.refreshDirectory(ctx)
	return nil
}

// ListLocal returns every cached report.
func (s *Service) ListLocal(ctx context.Context) ([]report.Record, error) {
	records, err := s.local.LoadAll(ctx)
	if err != nil {
		return nil, asDomainError(err)
	}
	return records, nil
}

// DeleteLocal removes the cached report for an identity; missing is a no-op.
func (s *Service) DeleteLocal(ctx context.Context, id report.Identity) error {
	if err := s.local.Delete(ctx, id); err != nil {
		return asDomainError(err)
	}
	s.refreshDirectory(ctx)
	return nil
}

// SaveRemote uploads the report's local photos to object storage, swaps the
// references for public URLs, and writes the row to the visit log. The local
// cache gets a best-effort mirror of the synced record; a mirror failure is
// logged and swallowed.
func (s *Service) SaveRemote(ctx context.Context, ownerID string, rec report.Record) (store.StoredReport, error) {
	if s.remote == nil {
		return store.StoredReport{}, domainError(http.StatusServiceUnavailable, CodeSyncUnavailable, "Remote sync is not configured", nil)
	}
	if err := rec.Validate(); err != nil {
		return store.StoredReport{}, asDomainError(err)
	}

	if s.blobs != nil {
		rec = s.uploadPhotos(ctx, rec)
	}

	stored, err := s.remote.Upsert(ctx, ownerID, rec)
	if err != nil {
		return store.StoredReport{}, asDomainError(err)
	}

	if mirrorErr := s.local.Save(ctx, stored.Record); mirrorErr != nil {
		s.log.Warnw("local mirror of synced report failed", "id", stored.ID, "error", mirrorErr)
	}
	s.refreshDirectory(ctx)
	return stored, nil
}

// ListRemote returns the owner's visit log.
func (s *Service) ListRemote(ctx context.Context, ownerID string) ([]store.StoredReport, error) {
	if s.remote == nil {
		return nil, domainError(http.StatusServiceUnavailable, CodeSyncUnavailable, "Remote sync is not configured", nil)
	}
	reports, err := s.remote.ListAll(ctx, ownerID)
	if err != nil {
		return nil, asDomainError(err)
	}
	return reports, nil
}

// DeleteRemote removes a synced report and cleans up its uploaded photos.
// Storage cleanup is best effort; the row delete is what matters.
func (s *Service) DeleteRemote(ctx context.Context, ownerID, id string) error {
	if s.remote == nil {
		return domainError(http.StatusServiceUnavailable, CodeSyncUnavailable, "Remote sync is not configured", nil)
	}
	rec, err := s.remote.Delete(ctx, ownerID, id)
	if err != nil {
		return asDomainError(err)
	}
	if s.blobs != nil {
		s.blobs.Remove(ctx, objectPaths(rec.Photos))
	}
	return nil
}

// objectPaths resolves every uploaded reference to its storage path,
// preferring the paths recorded at upload time over URL parsing.
func objectPaths(photos report.PhotoSet) []string {
	var paths []string
	for _, ref := range photos.AllRefs() {
		if path, ok := photos.StoragePaths[ref]; ok {
			paths = append(paths, path)
			continue
		}
		if path, ok := storage.PathFromURL(ref); ok {
			paths = append(paths, path)
		}
	}
	return paths
}

// uploadPhotos normalizes each local reference for the upload sink and swaps
// it for the resulting public URL. Already-remote references pass through;
// unreadable ones are dropped by the normalizer.
func (s *Service) uploadPhotos(ctx context.Context, rec report.Record) report.Record {
	folder := rec.Client.Name

	swap := func(uri, category string) (string, bool) {
		norm, err := s.normalizer.Normalize(ctx, uri, media.SinkUpload)
		if err != nil {
			s.log.Warnw("dropping unreadable photo during sync", "uri", uri, "error", err)
			return "", false
		}
		if norm.RemoteURL != "" {
			return norm.RemoteURL, true
		}
		url, path, err := s.blobs.Upload(ctx, folder, category, norm.Data, norm.MIME)
		if err != nil {
			s.log.Warnw("photo upload failed, keeping local reference", "uri", uri, "error", err)
			return uri, true
		}
		rec.Photos.RecordPath(url, path)
		return url, true
	}

	for _, cat := range report.Categories {
		uris := rec.Photos.Get(cat)
		kept := make([]string, 0, len(uris))
		for _, uri := range uris {
			if url, ok := swap(uri, string(cat)); ok {
				kept = append(kept, url)
			}
		}
		rec.Photos = setCategory(rec.Photos, cat, kept)
	}
	if sig := rec.Photos.Signature; sig != "" {
		if url, ok := swap(sig, "signature"); ok {
			rec.Photos.Signature = url
		} else {
			rec.Photos.Signature = ""
		}
	}
	return rec
}

// setCategory writes a collection back without exposing the photo set's
// internal setter.
func setCategory(p report.PhotoSet, cat report.Category, uris []string) report.PhotoSet {
	switch cat {
	case report.CategoryBefore:
		p.Before = uris
	case report.CategoryAfter:
		p.After = uris
	case report.CategoryExhaustFan:
		p.ExhaustFan = uris
	case report.CategoryDuctFan:
		p.DuctFan = uris
	case report.CategoryCanopy:
		p.Canopy = uris
	}
	return p
}

// Suggest answers a client autocomplete query.
func (s *Service) Suggest(query string) []report.ClientInfo {
	return s.dir.Suggest(query)
}

// RebuildDirectory recomputes the suggestion index from the local cache.
func (s *Service) RebuildDirectory(ctx context.Context) error {
	records, err := s.local.LoadAll(ctx)
	if err != nil {
		return asDomainError(err)
	}
	s.dir.Rebuild(records)
	return nil
}

func (s *Service) refreshDirectory(ctx context.Context) {
	if err := s.RebuildDirectory(ctx); err != nil {
		s.log.Warnw("suggestion index refresh failed", "error", err)
	}
}

// Export runs the full PDF pipeline for a record.
func (s *Service) Export(ctx context.Context, rec report.Record) (*export.Result, error) {
	result, err := s.exporter.Export(ctx, rec)
	if err != nil {
		return nil, asDomainError(err)
	}
	return result, nil
}

// EmailReport exports the record and mails the PDF to the client.
func (s *Service) EmailReport(ctx context.Context, rec report.Record) error {
	if s.mail == nil || !s.mail.IsConfigured() {
		return domainError(http.StatusServiceUnavailable, CodeSyncUnavailable, "Email is not configured", nil)
	}
	result, err := s.Export(ctx, rec)
	if err != nil {
		return err
	}
	if err := s.mail.SendReport(rec.Client.Email, rec.Client.Name, result.Data, result.Filename); err != nil {
		return domainError(http.StatusBadGateway, CodeDeliveryFailed, "Sending the report email failed", nil)
	}
	return nil
}

// Session is an authenticated technician.
type Session struct {
	TechnicianID string
	Email        string
	Name         string
	Token        string
}

// Register enrolls a technician account and returns a signed session.
func (s *Service) Register(ctx context.Context, emailAddr, name, passcode string) (Session, error) {
	if s.remote == nil {
		return Session{}, domainError(http.StatusServiceUnavailable, CodeSyncUnavailable, "Remote sync is not configured", nil)
	}
	if strings.TrimSpace(emailAddr) == "" || strings.TrimSpace(name) == "" {
		return Session{}, domainError(http.StatusUnprocessableEntity, CodeValidationFailed, "Email and name are required", nil)
	}
	hash, err := auth.HashPasscode(passcode)
	if err != nil {
		return Session{}, domainError(http.StatusUnprocessableEntity, CodeValidationFailed, err.Error(), nil)
	}
	tech, err := s.remote.CreateTechnician(ctx, emailAddr, name, hash)
	if err != nil {
		return Session{}, asDomainError(err)
	}
	return s.issueSession(tech)
}

// Login authenticates a technician by email and passcode.
func (s *Service) Login(ctx context.Context, emailAddr, passcode string) (Session, error) {
	if s.remote == nil {
		return Session{}, domainError(http.StatusServiceUnavailable, CodeSyncUnavailable, "Remote sync is not configured", nil)
	}
	tech, err := s.remote.TechnicianByEmail(ctx, emailAddr)
	if err != nil || !auth.CheckPasscode(tech.PasscodeHash, passcode) {
		return Session{}, domainError(http.StatusUnauthorized, CodeAuthFailed, "Invalid email or passcode", nil)
	}
	return s.issueSession(tech)
}

func (s *Service) issueSession(tech store.Technician) (Session, error) {
	token, err := auth.IssueToken(s.tokenSecret, auth.Claims{
		Sub:   tech.ID,
		Email: tech.Email,
		Name:  tech.Name,
		Exp:   time.Now().Add(s.tokenTTL).Unix(),
	})
	if err != nil {
		return Session{}, asDomainError(err)
	}
	return Session{TechnicianID: tech.ID, Email: tech.Email, Name: tech.Name, Token: token}, nil
}

// SessionFromToken verifies a bearer token.
func (s *Service) SessionFromToken(token string) (Session, error) {
	claims, err := auth.ParseToken(s.tokenSecret, token)
	if err != nil {
		return Session{}, domainError(http.StatusUnauthorized, CodeAuthFailed, "Invalid or expired token", nil)
	}
	return Session{TechnicianID: claims.Sub, Email: claims.Email, Name: claims.Name}, nil
}

// Ping checks backing-store connectivity for readiness probes.
func (s *Service) Ping(ctx context.Context) error {
	if s.remote == nil {
		return nil
	}
	return s.remote.DB().PingContext(ctx)
}
