package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"hoodreport/api/internal/directory"
	"hoodreport/api/internal/email"
	"hoodreport/api/internal/export"
	"hoodreport/api/internal/media"
	"hoodreport/api/internal/report"
	"hoodreport/api/internal/store"
)

func testService(t *testing.T) *Service {
	t.Helper()
	log := zap.NewNop().Sugar()
	kv, err := store.NewFileKV(t.TempDir())
	if err != nil {
		t.Fatalf("file kv: %v", err)
	}
	return NewService(Options{
		Log:         log,
		Local:       store.NewLocalStore(kv),
		Directory:   directory.NewService(nil, log),
		Normalizer:  media.New(1280, 80, log),
		Mail:        email.NewService(email.Config{}),
		TokenSecret: "test-secret",
		TokenTTL:    time.Hour,
	})
}

func validRecord(name, emailAddr string) report.Record {
	rec := report.New()
	rec.Client = report.ClientInfo{Name: name, Email: emailAddr, Phone: "555-0100"}
	return rec
}

func TestSaveLocalValidates(t *testing.T) {
	s := testService(t)
	err := s.SaveLocal(context.Background(), report.Record{})
	derr, ok := err.(*DomainError)
	if !ok {
		t.Fatalf("err = %v, want DomainError", err)
	}
	if derr.Code != CodeValidationFailed {
		t.Errorf("code = %s, want %s", derr.Code, CodeValidationFailed)
	}
}

func TestSaveLocalRefreshesSuggestions(t *testing.T) {
	s := testService(t)
	ctx := context.Background()

	if err := s.SaveLocal(ctx, validRecord("Acme Diner", "a@acme.com")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.SaveLocal(ctx, validRecord("Beta Grill", "b@beta.com")); err != nil {
		t.Fatalf("save: %v", err)
	}

	matches := s.Suggest("acme")
	if len(matches) != 1 || matches[0].Name != "Acme Diner" {
		t.Errorf("Suggest(acme) = %+v", matches)
	}
	if all := s.Suggest(""); len(all) != 2 {
		t.Errorf("Suggest(\"\") = %d entries, want 2", len(all))
	}
}

func TestDeleteLocalIdempotentThroughFacade(t *testing.T) {
	s := testService(t)
	ctx := context.Background()

	rec := validRecord("Acme Diner", "a@acme.com")
	if err := s.SaveLocal(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := s.DeleteLocal(ctx, rec.Identity()); err != nil {
			t.Fatalf("delete #%d: %v", i+1, err)
		}
	}
	records, err := s.ListLocal(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records after delete", len(records))
	}
}

func TestRemoteOpsUnavailableWithoutDatabase(t *testing.T) {
	s := testService(t)
	ctx := context.Background()

	if _, err := s.SaveRemote(ctx, "tech-1", validRecord("Acme", "a@acme.com")); err == nil {
		t.Error("SaveRemote should fail without a remote store")
	}
	if _, err := s.ListRemote(ctx, "tech-1"); err == nil {
		t.Error("ListRemote should fail without a remote store")
	}
	derr := asDomainError(s.DeleteRemote(ctx, "tech-1", "id"))
	if derr.Code != CodeSyncUnavailable {
		t.Errorf("code = %s, want %s", derr.Code, CodeSyncUnavailable)
	}
}

func TestEmailReportUnconfigured(t *testing.T) {
	s := testService(t)
	err := s.EmailReport(context.Background(), validRecord("Acme", "a@acme.com"))
	if err == nil {
		t.Fatal("expected error for unconfigured mailer")
	}
}

type stubExporter struct{}

func (stubExporter) Export(context.Context, report.Record) (*export.Result, error) {
	return &export.Result{Data: []byte("%PDF"), Filename: "report.pdf", MimeType: "application/pdf"}, nil
}

type failingMailer struct{}

func (failingMailer) IsConfigured() bool { return true }
func (failingMailer) SendReport(string, string, []byte, string) error {
	return errors.New("smtp: connection refused")
}

func TestEmailReportSendFailureIsDeliveryError(t *testing.T) {
	s := testService(t)
	s.exporter = stubExporter{}
	s.mail = failingMailer{}

	err := s.EmailReport(context.Background(), validRecord("Acme Diner", "a@acme.com"))
	derr := asDomainError(err)
	if derr.Code != CodeDeliveryFailed {
		t.Errorf("code = %s, want %s", derr.Code, CodeDeliveryFailed)
	}
	if derr.Code == CodePersistenceFailed {
		t.Error("mail failure must not be reported as a store failure")
	}
}

func TestObjectPathsPreferRecordedPaths(t *testing.T) {
	var photos report.PhotoSet
	photos.Append(report.CategoryBefore, "https://api.example.test/storage/v1/object/public/reports/Acme/before/1.jpg")
	photos.Append(report.CategoryAfter, "https://api.example.test/storage/v1/object/public/reports/Acme/after/2.jpg")
	photos.RecordPath("https://api.example.test/storage/v1/object/public/reports/Acme/before/1.jpg", "Acme/before/1.jpg")

	paths := objectPaths(photos)
	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(paths))
	}
	if paths[0] != "Acme/before/1.jpg" {
		t.Errorf("recorded path not used: %v", paths)
	}
	if paths[1] != "Acme/after/2.jpg" {
		t.Errorf("url fallback not parsed: %v", paths)
	}
}

func TestHTTPSaveListAndSuggest(t *testing.T) {
	s := testService(t)
	handler := NewHTTPServer(s, "*", zap.NewNop().Sugar()).Handler()

	body, _ := json.Marshal(validRecord("Acme Diner", "a@acme.com"))
	req := httptest.NewRequest(http.MethodPost, "/api/reports/", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("save status = %d: %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/reports/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	var listResp struct {
		Reports []report.Record `json:"reports"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listResp.Reports) != 1 || listResp.Reports[0].Client.Name != "Acme Diner" {
		t.Errorf("list = %+v", listResp.Reports)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/clients/suggest?q=acme", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("suggest status = %d", rr.Code)
	}
	var suggestResp struct {
		Clients []report.ClientInfo `json:"clients"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &suggestResp); err != nil {
		t.Fatalf("decode suggest: %v", err)
	}
	if len(suggestResp.Clients) != 1 {
		t.Errorf("suggest = %+v", suggestResp.Clients)
	}
}

func TestHTTPSaveRejectsInvalidRecord(t *testing.T) {
	s := testService(t)
	handler := NewHTTPServer(s, "*", zap.NewNop().Sugar()).Handler()

	body, _ := json.Marshal(report.Record{Client: report.ClientInfo{Name: "Acme"}})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/reports/", bytes.NewReader(body)))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rr.Code)
	}
	var resp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != CodeValidationFailed {
		t.Errorf("code = %s", resp.Code)
	}
}

func TestHTTPSaveAcceptsLegacyShape(t *testing.T) {
	s := testService(t)
	handler := NewHTTPServer(s, "*", zap.NewNop().Sugar()).Handler()

	legacy := `{"clientData": {"name": "Beta Grill", "email": "b@beta.com", "phone": "555-0200"}}`
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/reports/", bytes.NewReader([]byte(legacy))))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHTTPSyncRequiresToken(t *testing.T) {
	s := testService(t)
	handler := NewHTTPServer(s, "*", zap.NewNop().Sugar()).Handler()

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/sync/reports/", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

func TestHTTPHealth(t *testing.T) {
	s := testService(t)
	handler := NewHTTPServer(s, "*", zap.NewNop().Sugar()).Handler()

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("health status = %d", rr.Code)
	}
}
