package export

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"go.uber.org/zap"

	"hoodreport/api/internal/media"
	"hoodreport/api/internal/report"
)

func minimalRecord() report.Record {
	rec := report.New()
	rec.Client = report.ClientInfo{Name: "Acme Diner", Email: "a@acme.com", Phone: "555-0100"}
	return rec
}

func normalizer() *media.Normalizer {
	return media.New(1280, 80, zap.NewNop().Sugar())
}

func TestAssembleMinimalRecord(t *testing.T) {
	rec := minimalRecord()
	html, err := Assemble(rec, CollectMedia(context.Background(), rec, normalizer(), ""))
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if got := strings.Count(html, `class="check-table"`); got != 7 {
		t.Errorf("checklist tables = %d, want 7", got)
	}
	if strings.Contains(html, "photo-grid") {
		t.Error("empty record rendered a photo grid")
	}
	if !strings.Contains(html, Disclaimer) {
		t.Error("disclaimer text missing or altered")
	}
	for _, caption := range []string{"Signature Client", "Owner Representative", "Report Date"} {
		if !strings.Contains(html, caption) {
			t.Errorf("signature caption %q missing", caption)
		}
	}
	if !strings.Contains(html, CompanyName) {
		t.Error("company header missing")
	}
	// Missing logo substitutes a placeholder, never fails.
	if !strings.Contains(html, "[company logo]") {
		t.Error("logo placeholder missing")
	}
}

func TestAssembleNoClientIdentity(t *testing.T) {
	_, err := Assemble(report.Record{}, Media{})
	if err != report.ErrNoClient {
		t.Errorf("err = %v, want ErrNoClient", err)
	}
}

func TestAssembleNeverRendersNullLiterals(t *testing.T) {
	rec := minimalRecord()
	html, err := Assemble(rec, CollectMedia(context.Background(), rec, normalizer(), ""))
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	for _, literal := range []string{"undefined", "null", "&lt;no value&gt;", "<no value>"} {
		if strings.Contains(html, literal) {
			t.Errorf("rendered literal %q", literal)
		}
	}
}

func TestServiceGatingBeatsPhotosPresent(t *testing.T) {
	rec := minimalRecord()
	rec.Services = report.ServiceSet{report.ServiceDuct}
	rec.Photos.Append(report.CategoryExhaustFan, "data:image/png;base64,AAAA")
	rec.Photos.Append(report.CategoryDuctFan, "data:image/png;base64,AAAA")

	html, err := Assemble(rec, CollectMedia(context.Background(), rec, normalizer(), ""))
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if strings.Contains(html, "Exhaust Fan Photos") {
		t.Error("exhaust grid rendered without the exhaust service selected")
	}
	if !strings.Contains(html, "Duct Fan Photos") {
		t.Error("duct grid missing despite selected service and photos")
	}
}

func TestBeforeAfterPageSplit(t *testing.T) {
	rec := minimalRecord()
	rec.Photos.Append(report.CategoryBefore, "data:image/png;base64,AAAA")
	rec.Photos.Append(report.CategoryAfter, "data:image/png;base64,BBBB")

	html, err := Assemble(rec, CollectMedia(context.Background(), rec, normalizer(), ""))
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	before := strings.Index(html, "Before Photos")
	firstTable := strings.Index(html, `class="check-table"`)
	pageBreak := strings.Index(html, `class="page-break"`)
	after := strings.Index(html, "After Photos")
	if before < 0 || firstTable < 0 || pageBreak < 0 || after < 0 {
		t.Fatalf("sections missing: before=%d table=%d break=%d after=%d", before, firstTable, pageBreak, after)
	}
	if before > firstTable {
		t.Error("before grid must precede the checklist tables")
	}
	if after < pageBreak {
		t.Error("after grid must follow the forced page break")
	}
}

func TestDataURIEmbeddedVerbatim(t *testing.T) {
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	encoded := base64.StdEncoding.EncodeToString(payload)
	rec := minimalRecord()
	rec.Photos.Append(report.CategoryBefore, "data:image/png;base64,"+encoded)

	m := CollectMedia(context.Background(), rec, normalizer(), "")
	imgs := m.Photos[report.CategoryBefore]
	if len(imgs) != 1 {
		t.Fatalf("got %d images, want 1", len(imgs))
	}
	want := "data:image/png;base64," + encoded
	if string(imgs[0]) != want {
		t.Errorf("data uri re-encoded: got %q, want %q", imgs[0], want)
	}
}

func TestCollectMediaFoldsLegacySingles(t *testing.T) {
	rec := minimalRecord()
	rec.Photos.Append(report.CategoryBefore, "data:image/png;base64,AAAA")
	rec.Photos.LegacyBefore = "data:image/png;base64,BBBB"

	m := CollectMedia(context.Background(), rec, normalizer(), "")
	if got := len(m.Photos[report.CategoryBefore]); got != 2 {
		t.Errorf("before images = %d, want 2 (legacy single folded in)", got)
	}
}

func TestSignatureTextVsImage(t *testing.T) {
	rec := minimalRecord()
	rec.Photos.Signature = "J. Smith"
	html, err := Assemble(rec, CollectMedia(context.Background(), rec, normalizer(), ""))
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !strings.Contains(html, "J. Smith") {
		t.Error("free-text signature not rendered")
	}

	rec.Photos.Signature = "data:image/png;base64,AAAA"
	m := CollectMedia(context.Background(), rec, normalizer(), "")
	if m.Signature == "" {
		t.Error("image signature not collected")
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct{ in, want string }{
		{"2025-08-22", "22/08/2025"},
		{"", ""},
		{"not-a-date", "not-a-date"},
	}
	for _, tt := range tests {
		if got := formatDate(tt.in); got != tt.want {
			t.Errorf("formatDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct{ in, want string }{
		{"09:30", "09:30"},
		{"3:04 PM", "15:04"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := formatTime(tt.in); got != tt.want {
			t.Errorf("formatTime(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPercentEncodeForDataURL(t *testing.T) {
	got := percentEncodeForDataURL("a b+c")
	if strings.Contains(got, "+") && !strings.Contains(got, "%2B") {
		t.Errorf("plus not encoded: %q", got)
	}
	if !strings.Contains(got, "%20") {
		t.Errorf("space not encoded as %%20: %q", got)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Service Report Acme Diner", "Service-Report-Acme-Diner"},
		{"a/b:c", "abc"},
		{"", "report"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
