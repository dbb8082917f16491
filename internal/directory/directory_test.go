package directory

import (
	"testing"

	"go.uber.org/zap"

	"hoodreport/api/internal/report"
)

func rec(name, email, city string) report.Record {
	return report.Record{Client: report.ClientInfo{Name: name, Email: email, City: city}}
}

func TestRebuildDedupsByNameLastWins(t *testing.T) {
	s := NewService(nil, zap.NewNop().Sugar())
	s.Rebuild([]report.Record{
		rec("Acme Diner", "old@acme.com", "Springfield"),
		rec("Beta Grill", "b@beta.com", "Shelbyville"),
		rec("acme diner", "new@acme.com", "Springfield"),
	})

	got := s.Suggest("")
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	// First-seen position, latest details.
	if got[0].Email != "new@acme.com" {
		t.Errorf("entry 0 = %+v, want the later acme details", got[0])
	}
	if got[1].Name != "Beta Grill" {
		t.Errorf("entry 1 = %+v", got[1])
	}
}

func TestSuggestSubstringCaseInsensitive(t *testing.T) {
	s := NewService(nil, zap.NewNop().Sugar())
	s.Rebuild([]report.Record{
		rec("Acme Diner", "a@acme.com", ""),
		rec("Beta Grill", "b@beta.com", ""),
		rec("Gamma Cafe", "g@gamma.com", ""),
	})

	got := s.Suggest("GRI")
	if len(got) != 1 || got[0].Name != "Beta Grill" {
		t.Errorf("Suggest(GRI) = %+v", got)
	}

	if got := s.Suggest("zzz"); len(got) != 0 {
		t.Errorf("no-match query returned %+v", got)
	}
}

func TestMatchByNameIgnoresOtherFields(t *testing.T) {
	entries := []report.ClientInfo{
		{Name: "Acme Diner", Email: "grill@acme.com", City: "Grimsby"},
		{Name: "Beta Grill", Email: "b@beta.com"},
	}

	// "grill" appears in the first entry's email and city; only the name
	// match may come back.
	got := matchByName(entries, "grill")
	if len(got) != 1 || got[0].Name != "Beta Grill" {
		t.Errorf("matchByName(grill) = %+v, want only Beta Grill", got)
	}

	if got := matchByName(entries, "ACME"); len(got) != 1 || got[0].Name != "Acme Diner" {
		t.Errorf("matchByName(ACME) = %+v", got)
	}
}

func TestRebuildSkipsNamelessRecords(t *testing.T) {
	s := NewService(nil, zap.NewNop().Sugar())
	s.Rebuild([]report.Record{
		rec("  ", "anon@x.com", ""),
		rec("Acme Diner", "a@acme.com", ""),
	})
	if got := s.Suggest(""); len(got) != 1 {
		t.Errorf("got %d entries, want 1", len(got))
	}
}

func TestApplyOverwritesClientBlock(t *testing.T) {
	base := report.New()
	base.Client = report.ClientInfo{Name: "Old", Email: "old@x.com", Address: "1 Main St"}
	base.Comments.HoodType = "keep me"

	suggestion := report.ClientInfo{Name: "Acme Diner", Email: "a@acme.com"}
	next := Apply(base, suggestion)

	if next.Client != suggestion {
		t.Errorf("client = %+v, want %+v", next.Client, suggestion)
	}
	if next.Comments.HoodType != "keep me" {
		t.Error("non-client fields must survive")
	}
	if base.Client.Name != "Old" {
		t.Error("input record mutated")
	}
}

func TestDocIDStableAndNormalized(t *testing.T) {
	if docID(" Acme Diner ") != docID("acme diner") {
		t.Error("doc id should normalize case and whitespace")
	}
	if docID("Acme Diner") == docID("Beta Grill") {
		t.Error("distinct names collided")
	}
}
