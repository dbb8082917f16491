package report

import "testing"

func TestReduceIsPure(t *testing.T) {
	orig := New()
	orig.Photos.Append(CategoryBefore, "one.jpg")

	next := Reduce(orig, AppendPhoto(CategoryBefore, "two.jpg"))

	if got := len(orig.Photos.Before); got != 1 {
		t.Errorf("input record mutated: %d before photos, want 1", got)
	}
	if got := len(next.Photos.Before); got != 2 {
		t.Errorf("result has %d before photos, want 2", got)
	}
}

func TestReduceAppliesInOrder(t *testing.T) {
	rec := Reduce(New(),
		AppendPhoto(CategoryAfter, "a.jpg"),
		AppendPhoto(CategoryAfter, "b.jpg"),
		RemovePhoto(CategoryAfter, 0),
	)
	after := rec.Photos.Get(CategoryAfter)
	if len(after) != 1 || after[0] != "b.jpg" {
		t.Errorf("after photos = %v, want [b.jpg]", after)
	}
}

func TestApplyClientOverwritesEveryField(t *testing.T) {
	rec := Reduce(New(), SetClient(ClientInfo{
		Name:    "Acme Diner",
		Email:   "a@acme.com",
		Phone:   "555-0100",
		Address: "1 Main St",
		City:    "Springfield",
	}))

	// The suggestion carries fewer fields; applying it must still replace
	// everything, blanking what the suggestion lacks.
	suggestion := ClientInfo{Name: "Beta Grill", Email: "b@beta.com", Phone: "555-0200"}
	rec = Reduce(rec, ApplyClient(suggestion))

	if rec.Client != suggestion {
		t.Errorf("client = %+v, want full overwrite %+v", rec.Client, suggestion)
	}
}

func TestSetHoodCarriesFlags(t *testing.T) {
	rec := Reduce(New(), SetHood(HoodType{Filter: true}, true, false))
	if !rec.Checklist.Hood.Filter {
		t.Error("hood filter not set")
	}
	if !rec.Checklist.DamperOperates {
		t.Error("damper flag not set")
	}
}

func TestReplaceSwapsWholeRecord(t *testing.T) {
	loaded := New()
	loaded.Client = ClientInfo{Name: "Acme", Email: "a@acme.com", Phone: "1"}
	loaded.RemoteID = "row-42"

	rec := Reduce(New(), Replace(loaded))
	if rec.Client.Name != "Acme" || rec.RemoteID != "row-42" {
		t.Errorf("replace lost data: %+v", rec)
	}
}

func TestSetServices(t *testing.T) {
	rec := Reduce(New(), SetServices(ServiceDuct, ServiceCanopy))
	if !rec.Services.Has(ServiceDuct) || !rec.Services.Has(ServiceCanopy) {
		t.Errorf("services = %v", rec.Services)
	}
	if rec.Services.Has(ServiceExhaust) {
		t.Error("exhaust should not be selected")
	}
}
