package export

import (
	"context"
	"encoding/base64"
	"html/template"
	"strings"

	"hoodreport/api/internal/media"
	"hoodreport/api/internal/report"
)

// Company header constants printed at the top of every report.
const (
	CompanyName = "ALBERTA HOOD CLEANING"
	ReportType  = "Kitchen Exhaust System Cleaning Report"
)

// Disclaimer is the fixed legal paragraph printed on every report.
const Disclaimer = "This report reflects the condition of the kitchen exhaust system only at the " +
	"locations inspected on the service date shown and is provided for the client's information. " +
	"Cleaning was performed to the extent that access, time, and site conditions allowed; areas " +
	"noted as not cleaned remain the responsibility of the building owner or operator. " +
	"ALBERTA HOOD CLEANING accepts no liability for fire, damage, or loss arising from conditions " +
	"in areas that were inaccessible or outside the scope of this service."

// Media holds the normalized images for one report, keyed the way the
// assembler consumes them: inline data URIs ready for <img src>.
type Media struct {
	Photos    map[report.Category][]template.URL
	Signature template.URL
	Logo      template.URL
}

// CollectMedia normalizes every photo collection for inline embedding. The
// legacy single before/after references join their category's grid. Failed
// items are dropped inside the normalizer; collection never fails.
func CollectMedia(ctx context.Context, rec report.Record, n *media.Normalizer, logoURL string) Media {
	m := Media{Photos: make(map[report.Category][]template.URL, len(report.Categories))}

	for _, cat := range report.Categories {
		uris := append([]string(nil), rec.Photos.Get(cat)...)
		if cat == report.CategoryBefore && rec.Photos.LegacyBefore != "" {
			uris = append(uris, rec.Photos.LegacyBefore)
		}
		if cat == report.CategoryAfter && rec.Photos.LegacyAfter != "" {
			uris = append(uris, rec.Photos.LegacyAfter)
		}
		for _, norm := range n.NormalizeAll(ctx, uris, media.SinkEmbed) {
			m.Photos[cat] = append(m.Photos[cat], dataURI(norm))
		}
	}

	if sig := rec.Photos.Signature; isImageRef(sig) {
		if norm, err := n.Normalize(ctx, sig, media.SinkEmbed); err == nil {
			m.Signature = dataURI(norm)
		}
	}
	if logoURL != "" {
		if norm, err := n.Normalize(ctx, logoURL, media.SinkEmbed); err == nil {
			m.Logo = dataURI(norm)
		}
	}
	return m
}

func dataURI(n media.Normalized) template.URL {
	return template.URL("data:" + n.MIME + ";base64," + base64.StdEncoding.EncodeToString(n.Data))
}

// isImageRef distinguishes a scrawled-signature image reference from free
// signature text.
func isImageRef(s string) bool {
	for _, prefix := range []string{"data:", "http://", "https://", "file://", "content://"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

type kvRow struct {
	Label string
	Value string
}

type subGroup struct {
	Title string
	Rows  []report.Item
}

type checkTable struct {
	Title   string
	Rows    []report.Item
	Groups  []subGroup
	Comment string
}

type photoGrid struct {
	Title  string
	Images []template.URL
}

type reportView struct {
	Title      string
	Company    string
	ReportType string
	Logo       template.URL

	Client   report.ClientInfo
	InfoRows []kvRow
	TimeRows []kvRow
	Tables   []checkTable

	BeforeGrids []photoGrid
	AfterGrids  []photoGrid

	SignatureImage template.URL
	SignatureText  string
	Representative string
	ReportDate     string

	Disclaimer string
}

// Assemble renders the record into the printable HTML document. It is pure
// given collected media and never fails for missing optional fields; the only
// error is a record with no client identity at all.
func Assemble(rec report.Record, m Media) (string, error) {
	if rec.Client == (report.ClientInfo{}) {
		return "", report.ErrNoClient
	}
	return renderReportHTML(buildView(rec, m))
}

func buildView(rec report.Record, m Media) reportView {
	view := reportView{
		Title:      "Service Report - " + rec.Client.Name,
		Company:    CompanyName,
		ReportType: ReportType,
		Logo:       m.Logo,
		Client:     rec.Client,
		Disclaimer: Disclaimer,
	}

	view.InfoRows = []kvRow{
		{"Client Name", rec.Client.Name},
		{"Address", rec.Client.Address},
		{"City", rec.Client.City},
		{"State", rec.Client.State},
		{"Zip Code", rec.Client.Zip},
		{"Email Address", rec.Client.Email},
		{"Phone Number", rec.Client.Phone},
		{"Technician Name", rec.Technician.Name},
		{"Certification Number", rec.Technician.Certification},
		{"Service Date", formatDate(rec.Technician.ServiceDate)},
		{"Next Service Date", formatDate(rec.Technician.NextService)},
	}
	view.TimeRows = []kvRow{
		{"Time Jobs Scheduled", formatTime(rec.Technician.ScheduledTime)},
		{"Arrival Time", formatTime(rec.Technician.ArrivalTime)},
		{"Departure Time", formatTime(rec.Technician.DepartureTime)},
	}

	c := rec.Checklist
	view.Tables = []checkTable{
		{Title: "Hood Type", Rows: c.Hood.Items(c.DamperOperates, c.FilterConfirming), Comment: rec.Comments.HoodType},
		{Title: "Fan Type", Rows: c.Fan.Items(), Comment: rec.Comments.FanType},
		{Title: "Pre-Cleaning Check", Rows: c.Pre.Items(), Comment: rec.Comments.PreCleaning},
		{Title: "Service Performed", Rows: c.Service.Items(), Comment: rec.Comments.ServicePerformed},
		{Title: "Areas Not Cleaned", Rows: c.NotCleaned.Items()},
		{
			Title: "Areas Not Cleaned - Reasons",
			Groups: []subGroup{
				{Title: "Duct", Rows: c.DuctReasons.Items()},
				{Title: "Fan", Rows: c.FanReasons.Items()},
				{Title: "Other", Rows: c.OtherReasons.Items()},
			},
			Comment: rec.Comments.AreasNotCleaned,
		},
		{Title: "Post Cleaning Check", Rows: c.Post.Items(), Comment: rec.Comments.PostCleaning},
	}

	// Before grids print ahead of the checklist; everything else goes after
	// the forced page break. Service categories only appear when that service
	// was selected, regardless of photos present.
	if imgs := m.Photos[report.CategoryBefore]; len(imgs) > 0 {
		view.BeforeGrids = append(view.BeforeGrids, photoGrid{Title: "Before Photos", Images: imgs})
	}
	if imgs := m.Photos[report.CategoryAfter]; len(imgs) > 0 {
		view.AfterGrids = append(view.AfterGrids, photoGrid{Title: "After Photos", Images: imgs})
	}
	afterCats := []struct {
		cat   report.Category
		title string
	}{
		{report.CategoryExhaustFan, "Exhaust Fan Photos"},
		{report.CategoryDuctFan, "Duct Fan Photos"},
		{report.CategoryCanopy, "Canopy Photos"},
	}
	for _, ac := range afterCats {
		imgs := m.Photos[ac.cat]
		if len(imgs) == 0 || !rec.Services.Has(report.ServiceFor(ac.cat)) {
			continue
		}
		view.AfterGrids = append(view.AfterGrids, photoGrid{Title: ac.title, Images: imgs})
	}

	if m.Signature != "" {
		view.SignatureImage = m.Signature
	} else if !isImageRef(rec.Photos.Signature) {
		view.SignatureText = rec.Photos.Signature
	}
	view.Representative = rec.Technician.Representative
	reportDate := rec.Technician.ReportDate
	if reportDate == "" {
		reportDate = rec.Technician.ServiceDate
	}
	view.ReportDate = formatDate(reportDate)

	return view
}
