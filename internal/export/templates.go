package export

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var reportTemplate *template.Template

func init() {
	funcMap := template.FuncMap{
		"lower":      strings.ToLower,
		"formatDate": formatDate,
		"formatTime": formatTime,
		"glyph":      glyph,
		"yesNo":      yesNo,
	}

	content, err := templateFS.ReadFile("templates/report.html")
	if err != nil {
		// Fallback keeps export alive if the embedded file is missing.
		reportTemplate = template.Must(template.New("report").Funcs(funcMap).Parse(fallbackTemplate))
		return
	}
	reportTemplate = template.Must(template.New("report").Funcs(funcMap).Parse(string(content)))
}

// formatDate renders a stored ISO date as DD/MM/YYYY. Anything that does not
// parse is printed as-is; blank stays blank.
func formatDate(iso string) string {
	iso = strings.TrimSpace(iso)
	if iso == "" {
		return ""
	}
	if t, err := time.Parse("2006-01-02", iso); err == nil {
		return t.Format("02/01/2006")
	}
	return iso
}

// formatTime renders a stored time as 24-hour HH:MM.
func formatTime(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	for _, layout := range []string{"15:04", "15:04:05", "3:04 PM", "3:04PM"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("15:04")
		}
	}
	return value
}

// glyph renders the checkbox pair: checked box when the answer matches the
// column, empty box otherwise.
func glyph(checked bool) string {
	if checked {
		return "☒"
	}
	return "☐"
}

func yesNo(checked bool) string {
	if checked {
		return "Yes"
	}
	return "No"
}

func renderReportHTML(view reportView) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// fallbackTemplate is a bare rendition used only if the embedded template
// cannot be read.
const fallbackTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Company}}</h1>
<h2>{{.ReportType}}</h2>
<p>{{.Client.Name}} — {{.Client.Email}}</p>
{{range .Tables}}<h3>{{.Title}}</h3>
<table>{{range .Rows}}<tr><td>{{.Label}}</td><td>{{yesNo .Checked}}</td></tr>{{end}}</table>
{{end}}
<p>{{.Disclaimer}}</p>
</body>
</html>`
