package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"hoodreport/api/internal/media"
	"hoodreport/api/internal/report"
)

// Pipeline runs the full export: validate, normalize media, assemble HTML,
// rasterize, write the artifact. Steps are not retried internally; a caller
// can rerun the whole export safely.
type Pipeline struct {
	normalizer *media.Normalizer
	outputDir  string
	logoURL    string
	log        *zap.SugaredLogger
}

func NewPipeline(n *media.Normalizer, outputDir, logoURL string, log *zap.SugaredLogger) *Pipeline {
	return &Pipeline{normalizer: n, outputDir: outputDir, logoURL: logoURL, log: log}
}

// Export produces the PDF artifact for a record. Validation failures happen
// before any work; rasterization failures leave no partial file behind.
func (p *Pipeline) Export(ctx context.Context, rec report.Record) (*Result, error) {
	if err := rec.ValidateForExport(); err != nil {
		return nil, err
	}

	m := CollectMedia(ctx, rec, p.normalizer, p.logoURL)
	html, err := Assemble(rec, m)
	if err != nil {
		return nil, err
	}

	pdf, err := rasterize(ctx, html)
	if err != nil {
		return nil, err
	}

	filename := sanitizeFilename("Service Report "+rec.Client.Name) + ".pdf"
	path := filepath.Join(p.outputDir, filename)
	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}

	p.log.Infow("report exported", "client", rec.Client.Name, "path", path, "bytes", len(pdf))
	return &Result{
		Data:     pdf,
		Filename: filename,
		MimeType: "application/pdf",
		Path:     path,
	}, nil
}
