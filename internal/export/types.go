// Package export turns a report record into the printable service report:
// HTML assembly, headless-Chrome rasterization, and file output.
package export

import "errors"

// Result is the produced artifact.
type Result struct {
	Data     []byte
	Filename string
	MimeType string
	Path     string
}

var (
	// ErrRasterizerMissing indicates no Chromium binary is installed.
	ErrRasterizerMissing = errors.New("export pdf dependency missing")
	// ErrRasterization indicates Chromium failed to produce the PDF.
	ErrRasterization = errors.New("pdf rasterization failed")
)
