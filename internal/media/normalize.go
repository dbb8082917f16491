// Package media converts heterogeneous photo references (local paths, content
// URIs, remote URLs, inline data URIs) into a canonical encoded form ready
// for embedding in a document or uploading to object storage.
package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Kind classifies a photo reference by its URI shape.
type Kind int

const (
	KindLocalFile Kind = iota
	KindContentURI
	KindRemoteURL
	KindDataURI
)

// KindOf sniffs the reference form. Anything that is not a data URI, remote
// URL, or content URI is treated as a local file path.
func KindOf(uri string) Kind {
	switch {
	case strings.HasPrefix(uri, "data:"):
		return KindDataURI
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return KindRemoteURL
	case strings.HasPrefix(uri, "content://"):
		return KindContentURI
	default:
		return KindLocalFile
	}
}

// Sink says what the normalized bytes are for. The upload sink accepts remote
// URLs as-is; the embed sink needs local bytes for every reference because
// the document format embeds images inline.
type Sink int

const (
	SinkEmbed Sink = iota
	SinkUpload
)

// Normalized is the canonical result: either encoded bytes plus MIME type, or
// a remote URL passed through unchanged (upload sink only).
type Normalized struct {
	Data      []byte
	MIME      string
	RemoteURL string
}

// ErrUnreadable wraps any per-item read/decode failure.
var ErrUnreadable = errors.New("media reference unreadable")

// Normalizer converts photo references. Local and content reads go through
// ReadFile so callers can substitute a resolver; remote reads use HTTP.
type Normalizer struct {
	MaxWidth int
	Quality  int
	HTTP     *http.Client
	ReadFile func(string) ([]byte, error)

	log *zap.SugaredLogger
}

// New returns a normalizer with the configured bounds. A zero maxWidth or
// quality falls back to sensible print defaults.
func New(maxWidth, quality int, log *zap.SugaredLogger) *Normalizer {
	if maxWidth <= 0 {
		maxWidth = 1280
	}
	if quality <= 0 {
		quality = 80
	}
	return &Normalizer{
		MaxWidth: maxWidth,
		Quality:  quality,
		HTTP:     &http.Client{Timeout: 30 * time.Second},
		ReadFile: os.ReadFile,
		log:      log,
	}
}

// Normalize converts one reference for the given sink.
func (n *Normalizer) Normalize(ctx context.Context, uri string, sink Sink) (Normalized, error) {
	switch KindOf(uri) {
	case KindDataURI:
		data, mime, err := decodeDataURI(uri)
		if err != nil {
			return Normalized{}, err
		}
		return Normalized{Data: data, MIME: mime}, nil

	case KindRemoteURL:
		if sink == SinkUpload {
			// Already online; the store accepts the reference directly.
			return Normalized{RemoteURL: uri, MIME: MIMEForExt(uri)}, nil
		}
		raw, err := n.download(ctx, uri)
		if err != nil {
			return Normalized{}, err
		}
		return n.recode(raw)

	default: // local file or content URI
		raw, err := n.ReadFile(localPath(uri))
		if err != nil {
			return Normalized{}, fmt.Errorf("%w: %s: %v", ErrUnreadable, uri, err)
		}
		return n.recode(raw)
	}
}

// NormalizeAll converts a batch strictly sequentially, preserving input
// order. A reference that cannot be read or decoded is dropped with a
// warning; the batch itself never fails.
func (n *Normalizer) NormalizeAll(ctx context.Context, uris []string, sink Sink) []Normalized {
	out := make([]Normalized, 0, len(uris))
	for _, uri := range uris {
		norm, err := n.Normalize(ctx, uri, sink)
		if err != nil {
			if n.log != nil {
				n.log.Warnw("dropping unreadable photo", "uri", uri, "error", err)
			}
			continue
		}
		out = append(out, norm)
	}
	return out
}

// recode bounds a local/downloaded image: decode, downsize to MaxWidth, and
// re-encode as JPEG at the fixed quality.
func (n *Normalizer) recode(raw []byte) (Normalized, error) {
	data, err := recodeJPEG(raw, n.MaxWidth, n.Quality)
	if err != nil {
		return Normalized{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return Normalized{Data: data, MIME: "image/jpeg"}, nil
}

func (n *Normalizer) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, url, err)
	}
	resp, err := n.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: status %d", ErrUnreadable, url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, url, err)
	}
	return data, nil
}

// decodeDataURI strips the scheme prefix and base64-decodes the payload
// directly, with no re-encoding.
func decodeDataURI(uri string) ([]byte, string, error) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok {
		return nil, "", fmt.Errorf("%w: malformed data uri", ErrUnreadable)
	}
	mime := "image/jpeg"
	if meta := strings.TrimPrefix(header, "data:"); meta != "" {
		if m, _, found := strings.Cut(meta, ";"); found && m != "" {
			mime = m
		} else if !found && meta != "" {
			mime = meta
		}
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: data uri payload: %v", ErrUnreadable, err)
	}
	return data, mime, nil
}

func localPath(uri string) string {
	uri = strings.TrimPrefix(uri, "file://")
	uri = strings.TrimPrefix(uri, "content://")
	return uri
}

// MIMEForExt infers a content type from a reference's extension; used when a
// reference is kept as-is rather than re-encoded.
func MIMEForExt(uri string) string {
	switch strings.ToLower(path.Ext(uri)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
