package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"go.uber.org/zap"
)

func testImagePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		uri  string
		want Kind
	}{
		{"data:image/png;base64,AAAA", KindDataURI},
		{"https://cdn.example.test/a.jpg", KindRemoteURL},
		{"http://cdn.example.test/a.jpg", KindRemoteURL},
		{"content://media/external/images/1", KindContentURI},
		{"file:///tmp/a.jpg", KindLocalFile},
		{"/tmp/a.jpg", KindLocalFile},
	}
	for _, tt := range tests {
		if got := KindOf(tt.uri); got != tt.want {
			t.Errorf("KindOf(%q) = %v, want %v", tt.uri, got, tt.want)
		}
	}
}

func TestNormalizeDataURIKeepsPayloadVerbatim(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47, 0x01, 0x02}
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	n := New(1280, 80, zap.NewNop().Sugar())
	got, err := n.Normalize(context.Background(), uri, SinkEmbed)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !bytes.Equal(got.Data, payload) {
		t.Errorf("payload changed: got %v, want %v", got.Data, payload)
	}
	if got.MIME != "image/png" {
		t.Errorf("mime = %q, want image/png", got.MIME)
	}
}

func TestNormalizeLocalFileReencodesAndBounds(t *testing.T) {
	raw := testImagePNG(t, 2000, 1000)

	n := New(1280, 80, zap.NewNop().Sugar())
	n.ReadFile = func(path string) ([]byte, error) {
		if path != "/tmp/wide.png" {
			t.Errorf("read path = %q", path)
		}
		return raw, nil
	}

	got, err := n.Normalize(context.Background(), "file:///tmp/wide.png", SinkEmbed)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got.MIME != "image/jpeg" {
		t.Errorf("mime = %q, want image/jpeg", got.MIME)
	}
	img, _, err := image.Decode(bytes.NewReader(got.Data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if w := img.Bounds().Dx(); w != 1280 {
		t.Errorf("output width = %d, want 1280", w)
	}
	if h := img.Bounds().Dy(); h != 640 {
		t.Errorf("output height = %d, want 640", h)
	}
}

func TestNormalizeSmallImageKeepsDimensions(t *testing.T) {
	raw := testImagePNG(t, 300, 200)

	n := New(1280, 80, zap.NewNop().Sugar())
	n.ReadFile = func(string) ([]byte, error) { return raw, nil }

	got, err := n.Normalize(context.Background(), "/tmp/small.png", SinkEmbed)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	img, _, err := image.Decode(bytes.NewReader(got.Data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if img.Bounds().Dx() != 300 || img.Bounds().Dy() != 200 {
		t.Errorf("dimensions changed: %v", img.Bounds())
	}
}

func TestNormalizeRemoteURLPassesThroughForUpload(t *testing.T) {
	n := New(1280, 80, zap.NewNop().Sugar())
	got, err := n.Normalize(context.Background(), "https://cdn.example.test/a.png", SinkUpload)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got.RemoteURL != "https://cdn.example.test/a.png" || got.Data != nil {
		t.Errorf("remote passthrough = %+v", got)
	}
	if got.MIME != "image/png" {
		t.Errorf("passthrough mime = %q, want image/png from the extension", got.MIME)
	}
}

func TestNormalizeAllDropsFailuresAndKeepsOrder(t *testing.T) {
	good := testImagePNG(t, 10, 10)

	n := New(1280, 80, zap.NewNop().Sugar())
	n.ReadFile = func(path string) ([]byte, error) {
		if path == "/tmp/bad.png" {
			return []byte("not an image"), nil
		}
		return good, nil
	}

	out := n.NormalizeAll(context.Background(),
		[]string{"/tmp/one.png", "/tmp/bad.png", "/tmp/two.png"}, SinkEmbed)
	if len(out) != 2 {
		t.Fatalf("got %d results, want 2 (bad entry dropped)", len(out))
	}
	for i, norm := range out {
		if norm.MIME != "image/jpeg" || len(norm.Data) == 0 {
			t.Errorf("result %d = %+v", i, norm)
		}
	}
}

func TestMIMEForExt(t *testing.T) {
	if got := MIMEForExt("photo.PNG"); got != "image/png" {
		t.Errorf("png ext = %q", got)
	}
	if got := MIMEForExt("photo.jpg"); got != "image/jpeg" {
		t.Errorf("jpg ext = %q", got)
	}
	if got := MIMEForExt("no-ext"); got != "image/jpeg" {
		t.Errorf("default = %q", got)
	}
}
