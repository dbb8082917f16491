package storage

import (
	"strings"
	"testing"
)

func TestObjectPathShape(t *testing.T) {
	path := ObjectPath("Acme Diner", "beforePhotos", "image/png")
	parts := strings.Split(path, "/")
	if len(parts) != 3 {
		t.Fatalf("path %q should have 3 segments", path)
	}
	if parts[0] != "Acme_Diner" {
		t.Errorf("folder segment = %q, want Acme_Diner", parts[0])
	}
	if parts[1] != "beforePhotos" {
		t.Errorf("category segment = %q", parts[1])
	}
	if !strings.HasSuffix(parts[2], ".png") {
		t.Errorf("object name %q should carry .png", parts[2])
	}
}

func TestObjectPathSanitizesHostileSegments(t *testing.T) {
	path := ObjectPath("../../etc", "a/b", "image/jpeg")
	if strings.Contains(path, "..") {
		t.Errorf("path %q carries traversal", path)
	}
	if strings.Count(path, "/") != 2 {
		t.Errorf("path %q has extra separators", path)
	}
}

func TestPathFromURL(t *testing.T) {
	tests := []struct {
		url      string
		wantPath string
		wantOK   bool
	}{
		{
			"https://api.example.test/storage/v1/object/public/reports/Acme/beforePhotos/1_0001.jpg",
			"Acme/beforePhotos/1_0001.jpg", true,
		},
		{"https://cdn.other.test/some/image.jpg", "", false},
		{"https://api.example.test/storage/v1/object/public/reports/", "", false},
	}
	for _, tt := range tests {
		got, ok := PathFromURL(tt.url)
		if got != tt.wantPath || ok != tt.wantOK {
			t.Errorf("PathFromURL(%q) = %q, %v; want %q, %v", tt.url, got, ok, tt.wantPath, tt.wantOK)
		}
	}
}

func TestExtForContentType(t *testing.T) {
	if got := extFor("image/png"); got != ".png" {
		t.Errorf("png ext = %q", got)
	}
	if got := extFor("application/octet-stream"); got != ".jpg" {
		t.Errorf("default ext = %q", got)
	}
}
