package handlers

import (
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"
)

func TestValidateImageFileRejectsBadExtensions(t *testing.T) {
	for _, name := range []string{"noext", "shell.sh", "doc.pdf"} {
		file := &multipart.FileHeader{Filename: name, Size: 100}
		if _, err := validateImageFile(file); err == nil {
			t.Fatalf("expected rejection for %q", name)
		}
	}
}

func TestValidateImageFileAcceptsImages(t *testing.T) {
	for _, name := range []string{"a.jpg", "b.JPEG", "c.png", "d.webp"} {
		file := &multipart.FileHeader{Filename: name, Size: 100}
		ext, err := validateImageFile(file)
		if err != nil {
			t.Fatalf("expected %q accepted, got %v", name, err)
		}
		if ext == "" {
			t.Fatalf("expected extension for %q", name)
		}
	}
}

func TestValidateImageFileRejectsOversize(t *testing.T) {
	file := &multipart.FileHeader{Filename: "big.jpg", Size: maxImageSize + 1}
	if _, err := validateImageFile(file); err == nil {
		t.Fatal("expected oversize rejection")
	}
}

func TestSafeDeleteUploadRefusesOutsidePaths(t *testing.T) {
	dir := t.TempDir()

	if err := safeDeleteUpload(dir, "/etc/passwd"); err == nil {
		t.Fatal("expected refusal for non-upload path")
	}
	if err := safeDeleteUpload(dir, "/uploads/../../etc/passwd"); err == nil {
		t.Fatal("expected refusal for traversal path")
	}
}

func TestSafeDeleteUploadSkipsRemoteAndEmpty(t *testing.T) {
	dir := t.TempDir()

	if err := safeDeleteUpload(dir, ""); err != nil {
		t.Fatalf("expected nil for empty path, got %v", err)
	}
	if err := safeDeleteUpload(dir, "https://cdn.example/image.jpg"); err != nil {
		t.Fatalf("expected nil for remote url, got %v", err)
	}
}

func TestSafeDeleteUploadRemovesStoredFile(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "products")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	target := filepath.Join(sub, "img.jpg")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := safeDeleteUpload(dir, "/uploads/products/img.jpg"); err != nil {
		t.Fatalf("safeDeleteUpload returned error: %v", err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatal("expected file to be removed")
	}

	// Deleting an already-absent file is not an error.
	if err := safeDeleteUpload(dir, "/uploads/products/img.jpg"); err != nil {
		t.Fatalf("expected nil for missing file, got %v", err)
	}
}
