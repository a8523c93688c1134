package handlers

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImageUploader pushes an image to external storage and returns its URL.
type ImageUploader interface {
	UploadBytes(ctx context.Context, folder string, filename string, b []byte) (string, error)
}

var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

const maxImageSize = 5 << 20

func validateImageFile(file *multipart.FileHeader) (string, error) {
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if extension == "" {
		return "", fmt.Errorf("image file extension is required")
	}
	if _, ok := allowedImageExtensions[extension]; !ok {
		return "", fmt.Errorf("unsupported image type: %s", extension)
	}
	if file.Size > maxImageSize {
		return "", fmt.Errorf("image file too large (max 5MB)")
	}
	return extension, nil
}

// saveUpload writes the file under uploadDir/subdir with a generated name
// and returns the web path stored in the database.
func saveUpload(file *multipart.FileHeader, uploadDir, subdir string) (string, error) {
	extension, err := validateImageFile(file)
	if err != nil {
		return "", err
	}

	filename := primitive.NewObjectID().Hex() + extension

	dir := filepath.Join(uploadDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("[UPLOAD] saveUpload: failed to create directory %s: %v", dir, err)
		return "", err
	}

	fullPath := filepath.Join(dir, filename)

	out, err := os.Create(fullPath)
	if err != nil {
		log.Printf("[UPLOAD] saveUpload: failed to create file %s: %v", fullPath, err)
		return "", err
	}
	defer out.Close()

	in, err := file.Open()
	if err != nil {
		log.Printf("[UPLOAD] saveUpload: failed to open upload %s: %v", file.Filename, err)
		return "", err
	}
	defer in.Close()

	if _, err := io.Copy(out, in); err != nil {
		log.Printf("[UPLOAD] saveUpload: failed to save file %s: %v", fullPath, err)
		return "", err
	}

	return "/" + filepath.ToSlash(filepath.Join("uploads", subdir, filename)), nil
}

// uploadImage pushes the file to external storage, falling back to a local
// static path when the external upload fails or no uploader is configured.
// The upload blocks the request for its duration.
func uploadImage(ctx context.Context, uploader ImageUploader, file *multipart.FileHeader, uploadDir, folder, subdir string) (string, error) {
	if uploader == nil {
		return saveUpload(file, uploadDir, subdir)
	}

	extension, err := validateImageFile(file)
	if err != nil {
		return "", err
	}

	in, err := file.Open()
	if err != nil {
		return "", err
	}
	defer in.Close()

	data, err := io.ReadAll(in)
	if err != nil {
		return "", err
	}

	filename := primitive.NewObjectID().Hex() + extension
	url, err := uploader.UploadBytes(ctx, folder, filename, data)
	if err != nil {
		log.Println("[UPLOAD] [ERROR] external upload failed, falling back to local:", err)
		return saveUpload(file, uploadDir, subdir)
	}

	return url, nil
}

// safeDeleteUpload removes a previously stored local upload. Paths outside
// the uploads tree are refused.
func safeDeleteUpload(uploadDir, relPath string) error {
	trimmed := strings.TrimSpace(relPath)
	if trimmed == "" || strings.HasPrefix(trimmed, "http") {
		return nil
	}

	cleanRel := path.Clean("/" + strings.TrimPrefix(trimmed, "/"))
	cleanRel = strings.TrimPrefix(cleanRel, "/")

	if !strings.HasPrefix(cleanRel, "uploads/") {
		return fmt.Errorf("refusing to delete non-upload path: %s", relPath)
	}

	cleanBase := filepath.Clean(uploadDir)
	targetPath := filepath.Join(cleanBase, filepath.FromSlash(strings.TrimPrefix(cleanRel, "uploads/")))
	cleanTarget := filepath.Clean(targetPath)
	if cleanTarget != cleanBase && !strings.HasPrefix(cleanTarget, cleanBase+string(os.PathSeparator)) {
		return fmt.Errorf("refusing to delete path outside upload root: %s", relPath)
	}

	if err := os.Remove(cleanTarget); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	return nil
}
