package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"dishrecipes/internal/errs"

	"github.com/google/uuid"
)

// ImageStore keeps uploaded recipe and profile images on local disk under
// Dir/images, served back via the /media static route. Uploads get
// uuid-derived names so filenames never collide or leak user input.
type ImageStore struct {
	Dir string
}

func NewImageStore() *ImageStore {
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "uploads"
	}
	return &ImageStore{Dir: dir}
}

var imageExts = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Save validates that the upload is a decodable image format and stores
// it, returning the path relative to the media root (e.g. "images/<uuid>.png").
// Non-image content is rejected with a field-level validation error.
func (s *ImageStore) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read upload: %w", err)
	}

	contentType := http.DetectContentType(head[:n])
	ext, ok := imageExts[contentType]
	if !ok {
		return "", errs.Validation("image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	if headerExt := strings.ToLower(filepath.Ext(header.Filename)); headerExt == ".jpeg" && ext == ".jpg" {
		ext = ".jpeg"
	}

	name := uuid.New().String() + ext
	dir := filepath.Join(s.Dir, "images")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}

	return "images/" + name, nil
}
