package services

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/utils"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MaxImageBytes caps a single product image upload.
const MaxImageBytes = 5 << 20

const productImageDir = "products"

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type StoredFile struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

// StorageService keeps uploaded product images on local disk under Dir.
type StorageService struct {
	Dir       string
	BaseURL   string
	RequestID string
}

// Upload sniffs r, rejects anything that is not an image or exceeds
// MaxImageBytes, and stores it under a fresh name. The client file name is
// only logged.
func (s StorageService) Upload(filename string, r io.Reader) (StoredFile, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return StoredFile{}, domain.ValidationError{Field: "image", Msg: "could not read upload", Err: err}
	}
	if len(data) == 0 {
		return StoredFile{}, domain.ValidationError{Field: "image", Msg: "is empty"}
	}
	if len(data) > MaxImageBytes {
		return StoredFile{}, domain.ValidationError{Field: "image", Msg: "must be 5MB or smaller"}
	}

	mt := mimetype.Detect(data)
	ctype := mt.String()
	if i := strings.IndexByte(ctype, ';'); i >= 0 {
		ctype = ctype[:i]
	}
	if !allowedImageTypes[ctype] {
		return StoredFile{}, domain.ValidationError{Field: "image", Msg: fmt.Sprintf("unsupported file type %s", ctype)}
	}

	dir := filepath.Join(s.Dir, productImageDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return StoredFile{}, domain.InternalError{Msg: "failed to store image", Err: err}
	}
	name := uuid.NewString() + mt.Extension()
	if err := writeFileAtomic(filepath.Join(dir, name), data); err != nil {
		return StoredFile{}, domain.InternalError{Msg: "failed to store image", Err: err}
	}

	utils.LogEvent(s.RequestID, "storage", "upload",
		fmt.Sprintf("file=%s stored=%s size=%d type=%s", utils.SafeFilenamePart(filename), name, len(data), ctype))

	return StoredFile{
		Name:        name,
		URL:         s.PublicURL(name),
		ContentType: ctype,
		Size:        len(data),
	}, nil
}

// PublicURL is where the router serves a stored image.
func (s StorageService) PublicURL(name string) string {
	return strings.TrimRight(s.BaseURL, "/") + path.Join("/uploads", productImageDir, name)
}

// Remove deletes a previously stored image given its public URL. URLs that
// do not point into the upload dir are ignored.
func (s StorageService) Remove(publicURL string) error {
	prefix := s.PublicURL("")
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	name, ok := strings.CutPrefix(publicURL, prefix)
	if !ok || name == "" || strings.ContainsAny(name, `/\`) {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, productImageDir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func writeFileAtomic(dst string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
