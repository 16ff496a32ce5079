package app

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"foliocms/internal/util"
	"foliocms/pkg/domain"
)

const (
	// UploadLimitFree is the per-file upload ceiling for free accounts.
	UploadLimitFree = 100 << 20
	// UploadLimitPro is the per-file upload ceiling for pro accounts.
	UploadLimitPro = 1 << 30

	maxListKeys = 1000

	signedURLTTL = 15 * time.Minute
)

// UploadInput describes one incoming file.
type UploadInput struct {
	Reader      io.Reader
	Size        int64
	Filename    string
	ContentType string
	// CustomPath, when set, replaces the generated key. Non-admins may only
	// target their own site's prefix.
	CustomPath string
}

// UploadResult is returned for a stored blob.
type UploadResult struct {
	URL      string `json:"url"`
	Path     string `json:"path"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Type     string `json:"type"`
}

// BlobFile is one entry in a storage listing.
type BlobFile struct {
	Key      string `json:"key"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	Uploaded string `json:"uploaded"`
}

func uploadLimit(p *domain.Principal) int64 {
	if p.IsPro {
		return UploadLimitPro
	}
	return UploadLimitFree
}

// uploadKey derives the storage key for a file. The caller never controls
// the key outside its own site prefix; the random stem prevents overwrites
// between files that share a name.
func uploadKey(p *domain.Principal, filename, customPath string) (string, error) {
	if customPath != "" {
		clean := strings.TrimLeft(path.Clean("/"+customPath), "/")
		if !p.IsAdmin && !strings.HasPrefix(clean, p.SiteName+"/") {
			return "", forbiddenError()
		}
		return clean, nil
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext == "" {
		ext = "bin"
	}
	return p.SiteName + "/" + util.NewID() + "." + ext, nil
}

// Upload stores one file under the caller's site prefix and returns its
// public URL.
func (a *App) Upload(ctx context.Context, p *domain.Principal, in UploadInput) (*UploadResult, error) {
	if p == nil {
		return nil, unauthenticatedError()
	}
	if in.Reader == nil || in.Filename == "" {
		return nil, validationError("file is required")
	}
	if limit := uploadLimit(p); in.Size > limit {
		return nil, validationError("file exceeds the %d byte upload limit", limit)
	}

	key, err := uploadKey(p, in.Filename, in.CustomPath)
	if err != nil {
		return nil, err
	}
	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	metadata := map[string]string{
		"uploaded-by": p.UserID,
		"site":        p.SiteName,
		"filename":    in.Filename,
	}
	if err := a.blobs.Put(ctx, key, in.Reader, in.Size, contentType, metadata); err != nil {
		return nil, internalError(err)
	}
	return &UploadResult{
		URL:      a.blobs.PublicURL(key),
		Path:     key,
		Filename: in.Filename,
		Size:     in.Size,
		Type:     contentType,
	}, nil
}

// SignedUploadInput names the file a client wants to upload directly.
type SignedUploadInput struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

// SignedUpload tells the client how to PUT the file itself.
type SignedUpload struct {
	UploadURL string            `json:"uploadUrl"`
	Path      string            `json:"path"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
}

// SignUpload issues a short-lived presigned URL so large files can be sent
// straight to object storage. The key is derived the same way as for proxied
// uploads, so the caller still cannot write outside its site prefix.
func (a *App) SignUpload(ctx context.Context, p *domain.Principal, in SignedUploadInput) (*SignedUpload, error) {
	if p == nil {
		return nil, unauthenticatedError()
	}
	if strings.TrimSpace(in.Filename) == "" {
		return nil, validationError("filename is required")
	}
	key, err := uploadKey(p, in.Filename, "")
	if err != nil {
		return nil, err
	}
	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	uploadURL, err := a.blobs.PresignPut(ctx, key, signedURLTTL)
	if err != nil {
		return nil, internalError(err)
	}
	return &SignedUpload{
		UploadURL: uploadURL,
		Path:      key,
		Method:    "PUT",
		Headers:   map[string]string{"Content-Type": contentType},
	}, nil
}

// DeleteBlob removes a stored object. Non-admins may only delete inside
// their own site prefix.
func (a *App) DeleteBlob(ctx context.Context, p *domain.Principal, key string) error {
	if p == nil {
		return unauthenticatedError()
	}
	key = strings.TrimLeft(path.Clean("/"+key), "/")
	if key == "" {
		return validationError("path is required")
	}
	if !p.IsAdmin && !strings.HasPrefix(key, p.SiteName+"/") {
		return forbiddenError()
	}
	if err := a.blobs.Delete(ctx, key); err != nil {
		return internalError(err)
	}
	return nil
}

// ListBlobs lists stored objects. The prefix defaults to the caller's own
// site; non-admins cannot escape it.
func (a *App) ListBlobs(ctx context.Context, p *domain.Principal, prefix string) ([]BlobFile, error) {
	if p == nil {
		return nil, unauthenticatedError()
	}
	if prefix == "" {
		prefix = p.SiteName + "/"
	}
	if !p.IsAdmin && !strings.HasPrefix(prefix, p.SiteName+"/") {
		return nil, forbiddenError()
	}
	objects, err := a.blobs.List(ctx, prefix, maxListKeys)
	if err != nil {
		return nil, internalError(err)
	}
	files := make([]BlobFile, 0, len(objects))
	for _, obj := range objects {
		files = append(files, BlobFile{
			Key:      obj.Key,
			URL:      a.blobs.PublicURL(obj.Key),
			Size:     obj.Size,
			Uploaded: obj.Uploaded.UTC().Format(time.RFC3339),
		})
	}
	return files, nil
}
