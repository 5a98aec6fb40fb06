package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"rental/internal/apperr"

	"github.com/gabriel-vasile/mimetype"
)

const (
	// MaxUploadFiles bounds a single direct upload batch.
	MaxUploadFiles = 100
	// MaxRemoteImageBytes bounds an image fetched by link.
	MaxRemoteImageBytes = 10 << 20
)

// UploadFile is one file of a direct upload.
type UploadFile struct {
	OriginalName string
	Content      io.Reader
}

// UploadService stores photos under a single upload directory.
type UploadService struct {
	dir    string
	client *http.Client
	now    func() time.Time
}

// NewUploadService creates an UploadService writing to dir. Remote fetches
// give up after fetchTimeout.
func NewUploadService(dir string, fetchTimeout time.Duration) *UploadService {
	return &UploadService{
		dir:    dir,
		client: newHTTPClient(fetchTimeout),
		now:    time.Now,
	}
}

// newHTTPClient returns a client with explicit dial and handshake limits;
// http.DefaultClient has no timeout at all.
func newHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}

// StoreFiles writes each file to a unique name carrying its original
// extension and returns the stored names in input order.
func (s *UploadService) StoreFiles(files []UploadFile) ([]string, error) {
	if len(files) > MaxUploadFiles {
		return nil, apperr.Validation(map[string]string{
			"photos": fmt.Sprintf("at most %d files per upload, got %d", MaxUploadFiles, len(files)),
		})
	}

	stored := make([]string, 0, len(files))
	for _, f := range files {
		name, err := s.storeFile(f)
		if err != nil {
			return nil, err
		}
		stored = append(stored, name)
	}
	return stored, nil
}

func (s *UploadService) storeFile(f UploadFile) (string, error) {
	tmp, err := os.CreateTemp(s.dir, "upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	tmpPath := tmp.Name()

	_, copyErr := io.Copy(tmp, f.Content)
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(tmpPath)
		if copyErr != nil {
			return "", fmt.Errorf("failed to write upload %s: %w", f.OriginalName, copyErr)
		}
		return "", fmt.Errorf("failed to write upload %s: %w", f.OriginalName, closeErr)
	}

	finalPath := tmpPath + originalExtension(f.OriginalName)
	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to rename upload %s: %w", f.OriginalName, err)
	}
	return filepath.Base(finalPath), nil
}

// originalExtension returns ".ext" for the text after the last dot of name,
// or "" when name has no usable extension.
func originalExtension(name string) string {
	name = filepath.Base(name)
	i := strings.LastIndex(name, ".")
	if i < 0 || i == len(name)-1 {
		return ""
	}
	ext := name[i+1:]
	if strings.ContainsAny(ext, `/\`) {
		return ""
	}
	return "." + ext
}

// StoreFromLink downloads the image at link and stores it as
// photo<unix-millis>.jpg.
func (s *UploadService) StoreFromLink(ctx context.Context, link string) (string, error) {
	u, err := url.ParseRequestURI(strings.TrimSpace(link))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", apperr.Validation(map[string]string{"link": "link must be an absolute http(s) URL"})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrFetch, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("Error fetching %s: %v", u.Redacted(), err)
		return "", fmt.Errorf("%w: %v", apperr.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: remote returned status %d", apperr.ErrFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxRemoteImageBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrFetch, err)
	}
	if len(body) > MaxRemoteImageBytes {
		return "", apperr.Validation(map[string]string{"link": "remote image is too large"})
	}
	if mt := mimetype.Detect(body); !strings.HasPrefix(mt.String(), "image/") {
		return "", apperr.Validation(map[string]string{"link": fmt.Sprintf("link does not point to an image (%s)", mt.String())})
	}

	name := "photo" + strconv.FormatInt(s.now().UnixMilli(), 10) + ".jpg"
	if err := os.WriteFile(filepath.Join(s.dir, name), body, 0o644); err != nil {
		return "", fmt.Errorf("failed to store %s: %w", name, err)
	}
	return name, nil
}
