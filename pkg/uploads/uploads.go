// Package uploads stores photo attachments for service reports. When a remote
// endpoint is configured, files are forwarded there; otherwise they land on
// local disk and are served back by the API.
package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/absolutepools/aquatrack-backend/pkg/config"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

// Store persists one uploaded file and returns its public URL.
type Store interface {
	Save(ctx context.Context, filename string, contents io.Reader) (string, error)
}

// New selects the store implied by the configuration. A configured remote
// endpoint still keeps the local store underneath it so uploads degrade to a
// local reference when the collaborator is unreachable.
func New(cfg config.UploadsConfig) (Store, error) {
	local, err := NewLocalStore(cfg.LocalDir)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return local, nil
	}
	remote := NewRemoteStore(cfg)
	remote.fallback = local
	return remote, nil
}

// LocalStore writes uploads to a directory on disk.
type LocalStore struct {
	dir string
}

// NewLocalStore ensures the target directory exists.
func NewLocalStore(dir string) (*LocalStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("uploads dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %q: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes the file under a fresh uuid name, keeping the original extension.
func (s *LocalStore) Save(ctx context.Context, filename string, contents io.Reader) (string, error) {
	name := uuid.NewString() + sanitizeExt(filename)
	fullpath := filepath.Join(s.dir, name)

	f, err := os.Create(fullpath)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, contents); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return "/uploads/" + name, nil
}

// Dir returns the backing directory so the router can serve it.
func (s *LocalStore) Dir() string {
	return s.dir
}

// RemoteStore forwards uploads to an external file service, degrading to a
// local store when one is attached and the remote cannot be reached.
type RemoteStore struct {
	endpoint    string
	httpClient  *http.Client
	maxAttempts int
	fallback    *LocalStore
}

// Local returns the fallback store, if any, so the router can serve its files.
func (s *RemoteStore) Local() *LocalStore {
	return s.fallback
}

// NewRemoteStore builds the forwarding store with bounded retries.
func NewRemoteStore(cfg config.UploadsConfig) *RemoteStore {
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RemoteStore{
		endpoint:    cfg.Endpoint,
		httpClient:  &http.Client{Timeout: timeout},
		maxAttempts: attempts,
	}
}

type remoteResponse struct {
	FileURL string `json:"file_url"`
}

// Save posts the file as multipart form data and retries transient failures
// with exponential backoff. When the remote stays unavailable and a fallback
// store is attached, the file lands there instead.
func (s *RemoteStore) Save(ctx context.Context, filename string, contents io.Reader) (string, error) {
	raw, err := io.ReadAll(contents)
	if err != nil {
		return "", fmt.Errorf("reading upload contents: %w", err)
	}
	body, contentType, err := buildMultipart(filename, bytes.NewReader(raw))
	if err != nil {
		return "", err
	}

	backoff := retry.WithMaxRetries(uint64(s.maxAttempts-1), retry.NewExponential(250*time.Millisecond))

	var fileURL string
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", contentType)

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return retry.RetryableError(fmt.Errorf("upload service returned %d", resp.StatusCode))
		}
		if resp.StatusCode >= 400 {
			return fmt.Errorf("upload rejected with %d", resp.StatusCode)
		}

		var parsed remoteResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return fmt.Errorf("decoding upload response: %w", err)
		}
		if parsed.FileURL == "" {
			return errors.New("upload response missing file_url")
		}
		fileURL = parsed.FileURL
		return nil
	})
	if err != nil {
		if s.fallback != nil {
			return s.fallback.Save(ctx, filename, bytes.NewReader(raw))
		}
		return "", err
	}
	return fileURL, nil
}

func buildMultipart(filename string, contents io.Reader) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, "", fmt.Errorf("creating multipart part: %w", err)
	}
	if _, err := io.Copy(part, contents); err != nil {
		return nil, "", fmt.Errorf("copying upload contents: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart writer: %w", err)
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

func sanitizeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".pdf":
		return ext
	default:
		return ""
	}
}
