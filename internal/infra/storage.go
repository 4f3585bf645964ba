package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"aseopro/internal/config"

	"github.com/google/uuid"
)

// Storage is a thin client for the hosted object-storage service used for
// fotos, recibos y firmas. The API key stays server-side; browsers only ever
// see the public view URLs.
type Storage struct {
	endpoint string
	project  string
	bucket   string
	apiKey   string
	client   *http.Client
}

func NewStorage(cfg *config.Config) *Storage {
	return &Storage{
		endpoint: strings.TrimRight(cfg.StorageEndpoint, "/"),
		project:  cfg.StorageProjectID,
		bucket:   cfg.StorageBucketID,
		apiKey:   cfg.StorageAPIKey,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// FileURL maps a stored file id to its publicly viewable URL. Deterministic:
// no network call, safe to compute on every response.
func (s *Storage) FileURL(fileID string) string {
	if fileID == "" {
		return ""
	}
	return fmt.Sprintf("%s/storage/buckets/%s/files/%s/view?project=%s",
		s.endpoint, s.bucket, fileID, s.project)
}

// Upload streams a file to the bucket and returns the opaque file id.
func (s *Storage) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	fileID := uuid.NewString()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("fileId", fileID); err != nil {
		return "", err
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/storage/buckets/%s/files", s.endpoint, s.bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Project", s.project)
	req.Header.Set("X-API-Key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage: upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("storage: upload failed with status %d", resp.StatusCode)
	}

	var out struct {
		ID string `json:"$id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err == nil && out.ID != "" {
		return out.ID, nil
	}
	// Some deployments return an empty body; the client-chosen id is canonical.
	return fileID, nil
}
