package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/carstock/admin-portal/internal/api/metrics"
	"github.com/carstock/admin-portal/internal/core/domain"
)

// UploadClient wraps image storage: POST /upload (multipart) and
// GET /upload/refresh?key= for reissuing expired signed URLs.
type UploadClient struct {
	c *Client
}

func NewUploadClient(c *Client) *UploadClient {
	return &UploadClient{c: c}
}

type imageURLResponse struct {
	ImageURL string `json:"imageUrl"`
}

// Upload streams one image file as multipart form data and returns the
// storage URL the backend assigned it.
func (up *UploadClient) Upload(ctx context.Context, token, filename string, file io.Reader) (string, error) {
	const op = "upload_image"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("build %s request: %w", op, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("read %s payload: %w", op, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, up.c.baseURL+"/upload", &buf)
	if err != nil {
		return "", fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := up.c.http.Do(req)
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(op, "transport_error").Inc()
		return "", fmt.Errorf("%w: %s: %v", domain.ErrBackend, op, err)
	}
	defer resp.Body.Close()

	metrics.BackendRequestsTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", up.c.statusError(op, resp)
	}

	var out imageURLResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode %s response: %w", op, err)
	}
	return out.ImageURL, nil
}

// RefreshURL asks for a fresh signed URL for an already stored object.
func (up *UploadClient) RefreshURL(ctx context.Context, token, key string) (string, error) {
	query := url.Values{"key": {key}}
	var out imageURLResponse
	if err := up.c.do(ctx, "refresh_image_url", http.MethodGet, "/upload/refresh", query, token, nil, &out); err != nil {
		return "", err
	}
	return out.ImageURL, nil
}
