package clients

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var ErrNoImageURL = errors.New("upload response carried no image url")

// File is an image picked for upload
type File struct {
	Name        string
	ContentType string // sniffed from Data when empty
	Data        []byte
}

// DataURL encodes the file as a base64 data URL
func (f File) DataURL() string {
	contentType := f.ContentType
	if contentType == "" {
		contentType = mimetype.Detect(f.Data).String()
	}
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(f.Data))
}

type uploadRequest struct {
	Image string `json:"image"`
	Type  string `json:"type,omitempty"`
}

// UploadResponse is the body answered by the upload endpoint
type UploadResponse struct {
	URL      string `json:"url"`
	ImageURL string `json:"image_url"`
	Error    string `json:"error,omitempty"`
}

// UploadClient posts images to the upload endpoint and hands back the stored
// reference. It never deletes anything remotely.
type UploadClient struct {
	endpoint   string
	httpClient *http.Client
	logger     *logrus.Entry
}

// NewUploadClient creates a client for endpoint, falling back to
// UPLOAD_ENDPOINT_URL when empty
func NewUploadClient(endpoint string, logger *logrus.Logger) *UploadClient {
	if endpoint == "" {
		endpoint = os.Getenv("UPLOAD_ENDPOINT_URL")
	}
	if endpoint == "" {
		endpoint = "http://localhost:8087/api/v1/uploadImage"
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &UploadClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger.WithField("component", "upload-client"),
	}
}

// Attach uploads file and returns the stored image reference. kind is passed
// through as the upload type ("product", "header", "favicon").
func (c *UploadClient) Attach(ctx context.Context, file File, kind string) (string, error) {
	payload, err := json.Marshal(uploadRequest{Image: file.DataURL(), Type: kind})
	if err != nil {
		return "", fmt.Errorf("failed to encode upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", file.Name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("upload %s: failed to read response: %w", file.Name, err)
	}

	var result UploadResponse
	decodeErr := json.Unmarshal(raw, &result)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && result.Error != "" {
			return "", &APIError{StatusCode: resp.StatusCode, Message: result.Error}
		}
		return "", decodeAPIError(resp.StatusCode, raw)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("upload %s: failed to decode response: %w", file.Name, decodeErr)
	}

	if result.URL != "" {
		return result.URL, nil
	}
	if result.ImageURL != "" {
		return result.ImageURL, nil
	}
	return "", ErrNoImageURL
}

// TryAttach is Attach for optional uploads: any failure is logged and
// reported as an empty reference, meaning "upload skipped".
func (c *UploadClient) TryAttach(ctx context.Context, file File, kind string) string {
	ref, err := c.Attach(ctx, file, kind)
	if err != nil {
		c.logger.WithError(err).WithField("file", file.Name).Warn("Image upload skipped")
		return ""
	}
	return ref
}

// AttachAll uploads files concurrently and returns their references in input
// order. The first failure cancels the remaining uploads and is returned.
func (c *UploadClient) AttachAll(ctx context.Context, files []File, kind string) ([]string, error) {
	refs := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, file := range files {
		g.Go(func() error {
			ref, err := c.Attach(gctx, file, kind)
			if err != nil {
				return err
			}
			refs[i] = ref
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return refs, nil
}
