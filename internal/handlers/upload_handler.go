package handlers

import (
	"encoding/base64"
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"storefront-service/internal/clients"
)

var (
	errEmptyImage    = errors.New("image is required")
	errBadEncoding   = errors.New("image must be base64 encoded")
	errImageTooLarge = errors.New("image exceeds the upload size limit")
	errNotAnImage    = errors.New("only image uploads are accepted")
)

// UploadRequest carries a base64 image, optionally as a data URL
type UploadRequest struct {
	Image string `json:"image"`
	Type  string `json:"type"` // product, header or favicon
}

// UploadHandler stores uploaded images on local disk and serves them back
// under a public base URL
type UploadHandler struct {
	dir       string
	publicURL string
	maxBytes  int64
	logger    *logrus.Entry
}

func NewUploadHandler(dir, publicURL string, maxBytes int64, logger *logrus.Logger) *UploadHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &UploadHandler{
		dir:       dir,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		maxBytes:  maxBytes,
		logger:    logger.WithField("component", "upload-handler"),
	}
}

// decodeImage strips an optional data URL prefix and decodes the payload
func decodeImage(raw string, maxBytes int64) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errEmptyImage
	}
	if strings.HasPrefix(raw, "data:") {
		comma := strings.IndexByte(raw, ',')
		if comma < 0 || !strings.HasSuffix(raw[:comma], ";base64") {
			return nil, errBadEncoding
		}
		raw = raw[comma+1:]
	}
	if maxBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(raw))) > maxBytes+2 {
		return nil, errImageTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, errBadEncoding
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, errImageTooLarge
	}
	return data, nil
}

// UploadImage stores one image and returns its public URL and relative path
// @Summary Upload image
// @Description Accepts a base64 image or data URL. The content type is sniffed from the bytes; only images are stored.
// @Tags Uploads
// @Accept json
// @Produce json
// @Param image body UploadRequest true "Image payload"
// @Success 201 {object} clients.UploadResponse
// @Failure 400 {object} clients.UploadResponse
// @Failure 413 {object} clients.UploadResponse
// @Failure 500 {object} clients.UploadResponse
// @Router /uploadImage [post]
func (h *UploadHandler) UploadImage(c *gin.Context) {
	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, clients.UploadResponse{Error: err.Error()})
		return
	}

	data, err := decodeImage(req.Image, h.maxBytes)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errImageTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, clients.UploadResponse{Error: err.Error()})
		return
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		h.logger.WithField("contentType", mtype.String()).Warn("Rejected non-image upload")
		c.JSON(http.StatusBadRequest, clients.UploadResponse{Error: errNotAnImage.Error()})
		return
	}

	name := uuid.New().String() + mtype.Extension()
	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		h.logger.WithError(err).Error("Failed to create upload directory")
		c.JSON(http.StatusInternalServerError, clients.UploadResponse{Error: "failed to store image"})
		return
	}
	if err := os.WriteFile(filepath.Join(h.dir, name), data, 0o644); err != nil {
		h.logger.WithError(err).Error("Failed to write uploaded image")
		c.JSON(http.StatusInternalServerError, clients.UploadResponse{Error: "failed to store image"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"file":        name,
		"type":        req.Type,
		"contentType": mtype.String(),
		"bytes":       len(data),
	}).Info("Image uploaded")

	c.JSON(http.StatusCreated, clients.UploadResponse{
		URL:      h.publicURL + "/" + name,
		ImageURL: path.Join("/uploads", name),
	})
}
