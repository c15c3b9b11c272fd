package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/careline-api/internal/httperr"
	"github.com/BruksfildServices01/careline-api/internal/httpresp"
	"github.com/BruksfildServices01/careline-api/internal/middleware"
)

const uploadURLTTL = 5 * time.Minute

var allowedUploadTypes = map[string]bool{
	"image/jpeg":         true,
	"image/jpg":          true,
	"image/png":          true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

type Presigner interface {
	PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
	URL(key string) string
}

type UploadHandler struct {
	store Presigner
	now   func() time.Time
}

func NewUploadHandler(store Presigner) *UploadHandler {
	return &UploadHandler{store: store, now: time.Now}
}

type SignedURLRequest struct {
	Filename string `json:"filename" binding:"required"`
	Filetype string `json:"filetype" binding:"required"`
}

// SignedURL hands out a presigned PUT so clients upload straight to the
// bucket.
func (h *UploadHandler) SignedURL(c *gin.Context) {
	var req SignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Filename and filetype are required")
		return
	}

	filetype := strings.ToLower(req.Filetype)
	if !allowedUploadTypes[filetype] {
		httperr.BadRequest(c, "invalid_file_type", "File type not allowed")
		return
	}

	_, subtype, _ := strings.Cut(filetype, "/")
	key := fmt.Sprintf("upload/%s/%d.%s", middleware.Wallet(c), h.now().UnixMilli(), subtype)

	signed, err := h.store.PresignUpload(c.Request.Context(), key, filetype, uploadURLTTL)
	if err != nil {
		httperr.Internal(c, "presign_failed", "Failed to create upload URL", err)
		return
	}

	httpresp.OK(c, gin.H{
		"url":      signed,
		"key":      key,
		"file_url": h.store.URL(key),
	})
}
