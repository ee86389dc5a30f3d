package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/codyseavey/card-stash/backend/internal/gallery"
	"github.com/codyseavey/card-stash/backend/internal/imaging"
	"github.com/codyseavey/card-stash/backend/internal/metrics"
)

type GalleryHandler struct {
	gallery        *gallery.Controller
	uploadLimiter  *rate.Limiter
	maxUploadBytes int64
	log            *zap.Logger
}

func NewGalleryHandler(ctrl *gallery.Controller, limiter *rate.Limiter, maxUploadBytes int64, log *zap.Logger) *GalleryHandler {
	return &GalleryHandler{
		gallery:        ctrl,
		uploadLimiter:  limiter,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

func (h *GalleryHandler) ListItems(c *gin.Context) {
	items := h.gallery.Items()
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// UploadItem ingests a multipart "image" file into a new gallery item.
// The response carries a storageWarning flag when the item was kept in
// memory but could not be mirrored to the store.
func (h *GalleryHandler) UploadItem(c *gin.Context) {
	if !h.uploadLimiter.Allow() {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many uploads, slow down"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing image file"})
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	start := time.Now()
	item, warn, err := h.gallery.Create(fileHeader.Filename, file)
	metrics.IngestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.IngestFailuresTotal.Inc()
		if errors.Is(err, imaging.ErrDecode) || errors.Is(err, imaging.ErrEncode) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "failed to process image"})
			return
		}
		h.log.Error("gallery upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"item":           item,
		"storageWarning": warn,
	})
}

type updateCaptionRequest struct {
	// Caption may be empty; clearing a caption is allowed.
	Caption string `json:"caption"`
}

func (h *GalleryHandler) UpdateCaption(c *gin.Context) {
	var req updateCaptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, warn, found := h.gallery.UpdateCaption(c.Param("id"), req.Caption)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "gallery item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"item":           item,
		"storageWarning": warn,
	})
}

func (h *GalleryHandler) DeleteItem(c *gin.Context) {
	h.gallery.Delete(c.Param("id"))
	c.Status(http.StatusNoContent)
}
