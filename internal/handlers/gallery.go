package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"promptcanvas/internal/models"
	"promptcanvas/internal/storage"
)

type galleryItem struct {
	ID                    string    `json:"id"`
	Prompt                string    `json:"prompt"`
	Style                 string    `json:"style"`
	CreatedAt             time.Time `json:"createdAt"`
	GenerationTimeSeconds *float64  `json:"generationTimeSeconds,omitempty"`
	FileSizeBytes         int64     `json:"fileSizeBytes"`
	Rating                *int      `json:"rating,omitempty"`
	ImageURL              string    `json:"imageUrl"`
	DownloadURL           string    `json:"downloadUrl"`
}

func (h HandlerSet) Gallery(c *gin.Context) {
	limit := h.cfg.Studio.GalleryLimitDefault
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_limit"})
			return
		}
		limit = parsed
	}
	limit = clamp(limit, h.cfg.Studio.GalleryLimitMin, h.cfg.Studio.GalleryLimitMax)

	records := h.records.ListRecent(c.Request.Context(), int64(limit))

	items := make([]galleryItem, 0, len(records))
	missing := 0
	for _, record := range records {
		size, err := h.images.Stat(c.Request.Context(), record.Filename)
		if err != nil {
			// a record whose image bytes are gone is skipped, not fatal
			missing++
			if !errors.Is(err, storage.ErrNotFound) {
				h.log.Warn().Err(err).Str("record_id", record.ID).Msg("gallery image lookup failed")
			}
			continue
		}

		item := galleryItem{
			ID:                    record.ID,
			Prompt:                record.Prompt,
			Style:                 string(record.Style),
			CreatedAt:             record.CreatedAt,
			GenerationTimeSeconds: record.GenerationTime,
			FileSizeBytes:         size,
			ImageURL:              imageURL(record, false),
			DownloadURL:           imageURL(record, true),
		}
		if record.Feedback != nil {
			rating := record.Feedback.Rating
			item.Rating = &rating
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, gin.H{
		"items":   items,
		"limit":   limit,
		"missing": missing,
	})
}

func imageURL(record models.GenerationRecord, download bool) string {
	url := fmt.Sprintf("/api/v1/images/%s", record.Filename)
	if download {
		url += "?download=1"
	}
	return url
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (h HandlerSet) ImageByFilename(c *gin.Context) {
	filename := c.Param("filename")

	data, err := h.images.Load(c.Request.Context(), filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "image_not_found"})
			return
		}
		h.log.Error().Err(err).Str("filename", filename).Msg("image load failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "image_unavailable"})
		return
	}

	if c.Query("download") != "" {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	c.Data(http.StatusOK, "image/png", data)
}
