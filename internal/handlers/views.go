package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h HandlerSet) PromptHistory(c *gin.Context) {
	entries := h.records.ListPromptHistory(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"total":   len(entries),
	})
}

func (h HandlerSet) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.stats.Report(c.Request.Context()))
}

// DeleteRecord exposes the store's delete operation. It is not linked from
// any user flow; the gallery has no delete affordance.
func (h HandlerSet) DeleteRecord(c *gin.Context) {
	id := c.Param("id")

	if !h.records.Delete(c.Request.Context(), id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "record_not_found"})
		return
	}
	h.stats.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
