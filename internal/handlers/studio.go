package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"promptcanvas/internal/generator"
	"promptcanvas/internal/models"
	"promptcanvas/internal/service"
	"promptcanvas/internal/session"
)

type generateRequest struct {
	Prompt string `json:"prompt"`
	Style  string `json:"style"`
}

type feedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type pendingResponse struct {
	Prompt                string  `json:"prompt"`
	Style                 string  `json:"style"`
	GenerationTimeSeconds float64 `json:"generationTimeSeconds"`
	ImageURL              string  `json:"imageUrl"`
}

type studioStateResponse struct {
	View    string           `json:"view"`
	Pending *pendingResponse `json:"pending,omitempty"`
}

func studioState(flow session.Flow) studioStateResponse {
	resp := studioStateResponse{View: string(flow.View)}
	if flow.InFeedback() && flow.Pending != nil {
		resp.Pending = &pendingResponse{
			Prompt:                flow.Pending.Prompt,
			Style:                 string(flow.Pending.Style),
			GenerationTimeSeconds: flow.Pending.GenerationTime,
			ImageURL:              "/api/v1/studio/pending-image",
		}
	}
	return resp
}

func (h HandlerSet) StudioState(c *gin.Context) {
	flow := h.sessions.Peek(h.sessionID(c))
	c.JSON(http.StatusOK, studioState(flow))
}

func (h HandlerSet) Styles(c *gin.Context) {
	styles := make([]string, 0, len(models.Styles()))
	for _, style := range models.Styles() {
		styles = append(styles, string(style))
	}
	c.JSON(http.StatusOK, gin.H{"styles": styles})
}

func (h HandlerSet) GenerateImage(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	var (
		result session.Flow
		genErr error
	)
	h.sessions.Do(h.sessionID(c), func(flow session.Flow) session.Flow {
		next, err := h.studio.Generate(c.Request.Context(), flow, req.Prompt, req.Style)
		genErr = err
		result = next
		return next
	})

	if genErr != nil {
		h.respondGenerateError(c, genErr)
		return
	}
	c.JSON(http.StatusOK, studioState(result))
}

func (h HandlerSet) respondGenerateError(c *gin.Context, err error) {
	var genFailure *generator.GenerationError
	switch {
	case errors.Is(err, service.ErrEmptyPrompt):
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty_prompt"})
	case errors.Is(err, service.ErrUnknownStyle):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_style"})
	case errors.Is(err, service.ErrPendingFeedback):
		c.JSON(http.StatusConflict, gin.H{"error": "feedback_pending"})
	case errors.Is(err, generator.ErrTokenMissing):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "generator_not_configured"})
	case errors.As(err, &genFailure):
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "generation_failed",
			"stage": genFailure.Stage,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}

func (h HandlerSet) PendingImage(c *gin.Context) {
	flow := h.sessions.Peek(h.sessionID(c))
	if !flow.InFeedback() || flow.Pending == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no_pending_image"})
		return
	}
	c.Data(http.StatusOK, "image/png", flow.Pending.Image)
}

func (h HandlerSet) SubmitFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	if req.Rating < 1 || req.Rating > 10 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating_out_of_range"})
		return
	}

	var (
		record *models.GenerationRecord
		fbErr  error
	)
	h.sessions.Do(h.sessionID(c), func(flow session.Flow) session.Flow {
		next, rec, err := h.studio.SubmitFeedback(c.Request.Context(), flow, req.Rating, req.Comment)
		record = rec
		fbErr = err
		return next
	})

	switch {
	case fbErr == nil:
		c.JSON(http.StatusOK, gin.H{
			"view": string(session.ViewMain),
			"record": gin.H{
				"id":        record.ID,
				"filename":  record.Filename,
				"createdAt": record.CreatedAt,
			},
		})
	case errors.Is(fbErr, service.ErrNoPending):
		c.JSON(http.StatusConflict, gin.H{"error": "no_pending_generation"})
	case errors.Is(fbErr, service.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating_out_of_range"})
	case errors.Is(fbErr, service.ErrPersistFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "persistence_failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
