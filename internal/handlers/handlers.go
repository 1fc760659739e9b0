package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"promptcanvas/internal/config"
	"promptcanvas/internal/repository"
	"promptcanvas/internal/service"
	"promptcanvas/internal/session"
	"promptcanvas/internal/storage"
)

const sessionCookie = "pc_session"

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	sessions *session.Manager
	studio   *service.StudioService
	stats    *service.StatsService
	records  *repository.RecordStore
	images   storage.ImageStore
	cache    *redis.Client
}

func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, sessions *session.Manager, studio *service.StudioService, stats *service.StatsService, records *repository.RecordStore, images storage.ImageStore, cache *redis.Client) HandlerSet {
	return HandlerSet{
		log:      log,
		cfg:      cfg,
		sessions: sessions,
		studio:   studio,
		stats:    stats,
		records:  records,
		images:   images,
		cache:    cache,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	{
		studio := v1.Group("/studio")
		studio.GET("", h.StudioState)
		studio.POST("/generate", h.GenerateImage)
		studio.GET("/pending-image", h.PendingImage)
		studio.POST("/feedback", h.SubmitFeedback)

		v1.GET("/styles", h.Styles)
		v1.GET("/gallery", h.Gallery)
		v1.GET("/images/:filename", h.ImageByFilename)
		v1.GET("/history", h.PromptHistory)
		v1.GET("/stats", h.Stats)
		v1.DELETE("/records/:id", h.DeleteRecord)
	}
}

// sessionID returns the caller's session id, minting one (and setting the
// cookie) on first contact.
func (h HandlerSet) sessionID(c *gin.Context) string {
	if id, err := c.Cookie(sessionCookie); err == nil && id != "" {
		return id
	}

	id := h.sessions.NewID()
	c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
	return id
}
