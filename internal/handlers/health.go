package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type healthResponse struct {
	Status      string `json:"status"`
	Store       string `json:"store"`
	Cache       string `json:"cache"`
	Sessions    int    `json:"sessions"`
	Environment string `json:"environment"`
}

func (h HandlerSet) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	storeStatus := "ok"
	if !h.records.Connected() {
		storeStatus = "disconnected"
	}

	cacheStatus := "disabled"
	if h.cache != nil {
		cacheStatus = "ok"
		if err := h.cache.Ping(ctx).Err(); err != nil {
			cacheStatus = "error"
			h.log.Error().Err(err).Msg("redis ping failed")
		}
	}

	c.JSON(http.StatusOK, healthResponse{
		Status:      "ok",
		Store:       storeStatus,
		Cache:       cacheStatus,
		Sessions:    h.sessions.Len(),
		Environment: h.cfg.Environment,
	})
}
