package controller

import (
	"context"
	"net/http"
	"python_tutor_backend/internal/service"
	"python_tutor_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
	AI    *service.AIService
}

func NewHealthController(db *gorm.DB, rdb *redis.Client, ai *service.AIService) *HealthController {
	return &HealthController{DB: db, Redis: rdb, AI: ai}
}

// @Summary Health check
// @Description Reports database, cache and AI provider status
// @Tags system
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	sqlDB, err := c.DB.DB()
	if err != nil {
		util.InternalServerError(ctx)
		return
	}

	if err := sqlDB.Ping(); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	components := gin.H{"database": "up", "cache": "disabled"}
	if c.Redis != nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		if err := c.Redis.Ping(pingCtx).Err(); err != nil {
			// redis is optional; a failed ping does not fail the check
			components["cache"] = "down"
		} else {
			components["cache"] = "up"
		}
	}

	components["ai"] = "unconfigured"
	if c.AI != nil && c.AI.Configured() {
		components["ai"] = "configured"
	}

	util.Success(ctx, gin.H{
		"status":     "ok",
		"components": components,
	})
}
