package app

import (
	"log/slog"

	"CommerceAdapters/pkg/logger"
	"CommerceAdapters/pkg/metrics"

	"github.com/gin-gonic/gin"
)

func NewGinEngine(l *slog.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(logger.CorrelationMiddleware(), metrics.GinMiddleware(), logger.GinBodyLogger(l), gin.Recovery())
	return engine
}
