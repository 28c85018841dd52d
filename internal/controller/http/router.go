package http

import (
	"CommerceAdapters/internal/controller/http/handlers"
	"CommerceAdapters/pkg/health"
	"CommerceAdapters/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const serviceName = "commerce-adapters"

type Router struct {
	payment        *handlers.PaymentHandler
	file           *handlers.FileHandler
	healthRegistry *health.Registry
}

func (r *Router) SetUp(engine *gin.Engine) {
	engine.GET("/health/live", health.LivenessHandler(serviceName))
	engine.GET("/health/ready", health.ReadinessHandler(r.healthRegistry, health.DefaultTimeout))
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	engine.POST("/webhooks/paymongo", r.payment.Webhook)

	p := engine.Group("/payment")
	p.GET("/capabilities", r.payment.Capabilities)
	p.POST("/initiate", r.payment.Initiate)
	p.POST("/authorize", r.payment.Authorize)
	p.POST("/capture", r.payment.Capture)
	p.POST("/refund", r.payment.Refund)
	p.POST("/cancel", r.payment.Cancel)
	p.POST("/delete", r.payment.Delete)
	p.POST("/status", r.payment.Status)
	p.POST("/retrieve", r.payment.Retrieve)
	p.POST("/update", r.payment.Update)

	f := engine.Group("/files")
	f.POST("", r.file.Upload)
	f.DELETE("", r.file.Delete)
	f.GET("/download", r.file.Download)
	f.GET("/content", r.file.Content)
	f.GET("/presigned-url", r.file.PresignedDownloadURL)
	f.GET("/upload-url", r.file.PresignedUploadURL)
}

func NewRouter(payment *handlers.PaymentHandler, file *handlers.FileHandler, healthRegistry *health.Registry) *Router {
	return &Router{
		payment:        payment,
		file:           file,
		healthRegistry: healthRegistry,
	}
}
