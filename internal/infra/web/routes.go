package web

import "github.com/gin-gonic/gin"

func registerRoutes(r *gin.Engine, ctl *Controller, limiter *RateLimiter) {
	r.GET("/", ctl.Index)
	r.GET("/health", ctl.Health)

	api := r.Group("/api")
	{
		api.POST("/speak", limiter.Middleware(), ctl.Speak)
		api.GET("/transcript", ctl.Transcript)
		api.GET("/history", ctl.History)
		api.GET("/clips/:id", ctl.Clip)
		api.GET("/events", ctl.Events)
	}
}
