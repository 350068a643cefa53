package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/resumechat/internal/middleware"
)

type RouterDeps struct {
	Page            *PageHandler
	Chat            *ChatHandler
	Similarity      *SimilarityHandler
	Resumes         *ResumeHandler
	Runs            *RunHandler
	Version         *VersionHandler
	RateLimitWindow time.Duration
}

func RegisterRoutes(root *gin.RouterGroup, deps RouterDeps) {
	root.GET("/", deps.Page.Index)

	api := root.Group("/api/v1")
	api.GET("/healthz", deps.Version.Health)
	api.GET("/version", deps.Version.Get)

	limited := api.Group("")
	if deps.RateLimitWindow > 0 {
		limited.Use(middleware.RateLimit(deps.RateLimitWindow))
	}
	limited.POST("/chat/ask", deps.Chat.Ask)
	if deps.Similarity != nil {
		limited.POST("/similarity", deps.Similarity.Score)
	}

	api.GET("/chat/history", deps.Chat.History)

	api.GET("/resumes", deps.Resumes.List)
	api.POST("/resumes/upload", deps.Resumes.Upload)
	api.POST("/resumes/:key/extract", deps.Resumes.Extract)
	api.GET("/profile", deps.Resumes.Profile)

	api.POST("/runs", deps.Runs.Create)
	api.GET("/runs", deps.Runs.List)
	api.GET("/runs/:id", deps.Runs.Get)
}
